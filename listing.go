package webserver

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// ListingEntry is a single line of a directory listing.
type ListingEntry struct {
	Name  string
	URL   string
	Size  int64
	IsDir bool
}

func (self ListingEntry) Tag() string {
	if self.IsDir {
		return `dir`
	} else {
		return `file`
	}
}

func (self ListingEntry) String() string {
	return fmt.Sprintf(
		"%10d  %-4s  <a href=\"%s\">%s</a>",
		self.Size,
		self.Tag(),
		self.URL,
		html.EscapeString(self.Name),
	)
}

// Read the entries of the directory at syspath (served at urlpath), sorted case-insensitively
// by name.  If urlpath is not the root, a ".." entry linking to the parent is first.
func ListDirectory(syspath string, urlpath string) ([]ListingEntry, error) {
	var entries []ListingEntry
	var dirents, err = os.ReadDir(syspath)

	if err != nil {
		return nil, err
	}

	for _, dirent := range dirents {
		var entry = ListingEntry{
			Name:  dirent.Name(),
			URL:   childURL(urlpath, dirent.Name()),
			IsDir: dirent.IsDir(),
		}

		if !entry.IsDir {
			if info, err := dirent.Info(); err == nil {
				entry.Size = info.Size()
			}
		}

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i int, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	if urlpath != `/` && urlpath != `` {
		entries = append([]ListingEntry{{
			Name:  `..`,
			URL:   parentURL(urlpath),
			IsDir: true,
		}}, entries...)
	}

	return entries, nil
}

// Render a directory listing page.
func RenderListing(syspath string, urlpath string) (string, error) {
	if entries, err := ListDirectory(syspath, urlpath); err == nil {
		var out strings.Builder

		out.WriteString("<html>\n<head><title>")
		out.WriteString(html.EscapeString(urlpath))
		out.WriteString("</title></head>\n<body>\n<pre>\n")
		out.WriteString(html.EscapeString(syspath))
		out.WriteString("\n\n")

		for _, entry := range entries {
			out.WriteString(entry.String())
			out.WriteString("\n")
		}

		out.WriteString("</pre>\n</body>\n</html>\n")

		return out.String(), nil
	} else {
		return ``, err
	}
}

func parentURL(urlpath string) string {
	var parent = path.Dir(strings.TrimSuffix(urlpath, `/`))

	if parent == `.` || parent == `` {
		return `/`
	}

	return parent
}

func childURL(urlpath string, name string) string {
	var u = url.URL{Path: path.Join(`/`, urlpath, name)}
	return u.EscapedPath()
}
