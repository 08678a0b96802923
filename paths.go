package webserver

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// ResolvedPath is the result of mapping a request URI onto the web root.
type ResolvedPath struct {
	URLPath string
	Query   string
	SysPath string
	SysRoot string
}

// Map a raw request URI (which may contain a ?query) onto an absolute path beneath root.  The
// URL path is unescaped and any "." or ".." segments are collapsed before it is joined to the
// root, and the result is rejected with a NotFound error if it would still land outside of it.
func ResolvePath(root string, rawPath string) (*ResolvedPath, error) {
	var urlpath, query, _ = strings.Cut(rawPath, `?`)

	if unescaped, err := url.PathUnescape(urlpath); err == nil {
		urlpath = unescaped
	} else {
		return nil, NotFound("Not found %s", rawPath)
	}

	if urlpath == `` {
		urlpath = `/`
	}

	var sysroot = filepath.Clean(root)
	var syspath = filepath.Join(sysroot, filepath.FromSlash(path.Clean(`/`+urlpath)))

	if !isBeneath(sysroot, syspath) {
		return nil, NotFound("Not found %s", urlpath)
	}

	return &ResolvedPath{
		URLPath: urlpath,
		Query:   query,
		SysPath: syspath,
		SysRoot: sysroot,
	}, nil
}

func isBeneath(root string, target string) bool {
	if rel, err := filepath.Rel(root, target); err == nil {
		return rel == `.` || (rel != `..` && !strings.HasPrefix(rel, `..`+string(filepath.Separator)))
	}

	return false
}
