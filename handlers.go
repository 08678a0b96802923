package webserver

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/ghetzel/go-stockutil/fileutil"
	"github.com/ghetzel/go-stockutil/sliceutil"
	"golang.org/x/net/html"
)

var DefaultContentType = `application/octet-stream`
var DefaultExecContentType = `text/plain`

// MIME types for shell scripts, which are sent as plain text rather than downloaded.
var ShellScriptTypes = []string{
	`application/x-sh`,
	`application/x-shellscript`,
	`text/x-sh`,
	`text/x-shellscript`,
}

// Render a page describing the server options and the current request.
func handleWebInfo(rc *RequestContext, args ...string) error {
	var out strings.Builder

	out.WriteString("<html>\n<head><title>")
	out.WriteString(html.EscapeString(ApplicationName + ` info`))
	out.WriteString("</title></head>\n<body>\n<pre>\n")
	out.WriteString(html.EscapeString(fmt.Sprintf("%s v%s\n", ApplicationName, ApplicationVersion)))

	if server := rc.Server(); server != nil {
		out.WriteString(html.EscapeString(fmt.Sprintf("started %s\n", humanize.Time(server.StartedAt()))))
	}

	out.WriteString("\nOptions:\n")

	for _, kv := range rc.Options().Options() {
		out.WriteString(html.EscapeString(fmt.Sprintf("   --%-12s %v\n", kv.K, kv.V)))
	}

	out.WriteString("\nRequest:\n")

	for _, kv := range rc.Fields() {
		var value = fmt.Sprintf("%v", kv.V)
		value = strings.ReplaceAll(value, "\n", "\n"+strings.Repeat(` `, 17))

		out.WriteString(html.EscapeString(fmt.Sprintf("   %-13s %s\n", kv.K, value)))
	}

	out.WriteString("</pre>\n</body>\n</html>\n")

	return rc.SendString(`text/html`, out.String())
}

// Return the output of the configured system name command.
func handleSysName(rc *RequestContext, args ...string) error {
	var config = rc.Options()

	if result, err := RunCommand(config.SysnameCommand, rc.SysRoot, config.CommandTimeout, nil); err == nil {
		return rc.SendString(`text/plain`, string(result.Output))
	} else {
		return rc.SendError(err)
	}
}

func handleRedirectAbsolute(rc *RequestContext, args ...string) error {
	return rc.Redirect(args[0] + `://` + args[1])
}

func handleRedirectRelative(rc *RequestContext, args ...string) error {
	return rc.Redirect(args[0])
}

// Force a directory listing for directories, or send files verbatim as text/plain.
func handleDump(rc *RequestContext, args ...string) error {
	if !rc.trimSuffix() {
		return rc.SendError(NotFound("Not found %s", rc.URLPath))
	}

	if fileutil.DirExists(rc.SysPath) {
		return sendListing(rc)
	} else if fileutil.FileExists(rc.SysPath) {
		if data, err := os.ReadFile(rc.SysPath); err == nil {
			return rc.Send(http.StatusOK, `text/plain`, data)
		} else {
			return rc.SendError(ErrorCode(err.Error(), http.StatusNotFound))
		}
	}

	return rc.SendError(NotFound("Not found %s", rc.URLPath))
}

// Run a file through the shell and return its output.
func handleExecute(rc *RequestContext, args ...string) error {
	if !rc.trimSuffix() {
		return rc.SendError(NotFound("Not found %s", rc.URLPath))
	}

	if stat, err := os.Stat(rc.SysPath); err == nil && stat.Mode().IsRegular() {
		var config = rc.Options()
		var ctype = DefaultExecContentType

		if rc.Params.Has(`content-type`) {
			ctype = rc.Params.Get(`content-type`)
		}

		if result, err := RunCommand(
			shellQuote(rc.SysPath),
			rc.SysRoot,
			config.CommandTimeout,
			paramsEnv(rc.Params),
		); err == nil {
			return rc.Send(http.StatusOK, ctype, result.Output)
		} else {
			return rc.SendError(err)
		}
	}

	return rc.SendError(NotFound("Not found %s", rc.URLPath))
}

// Serve the request path as an index file, directory listing, template, or static file.
func handleGeneral(rc *RequestContext) error {
	if stat, err := os.Stat(rc.SysPath); err == nil {
		if stat.IsDir() {
			if index := findIndexFile(rc.SysPath, rc.Options().IndexFiles); index != `` {
				rc.Debugf("index: %s", index)
				rc.SysPath = index
			} else {
				return sendListing(rc)
			}
		}

		return sendFile(rc)
	} else {
		return rc.SendError(NotFound("Not found %s", rc.URLPath))
	}
}

func findIndexFile(dir string, candidates []string) string {
	for _, name := range candidates {
		if candidate := filepath.Join(dir, name); fileutil.FileExists(candidate) {
			return candidate
		}
	}

	return ``
}

func sendListing(rc *RequestContext) error {
	if page, err := RenderListing(rc.SysPath, rc.URLPath); err == nil {
		return rc.SendString(`text/html`, page)
	} else {
		return rc.SendError(ErrorCode(err.Error(), http.StatusNotFound))
	}
}

func sendFile(rc *RequestContext) error {
	var data, err = os.ReadFile(rc.SysPath)

	if err != nil {
		return rc.SendError(ErrorCode(err.Error(), http.StatusNotFound))
	}

	if rc.Server().IsTemplate(rc.SysPath) {
		return renderFile(rc, `text/html`, data)
	}

	var ctype = MimeTypeOf(rc.SysPath)

	if isHTML(ctype) {
		return renderFile(rc, ctype, data)
	}

	return rc.Send(http.StatusOK, ctype, data)
}

func renderFile(rc *RequestContext, ctype string, data []byte) error {
	var output, err = rc.Server().Template().Render(string(data), rc.TemplateParams())

	if err == nil {
		return rc.SendString(ctype, output)
	} else if IsMissingKeyError(err) || IsScriptError(err) {
		return rc.SendRenderError(output, err)
	} else {
		return rc.SendError(err)
	}
}

// Guess the MIME type of a file from its extension.
func MimeTypeOf(filename string) string {
	var ctype = fileutil.GetMimeType(path.Ext(filename), DefaultContentType)
	var base, _, _ = strings.Cut(ctype, `;`)

	if sliceutil.ContainsString(ShellScriptTypes, strings.TrimSpace(base)) {
		return `text/plain`
	}

	return ctype
}
