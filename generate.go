package webserver

import (
	"io"
	text "text/template"
)

var pluginSkeleton = text.Must(text.New(`plugin`).Parse(`// Request handler plugin for {{ .Name }}.
//
// Build with:
//
//	go build -buildmode=plugin -o {{ .Output }} {{ .Source }}
//
// and start the server with --plugin {{ .Output }}
package main

import (
	"github.com/ghetzel/webserver"
)

func {{ .Entry }}(rc *webserver.RequestContext) {
	rc.Logger().Infof("%s %s", rc.Method, rc.URLPath)

	// add custom handling here; anything not handled falls through to the built-in routes
	if err := rc.Server().Routes.Dispatch(rc); err != nil {
		rc.Logger().Errorf("%v", err)
	}
}
`))

// Write the source of a request handler plugin exporting entry to w.
func GeneratePlugin(w io.Writer, entry string) error {
	if entry == `` {
		entry = DefaultEntry
	}

	return pluginSkeleton.Execute(w, map[string]string{
		`Name`:   ApplicationName,
		`Entry`:  entry,
		`Source`: `plugin.go`,
		`Output`: `plugin.so`,
	})
}
