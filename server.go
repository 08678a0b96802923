package webserver

import (
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/ghetzel/go-stockutil/log"
	"github.com/urfave/negroni"
)

// Server serves files, directory listings, and rendered templates from a web root.  Everything
// on a Server is built by NewServer and is read-only once requests are being handled.
type Server struct {
	Config    *Config
	Globals   Globals
	Routes    Routes
	Handler   RequestHandler
	template  *Template
	templates GlobSet
	handler   *negroni.Negroni
	startedAt time.Time
	lock      sync.Mutex
}

// Create a new server from a validated configuration.  The request handler is loaded from the
// configured plugin if one is given, otherwise DefaultRequestHandler is used.
func NewServer(config *Config) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var server = &Server{
		Config:    config,
		Handler:   DefaultRequestHandler,
		template:  NewTemplate(),
		startedAt: time.Now(),
	}

	server.template.MaxPasses = config.MaxPasses

	if globals, err := ParseGlobals(config.Extra); err == nil {
		server.Globals = globals
	} else {
		return nil, err
	}

	for _, key := range server.Globals.Keys() {
		log.Debugf("global: %s = %v", key, server.Globals[key])
	}

	if routes, err := DefaultRoutes(); err == nil {
		server.Routes = routes
	} else {
		return nil, err
	}

	if globs, err := CompileGlobs(config.TemplatePatterns...); err == nil {
		server.templates = globs
	} else {
		return nil, err
	}

	if config.Plugin != `` {
		if handler, err := LoadPlugin(config.Plugin, config.Entry); err == nil {
			log.Infof("Loaded request handler %s from %s", config.Entry, config.Plugin)
			server.Handler = handler
		} else {
			return nil, err
		}
	}

	server.setupServer()

	return server, nil
}

// Return the template engine used to render documents.
func (self *Server) Template() *Template {
	return self.template
}

// Return the time the server was created.
func (self *Server) StartedAt() time.Time {
	return self.startedAt
}

// Return whether the file at the given path should always be rendered as a template.
func (self *Server) IsTemplate(syspath string) bool {
	var names = []string{filepath.Base(syspath)}

	if rel, err := filepath.Rel(self.Config.WebDir, syspath); err == nil {
		names = append(names, filepath.ToSlash(rel))
	}

	return self.templates.Match(names...)
}

func (self *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	self.handler.ServeHTTP(w, req)
}

// Start listening for requests.  This blocks until the server fails.
func (self *Server) ListenAndServe() error {
	var srv = &http.Server{
		Addr:    self.Config.Address(),
		Handler: self,
	}

	log.Noticef("Starting %s server on %s", self.Config.Protocol(), self.Config.URLPrefix())
	log.Infof("Serving files from %s", self.Config.WebDir)

	if self.Config.HTTPS {
		return srv.ListenAndServeTLS(self.Config.CertFile, self.Config.TLSKeyFile())
	} else {
		return srv.ListenAndServe()
	}
}

func (self *Server) handleRequest(w http.ResponseWriter, req *http.Request) {
	var rc, err = NewRequestContext(self, w, req)

	if err != nil {
		rc.SendError(err)
		return
	}

	self.Handler(rc)

	if !rc.Sent() {
		rc.SendError(fmt.Errorf("handler did not produce a response"))
	}
}
