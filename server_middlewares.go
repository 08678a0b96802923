package webserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ghetzel/go-stockutil/fileutil"
	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/stringutil"
	base58 "github.com/jbenet/go-base58"
	"github.com/urfave/negroni"
)

type contextKey string

const requestIdKey contextKey = `request-id`

var RequestIDHeader = `X-Webserver-Request-ID`

// Return the ID assigned to the request by the request ID middleware.
func reqid(req *http.Request) string {
	if req != nil {
		if id, ok := req.Context().Value(requestIdKey).(string); ok {
			return id
		}
	}

	return ``
}

func (self *Server) setupServer() {
	fileutil.InitMime()
	self.handler = negroni.New()

	// setup panic recovery handler
	var recovery = negroni.NewRecovery()
	recovery.PrintStack = false
	self.handler.Use(recovery)

	// setup request ID generation and access logging
	self.handler.UseFunc(func(w http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
		var requestId = base58.Encode(stringutil.UUID().Bytes())
		var started = time.Now()

		log.Debugf("[%s] %s", requestId, strings.Repeat(`-`, 69))
		log.Debugf("[%s] middleware: request id", requestId)

		w.Header().Set(RequestIDHeader, requestId)
		req = req.WithContext(context.WithValue(req.Context(), requestIdKey, requestId))

		next(w, req)

		var status int

		if nw, ok := w.(negroni.ResponseWriter); ok {
			status = nw.Status()
		}

		log.Infof("[%s] %s %s %d (%v)", requestId, req.Method, req.RequestURI, status, time.Since(started).Round(time.Microsecond))
	})

	// any other method gets a 501
	self.handler.UseFunc(func(w http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
		switch req.Method {
		case http.MethodGet, http.MethodHead, http.MethodPost:
			next(w, req)
		default:
			log.Debugf("[%s] middleware: method %s not implemented", reqid(req), req.Method)
			http.Error(w, http.StatusText(http.StatusNotImplemented), http.StatusNotImplemented)
		}
	})

	// handle one request at a time unless concurrent handling is enabled
	if !self.Config.Concurrent {
		self.handler.UseFunc(func(w http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
			self.lock.Lock()
			defer self.lock.Unlock()

			next(w, req)
		})
	}

	self.handler.UseHandlerFunc(self.handleRequest)
}
