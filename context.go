package webserver

import (
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ghetzel/go-stockutil/fileutil"
	"github.com/ghetzel/go-stockutil/log"
)

// Logger is the logging handle exposed to request handlers and plugins.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// A RequestContext represents everything necessary to handle a single request: where the
// requested path lives on disk, the request parameters, and the cookies and extra headers
// that will be written with the response.
type RequestContext struct {
	RawPath   string
	URLPath   string
	SysPath   string
	SysRoot   string
	Method    string
	Protocol  string
	Params    *Params
	Headers   []KV
	Cookies   *CookieJar
	SessionID string
	id        string
	server    *Server
	wr        http.ResponseWriter
	req       *http.Request
	startedAt time.Time
	code      int
	sent      bool
}

// Build the context for an incoming request: resolve the path against the web root, extract
// the GET/POST parameters, and load (or create) the session cookie.
func NewRequestContext(server *Server, w http.ResponseWriter, req *http.Request) (*RequestContext, error) {
	var rawpath = req.RequestURI

	if rawpath == `` {
		rawpath = req.URL.RequestURI()
	}

	var rc = &RequestContext{
		RawPath:   rawpath,
		Method:    req.Method,
		Protocol:  server.Config.Protocol(),
		Params:    NewParams(),
		Cookies:   CookieJarFromRequest(req),
		id:        reqid(req),
		server:    server,
		wr:        w,
		req:       req,
		startedAt: time.Now(),
	}

	rc.SessionID = rc.Cookies.Session()

	if resolved, err := ResolvePath(server.Config.WebDir, rawpath); err == nil {
		rc.URLPath = resolved.URLPath
		rc.SysPath = resolved.SysPath
		rc.SysRoot = resolved.SysRoot

		if params, err := ExtractParams(req, resolved.Query); err == nil {
			rc.Params = params
		} else {
			rc.Params = params
			rc.Warningf("params: %v", err)
		}
	} else {
		return rc, err
	}

	if server.Config.NoCache {
		rc.NoCache()
	}

	rc.Debugf("Handling %s %s request %s", rc.Protocol, rc.Method, rc.RawPath)
	rc.Debugf("   UrlPath  : %s", rc.URLPath)
	rc.Debugf("   SysPath  : %s", rc.SysPath)
	rc.Debugf("   SysRoot  : %s", rc.SysRoot)
	rc.Debugf("   Params   : %v", rc.Params)
	rc.Debugf("   SessionId: %s", rc.SessionID)

	return rc, nil
}

// Return the unique request ID.
func (self *RequestContext) ID() string {
	return self.id
}

// Return the Server handling this request.
func (self *RequestContext) Server() *Server {
	return self.server
}

// Return the resolved startup options.
func (self *RequestContext) Options() *Config {
	return self.server.Config
}

// Return the logger for this request.
func (self *RequestContext) Logger() Logger {
	return self
}

// Return the externally-visible URL prefix (e.g. http://localhost:8080).
func (self *RequestContext) URLPrefix() string {
	return self.server.Config.URLPrefix()
}

// Return the http.Request associated with this context.
func (self *RequestContext) Request() *http.Request {
	return self.req
}

// Return the status code that was sent, or 0 if nothing has been sent yet.
func (self *RequestContext) Code() int {
	return self.code
}

// Append an extra header to be written with the response.
func (self *RequestContext) AddHeader(name string, value string) {
	self.Headers = append(self.Headers, KV{K: name, V: value})
}

func (self *RequestContext) hasHeader(name string) bool {
	for _, kv := range self.Headers {
		if strings.EqualFold(kv.K, name) {
			return true
		}
	}

	return false
}

// Add headers instructing clients and proxies not to cache the response.
func (self *RequestContext) NoCache() {
	if !self.hasHeader(`Cache-Control`) {
		self.AddHeader(`Cache-Control`, `no-cache, no-store, must-revalidate`)
		self.AddHeader(`Pragma`, `no-cache`)
		self.AddHeader(`Expires`, `0`)
	}
}

// Strip the last character off of both the URL path and the filesystem path.  Returns false if
// the shortened filesystem path no longer lies beneath the root.
func (self *RequestContext) trimSuffix() bool {
	if l := len(self.URLPath); l > 0 {
		self.URLPath = self.URLPath[:l-1]
	}

	if self.URLPath == `` {
		self.URLPath = `/`
	}

	if l := len(self.SysPath); l > 0 {
		self.SysPath = self.SysPath[:l-1]
	}

	return isBeneath(self.SysRoot, filepath.Clean(self.SysPath))
}

// Return the parameters available to templates rendered for this request.  Globals have the
// lowest precedence, then request parameters, then sysdir, urldir, urlprefix, and sid.
func (self *RequestContext) TemplateParams() map[string]interface{} {
	var params = self.Params.Map()

	if self.server != nil {
		self.server.Globals.fill(params)
	}

	if fileutil.DirExists(self.SysPath) {
		params[`sysdir`] = self.SysPath
		params[`urldir`] = self.URLPath
	} else {
		params[`sysdir`] = filepath.Dir(self.SysPath)
		params[`urldir`] = path.Dir(self.URLPath)
	}

	params[`urlprefix`] = self.URLPrefix()
	params[`sid`] = self.SessionID

	return params
}

// Return the request fields as key/value pairs sorted case-insensitively by name.
func (self *RequestContext) Fields() []KV {
	var fields = []KV{
		{K: `Cookies`, V: strings.Join(self.Cookies.HeaderValues(), `; `)},
		{K: `Headers`, V: formatRequestHeaders(self.req)},
		{K: `Method`, V: self.Method},
		{K: `Params`, V: self.Params.String()},
		{K: `Protocol`, V: self.Protocol},
		{K: `RawPath`, V: self.RawPath},
		{K: `RequestID`, V: self.id},
		{K: `SessionID`, V: self.SessionID},
		{K: `SysPath`, V: self.SysPath},
		{K: `SysRoot`, V: self.SysRoot},
		{K: `URLPath`, V: self.URLPath},
	}

	if self.req != nil {
		fields = append(fields, KV{K: `RemoteAddr`, V: self.req.RemoteAddr})
	}

	sortKV(fields)
	return fields
}

func formatRequestHeaders(req *http.Request) string {
	if req == nil {
		return ``
	}

	var lines []string

	for _, name := range sortedHeaderNames(req.Header) {
		for _, value := range req.Header.Values(name) {
			lines = append(lines, name+`: `+value)
		}
	}

	return strings.Join(lines, "\n")
}

// The remaining functions implement the logging pseudointerface in go-stockutil/log such that
// all request-specific log statements are prefixed with the request ID.

func (self *RequestContext) Logf(level log.Level, format string, args ...interface{}) {
	log.Logf(level, "[%s] "+format, append([]interface{}{self.id}, args...)...)
}

func (self *RequestContext) Debugf(format string, args ...interface{}) {
	self.Logf(log.DEBUG, format, args...)
}

func (self *RequestContext) Infof(format string, args ...interface{}) {
	self.Logf(log.INFO, format, args...)
}

func (self *RequestContext) Warningf(format string, args ...interface{}) {
	self.Logf(log.WARNING, format, args...)
}

func (self *RequestContext) Errorf(format string, args ...interface{}) {
	self.Logf(log.ERROR, format, args...)
}

func (self *RequestContext) String() string {
	return fmt.Sprintf("%s %s", self.Method, self.RawPath)
}
