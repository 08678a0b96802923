package webserver

import (
	"fmt"
	"regexp"
)

// A RouteHandler handles a request whose URL path matched a route.  The args are the pattern's
// capture groups, in order.
type RouteHandler func(rc *RequestContext, args ...string) error

// Route pairs a URL path pattern with the handler that serves matching requests.
type Route struct {
	Name    string
	Pattern *regexp.Regexp
	Arity   int
	Handler RouteHandler
}

// Create a new route.  The pattern must contain exactly arity capture groups.
func NewRoute(name string, pattern string, arity int, handler RouteHandler) (*Route, error) {
	if rx, err := regexp.Compile(pattern); err == nil {
		if n := rx.NumSubexp(); n != arity {
			return nil, fmt.Errorf("route %s: pattern %q has %d capture groups, expected %d", name, pattern, n, arity)
		}

		if handler == nil {
			return nil, fmt.Errorf("route %s: no handler specified", name)
		}

		return &Route{
			Name:    name,
			Pattern: rx,
			Arity:   arity,
			Handler: handler,
		}, nil
	} else {
		return nil, fmt.Errorf("route %s: %v", name, err)
	}
}

// Match the given URL path against the route, returning the capture groups on success.
func (self *Route) Match(urlpath string) ([]string, bool) {
	if match := self.Pattern.FindStringSubmatch(urlpath); match != nil {
		return match[1:], true
	}

	return nil, false
}

func (self *Route) String() string {
	return self.Name
}

// Routes is an ordered list of special-case routes.  The first route that matches wins.
type Routes []*Route

// Return the built-in routes, in the order they are evaluated.
func DefaultRoutes() (Routes, error) {
	var routes Routes

	for _, def := range []struct {
		name    string
		pattern string
		arity   int
		handler RouteHandler
	}{
		{`webinfo`, `^/webserver/info/?$`, 0, handleWebInfo},
		{`sysname`, `^/system/name/?$`, 0, handleSysName},
		{`redirect-absolute`, `^/redirect/to/(https?)/(.+)$`, 2, handleRedirectAbsolute},
		{`redirect-relative`, `^/redirect/to(/.+)$`, 1, handleRedirectRelative},
		{`dump`, `^(.+)@$`, 1, handleDump},
		{`execute`, `^(.+)!$`, 1, handleExecute},
	} {
		if route, err := NewRoute(def.name, def.pattern, def.arity, def.handler); err == nil {
			routes = append(routes, route)
		} else {
			return nil, err
		}
	}

	return routes, nil
}

// Find the first route matching the given URL path.
func (self Routes) Classify(urlpath string) (*Route, []string) {
	for _, route := range self {
		if args, ok := route.Match(urlpath); ok {
			return route, args
		}
	}

	return nil, nil
}

// Dispatch the request to the first matching route, falling back to generic file serving.
func (self Routes) Dispatch(rc *RequestContext) error {
	if route, args := self.Classify(rc.URLPath); route != nil {
		rc.Debugf("route: %s %v", route.Name, args)
		return route.Handler(rc, args...)
	}

	return handleGeneral(rc)
}
