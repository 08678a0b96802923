package webserver

import (
	"fmt"
	"plugin"
)

// A RequestHandler receives every request and must produce a complete response for it, either
// directly via the RequestContext's Send methods or by handing off to rc.Server().Routes.
type RequestHandler func(rc *RequestContext)

// The request handler used when no plugin is configured.
func DefaultRequestHandler(rc *RequestContext) {
	if err := rc.Server().Routes.Dispatch(rc); err != nil {
		rc.Errorf("dispatch: %v", err)
	}
}

// Load a request handler from a Go plugin.  The plugin must export a function named entry
// with the signature func(*webserver.RequestContext).
func LoadPlugin(filename string, entry string) (RequestHandler, error) {
	if entry == `` {
		entry = DefaultEntry
	}

	if p, err := plugin.Open(filename); err == nil {
		if sym, err := p.Lookup(entry); err == nil {
			switch fn := sym.(type) {
			case func(*RequestContext):
				return RequestHandler(fn), nil
			case *RequestHandler:
				if *fn != nil {
					return *fn, nil
				}
			case *func(*RequestContext):
				if *fn != nil {
					return RequestHandler(*fn), nil
				}
			}

			return nil, fmt.Errorf("plugin %s: %s has type %T, expected func(*webserver.RequestContext)", filename, entry, sym)
		} else {
			return nil, fmt.Errorf("plugin %s: %v", filename, err)
		}
	} else {
		return nil, fmt.Errorf("plugin %s: %v", filename, err)
	}
}
