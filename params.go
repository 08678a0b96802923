package webserver

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/stringutil"
)

// Params is an ordered string mapping of request parameters.  The first value set for a key
// wins; later values for the same key are ignored.
type Params struct {
	keys   []string
	values map[string]string
}

func NewParams() *Params {
	return &Params{
		values: make(map[string]string),
	}
}

// Set the value of key unless it already has one.  Returns whether the value was stored.
func (self *Params) Set(key string, value string) bool {
	if self.values == nil {
		self.values = make(map[string]string)
	}

	if _, ok := self.values[key]; ok {
		return false
	}

	self.keys = append(self.keys, key)
	self.values[key] = value
	return true
}

func (self *Params) Get(key string) string {
	return self.values[key]
}

func (self *Params) Has(key string) bool {
	_, ok := self.values[key]
	return ok
}

// Return the parameter names in the order they were first seen.
func (self *Params) Keys() []string {
	return append([]string(nil), self.keys...)
}

func (self *Params) Len() int {
	return len(self.keys)
}

// Add every parameter from other that is not already present.
func (self *Params) Merge(other *Params) *Params {
	if other != nil {
		for _, k := range other.keys {
			self.Set(k, other.values[k])
		}
	}

	return self
}

// Return a copy of the parameters as a generic map.
func (self *Params) Map() map[string]interface{} {
	var out = make(map[string]interface{}, len(self.keys))

	for _, k := range self.keys {
		out[k] = self.values[k]
	}

	return out
}

func (self *Params) String() string {
	var pairs = make([]string, len(self.keys))

	for i, k := range self.keys {
		pairs[i] = fmt.Sprintf("%s=%q", k, self.values[k])
	}

	return `{` + strings.Join(pairs, `, `) + `}`
}

// Parse a query string into an ordered parameter set.  Pairs are separated by "&" or ";".
// When keepBlank is false, keys with empty values are dropped.
func ParseQuery(query string, keepBlank bool) *Params {
	var params = NewParams()

	for _, pair := range strings.FieldsFunc(query, func(r rune) bool {
		return r == '&' || r == ';'
	}) {
		var key, value = stringutil.SplitPair(pair, `=`)

		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		} else {
			continue
		}

		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		} else {
			continue
		}

		if key == `` || (value == `` && !keepBlank) {
			continue
		}

		params.Set(key, value)
	}

	return params
}

// Extract the GET and POST parameters for a request.  Both sources are always parsed;
// query string values take precedence over body values with the same name.
func ExtractParams(req *http.Request, query string) (*Params, error) {
	var params = ParseQuery(query, false)

	if req.Method == http.MethodPost && req.Body != nil {
		if body, err := parseBodyParams(req); err == nil {
			params.Merge(body)
		} else {
			return params, err
		}
	}

	return params, nil
}

func parseBodyParams(req *http.Request) (*Params, error) {
	var params = NewParams()
	var ctype, cparams, _ = mime.ParseMediaType(req.Header.Get(`Content-Type`))

	switch ctype {
	case `multipart/form-data`:
		var boundary = cparams[`boundary`]

		if boundary == `` {
			return nil, fmt.Errorf("multipart body without a boundary")
		}

		var reader = multipart.NewReader(req.Body, boundary)

		for {
			var part, err = reader.NextPart()

			if err == io.EOF {
				break
			} else if err != nil {
				return params, err
			}

			if data, err := io.ReadAll(part); err == nil {
				params.Set(part.FormName(), string(data))
			} else {
				return params, log.AppendError(err, part.Close())
			}

			part.Close()
		}

	case `application/x-www-form-urlencoded`:
		var body io.Reader = req.Body

		if req.ContentLength >= 0 {
			body = io.LimitReader(req.Body, req.ContentLength)
		}

		if data, err := io.ReadAll(body); err == nil {
			params = ParseQuery(string(data), true)
		} else {
			return params, err
		}

	default:
		if ctype != `` {
			log.Debugf("params: ignoring POST body of type %s", ctype)
		}

		return params, nil
	}

	return params, nil
}
