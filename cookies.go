package webserver

import (
	"net/http"

	"github.com/ghetzel/go-stockutil/stringutil"
)

var SessionCookieName = `ws_sid`
var SessionIDLength = 16

// CookieJar holds the cookies for a single request/response exchange.  Every cookie in the jar
// is written back to the client on each response.
type CookieJar struct {
	names  []string
	values map[string]string
}

func NewCookieJar() *CookieJar {
	return &CookieJar{
		values: make(map[string]string),
	}
}

// Load the cookies sent with a request into a new jar.
func CookieJarFromRequest(req *http.Request) *CookieJar {
	var jar = NewCookieJar()

	for _, cookie := range req.Cookies() {
		jar.Set(cookie.Name, cookie.Value)
	}

	return jar
}

func (self *CookieJar) Set(name string, value string) {
	if _, ok := self.values[name]; !ok {
		self.names = append(self.names, name)
	}

	self.values[name] = value
}

func (self *CookieJar) Get(name string) (string, bool) {
	var v, ok = self.values[name]
	return v, ok
}

func (self *CookieJar) Len() int {
	return len(self.names)
}

// Return the jar contents as Set-Cookie header values, in the order the cookies were added.
func (self *CookieJar) HeaderValues() []string {
	var out = make([]string, 0, len(self.names))

	for _, name := range self.names {
		var cookie = &http.Cookie{
			Name:  name,
			Value: self.values[name],
		}

		if v := cookie.String(); v != `` {
			out = append(out, v)
		}
	}

	return out
}

// Return the session identifier stored in the jar, generating and storing a new one if the
// client did not send one.
func (self *CookieJar) Session() string {
	if sid, ok := self.Get(SessionCookieName); ok && sid != `` {
		return sid
	}

	var sid = NewSessionID()
	self.Set(SessionCookieName, sid)

	return sid
}

// Generate a random alphanumeric session identifier.
func NewSessionID() string {
	var sid string

	for len(sid) < SessionIDLength {
		sid += stringutil.UUID().Base58()
	}

	return sid[:SessionIDLength]
}
