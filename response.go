package webserver

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

// Send a complete response: Content-Type and Content-Length, one Set-Cookie header per
// cookie in the jar, then any accumulated extra headers, then the status and body.
func (self *RequestContext) Send(status int, contentType string, body []byte) error {
	if self.sent {
		return fmt.Errorf("response already sent")
	}

	var header = self.wr.Header()

	header.Set(`Content-Type`, contentType)
	header.Set(`Content-Length`, strconv.Itoa(len(body)))

	for _, cookie := range self.Cookies.HeaderValues() {
		header.Add(`Set-Cookie`, cookie)
	}

	for _, kv := range self.Headers {
		header.Add(kv.K, fmt.Sprintf("%v", kv.V))
	}

	self.wr.WriteHeader(status)
	self.code = status
	self.sent = true

	if self.Method == http.MethodHead {
		return nil
	}

	_, err := self.wr.Write(body)
	return err
}

// Send a string body with a 200 status.
func (self *RequestContext) SendString(contentType string, body string) error {
	return self.Send(http.StatusOK, contentType, []byte(body))
}

// Send a 301 redirect to the given URL.  All cookies are re-sent.
func (self *RequestContext) Redirect(url string) error {
	self.Debugf("redirect: %s", url)
	self.AddHeader(`Location`, url)

	return self.Send(http.StatusMovedPermanently, `text/html`, nil)
}

// Send an error response with the status code carried by err.
func (self *RequestContext) SendError(err error) error {
	var code = StatusCode(err)

	if code >= 500 {
		self.Errorf("%v", err)
	} else {
		self.Debugf("%d: %v", code, err)
	}

	return self.Send(code, `text/plain`, []byte(err.Error()))
}

// Send the partially-rendered output of a template that failed to render.
func (self *RequestContext) SendRenderError(partial string, err error) error {
	self.Warningf("render: %v", err)

	return self.SendString(`text/plain`, fmt.Sprintf("<!-- ERROR: %v -->\n", err)+partial)
}

// Return whether a response has been sent for this request.
func (self *RequestContext) Sent() bool {
	return self.sent
}

func sortedHeaderNames(header http.Header) []string {
	var names = make([]string, 0, len(header))

	for name := range header {
		names = append(names, name)
	}

	sort.Slice(names, func(i int, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	return names
}

func isHTML(contentType string) bool {
	var mt, _, _ = strings.Cut(contentType, `;`)
	return strings.EqualFold(strings.TrimSpace(mt), `text/html`)
}
