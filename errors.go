package webserver

import (
	"errors"
	"fmt"
	"net/http"
)

// Used for exposing a desired status code when writing the response to an HTTP request.
type Codeable interface {
	Code() int
}

type CodeableError struct {
	msg  string
	code int
}

func (self *CodeableError) Code() int {
	if self.code == 0 {
		return http.StatusInternalServerError
	} else {
		return self.code
	}
}

func (self *CodeableError) Error() string {
	return self.msg
}

func ErrorCode(msg string, code int) error {
	return &CodeableError{
		msg:  msg,
		code: code,
	}
}

// Return an error that will produce an HTTP 404 response.
func NotFound(format string, args ...interface{}) error {
	return ErrorCode(fmt.Sprintf(format, args...), http.StatusNotFound)
}

var ErrNotFound = NotFound(`no such file or directory`)

// Return whether the given error carries an HTTP 404 status.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// Return the HTTP status code an error should be reported with.
func StatusCode(err error) int {
	var codeable Codeable

	if err == nil {
		return http.StatusOK
	} else if errors.As(err, &codeable) {
		return codeable.Code()
	} else {
		return http.StatusInternalServerError
	}
}

// A MissingKeyError is returned by template substitution when a placeholder names a
// parameter that does not exist.
type MissingKeyError struct {
	Key string
}

func (self *MissingKeyError) Error() string {
	return fmt.Sprintf("missing template parameter %q", self.Key)
}

func IsMissingKeyError(err error) bool {
	var mke *MissingKeyError
	return errors.As(err, &mke)
}
