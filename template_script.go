package webserver

import (
	"errors"
	"fmt"
	"io"
	text "text/template"
)

// ScriptError is returned when an embedded script region fails to parse or execute.
type ScriptError struct {
	Index int
	Err   error
}

func (self *ScriptError) Error() string {
	return fmt.Sprintf("script %d: %v", self.Index, self.Err)
}

func (self *ScriptError) Unwrap() error {
	return self.Err
}

// Return whether err is (or wraps) a *ScriptError.
func IsScriptError(err error) bool {
	var serr *ScriptError
	return errors.As(err, &serr)
}

// Script regions are text/template programs whose dot is the parameter scope.  Whatever the
// template writes is discarded; scripts communicate with the document only through the scope
// functions (set, unset, append, ...).
func (self *Template) runScript(index int, source string, params map[string]interface{}) error {
	var funcs = make(text.FuncMap, len(self.funcs))

	for name, fn := range self.funcs {
		funcs[name] = fn
	}

	for name, fn := range scopeFunctions(params) {
		funcs[name] = fn
	}

	var tmpl = text.New(fmt.Sprintf("script%d", index)).Funcs(funcs).Option(`missingkey=default`)

	if _, err := tmpl.Parse(source); err != nil {
		return &ScriptError{Index: index, Err: err}
	}

	if err := tmpl.Execute(io.Discard, params); err != nil {
		if xerr, ok := err.(text.ExecError); ok {
			err = xerr.Err
		}

		return &ScriptError{Index: index, Err: err}
	}

	return nil
}
