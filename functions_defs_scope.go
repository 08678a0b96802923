package webserver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/ghetzel/go-stockutil/sliceutil"
	"github.com/ghetzel/go-stockutil/typeutil"
)

// Return the functions that read and modify the parameter scope of a single render.  These
// are how script regions pass values to the placeholders in the rest of the document.
func scopeFunctions(scope map[string]interface{}) FuncMap {
	rv := make(FuncMap)

	// fn set: Set the parameter *key* to *value*.
	rv[`set`] = func(key string, value interface{}) string {
		scope[key] = value
		return ``
	}

	// fn get: Return the value of parameter *key*, or nil if it is not set.  Dotted keys that
	//         are not set verbatim are looked up as a path into nested values.
	rv[`get`] = func(key string) interface{} {
		if v, ok := scope[key]; ok {
			return v
		} else if strings.Contains(key, `.`) {
			return maputil.DeepGet(scope, strings.Split(key, `.`))
		}

		return nil
	}

	// fn has: Return whether parameter *key* is set.
	rv[`has`] = func(key string) bool {
		_, ok := scope[key]
		return ok
	}

	// fn unset: Remove parameter *key*.
	rv[`unset`] = func(key string) string {
		delete(scope, key)
		return ``
	}

	// fn append: Append *values* to the string value of parameter *key*.
	rv[`append`] = func(key string, values ...interface{}) string {
		var current string

		if v, ok := scope[key]; ok && v != nil {
			current = typeutil.String(v)
		}

		for _, v := range sliceutil.Stringify(values) {
			current += v
		}

		scope[key] = current
		return ``
	}

	// fn default: Set parameter *key* to *value* only if it is not already set to a non-empty value.
	rv[`default`] = func(key string, value interface{}) string {
		if v, ok := scope[key]; !ok || v == nil || typeutil.IsEmpty(v) {
			scope[key] = value
		}

		return ``
	}

	// fn readfile: Return the contents of *filename*, relative to the directory of the document
	//              being rendered.  On failure, the error text is returned instead.
	rv[`readfile`] = func(filename string) string {
		var fullpath = filename

		if !filepath.IsAbs(fullpath) {
			fullpath = filepath.Join(typeutil.String(scope[`sysdir`]), filename)
		}

		if data, err := os.ReadFile(fullpath); err == nil {
			return string(data)
		} else {
			return err.Error()
		}
	}

	return rv
}
