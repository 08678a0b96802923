package webserver

import (
	"fmt"
	"path"

	"github.com/ghetzel/go-stockutil/sliceutil"
)

func loadStandardFunctionsPath(rv FuncMap) {
	// fn basename: Return the filename component of the given path.
	rv[`basename`] = func(value interface{}) string {
		return path.Base(fmt.Sprintf("%v", value))
	}

	// fn dirname: Return the directory path component of the given path.
	rv[`dirname`] = func(value interface{}) string {
		return path.Dir(fmt.Sprintf("%v", value))
	}

	// fn ext: Return the extension component of the given path (always prefixed with a dot).
	rv[`ext`] = func(value interface{}) string {
		return path.Ext(fmt.Sprintf("%v", value))
	}

	// fn joinpath: Join the given path segments and clean the result.
	rv[`joinpath`] = func(values ...interface{}) string {
		return path.Join(sliceutil.Stringify(values)...)
	}
}
