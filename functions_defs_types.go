package webserver

import (
	"github.com/ghetzel/go-stockutil/stringutil"
	"github.com/ghetzel/go-stockutil/typeutil"
)

func loadStandardFunctionsTypes(rv FuncMap) {
	// fn isEmpty: Return whether the given *value* is empty.
	rv[`isEmpty`] = typeutil.IsEmpty

	// fn autotype: Attempt to automatically determine the type if *value* and return the converted output.
	rv[`autotype`] = stringutil.Autotype

	// fn asStr: Return the *value* as a string.
	rv[`asStr`] = typeutil.String

	// fn asInt: Attempt to convert the given *value* to an integer.
	rv[`asInt`] = func(value interface{}) (int64, error) {
		if v, err := stringutil.ConvertToFloat(value); err == nil {
			return int64(v), nil
		} else {
			return 0, err
		}
	}

	// fn asFloat: Attempt to convert the given *value* to a floating-point number.
	rv[`asFloat`] = stringutil.ConvertToFloat

	// fn asBool: Attempt to convert the given *value* to a boolean value.
	rv[`asBool`] = stringutil.ConvertToBool
}
