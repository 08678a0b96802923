package webserver

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ghetzel/go-stockutil/stringutil"
	"github.com/ghetzel/go-stockutil/typeutil"
)

var rxExtraInteger = regexp.MustCompile(`^\d+$`)
var rxExtraFloat = regexp.MustCompile(`^(\d+)?\.\d+$|^\d+\.\d*$`)

// Globals is the process-wide snapshot of the "extra" startup parameters.  It is built once
// before the server starts accepting requests and is never modified afterwards.
type Globals map[string]interface{}

// Parse a list of key=value pairs into a Globals snapshot.  Values are coerced into integers,
// floats, or booleans where they look like one, otherwise they are kept as strings.
func ParseGlobals(pairs []string) (Globals, error) {
	var globals = make(Globals)

	for _, pair := range pairs {
		if !strings.Contains(pair, `=`) {
			return nil, fmt.Errorf("extra argument %q is not a key=value pair", pair)
		}

		var key, value = stringutil.SplitPair(pair, `=`)

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key == `` {
			return nil, fmt.Errorf("extra argument %q has an empty key", pair)
		}

		globals[key] = coerceExtra(value)
	}

	return globals, nil
}

func coerceExtra(value string) interface{} {
	switch {
	case rxExtraInteger.MatchString(value):
		return typeutil.Int(value)
	case rxExtraFloat.MatchString(value):
		return typeutil.Float(value)
	case strings.EqualFold(value, `true`):
		return true
	case strings.EqualFold(value, `false`):
		return false
	default:
		return value
	}
}

// Return the snapshot keys, sorted case-insensitively.
func (self Globals) Keys() []string {
	var keys = make([]string, 0, len(self))

	for k := range self {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i int, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})

	return keys
}

// Copy the snapshot into the given map without overwriting existing keys.
func (self Globals) fill(into map[string]interface{}) {
	for k, v := range self {
		if _, ok := into[k]; !ok {
			into[k] = v
		}
	}
}
