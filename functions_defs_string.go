package webserver

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ghetzel/go-stockutil/sliceutil"
	"github.com/ghetzel/go-stockutil/stringutil"
	"github.com/ghetzel/go-stockutil/typeutil"
	strip "github.com/grokify/html-strip-tags-go"
	"golang.org/x/net/html"
)

func loadStandardFunctionsString(rv FuncMap) {
	// fn contains: Return whether a string *s* contains *substr*.
	rv[`contains`] = func(s interface{}, substr string) bool {
		return strings.Contains(typeutil.String(s), substr)
	}

	// fn lower: Return a copy of *s* with all Unicode letters mapped to their lower case.
	rv[`lower`] = func(s interface{}) string {
		return strings.ToLower(typeutil.String(s))
	}

	// fn upper: Return a copy of *s* with all letters capitalized.
	rv[`upper`] = func(s interface{}) string {
		return strings.ToUpper(typeutil.String(s))
	}

	// fn trim: Return a copy of *s* with all leading and trailing whitespace removed.
	rv[`trim`] = func(s interface{}) string {
		return strings.TrimSpace(typeutil.String(s))
	}

	// fn replace: Return a copy of *s* with occurrences of *old* replaced with *new*, up to *n* times.
	rv[`replace`] = func(s interface{}, old string, new string, n ...int) string {
		var count = -1

		if len(n) > 0 {
			count = n[0]
		}

		return strings.Replace(typeutil.String(s), old, new, count)
	}

	// fn split: Return a string array of elements resulting from *s* being split by *delimiter*,
	//           up to *n* times (if specified).
	rv[`split`] = func(input interface{}, delimiter string, n ...int) []string {
		if len(n) == 0 {
			return strings.Split(typeutil.String(input), delimiter)
		} else {
			return strings.SplitN(typeutil.String(input), delimiter, n[0])
		}
	}

	// fn join: Join the *input* array on *delimiter* and return a string.
	rv[`join`] = func(input interface{}, delimiter string) string {
		return strings.Join(sliceutil.Stringify(input), delimiter)
	}

	rv[`concat`] = func(in ...interface{}) string {
		out := make([]string, len(in))

		for i, v := range in {
			out[i] = fmt.Sprintf("%v", v)
		}

		return strings.Join(out, ``)
	}

	// fn titleize: Return a copy of *s* with the first letter of every word capitalized.
	rv[`titleize`] = func(s interface{}) string {
		var words = strings.Fields(typeutil.String(s))

		for i, word := range words {
			var first, size = utf8.DecodeRuneInString(word)
			words[i] = string(unicode.ToUpper(first)) + word[size:]
		}

		return strings.Join(words, ` `)
	}

	// fn underscore: Return a copy of *s* transformed into snake_case.
	rv[`underscore`] = stringutil.Underscore

	// fn repeat: Return *s* repeated *count* times.
	rv[`repeat`] = func(s interface{}, count interface{}) string {
		if n := typeutil.Int(count); n > 0 {
			return strings.Repeat(typeutil.String(s), int(n))
		}

		return ``
	}

	// fn stripHtml: Remove all HTML tags from *s*.
	rv[`stripHtml`] = func(s interface{}) string {
		return strip.StripTags(typeutil.String(s))
	}

	// fn escape: Escape *s* for safe inclusion in an HTML document.
	rv[`escape`] = func(s interface{}) string {
		return html.EscapeString(typeutil.String(s))
	}
}
