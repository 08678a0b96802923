package webserver

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	humanize "github.com/dustin/go-humanize"
	"github.com/ghetzel/go-stockutil/stringutil"
	"github.com/montanaflynn/stats"
	"golang.org/x/net/html"
)

type FuncMap map[string]interface{}

type statsUnary func(stats.Float64Data) (float64, error)
type statsTplFunc func(in interface{}) (float64, error)

// Return the functions available to every script region.  Scope functions, which close over
// the parameters of a specific render, are added separately.
func GetStandardFunctions() FuncMap {
	rv := make(FuncMap)

	// String Processing
	loadStandardFunctionsString(rv)

	// File Pathname Handling
	loadStandardFunctionsPath(rv)

	// Encoding / Decoding
	loadStandardFunctionsCodecs(rv)

	// HTML and Markup
	loadStandardFunctionsHtml(rv)

	// Type Handling and Conversion
	loadStandardFunctionsTypes(rv)

	// Time and Date Formatting
	loadStandardFunctionsTime(rv)

	// Numeric/Math Functions
	loadStandardFunctionsMath(rv)

	// Miscellaneous
	loadStandardFunctionsMisc(rv)

	return rv
}

func tmFmt(value interface{}, format ...string) (string, error) {
	if v, err := stringutil.ConvertToTime(value); err == nil {
		var tmFormat string
		var formatName string

		if len(format) == 0 {
			tmFormat = time.RFC3339
		} else {
			formatName = format[0]

			switch formatName {
			case `kitchen`:
				tmFormat = time.Kitchen
			case `timer`:
				tmFormat = `15:04:05`
			case `rfc3339`:
				tmFormat = time.RFC3339
			case `rfc822`:
				tmFormat = time.RFC822
			case `rfc1123`:
				tmFormat = time.RFC1123
			case `epoch`:
				return fmt.Sprintf("%d", v.Unix()), nil
			case `epoch-ms`:
				return fmt.Sprintf("%d", v.UnixMilli()), nil
			case `day`:
				tmFormat = `Monday`
			case `ymd`:
				tmFormat = `2006-01-02`
			case `ansic`:
				tmFormat = time.ANSIC
			default:
				tmFormat = formatName
			}
		}

		switch tmFormat {
		case `human`:
			return humanize.Time(v), nil
		default:
			return v.Format(tmFormat), nil
		}
	} else {
		return ``, err
	}
}

func calcFn(op string, values ...interface{}) (float64, error) {
	valuesF := make([]float64, len(values))

	for i, v := range values {
		if vF, err := stringutil.ConvertToFloat(v); err == nil {
			valuesF[i] = vF
		} else {
			return 0, err
		}
	}

	switch len(valuesF) {
	case 0:
		return 0.0, nil
	case 1:
		return valuesF[0], nil
	default:
		out := valuesF[0]

		for _, v := range valuesF[1:] {
			switch op {
			case `+`:
				out += v
			case `-`:
				out -= v
			case `*`:
				out *= v
			case `/`:
				if v == 0.0 {
					return 0, fmt.Errorf("cannot divide by zero")
				}

				out /= v
			case `%`:
				if v == 0.0 {
					return 0, fmt.Errorf("cannot divide by zero")
				}

				out = math.Mod(out, v)
			}
		}

		return out, nil
	}
}

func htmldoc(docI interface{}) (*goquery.Document, error) {
	switch doc := docI.(type) {
	case *goquery.Document:
		return doc, nil
	case string:
		return goquery.NewDocumentFromReader(strings.NewReader(doc))
	case []byte:
		return goquery.NewDocumentFromReader(bytes.NewReader(doc))
	default:
		if s, err := stringutil.ToString(docI); err == nil {
			return goquery.NewDocumentFromReader(strings.NewReader(s))
		} else {
			return nil, fmt.Errorf("expected an HTML document, got %T", docI)
		}
	}
}

func htmlNodeToMap(node *html.Node) map[string]interface{} {
	output := make(map[string]interface{})

	if node != nil && node.Type == html.ElementNode {
		text := ``
		attrs := make(map[string]interface{})

		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.TextNode {
				text += child.Data
			}
		}

		text = strings.TrimSpace(text)

		for _, attr := range node.Attr {
			attrs[attr.Key] = stringutil.Autotype(attr.Val)
		}

		if len(attrs) > 0 {
			output[`attributes`] = attrs
		}

		if text != `` {
			output[`text`] = text
		}

		output[`name`] = node.Data
	}

	return output
}
