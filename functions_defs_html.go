package webserver

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/quick"
	"github.com/ghetzel/go-stockutil/typeutil"
	"github.com/kyokomi/emoji"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

var DefaultHighlightStyle = `monokai`

func loadStandardFunctionsHtml(rv FuncMap) {
	// fn markdown: Render the given Markdown string *value* as sanitized HTML.
	rv[`markdown`] = func(value interface{}) string {
		output := blackfriday.Run(
			[]byte(typeutil.String(value)),
			blackfriday.WithExtensions(blackfriday.CommonExtensions),
		)

		return string(bluemonday.UGCPolicy().SanitizeBytes(output))
	}

	// fn sanitize: Takes a raw HTML string and santizes it, removing attributes and elements
	//              that can be used to evaluate scripts, but leaving the rest.
	rv[`sanitize`] = func(value interface{}) string {
		return bluemonday.UGCPolicy().Sanitize(typeutil.String(value))
	}

	// fn highlight: Return the given source code with syntax highlighting applied as HTML.  If
	//               *language* is omitted it is guessed from the source.
	rv[`highlight`] = func(value interface{}, language ...string) (string, error) {
		var src = typeutil.String(value)
		var lang string

		if len(language) > 0 {
			lang = language[0]
		} else if lexer := lexers.Analyse(src); lexer != nil {
			lang = lexer.Config().Name
		}

		if lang == `` {
			lang = `plaintext`
		}

		var out bytes.Buffer

		if err := quick.Highlight(&out, src, lang, `html`, DefaultHighlightStyle); err == nil {
			return out.String(), nil
		} else {
			return ``, err
		}
	}

	// fn emoji: Expand :shortcode: emoji names in *value* into the corresponding characters.
	rv[`emoji`] = func(value interface{}) string {
		return strings.TrimSpace(emoji.Sprint(typeutil.String(value)))
	}

	// fn htmlquery: Return the elements of *doc* matching the CSS *selector* as maps with the
	//               keys "name", "text" and "attributes".
	rv[`htmlquery`] = func(docI interface{}, selector string) ([]map[string]interface{}, error) {
		elements := make([]map[string]interface{}, 0)

		if doc, err := htmldoc(docI); err == nil {
			doc.Find(selector).Each(func(i int, match *goquery.Selection) {
				for _, node := range match.Nodes {
					if nodeData := htmlNodeToMap(node); len(nodeData) > 0 {
						elements = append(elements, nodeData)
					}
				}
			})
		} else {
			return nil, err
		}

		return elements, nil
	}
}
