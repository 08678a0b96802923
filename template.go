package webserver

import (
	"regexp"
	"strings"

	"github.com/ghetzel/go-stockutil/typeutil"
)

var rxScriptRegion = regexp.MustCompile(`(?s)<!--\s*script\b(.*?)-->`)
var rxScriptStrip = regexp.MustCompile(`(?s)<!--\s*script\b.*?-->[ \t\r\f\v]*\n?`)
var rxPlaceholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_.\-]*)\}`)

// A Template renders documents containing embedded script regions and {name} placeholders.
// Scripts run first and may modify the parameters, then placeholders are substituted in one
// or more passes until none remain or MaxPasses additional passes have been made.
type Template struct {
	MaxPasses int
	funcs     FuncMap
}

func NewTemplate() *Template {
	return &Template{
		MaxPasses: DefaultMaxPasses,
		funcs:     GetStandardFunctions(),
	}
}

// Render the given document using params as the mutable scope.  If a placeholder names a
// parameter that does not exist, the text as it stood before the failing pass is returned
// along with a *MissingKeyError.
func (self *Template) Render(data string, params map[string]interface{}) (string, error) {
	if params == nil {
		params = make(map[string]interface{})
	}

	var regions = ExtractScripts(data)

	if len(regions) == 0 {
		if !HasPlaceholders(data) {
			return data, nil
		}

		return Substitute(data, params)
	}

	for i, region := range regions {
		if err := self.runScript(i, region, params); err != nil {
			return data, err
		}
	}

	data = StripScripts(data)

	if out, err := Substitute(data, params); err == nil {
		data = out
	} else {
		return data, err
	}

	for pass := 0; pass < self.MaxPasses && HasPlaceholders(data); pass++ {
		if out, err := Substitute(data, params); err == nil {
			data = out
		} else {
			return data, err
		}
	}

	return data, nil
}

// Return the de-indented bodies of all script regions in the document, in order.
func ExtractScripts(data string) []string {
	var regions []string

	for _, match := range rxScriptRegion.FindAllStringSubmatch(data, -1) {
		regions = append(regions, Dedent(match[1]))
	}

	return regions
}

// Remove every script region (and trailing whitespace up to one newline) and trim the result.
func StripScripts(data string) string {
	return strings.TrimSpace(rxScriptStrip.ReplaceAllString(data, ``))
}

// Remove the longest whitespace prefix common to all non-blank lines.
func Dedent(text string) string {
	var lines = strings.Split(text, "\n")
	var margin string
	var found bool

	for _, line := range lines {
		if strings.TrimSpace(line) == `` {
			continue
		}

		var indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]

		if !found {
			margin = indent
			found = true
		} else {
			margin = commonPrefix(margin, indent)
		}
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == `` {
			lines[i] = ``
		} else {
			lines[i] = strings.TrimPrefix(line, margin)
		}
	}

	return strings.Join(lines, "\n")
}

func commonPrefix(a string, b string) string {
	var n = len(a)

	if len(b) < n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}

	return a[:n]
}

// Return whether the text contains at least one substitutable placeholder.
func HasPlaceholders(data string) bool {
	return len(placeholders(data)) > 0
}

// Perform a single substitution pass over data.  Tokens whose braces are doubled ({{x}}) are
// left as-is.
func Substitute(data string, params map[string]interface{}) (string, error) {
	var out strings.Builder
	var last int

	for _, loc := range placeholders(data) {
		var name = data[loc[2]:loc[3]]

		if value, ok := params[name]; ok {
			out.WriteString(data[last:loc[0]])
			out.WriteString(typeutil.String(value))
			last = loc[1]
		} else {
			return data, &MissingKeyError{Key: name}
		}
	}

	out.WriteString(data[last:])
	return out.String(), nil
}

func placeholders(data string) [][]int {
	var out [][]int

	for _, loc := range rxPlaceholder.FindAllStringSubmatchIndex(data, -1) {
		if loc[0] > 0 && data[loc[0]-1] == '{' {
			continue
		}

		if loc[1] < len(data) && data[loc[1]] == '}' {
			continue
		}

		out = append(out, loc)
	}

	return out
}
