package webserver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringFunctions(t *testing.T) {
	assert := require.New(t)
	fns := GetStandardFunctions()

	assert.Equal(`hello`, fns[`lower`].(func(interface{}) string)(`HeLLo`))
	assert.Equal(`HELLO`, fns[`upper`].(func(interface{}) string)(`hello`))
	assert.Equal(`hi`, fns[`trim`].(func(interface{}) string)("  hi\n"))
	assert.Equal(`Hello Big World`, fns[`titleize`].(func(interface{}) string)(`hello big  world`))
	assert.Equal(`Élan Über`, fns[`titleize`].(func(interface{}) string)(`élan über`))
	assert.Equal(`x`, fns[`stripHtml`].(func(interface{}) string)(`<b>x</b>`))
	assert.Equal(`&lt;a href=&#34;x&#34;&gt;`, fns[`escape`].(func(interface{}) string)(`<a href="x">`))
	assert.Equal(`abab`, fns[`repeat`].(func(interface{}, interface{}) string)(`ab`, 2))
	assert.Equal(`a-b-c`, fns[`join`].(func(interface{}, string) string)([]string{`a`, `b`, `c`}, `-`))
	assert.Equal(`a1true`, fns[`concat`].(func(...interface{}) string)(`a`, 1, true))
}

func TestPathFunctions(t *testing.T) {
	assert := require.New(t)
	fns := GetStandardFunctions()

	assert.Equal(`file.jpg`, fns[`basename`].(func(interface{}) string)(`/this/is/my/file.jpg`))
	assert.Equal(`/this/is/my`, fns[`dirname`].(func(interface{}) string)(`/this/is/my/file.jpg`))
	assert.Equal(`.jpg`, fns[`ext`].(func(interface{}) string)(`file.jpg`))
	assert.Equal(`/a/c`, fns[`joinpath`].(func(...interface{}) string)(`/a`, `b`, `../c`))
}

func TestMathFunctions(t *testing.T) {
	assert := require.New(t)
	fns := GetStandardFunctions()

	add := fns[`add`].(func(...interface{}) (float64, error))
	div := fns[`div`].(func(...interface{}) (float64, error))

	v, err := add(1, `2`, 3.5)
	assert.NoError(err)
	assert.Equal(6.5, v)

	v, err = div(9, 3)
	assert.NoError(err)
	assert.Equal(3.0, v)

	_, err = div(1, 0)
	assert.Error(err)

	assert.Equal([]int{0, 1, 2}, fns[`seq`].(func(interface{}) []int)(3))
	assert.Nil(fns[`seq`].(func(interface{}) []int)(0))

	mean, err := fns[`mean`].(statsTplFunc)([]int{1, 2, 3})
	assert.NoError(err)
	assert.Equal(2.0, mean)

	sum, err := fns[`sum`].(statsTplFunc)([]interface{}{1, `2`, 3.5})
	assert.NoError(err)
	assert.Equal(6.5, sum)

	assert.Equal(`1.0 kB`, fns[`bytesize`].(func(interface{}) string)(1000))
}

func TestCodecAndMarkupFunctions(t *testing.T) {
	assert := require.New(t)
	fns := GetStandardFunctions()

	assert.Equal(`Cn8eVZg`, fns[`base58`].(func(interface{}) string)(`hello`))
	assert.NotEmpty(fns[`murmur3`].(func(interface{}) string)(`hello`))
	assert.Equal(
		fns[`murmur3`].(func(interface{}) string)(`hello`),
		fns[`murmur3`].(func(interface{}) string)(`hello`),
	)

	out, err := fns[`jsonify`].(func(interface{}, ...string) (string, error))(map[string]interface{}{`a`: 1})
	assert.NoError(err)
	assert.Equal(`{"a":1}`, out)

	assert.Contains(fns[`markdown`].(func(interface{}) string)(`**bold**`), `<strong>bold</strong>`)
	assert.NotContains(fns[`sanitize`].(func(interface{}) string)(`<p onclick="x()">hi</p><script>alert(1)</script>`), `script`)

	hl, err := fns[`highlight`].(func(interface{}, ...string) (string, error))(`package main`, `go`)
	assert.NoError(err)
	assert.Contains(hl, `<pre`)

	matches, err := fns[`htmlquery`].(func(interface{}, string) ([]map[string]interface{}, error))(
		`<ul><li class="x">one</li><li>two</li></ul>`,
		`li.x`,
	)

	assert.NoError(err)
	assert.Len(matches, 1)
	assert.Equal(`one`, matches[0][`text`])
	assert.Equal(`li`, matches[0][`name`])
}

func TestMiscFunctions(t *testing.T) {
	assert := require.New(t)
	fns := GetStandardFunctions()

	fn_switch := fns[`switch`].(func(input interface{}, fallback interface{}, pairs ...interface{}) interface{})

	assert.Equal(`1`, fn_switch(`a`, `fallback`, `a`, `1`, `b`, `2`))
	assert.Equal(`2`, fn_switch(`b`, `fallback`, `a`, `1`, `b`, `2`))
	assert.Equal(`fallback`, fn_switch(`c`, `fallback`, `a`, `1`, `b`, `2`))

	when, err := fns[`time`].(func(interface{}, ...string) (string, error))(`2006-01-02T15:04:05Z`, `ymd`)
	assert.NoError(err)
	assert.Equal(`2006-01-02`, when)
}
