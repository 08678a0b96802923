package webserver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGlobSet(t *testing.T) {
	assert := require.New(t)

	globs, err := CompileGlobs(`*.tmpl`, `pages/**.txt`, `{a,b}.html`)
	assert.NoError(err)
	assert.Len(globs, 3)

	assert.True(globs.Match(`test.tmpl`))
	assert.True(globs.Match(`pages/x/y.txt`))
	assert.True(globs.Match(`nope`, `b.html`))
	assert.False(globs.Match(`c.html`))
	assert.False(globs.Match())

	_, err = CompileGlobs(`[`)
	assert.Error(err)

	var empty GlobSet
	assert.False(empty.Match(`anything`))
}
