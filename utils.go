package webserver

import (
	"fmt"

	"github.com/gobwas/glob"
)

// A GlobSet is a list of compiled extended glob patterns as described
// at https://pkg.go.dev/github.com/gobwas/glob#Compile
type GlobSet []glob.Glob

func CompileGlobs(patterns ...string) (GlobSet, error) {
	var set = make(GlobSet, 0, len(patterns))

	for _, pattern := range patterns {
		if g, err := glob.Compile(pattern); err == nil {
			set = append(set, g)
		} else {
			return nil, fmt.Errorf("bad glob %q: %v", pattern, err)
		}
	}

	return set, nil
}

// Return whether any of the given names matches any pattern in the set.
func (self GlobSet) Match(names ...string) bool {
	for _, g := range self {
		for _, name := range names {
			if g.Match(name) {
				return true
			}
		}
	}

	return false
}
