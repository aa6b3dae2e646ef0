// Package prefilter builds an Aho-Corasick automaton over a pattern's
// required literal prefixes and uses it to skip ahead to the next
// candidate start offset during unanchored searches, instead of running
// the NFA simulator or DFA cache from every byte position.
package prefilter

import "github.com/coregx/ahocorasick"

// Prefilter skips ahead to the next position a match could possibly
// start at. A nil *Prefilter means no literal anchor was available for
// the pattern; callers fall back to trying every offset.
type Prefilter struct {
	automaton *ahocorasick.Automaton
}

// Build constructs a Prefilter over literals. It returns (nil, nil) —
// not an error — when fewer than two literals are given: a single
// required literal is cheap enough to test directly without paying for
// an automaton, and the caller is expected to fall back to scanning
// every offset (or to its own single-literal search) in that case.
func Build(literals [][]byte) (*Prefilter, error) {
	if len(literals) < 2 {
		return nil, nil
	}
	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern(lit)
	}
	automaton, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &Prefilter{automaton: automaton}, nil
}

// Skip returns the byte offset of the next occurrence of any of the
// prefilter's literals at or after at, or ok=false if none remain in
// haystack.
func (pf *Prefilter) Skip(haystack []byte, at int) (pos int, ok bool) {
	if pf == nil || at >= len(haystack) {
		return 0, false
	}
	m := pf.automaton.Find(haystack, at)
	if m == nil {
		return 0, false
	}
	return m.Start, true
}
