// Package literal extracts the literal code-point runs that must
// appear at the start of any match of a compiled program, one per
// top-level alternative, for use as an Aho-Corasick prefilter.
package literal

import (
	"github.com/2win9s/Simple-Regex/internal/codepoint"
	"github.com/2win9s/Simple-Regex/prog"
)

// RequiredPrefixes walks p's entry fragment and returns the literal
// byte runs that must appear at the start of any match, one per
// top-level alternative, chased through concatenated literals all the
// way to MATCH (e.g. "(ab|cd|ef)foo" yields "abfoo", "cdfoo", "effoo").
// It returns nil when no such finite, exact literal set exists — for
// example when the pattern can start with '.', a character class, or
// a '*' or '+' loop. An optional atom ('?') does not by itself give nil:
// "a?b" yields "ab" and "b".
func RequiredPrefixes(p *prog.Program) [][]byte {
	var out [][]byte
	exact := walk(p, p.Start, nil, &out, map[int32]bool{})
	if !exact || len(out) == 0 {
		return nil
	}
	return out
}

// walk follows pc, appending the bytes of every CHAR it is forced to
// consume onto prefix. It reports false (and still flushes whatever
// prefix it collected) as soon as it hits something that is not a
// guaranteed single-code-point literal: ANY, CLASS, or revisiting an op
// already on this path (a quantifier loop, which can match zero times).
// cloneSeen copies seen so that SPLIT's two branches track visited ops
// independently: without this, a map shared between siblings would let
// the first-walked branch's visited set leak into the second, making
// every op the branches rejoin at (their shared group-close SAVE, the
// trailing literal run, the final MATCH) look like a revisit to whichever
// branch runs second.
func cloneSeen(seen map[int32]bool) map[int32]bool {
	out := make(map[int32]bool, len(seen))
	for k, v := range seen {
		out[k] = v
	}
	return out
}

func walk(p *prog.Program, pc int32, prefix []byte, out *[][]byte, seen map[int32]bool) bool {
	if seen[pc] {
		*out = append(*out, prefix)
		return false
	}
	seen[pc] = true

	inst := p.Insts[pc]
	switch inst.Kind {
	case prog.Save:
		return walk(p, inst.LB, prefix, out, seen)
	case prog.Split:
		ok1 := walk(p, inst.LB, append([]byte{}, prefix...), out, cloneSeen(seen))
		ok2 := walk(p, inst.RB, append([]byte{}, prefix...), out, cloneSeen(seen))
		return ok1 && ok2
	case prog.Char:
		next := append(append([]byte{}, prefix...), codepoint.Encode(inst.Data)...)
		return walk(p, inst.LB, next, out, seen)
	case prog.Match:
		*out = append(*out, prefix)
		return true
	default: // Any, Class
		*out = append(*out, prefix)
		return false
	}
}
