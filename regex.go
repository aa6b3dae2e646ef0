// Package regex compiles a small regex dialect over UTF-8 text into an
// instruction program and runs it two ways: a Thompson/PikeVM-style NFA
// simulator when submatch captures are needed, and a lazy-built DFA cache
// for plain membership tests, falling back to the NFA simulator once the
// DFA cache's rebuild circuit breaker trips.
package regex

import (
	"github.com/2win9s/Simple-Regex/dfa/lazy"
	"github.com/2win9s/Simple-Regex/internal/codepoint"
	"github.com/2win9s/Simple-Regex/literal"
	"github.com/2win9s/Simple-Regex/nfa"
	"github.com/2win9s/Simple-Regex/prefilter"
	"github.com/2win9s/Simple-Regex/prog"
	"github.com/2win9s/Simple-Regex/syntax"
)

// Engine is a compiled regular expression. It owns the compiled program,
// its reduced (SAVE-free) copy, the NFA simulator's reusable scratch, and
// the DFA cache's ring buffer. An Engine is not safe for concurrent use;
// callers wishing to match concurrently should compile independently or
// serialise calls.
type Engine struct {
	pattern string
	cfg     Config

	prog    *prog.Program
	reduced *prog.Reduced
	sim     *nfa.Sim
	cache   *lazy.Cache
	pf      *prefilter.Prefilter

	lastMatches [][]int32
}

// Compile parses pattern and builds an Engine with the default resource
// limits. Errors are *SyntaxError or ErrInvalidUTF8.
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig is Compile with an explicit resource-limit Config.
func CompileWithConfig(pattern string, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg}
	if err := e.build(pattern); err != nil {
		return nil, err
	}
	return e, nil
}

// MustCompile is Compile but panics on error, for use with package-level
// pattern constants.
func MustCompile(pattern string) *Engine {
	e, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return e
}

// build runs the compile pipeline and (re)populates every piece of
// derived state an Engine carries: the program, its reduced copy, the NFA
// simulator, the DFA cache, and the literal prefilter.
func (e *Engine) build(pattern string) error {
	p, err := syntax.Compile(pattern)
	if err != nil {
		return convertCompileErr(pattern, err)
	}
	e.pattern = pattern
	e.prog = p
	e.reduced = prog.BuildReduced(p)
	e.sim = nfa.New(p)
	e.cache = lazy.NewWithConfig(e.reduced, p.Classes, lazy.Config{
		Capacity:    e.cfg.DFACacheCapacity,
		OverflowLim: e.cfg.OverflowLimit,
		RebuildLim:  e.cfg.RebuildLimit,
	})
	pf, err := prefilter.Build(literal.RequiredPrefixes(p))
	if err != nil {
		return err
	}
	e.pf = pf
	e.lastMatches = nil
	return nil
}

// convertCompileErr wraps a syntax-package error into this package's own
// error taxonomy, matching spec.md §4.9's two compile error kinds:
// InvalidUtf8 and BadSyntax. syntax.Tokenize reports malformed UTF-8 as a
// *syntax.SyntaxError carrying a fixed "invalid UTF-8 in pattern" message
// rather than a distinct error type, so that message is the dispatch key.
func convertCompileErr(pattern string, err error) error {
	se, ok := err.(*syntax.SyntaxError)
	if !ok {
		return err
	}
	if se.Msg == "invalid UTF-8 in pattern" {
		return ErrInvalidUTF8
	}
	return &SyntaxError{Pattern: pattern, Pos: se.Pos, Msg: se.Msg}
}

// Test reports whether a match starts at offset 0 of text (or, when
// unanchored is set, at any offset), using the lazy DFA cache and falling
// back to the NFA simulator once the cache's rebuild circuit breaker
// trips. Unlike Match, it never populates capture results.
//
// Without a literal prefilter, unanchored search is delegated to the NFA
// simulator directly rather than reproduced inside the DFA cache; with
// one, each candidate offset it finds is tested on the anchored DFA
// path. Matching the "re-seed at every
// step" restart semantics the cache would need requires unioning two
// independently-built successor states at every code point, machinery
// this engine does not build (see DESIGN.md). The anchored path below is
// the one that exercises the ring buffer, FIFO eviction, and the
// overflow/rebuild circuit breaker.
func (e *Engine) Test(text []byte, unanchored bool) bool {
	if unanchored {
		if e.pf != nil {
			at := 0
			for {
				pos, ok := e.pf.Skip(text, at)
				if !ok {
					return false
				}
				if e.testAnchored(text[pos:]) {
					return true
				}
				_, w, err := codepoint.DecodeAt(text, pos)
				if err != nil || w == 0 {
					w = 1
				}
				at = pos + w
				if at > len(text) {
					return false
				}
			}
		}
		matched, _, err := e.sim.Run(text, nfa.Options{Unanchored: true, MatchOne: true})
		return err == nil && matched
	}
	return e.testAnchored(text)
}

// testAnchored walks the DFA cache from its seed state, one code point at
// a time, falling back to a single anchored NFA run over the whole of
// text once the rebuild circuit breaker has tripped.
func (e *Engine) testAnchored(text []byte) bool {
	idx := e.cache.Seed()
	if e.cache.State(idx).IsMatch {
		return true
	}
	i := 0
	for i < len(text) {
		packed, width, err := codepoint.DecodeAt(text, i)
		if err != nil {
			return false
		}
		next, ok := e.cache.Step(idx, packed)
		if !ok {
			if e.cache.RebuildLimitExceeded() {
				matched, _, err := e.sim.Run(text, nfa.Options{MatchOne: true})
				return err == nil && matched
			}
			return false
		}
		idx = next
		if e.cache.State(idx).IsMatch {
			return true
		}
		i += width
	}
	return false
}

// Match runs the NFA simulator over text and reports whether it matched,
// recording every reached match's capture vector for MatchIndices. When
// matchOne is set only the leftmost-first match is recorded; otherwise
// every MATCH-reaching thread contributes a result.
func (e *Engine) Match(text []byte, unanchored bool, matchOne bool) bool {
	matched, results, err := e.sim.Run(text, nfa.Options{Unanchored: unanchored, MatchOne: matchOne})
	if err != nil {
		e.lastMatches = nil
		return false
	}
	e.lastMatches = results
	return matched
}

// MatchIndices returns the capture vectors recorded by the most recent
// Match call, one slice per match, each holding 2*group-count entries
// with 0 meaning unset and a real offset o stored as o+1.
func (e *Engine) MatchIndices() [][]int32 {
	return e.lastMatches
}

// FindAll runs successive unanchored matches over text, each starting
// just after the previous match's end (an empty match advances by one
// code point instead), and returns every match's biased capture vector
// with offsets adjusted back into text's coordinate space.
func (e *Engine) FindAll(text []byte) [][]int32 {
	var all [][]int32
	at := 0
	for at <= len(text) {
		matched, results, err := e.sim.Run(text[at:], nfa.Options{Unanchored: true, MatchOne: true})
		if err != nil || !matched {
			break
		}
		caps := results[0]
		adjusted := make([]int32, len(caps))
		for i, v := range caps {
			if v != 0 {
				adjusted[i] = v + int32(at)
			}
		}
		all = append(all, adjusted)

		if len(adjusted) < 2 || adjusted[1] == 0 || int(adjusted[1])-1 <= at {
			if at >= len(text) {
				break
			}
			_, w, err := codepoint.DecodeAt(text, at)
			if err != nil || w == 0 {
				w = 1
			}
			at += w
			continue
		}
		at = int(adjusted[1]) - 1
	}
	return all
}

// Recompile discards every piece of derived state (program, reduced
// program, NFA scratch, DFA cache, prefilter) and rebuilds it from
// pattern, as if the Engine had been freshly Compiled.
func (e *Engine) Recompile(pattern string) error {
	return e.build(pattern)
}

// FreeMemory releases match scratch: the NFA simulator's thread pools and
// the DFA cache's ring buffer are rebuilt empty. When dropProgram is set,
// the compiled program and reduced program are released too, and the
// Engine must be Recompiled before further use.
func (e *Engine) FreeMemory(dropProgram bool) {
	e.lastMatches = nil
	if dropProgram {
		e.prog = nil
		e.reduced = nil
		e.sim = nil
		e.cache = nil
		e.pf = nil
		e.pattern = ""
		return
	}
	e.sim = nfa.New(e.prog)
	e.cache = lazy.NewWithConfig(e.reduced, e.prog.Classes, lazy.Config{
		Capacity:    e.cfg.DFACacheCapacity,
		OverflowLim: e.cfg.OverflowLimit,
		RebuildLim:  e.cfg.RebuildLimit,
	})
}

// Pattern returns the source pattern this Engine was (last) compiled
// from.
func (e *Engine) Pattern() string {
	return e.pattern
}
