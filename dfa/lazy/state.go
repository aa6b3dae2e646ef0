// Package lazy implements the lazy-built DFA cache: states are NFA op
// index sets (post epsilon-closure over the reduced, SAVE-free program),
// determinized on demand and cached in a fixed-capacity ring buffer with
// FIFO eviction.
package lazy

import (
	"github.com/2win9s/Simple-Regex/internal/conv"
	"github.com/2win9s/Simple-Regex/internal/sparse"
	"github.com/2win9s/Simple-Regex/internal/utf8map"
	"github.com/2win9s/Simple-Regex/internal/utf8set"
	"github.com/2win9s/Simple-Regex/prog"
)

// noNext is the sentinel ring-buffer index meaning "no transition
// computed for this code point yet" or "no wildcard successor". It
// mirrors utf8map.Invalid but is spelled out here since WildcardNext is
// a plain scalar, not a Map entry.
const noNext = utf8map.Invalid

// State is one DFA state: the set of reduced-program op indices reached
// by epsilon closure, the union of code points any CHAR/CLASS op in that
// set accepts directly (Filter), whether any live op is ANY
// (HasWildcard), and whether the closure reached the reduced program's
// MATCH op (IsMatch). Next holds computed transitions keyed by code
// point; WildcardNext is the separate scalar the design note calls for
// so a single fallback successor serves every code point outside Filter
// without a slot in the map itself.
type State struct {
	Set          *sparse.HybridSet
	Filter       *utf8set.Set
	HasWildcard  bool
	IsMatch      bool
	Next         utf8map.Map
	WildcardNext uint32
}

func newState(numOps int) *State {
	return &State{
		Set:          sparse.NewHybridSet(conv.IntToUint32(numOps)),
		Filter:       utf8set.New(),
		WildcardNext: noNext,
	}
}

// closure walks the epsilon closure of the reduced program starting at
// pc, recording every visited op index into set (SPLIT included, purely
// as a DFS-visited marker) and folding CHAR/CLASS acceptance into
// filter. It reports whether the closure touched an ANY op or the
// program's MATCH op.
func closure(reduced *prog.Reduced, classes []*utf8set.Set, pc int32, set *sparse.HybridSet, filter *utf8set.Set) (hasWildcard, isMatch bool) {
	if set.Contains(uint32(pc)) {
		return false, false
	}
	set.Insert(uint32(pc))

	inst := reduced.Insts[pc]
	switch inst.Kind {
	case prog.Split:
		w1, m1 := closure(reduced, classes, inst.LB, set, filter)
		w2, m2 := closure(reduced, classes, inst.RB, set, filter)
		return w1 || w2, m1 || m2
	case prog.Char:
		filter.Insert(inst.Data)
		return false, false
	case prog.Class:
		filter.Or(classes[inst.Data])
		return false, false
	case prog.Any:
		return true, false
	case prog.Match:
		return false, true
	default:
		return false, false
	}
}
