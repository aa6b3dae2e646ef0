// Package nfa implements the Thompson/PikeVM-style simulator that runs a
// compiled instruction program over input text, tracking a capture
// vector per live thread.
package nfa

import (
	"github.com/2win9s/Simple-Regex/internal/codepoint"
	"github.com/2win9s/Simple-Regex/prog"
)

// Thread is one live path through the program: a program counter plus
// the capture vector it carries. Capture slots are biased by +1 so that
// 0 means "not yet set"; a real byte offset o is stored as o+1.
type Thread struct {
	PC   int32
	Caps []int32
}

// Sim runs a compiled program's Thompson construction over input text.
// It owns reusable scratch (thread pools, per-instruction generation
// stamps) and is not safe for concurrent use; a Sim may be reused
// across many Run calls against the same program.
type Sim struct {
	prog   *prog.Program
	gen    int64
	stamps []int64
	cur    []Thread
	nxt    []Thread
}

// New returns a simulator for p.
func New(p *prog.Program) *Sim {
	s := &Sim{prog: p, stamps: make([]int64, len(p.Insts))}
	for i := range s.stamps {
		s.stamps[i] = -1
	}
	return s
}

// newThread resolves the epsilon closure from pc: SPLIT recurses into
// both successors with lb first, giving it priority over rb; SAVE
// clones caps, writes the capture slot, and recurses into its single
// successor; anything else is a real (non-epsilon) step appended to
// pool. Both SPLIT branches share the same caps slice — SAVE is the
// only op that ever writes into it, and it always clones first, so
// sharing here is safe copy-on-write, not aliased mutation.
func (s *Sim) newThread(pool []Thread, pc int32, caps []int32, pos int) []Thread {
	if s.stamps[pc] == s.gen {
		return pool
	}
	s.stamps[pc] = s.gen
	inst := s.prog.Insts[pc]
	switch inst.Kind {
	case prog.Split:
		pool = s.newThread(pool, inst.LB, caps, pos)
		pool = s.newThread(pool, inst.RB, caps, pos)
		return pool
	case prog.Save:
		next := make([]int32, len(caps))
		copy(next, caps)
		next[inst.Data] = int32(pos + 1)
		return s.newThread(pool, inst.LB, next, pos)
	default:
		return append(pool, Thread{PC: pc, Caps: caps})
	}
}

// Options controls a Run.
type Options struct {
	// Unanchored spawns a fresh restart thread at every code point, so
	// the match may begin anywhere in text rather than only at offset 0.
	Unanchored bool
	// MatchOne reports only the leftmost-first match: once a thread
	// reaches MATCH, lower-priority threads are dropped and the run ends
	// when no higher-priority thread is left to extend it, so greedy
	// quantifiers take as much input as they can.
	MatchOne bool
}

// Run executes prog over text and returns whether any thread reached
// MATCH, plus the capture vector of every such thread, in the order
// encountered (with MatchOne, only the single leftmost-first match). An
// error is returned only for malformed UTF-8 in text.
func (s *Sim) Run(text []byte, opts Options) (bool, [][]int32, error) {
	s.gen = 0
	for i := range s.stamps {
		s.stamps[i] = -1
	}
	s.cur = s.cur[:0]
	s.nxt = s.nxt[:0]

	var results [][]int32
	matched := false

	s.cur = s.newThread(s.cur[:0], s.prog.Start, make([]int32, s.prog.SaveSlots), 0)

	i := 0
	for i < len(text) {
		s.gen = int64(i)
		if opts.Unanchored && !(opts.MatchOne && matched) {
			s.cur = s.newThread(s.cur, s.prog.Start, make([]int32, s.prog.SaveSlots), i)
		}

		packed, width, decodeErr := codepoint.DecodeAt(text, i)
		if decodeErr != nil {
			return matched, results, decodeErr
		}

		// Threads queued into nxt sit at offset i+width; stamping with that
		// offset keeps their closure apart from the one just built for cur.
		s.gen = int64(i + width)
		s.nxt = s.nxt[:0]
	threads:
		for _, t := range s.cur {
			inst := s.prog.Insts[t.PC]
			switch inst.Kind {
			case prog.Char:
				if packed == inst.Data {
					s.nxt = s.newThread(s.nxt, inst.LB, t.Caps, i+width)
				}
			case prog.Class:
				if s.prog.Classes[inst.Data].Test(packed) {
					s.nxt = s.newThread(s.nxt, inst.LB, t.Caps, i+width)
				}
			case prog.Any:
				s.nxt = s.newThread(s.nxt, inst.LB, t.Caps, i+width)
			case prog.Match:
				matched = true
				if opts.MatchOne {
					results = [][]int32{t.Caps}
					break threads
				}
				results = append(results, t.Caps)
			}
		}
		s.cur, s.nxt = s.nxt, s.cur
		i += width

		if opts.MatchOne && matched && len(s.cur) == 0 {
			return matched, results, nil
		}
	}

	for _, t := range s.cur {
		if s.prog.Insts[t.PC].Kind == prog.Match {
			matched = true
			if opts.MatchOne {
				results = [][]int32{t.Caps}
				break
			}
			results = append(results, t.Caps)
		}
	}
	return matched, results, nil
}
