// Package prog defines the instruction program produced by the
// compiler (syntax package) and consumed by the NFA simulator and the
// lazy DFA builder.
//
// Instructions live in a flat arena (Program.Insts); successors are
// arena indices rather than pointers, the Go-idiomatic analogue of the
// original's self-referential op graph (see the "Self-referential
// graphs" design note this module was built against).
package prog

import (
	"fmt"

	"github.com/2win9s/Simple-Regex/internal/utf8set"
)

// Kind tags an instruction's opcode.
type Kind uint8

const (
	Char Kind = iota
	Any
	Class
	Split
	Save
	Match
)

func (k Kind) String() string {
	switch k {
	case Char:
		return "CHAR"
	case Any:
		return "ANY"
	case Class:
		return "CLASS"
	case Split:
		return "SPLIT"
	case Save:
		return "SAVE"
	case Match:
		return "MATCH"
	default:
		return "UNKNOWN"
	}
}

// NoLink marks an instruction successor field as unset.
const NoLink int32 = -1

// Inst is one instruction. Data holds a packed reverse-order code point
// for Char, a class-table index for Class, or a capture slot number for
// Save; it is unused for Any, Split, and Match. LB is the primary
// successor for every kind but Match; RB is the secondary successor,
// meaningful only for Split. Gen is initialised to -1 and not read by
// the simulator, which keeps its own per-instruction generation stamps
// so that the program stays immutable and reusable.
type Inst struct {
	Kind Kind
	Data uint32
	Gen  int64
	LB   int32
	RB   int32
}

func (i Inst) String() string {
	switch i.Kind {
	case Split:
		return fmt.Sprintf("SPLIT -> %d, %d", i.LB, i.RB)
	case Save:
		return fmt.Sprintf("SAVE %d -> %d", i.Data, i.LB)
	case Match:
		return "MATCH"
	case Class:
		return fmt.Sprintf("CLASS #%d -> %d", i.Data, i.LB)
	case Any:
		return fmt.Sprintf("ANY -> %d", i.LB)
	default:
		return fmt.Sprintf("CHAR %#x -> %d", i.Data, i.LB)
	}
}

// Program is a complete compiled instruction arena plus the character
// class table CLASS ops index into.
type Program struct {
	Insts     []Inst
	Start     int32
	Classes   []*utf8set.Set
	SaveSlots int
}

// String renders the program one instruction per line, for debugging —
// this is ambient fmt.Stringer support, not a diagnostic printer
// subsystem.
func (p *Program) String() string {
	s := fmt.Sprintf("program, start=%d, save_slots=%d\n", p.Start, p.SaveSlots)
	for i, inst := range p.Insts {
		s += fmt.Sprintf("%4d: %s\n", i, inst)
	}
	return s
}

// Reduced is the program with every SAVE op elided and links rewritten
// to skip them, used by the lazy DFA cache (which never observes
// captures).
type Reduced struct {
	Insts []Inst
	Start int32
}

// BuildReduced walks p and produces its reduced form: every kept
// instruction retains its Kind/Data, and LB/RB are rewritten to point at
// the nearest non-SAVE descendant.
func BuildReduced(p *Program) *Reduced {
	n := len(p.Insts)
	oldToNew := make([]int32, n)
	kept := make([]int32, 0, n)
	for i, inst := range p.Insts {
		if inst.Kind == Save {
			oldToNew[i] = -1
			continue
		}
		oldToNew[i] = int32(len(kept))
		kept = append(kept, int32(i))
	}

	resolve := func(idx int32) int32 {
		for p.Insts[idx].Kind == Save {
			idx = p.Insts[idx].LB
		}
		return oldToNew[idx]
	}

	insts := make([]Inst, len(kept))
	for newIdx, oldIdx := range kept {
		orig := p.Insts[oldIdx]
		out := Inst{Kind: orig.Kind, Data: orig.Data, Gen: -1, LB: NoLink, RB: NoLink}
		if orig.Kind != Match {
			out.LB = resolve(orig.LB)
		}
		if orig.Kind == Split {
			out.RB = resolve(orig.RB)
		}
		insts[newIdx] = out
	}

	return &Reduced{Insts: insts, Start: resolve(p.Start)}
}
