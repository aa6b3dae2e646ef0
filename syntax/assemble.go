package syntax

import (
	"fmt"

	"github.com/2win9s/Simple-Regex/internal/codepoint"
	"github.com/2win9s/Simple-Regex/internal/conv"
	"github.com/2win9s/Simple-Regex/internal/utf8set"
	"github.com/2win9s/Simple-Regex/prog"
)

// Assemble is the third compiler pass: it walks the near-postfix stream
// ShuntingYard produced and builds an instruction program using
// Thompson's construction. Every partially built subexpression is a
// fragment: an entry instruction plus a dangling out-list of
// (instruction, field) locations still waiting to be patched to
// whatever comes next.
//
// The dangling list itself is threaded through the very fields it will
// eventually hold: an unpatched LB/RB starts at prog.NoLink (list
// terminator) or, once linked into a longer list, holds the encoded
// address of the next dangling field. This is the arena-index analogue
// of the original's pointer-to-pointer patch lists — no separate list
// allocation, just integers reused for two purposes at two different
// points in the fragment's life.
type frag struct {
	entry      int32
	head, tail int32 // encoded field pointers; see patchPtr
}

// patchPtr encodes a dangling reference to instruction inst's LB (which
// == 0) or RB (which == 1) field.
func patchPtr(inst int32, which uint8) int32 {
	return inst*2 + int32(which)
}

func decodePtr(p int32) (inst int32, which uint8) {
	return p / 2, uint8(p % 2)
}

func getField(insts []prog.Inst, p int32) int32 {
	inst, which := decodePtr(p)
	if which == 0 {
		return insts[inst].LB
	}
	return insts[inst].RB
}

func setField(insts []prog.Inst, p int32, val int32) {
	inst, which := decodePtr(p)
	if which == 0 {
		insts[inst].LB = val
	} else {
		insts[inst].RB = val
	}
}

// patch walks the dangling list starting at head, writing target into
// every field in it.
func patch(insts []prog.Inst, head int32, target int32) {
	cur := head
	for cur != prog.NoLink {
		next := getField(insts, cur)
		setField(insts, cur, target)
		cur = next
	}
}

// splice concatenates list b onto the end of list a in O(1) by writing
// b's head into a's tail field, and returns the new (head, tail) pair.
func splice(insts []prog.Inst, aHead, aTail, bHead, bTail int32) (head, tail int32) {
	setField(insts, aTail, bHead)
	return aHead, bTail
}

// Assemble compiles a near-postfix instruction stream (as produced by
// ShuntingYard) into a Program.
func Assemble(processed []byte) (*prog.Program, error) {
	insts := make([]prog.Inst, 0, len(processed)+4)
	var classes []*utf8set.Set

	emit := func(kind prog.Kind, data uint32) int32 {
		insts = append(insts, prog.Inst{Kind: kind, Data: data, Gen: -1, LB: prog.NoLink, RB: prog.NoLink})
		return int32(len(insts) - 1)
	}

	var stack []frag
	var groupSlots []int // stack of open-slots awaiting their matching close
	nextSlot := 2
	classIdx := uint32(0)

	// initial SAVE(0): the whole match's start position.
	saveStart := emit(prog.Save, 0)
	stack = append(stack, frag{entry: saveStart, head: patchPtr(saveStart, 0), tail: patchPtr(saveStart, 0)})

	compileChar := func(i *int) error {
		if processed[*i] == '.' {
			idx := emit(prog.Any, 0)
			stack = append(stack, frag{entry: idx, head: patchPtr(idx, 0), tail: patchPtr(idx, 0)})
			return nil
		}
		packed, n, err := codepoint.DecodeAt(processed, *i)
		if err != nil {
			return &SyntaxError{Pos: *i, Msg: "invalid UTF-8 in pattern"}
		}
		idx := emit(prog.Char, packed)
		*i += n - 1
		stack = append(stack, frag{entry: idx, head: patchPtr(idx, 0), tail: patchPtr(idx, 0)})
		return nil
	}

	for i := 0; i < len(processed); i++ {
		switch c := processed[i]; c {
		case '\\':
			if i+1 < len(processed) {
				i++
				if err := compileChar(&i); err != nil {
					return nil, err
				}
			}
		case '(':
			if len(stack) == 0 {
				return nil, &SyntaxError{Pos: i, Msg: "internal: empty fragment stack at '('"}
			}
			top := &stack[len(stack)-1]
			slot := nextSlot
			nextSlot += 2
			groupSlots = append(groupSlots, slot)
			openIdx := emit(prog.Save, conv.IntToUint32(slot))
			patch(insts, top.head, openIdx)
			top.head, top.tail = patchPtr(openIdx, 0), patchPtr(openIdx, 0)
		case ')':
			if len(stack) == 0 || len(groupSlots) == 0 {
				return nil, &SyntaxError{Pos: i, Msg: "stray ')' with no matching '('"}
			}
			top := &stack[len(stack)-1]
			slot := groupSlots[len(groupSlots)-1]
			groupSlots = groupSlots[:len(groupSlots)-1]
			closeIdx := emit(prog.Save, conv.IntToUint32(slot+1))
			patch(insts, top.head, closeIdx)
			top.head, top.tail = patchPtr(closeIdx, 0), patchPtr(closeIdx, 0)
		case '[':
			i++
			set, end, err := ParseClass(processed, i)
			if err != nil {
				return nil, err
			}
			i = end
			classes = append(classes, set)
			idx := emit(prog.Class, classIdx)
			classIdx++
			stack = append(stack, frag{entry: idx, head: patchPtr(idx, 0), tail: patchPtr(idx, 0)})
		case ']':
			return nil, &SyntaxError{Pos: i, Msg: "stray ']' with no matching '['"}
		case '?':
			if len(stack) == 0 {
				return nil, &SyntaxError{Pos: i, Msg: "'?' with no preceding atom"}
			}
			top := &stack[len(stack)-1]
			splitIdx := emit(prog.Split, 0)
			insts[splitIdx].LB = top.entry
			h, t := splice(insts, top.head, top.tail, patchPtr(splitIdx, 1), patchPtr(splitIdx, 1))
			top.head, top.tail = h, t
			top.entry = splitIdx
		case '*':
			if len(stack) == 0 {
				return nil, &SyntaxError{Pos: i, Msg: "'*' with no preceding atom"}
			}
			top := &stack[len(stack)-1]
			splitIdx := emit(prog.Split, 0)
			insts[splitIdx].LB = top.entry
			patch(insts, top.head, splitIdx)
			top.entry = splitIdx
			top.head, top.tail = patchPtr(splitIdx, 1), patchPtr(splitIdx, 1)
		case '+':
			if len(stack) == 0 {
				return nil, &SyntaxError{Pos: i, Msg: "'+' with no preceding atom"}
			}
			top := &stack[len(stack)-1]
			splitIdx := emit(prog.Split, 0)
			insts[splitIdx].LB = top.entry
			patch(insts, top.head, splitIdx)
			top.head, top.tail = patchPtr(splitIdx, 1), patchPtr(splitIdx, 1)
		case concatSentinel:
			if len(stack) < 2 {
				return nil, &SyntaxError{Pos: i, Msg: "internal: concatenation with fewer than two fragments"}
			}
			n := len(stack)
			f2 := stack[n-1]
			f1 := &stack[n-2]
			patch(insts, f1.head, f2.entry)
			f1.head, f1.tail = f2.head, f2.tail
			stack = stack[:n-1]
		case '|':
			if len(stack) < 2 {
				return nil, &SyntaxError{Pos: i, Msg: "'|' with fewer than two operands"}
			}
			n := len(stack)
			f2 := stack[n-1]
			f1 := &stack[n-2]
			splitIdx := emit(prog.Split, 0)
			insts[splitIdx].LB = f1.entry
			insts[splitIdx].RB = f2.entry
			h, t := splice(insts, f1.head, f1.tail, f2.head, f2.tail)
			f1.head, f1.tail = h, t
			f1.entry = splitIdx
			stack = stack[:n-1]
		default:
			if err := compileChar(&i); err != nil {
				return nil, err
			}
		}
	}

	if len(stack) != 2 {
		return nil, &SyntaxError{Msg: fmt.Sprintf("unbalanced pattern: %d fragments remain after compiling, want 2", len(stack))}
	}

	endSave := emit(prog.Save, 1)
	patch(insts, stack[0].head, stack[1].entry)
	patch(insts, stack[1].head, endSave)
	matchIdx := emit(prog.Match, 0)
	insts[endSave].LB = matchIdx

	return &prog.Program{
		Insts:     insts,
		Start:     stack[0].entry,
		Classes:   classes,
		SaveSlots: nextSlot,
	}, nil
}
