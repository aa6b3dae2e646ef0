// Package utf8map implements a multi-tier UTF-8 code point map from a
// code point to a ring-buffer index of a lazy DFA cache entry, using the
// same tiered layout as internal/utf8set.
//
// Values are plain uint32 indices rather than pointers: the lazy DFA
// cache's entries live in a preallocated ring buffer with stable
// addresses, so a index into that buffer is exactly as good as a pointer
// and avoids this package importing the cache package that would
// otherwise need to import it back (dfa/lazy's State holds a Map of its
// own transitions). Invalid marks "not yet computed", matching the
// design note that a sentinel stand in for "not yet computed" while a
// separate scalar on the owning state carries the wildcard-fallback
// index.
package utf8map

import "github.com/2win9s/Simple-Regex/internal/codepoint"

// Invalid is the sentinel value meaning "no entry computed yet".
const Invalid uint32 = 0xFFFFFFFF

const (
	asciiLen = 256
	latinLen = 2048
	bmpLen   = 65536
	fourLen  = 4096
	fourCnt  = 512
)

// Map is a multi-tier UTF-8 code point to state-index map. The zero
// value is ready to use.
type Map struct {
	ascii []uint32
	latin []uint32
	bmp   []uint32
	other [][]uint32
}

func newFilled(n int) []uint32 {
	t := make([]uint32, n)
	for i := range t {
		t[i] = Invalid
	}
	return t
}

func (m *Map) ensureAscii() []uint32 {
	if m.ascii == nil {
		m.ascii = newFilled(asciiLen)
	}
	return m.ascii
}

func (m *Map) ensureLatin() []uint32 {
	if m.latin == nil {
		m.latin = newFilled(latinLen)
	}
	return m.latin
}

func (m *Map) ensureBMP() []uint32 {
	if m.bmp == nil {
		m.bmp = newFilled(bmpLen)
	}
	return m.bmp
}

func (m *Map) ensureOtherTable(idx uint16) []uint32 {
	if m.other == nil {
		m.other = make([][]uint32, fourCnt)
	}
	if m.other[idx] == nil {
		m.other[idx] = newFilled(fourLen)
	}
	return m.other[idx]
}

// Get returns the state index mapped to the reverse-packed code point
// packed, or Invalid if no entry has been set for it yet.
func (m *Map) Get(packed uint32) uint32 {
	a := byte(packed)
	switch codepoint.Width(a) {
	case 1:
		if m.ascii == nil {
			return Invalid
		}
		return m.ascii[a]
	case 2:
		if m.latin == nil {
			return Invalid
		}
		return m.latin[codepoint.Hash2(a, byte(packed>>8))]
	case 3:
		if m.bmp == nil {
			return Invalid
		}
		return m.bmp[codepoint.Hash3(a, byte(packed>>8), byte(packed>>16))]
	default:
		if m.other == nil {
			return Invalid
		}
		table, slot := codepoint.FourByteIndex(a, byte(packed>>8), byte(packed>>16), byte(packed>>24))
		t := m.other[table]
		if t == nil {
			return Invalid
		}
		return t[slot]
	}
}

// Set records that packed transitions to the ring-buffer index target.
func (m *Map) Set(packed uint32, target uint32) {
	a := byte(packed)
	switch codepoint.Width(a) {
	case 1:
		m.ensureAscii()[a] = target
	case 2:
		m.ensureLatin()[codepoint.Hash2(a, byte(packed>>8))] = target
	case 3:
		m.ensureBMP()[codepoint.Hash3(a, byte(packed>>8), byte(packed>>16))] = target
	default:
		table, slot := codepoint.FourByteIndex(a, byte(packed>>8), byte(packed>>16), byte(packed>>24))
		m.ensureOtherTable(table)[slot] = target
	}
}

// ShrinkToFit drops any lazily allocated 2-, 3- or 4-byte tier holding
// only Invalid entries; the ASCII tier is always kept.
func (m *Map) ShrinkToFit() {
	if m.latin != nil && allInvalid(m.latin) {
		m.latin = nil
	}
	if m.bmp != nil && allInvalid(m.bmp) {
		m.bmp = nil
	}
	if m.other == nil {
		return
	}
	anyLive := false
	for i, t := range m.other {
		if t == nil {
			continue
		}
		if allInvalid(t) {
			m.other[i] = nil
		} else {
			anyLive = true
		}
	}
	if !anyLive {
		m.other = nil
	}
}

func allInvalid(t []uint32) bool {
	for _, v := range t {
		if v != Invalid {
			return false
		}
	}
	return true
}
