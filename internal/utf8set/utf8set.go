// Package utf8set implements a multi-tier UTF-8 code point set: a dense
// 256-bit tier for ASCII that is always present, and three lazily
// allocated tiers for 2-, 3-, and 4-byte code points so that a class
// made of only ASCII members (the overwhelmingly common case) never pays
// for the larger tiers.
//
// This mirrors the original's utf8_bitmap: the same tier sizes (256,
// 2048, 65536, and an array of 512 4096-bit tables for 4-byte code
// points), the same perfect-hash functions from internal/codepoint, and
// the same lazy-allocate-on-first-insert discipline.
package utf8set

import (
	"github.com/2win9s/Simple-Regex/internal/bitset"
	"github.com/2win9s/Simple-Regex/internal/codepoint"
)

const (
	asciiBits = 256
	latinBits = 2048
	bmpBits   = 65536
	fourBits  = 4096
	fourCount = 512
)

// Set is a multi-tier UTF-8 code point set. The zero value is ready to
// use: Insert/Remove/Test all lazily allocate the tiers they need.
type Set struct {
	ascii *bitset.Set
	latin *bitset.Set
	bmp   *bitset.Set
	other []*bitset.Set // lazily allocated, len 0 until first 4-byte insert
}

// New returns an empty Set with its ASCII tier preallocated.
func New() *Set {
	return &Set{ascii: bitset.New(asciiBits)}
}

func (s *Set) ensureAscii() *bitset.Set {
	if s.ascii == nil {
		s.ascii = bitset.New(asciiBits)
	}
	return s.ascii
}

func (s *Set) ensureLatin() *bitset.Set {
	if s.latin == nil {
		s.latin = bitset.New(latinBits)
	}
	return s.latin
}

func (s *Set) ensureBMP() *bitset.Set {
	if s.bmp == nil {
		s.bmp = bitset.New(bmpBits)
	}
	return s.bmp
}

func (s *Set) ensureOtherTable(idx uint16) *bitset.Set {
	if s.other == nil {
		s.other = make([]*bitset.Set, fourCount)
	}
	if s.other[idx] == nil {
		s.other[idx] = bitset.New(fourBits)
	}
	return s.other[idx]
}

// InsertASCII adds the single-byte code point a (a < 0x80).
func (s *Set) InsertASCII(a byte) {
	s.ensureAscii().Set(uint32(a))
}

// Insert2 adds a 2-byte code point given its raw lead and continuation
// bytes.
func (s *Set) Insert2(a, b byte) {
	s.ensureLatin().Set(uint32(hash2(a, b)))
}

// Insert3 adds a 3-byte code point given its three raw bytes.
func (s *Set) Insert3(a, b, c byte) {
	s.ensureBMP().Set(uint32(hash3(a, b, c)))
}

// Insert4 adds a 4-byte code point given its four raw bytes.
func (s *Set) Insert4(a, b, c, d byte) {
	table, slot := fourByteIndex(a, b, c, d)
	s.ensureOtherTable(table).Set(uint32(slot))
}

// Insert adds a code point packed in codepoint.DecodeAt's reverse byte
// order (lead byte in the low 8 bits).
func (s *Set) Insert(packed uint32) {
	a := byte(packed)
	switch width(a) {
	case 1:
		s.InsertASCII(a)
	case 2:
		s.Insert2(a, byte(packed>>8))
	case 3:
		s.Insert3(a, byte(packed>>8), byte(packed>>16))
	default:
		s.Insert4(a, byte(packed>>8), byte(packed>>16), byte(packed>>24))
	}
}

// TestASCII reports membership of a single-byte code point.
func (s *Set) TestASCII(a byte) bool {
	if s.ascii == nil {
		return false
	}
	return s.ascii.Test(uint32(a))
}

// Test2 reports membership of a 2-byte code point.
func (s *Set) Test2(a, b byte) bool {
	if s.latin == nil {
		return false
	}
	return s.latin.Test(uint32(hash2(a, b)))
}

// Test3 reports membership of a 3-byte code point.
func (s *Set) Test3(a, b, c byte) bool {
	if s.bmp == nil {
		return false
	}
	return s.bmp.Test(uint32(hash3(a, b, c)))
}

// Test4 reports membership of a 4-byte code point.
func (s *Set) Test4(a, b, c, d byte) bool {
	if s.other == nil {
		return false
	}
	table, slot := fourByteIndex(a, b, c, d)
	t := s.other[table]
	if t == nil {
		return false
	}
	return t.Test(uint32(slot))
}

// Test reports membership of a reverse-packed code point.
func (s *Set) Test(packed uint32) bool {
	a := byte(packed)
	switch width(a) {
	case 1:
		return s.TestASCII(a)
	case 2:
		return s.Test2(a, byte(packed>>8))
	case 3:
		return s.Test3(a, byte(packed>>8), byte(packed>>16))
	default:
		return s.Test4(a, byte(packed>>8), byte(packed>>16), byte(packed>>24))
	}
}

// Remove clears membership of a reverse-packed code point. Removing a
// code point from an unallocated tier is a no-op, matching the
// original's guarded-pointer remove methods.
func (s *Set) Remove(packed uint32) {
	a := byte(packed)
	switch width(a) {
	case 1:
		if s.ascii != nil {
			s.ascii.Reset(uint32(a))
		}
	case 2:
		if s.latin != nil {
			s.latin.Reset(uint32(hash2(a, byte(packed>>8))))
		}
	case 3:
		if s.bmp != nil {
			s.bmp.Reset(uint32(hash3(a, byte(packed>>8), byte(packed>>16))))
		}
	default:
		if s.other == nil {
			return
		}
		table, slot := fourByteIndex(a, byte(packed>>8), byte(packed>>16), byte(packed>>24))
		if s.other[table] == nil {
			return
		}
		s.other[table].Reset(uint32(slot))
	}
}

// Or merges every code point in other into s, allocating tiers in s as
// needed to match whatever other has populated.
func (s *Set) Or(other *Set) {
	if other.ascii != nil {
		s.ensureAscii().Or(other.ascii)
	}
	if other.latin != nil {
		s.ensureLatin().Or(other.latin)
	}
	if other.bmp != nil {
		s.ensureBMP().Or(other.bmp)
	}
	for i, t := range other.other {
		if t == nil {
			continue
		}
		//nolint:gosec // G115: i bounded by fourCount (512), fits uint16
		s.ensureOtherTable(uint16(i)).Or(t)
	}
}

// And intersects s with other in place: a tier other leaves unallocated
// holds no members, so the matching tier in s is cleared rather than left
// untouched.
func (s *Set) And(other *Set) {
	if other.ascii == nil {
		s.ascii = nil
	} else if s.ascii != nil {
		s.ascii.And(other.ascii)
	}
	if other.latin == nil {
		s.latin = nil
	} else if s.latin != nil {
		s.latin.And(other.latin)
	}
	if other.bmp == nil {
		s.bmp = nil
	} else if s.bmp != nil {
		s.bmp.And(other.bmp)
	}
	if other.other == nil {
		s.other = nil
		return
	}
	if s.other == nil {
		return
	}
	for i, t := range s.other {
		if t == nil {
			continue
		}
		ot := other.other[i]
		if ot == nil {
			s.other[i] = nil
			continue
		}
		t.And(ot)
	}
}

// ShrinkToFit drops any lazily allocated tier that ended up holding no
// members, matching the original's shrink_to_fit.
func (s *Set) ShrinkToFit() {
	if s.latin != nil && s.latin.IsZero() {
		s.latin = nil
	}
	if s.bmp != nil && s.bmp.IsZero() {
		s.bmp = nil
	}
	if s.other == nil {
		return
	}
	allNil := true
	for i, t := range s.other {
		if t != nil && t.IsZero() {
			s.other[i] = nil
		} else if s.other[i] != nil {
			allNil = false
		}
	}
	if allNil {
		s.other = nil
	}
}

func width(a byte) int                       { return codepoint.Width(a) }
func hash2(a, b byte) uint16                 { return codepoint.Hash2(a, b) }
func hash3(a, b, c byte) uint16              { return codepoint.Hash3(a, b, c) }
func fourByteIndex(a, b, c, d byte) (uint16, uint16) { return codepoint.FourByteIndex(a, b, c, d) }
