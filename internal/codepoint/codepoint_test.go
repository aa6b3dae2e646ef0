package codepoint

import (
	"bytes"
	"testing"
)

func TestWidth(t *testing.T) {
	cases := []struct {
		b    byte
		want int
	}{
		{'a', 1},
		{0x7F, 1},
		{0xC2, 2}, // lead byte of e.g. U+00E9 'é' (0xC3 0xA9) family
		{0xE2, 3}, // lead byte of e.g. U+2603 '☃' (0xE2 0x98 0x83)
		{0xF0, 4}, // lead byte of e.g. U+1F600 '😀' (0xF0 0x9F 0x98 0x80)
	}
	for _, c := range cases {
		if got := Width(c.b); got != c.want {
			t.Errorf("Width(%#x) = %d, want %d", c.b, got, c.want)
		}
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	samples := [][]byte{
		[]byte("a"),
		[]byte("é"),      // 2-byte
		[]byte("☃"),      // 3-byte
		[]byte("😀"),      // 4-byte
	}
	for _, s := range samples {
		packed, n, err := DecodeAt(s, 0)
		if err != nil {
			t.Fatalf("DecodeAt(%q): %v", s, err)
		}
		if n != len(s) {
			t.Fatalf("DecodeAt(%q) width = %d, want %d", s, n, len(s))
		}
		out := Encode(packed)
		if !bytes.Equal(out, s) {
			t.Errorf("Encode(Decode(%q)) = %q, want %q", s, out, s)
		}
	}
}

func TestDecodeAtTruncated(t *testing.T) {
	// A 3-byte lead byte with only one continuation byte available.
	s := []byte{0xE2, 0x98}
	if _, _, err := DecodeAt(s, 0); err == nil {
		t.Fatal("DecodeAt on truncated sequence: want error, got nil")
	}
}

func TestHash2Uniqueness(t *testing.T) {
	seen := make(map[uint16]bool)
	for a := byte(0xC0); a < 0xE0; a++ {
		for b := byte(0x80); b < 0xC0; b++ {
			h := Hash2(a, b)
			if h >= 2048 {
				t.Fatalf("Hash2(%#x,%#x) = %d out of range", a, b, h)
			}
			if seen[h] {
				t.Fatalf("Hash2(%#x,%#x) collided at %d", a, b, h)
			}
			seen[h] = true
		}
	}
}

func TestHash3InRange(t *testing.T) {
	a, b, c := byte(0xE2), byte(0x98), byte(0x83)
	h := Hash3(a, b, c)
	if uint32(h) >= 65536 {
		t.Fatalf("Hash3 = %d out of range", h)
	}
}

func TestFourByteIndexInRange(t *testing.T) {
	table, slot := FourByteIndex(0xF4, 0x8F, 0xBF, 0xBF)
	if table >= 512 {
		t.Fatalf("table index %d out of range", table)
	}
	if slot >= 4096 {
		t.Fatalf("slot index %d out of range", slot)
	}
}

func TestPackRev4MatchesDecodeAt(t *testing.T) {
	s := []byte("😀")
	packed, _, err := DecodeAt(s, 0)
	if err != nil {
		t.Fatal(err)
	}
	manual := PackRev4(s[0], s[1], s[2], s[3])
	if packed != manual {
		t.Errorf("DecodeAt packed = %#x, PackRev4 = %#x", packed, manual)
	}
}
