package utf8set

import (
	"github.com/2win9s/Simple-Regex/internal/codepoint"
	"testing"
)

func packOf(t *testing.T, s string) uint32 {
	t.Helper()
	packed, _, err := codepoint.DecodeAt([]byte(s), 0)
	if err != nil {
		t.Fatalf("DecodeAt(%q): %v", s, err)
	}
	return packed
}

func TestInsertTestRemoveASCII(t *testing.T) {
	s := New()
	p := packOf(t, "x")
	if s.Test(p) {
		t.Fatal("fresh set should not contain 'x'")
	}
	s.Insert(p)
	if !s.Test(p) {
		t.Fatal("set should contain 'x' after Insert")
	}
	s.Remove(p)
	if s.Test(p) {
		t.Fatal("set should not contain 'x' after Remove")
	}
}

func TestInsertTestMultiByte(t *testing.T) {
	samples := []string{"é", "☃", "😀"}
	s := New()
	for _, sample := range samples {
		s.Insert(packOf(t, sample))
	}
	for _, sample := range samples {
		if !s.Test(packOf(t, sample)) {
			t.Errorf("set should contain %q", sample)
		}
	}
	// A code point never inserted should be absent.
	if s.Test(packOf(t, "€")) {
		t.Error("set should not contain un-inserted code point")
	}
}

func TestRemoveOnUnallocatedTierIsNoop(t *testing.T) {
	s := New()
	// No 2/3/4-byte tier has ever been touched; Remove must not panic.
	s.Remove(packOf(t, "é"))
	s.Remove(packOf(t, "☃"))
	s.Remove(packOf(t, "😀"))
}

func TestOr(t *testing.T) {
	a := New()
	b := New()
	a.Insert(packOf(t, "a"))
	b.Insert(packOf(t, "é"))
	a.Or(b)
	if !a.Test(packOf(t, "a")) || !a.Test(packOf(t, "é")) {
		t.Fatal("Or should union both sets' members")
	}
}

func TestShrinkToFitDropsEmptyTiers(t *testing.T) {
	s := New()
	s.Insert(packOf(t, "é"))
	s.Remove(packOf(t, "é"))
	s.ShrinkToFit()
	if s.latin != nil {
		t.Error("ShrinkToFit should drop an emptied latin tier")
	}
}

func TestShrinkToFitKeepsPopulatedTiers(t *testing.T) {
	s := New()
	s.Insert(packOf(t, "é"))
	s.ShrinkToFit()
	if s.latin == nil {
		t.Fatal("ShrinkToFit should not drop a populated tier")
	}
	if !s.Test(packOf(t, "é")) {
		t.Error("membership should survive ShrinkToFit")
	}
}
