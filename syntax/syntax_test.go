package syntax

import (
	"testing"

	"github.com/2win9s/Simple-Regex/prog"
)

func TestTokenizeInsertsConcatMarker(t *testing.T) {
	out, err := Tokenize([]byte("ab"))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{'a', concatSentinel, 'b'}
	if string(out) != string(want) {
		t.Fatalf("Tokenize(%q) = %v, want %v", "ab", out, want)
	}
}

func TestTokenizeNoMarkerBeforeQuantifier(t *testing.T) {
	out, err := Tokenize([]byte("a*"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "a*" {
		t.Fatalf("Tokenize(%q) = %q, want %q", "a*", out, "a*")
	}
}

func TestTokenizeTrailingBackslashDropped(t *testing.T) {
	out, err := Tokenize([]byte(`a\`))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "a" {
		t.Fatalf("Tokenize(%q) = %q, want %q", `a\`, out, "a")
	}
}

func TestTokenizeClassCopiedWhole(t *testing.T) {
	out, err := Tokenize([]byte("[a-z]"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "[a-z]" {
		t.Fatalf("Tokenize([a-z]) = %q", out)
	}
}

func TestShuntingYardConcatenation(t *testing.T) {
	tok, _ := Tokenize([]byte("ab"))
	out, err := ShuntingYard(tok)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{'a', 'b', concatSentinel}
	if string(out) != string(want) {
		t.Fatalf("ShuntingYard = %v, want %v", out, want)
	}
}

func TestShuntingYardAlternation(t *testing.T) {
	tok, _ := Tokenize([]byte("a|b"))
	out, err := ShuntingYard(tok)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{'a', 'b', '|'}
	if string(out) != string(want) {
		t.Fatalf("ShuntingYard = %v, want %v", out, want)
	}
}

func TestShuntingYardStrayParen(t *testing.T) {
	if _, err := ShuntingYard([]byte(")")); err == nil {
		t.Fatal("expected error for stray ')'")
	}
}

func TestParseClassRanges(t *testing.T) {
	set, end, err := ParseClass([]byte("a-z0-9]"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if end != 6 {
		t.Fatalf("end = %d, want 6 (index of ']')", end)
	}
	if !set.TestASCII('m') || !set.TestASCII('5') {
		t.Fatal("class should contain both ranges")
	}
	if set.TestASCII('M') {
		t.Fatal("class should not contain uppercase")
	}
}

func TestParseClassEnumeratedMembers(t *testing.T) {
	set, _, err := ParseClass([]byte("xyz]"), 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []byte("xyz") {
		if !set.TestASCII(c) {
			t.Fatalf("class should contain %q", c)
		}
	}
	if set.TestASCII('a') {
		t.Fatal("class should not contain un-enumerated member")
	}
}

func countMatches(insts []prog.Inst) int {
	n := 0
	for _, inst := range insts {
		if inst.Kind == prog.Match {
			n++
		}
	}
	return n
}

func TestCompileLiteral(t *testing.T) {
	p, err := Compile("a")
	if err != nil {
		t.Fatal(err)
	}
	if countMatches(p.Insts) != 1 {
		t.Fatal("program must contain exactly one MATCH")
	}
	if p.Insts[len(p.Insts)-1].Kind != prog.Match {
		t.Fatal("MATCH must be the last instruction")
	}
	if p.Insts[p.Start].Kind != prog.Save || p.Insts[p.Start].Data != 0 {
		t.Fatal("entry op must be SAVE slot 0")
	}
}

func TestCompileConcatenation(t *testing.T) {
	p, err := Compile("ab")
	if err != nil {
		t.Fatal(err)
	}
	if countMatches(p.Insts) != 1 {
		t.Fatal("program must contain exactly one MATCH")
	}
}

func TestCompileAlternation(t *testing.T) {
	p, err := Compile("a|b")
	if err != nil {
		t.Fatal(err)
	}
	foundSplit := false
	for _, inst := range p.Insts {
		if inst.Kind == prog.Split {
			foundSplit = true
		}
	}
	if !foundSplit {
		t.Fatal("alternation must compile to a SPLIT")
	}
}

func TestCompileGroupSlotsNested(t *testing.T) {
	p, err := Compile("(a(b)c)")
	if err != nil {
		t.Fatal(err)
	}
	slots := map[uint32]bool{}
	for _, inst := range p.Insts {
		if inst.Kind == prog.Save {
			slots[inst.Data] = true
		}
	}
	// Outer group: 2/3. Inner group: 4/5. Whole match: 0/1.
	for _, want := range []uint32{0, 1, 2, 3, 4, 5} {
		if !slots[want] {
			t.Fatalf("missing save slot %d; slots = %v", want, slots)
		}
	}
}

func TestCompileQuantifiers(t *testing.T) {
	for _, pattern := range []string{"a?", "a*", "a+", "(ab)+", "a.*b"} {
		p, err := Compile(pattern)
		if err != nil {
			t.Fatalf("Compile(%q): %v", pattern, err)
		}
		if countMatches(p.Insts) != 1 {
			t.Fatalf("Compile(%q): must have exactly one MATCH", pattern)
		}
	}
}

func TestCompileCharacterClass(t *testing.T) {
	p, err := Compile("[a-z0-9]+")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Classes) != 1 {
		t.Fatalf("len(Classes) = %d, want 1", len(p.Classes))
	}
}

func TestCompileUnbalancedParen(t *testing.T) {
	if _, err := Compile("(a"); err == nil {
		t.Fatal("expected error for unbalanced '('")
	}
}

func TestCompileMultiByteLiteral(t *testing.T) {
	p, err := Compile("é")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, inst := range p.Insts {
		if inst.Kind == prog.Char && inst.Data != 0 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a CHAR instruction for the multi-byte literal")
	}
}

func TestBuildReducedFromCompiled(t *testing.T) {
	p, err := Compile("a+")
	if err != nil {
		t.Fatal(err)
	}
	r := prog.BuildReduced(p)
	for _, inst := range r.Insts {
		if inst.Kind == prog.Save {
			t.Fatal("reduced program must elide SAVE ops")
		}
	}
}
