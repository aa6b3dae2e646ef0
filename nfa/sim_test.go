package nfa

import (
	"testing"

	"github.com/2win9s/Simple-Regex/syntax"
)

func compileOrFatal(t *testing.T, pattern string) *Sim {
	t.Helper()
	p, err := syntax.Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return New(p)
}

func TestRunLiteralConcatenation(t *testing.T) {
	s := compileOrFatal(t, "a+")
	matched, results, err := s.Run([]byte("aa"), Options{MatchOne: true})
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Fatal("expected match")
	}
	caps := results[0]
	// group 0 spans the whole "aa".
	if caps[0] != 1 || caps[1] != 3 {
		t.Fatalf("group 0 = [%d,%d), want [0,2) biased by 1 -> [1,3)", caps[0], caps[1])
	}
}

func TestRunAnchoredNoMatch(t *testing.T) {
	s := compileOrFatal(t, "f.*l ")
	matched, _, err := s.Run([]byte("All the world's a stage"), Options{MatchOne: true})
	if err != nil {
		t.Fatal(err)
	}
	if matched {
		t.Fatal("anchored search over non-prefix-matching text must not match")
	}
}

func TestRunUnanchoredFindsSubstring(t *testing.T) {
	s := compileOrFatal(t, "f.*l ")
	text := "If music be the food of love, play on till the end"
	matched, _, err := s.Run([]byte(text), Options{Unanchored: true, MatchOne: true})
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Fatal("expected unanchored match")
	}
}

func TestRunAlternationLeftmostFirst(t *testing.T) {
	s := compileOrFatal(t, "(ab|a)(bc|c)")
	matched, results, err := s.Run([]byte("abc"), Options{MatchOne: true})
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Fatal("expected match")
	}
	caps := results[0]
	// group1 = "ab" (slots 2,3), group2 = "c" (slots 4,5), biased by +1.
	if caps[2] != 1 || caps[3] != 3 {
		t.Fatalf("group1 = [%d,%d), want \"ab\"", caps[2]-1, caps[3]-1)
	}
	if caps[4] != 3 || caps[5] != 4 {
		t.Fatalf("group2 = [%d,%d), want \"c\"", caps[4]-1, caps[5]-1)
	}
}

func TestRunCharacterClassGreedy(t *testing.T) {
	s := compileOrFatal(t, "[a-z0-9]+")
	matched, results, err := s.Run([]byte("Hello42World"), Options{Unanchored: true, MatchOne: true})
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Fatal("expected match")
	}
	caps := results[0]
	got := "Hello42World"[caps[0]-1 : caps[1]-1]
	if got != "ello42" {
		t.Fatalf("matched %q, want %q", got, "ello42")
	}
}

func TestRunMultiByteCodePoint(t *testing.T) {
	s := compileOrFatal(t, "(a(b))(c|X)(p|[Xd])")
	text := "bbcabXcacXbacbcababXXababafdbab"
	matched, results, err := s.Run([]byte(text), Options{Unanchored: true, MatchOne: true})
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Fatal("expected match")
	}
	caps := results[0]
	whole := text[caps[0]-1 : caps[1]-1]
	if len(whole) == 0 {
		t.Fatal("expected non-empty overall match")
	}
}

func TestRunInvalidUTF8Errors(t *testing.T) {
	s := compileOrFatal(t, ".")
	_, _, err := s.Run([]byte{0xC0}, Options{})
	if err == nil {
		t.Fatal("expected error for truncated multi-byte sequence")
	}
}

func TestRunDrainsMatchAtEndOfInput(t *testing.T) {
	s := compileOrFatal(t, "a*")
	matched, _, err := s.Run([]byte("aaa"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Fatal("a* over \"aaa\" must match via post-loop MATCH drain")
	}
}
