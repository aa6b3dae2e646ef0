package syntax

import (
	"github.com/2win9s/Simple-Regex/internal/codepoint"
	"github.com/2win9s/Simple-Regex/internal/utf8set"
)

// ParseClass parses a character class body starting at s[st] (the byte
// right after the opening '['), consuming up to and including the
// closing ']'. It recognizes exactly three literal ranges — a-z, A-Z,
// 0-9 — and otherwise treats every other member as an individual
// literal code point (ASCII or multi-byte). It returns the populated
// set and the index of the closing ']'.
func ParseClass(s []byte, st int) (*utf8set.Set, int, error) {
	ret := utf8set.New()
	next := s[st]
	for next != ']' {
		switch next {
		case 'a':
			if peekNext(s, st) == '-' && peekNext(s, st+1) == 'z' {
				for ch := byte('a'); ch <= 'z'; ch++ {
					ret.InsertASCII(ch)
				}
				st += 3
			} else {
				ret.InsertASCII(next)
				st++
			}
		case 'A':
			if peekNext(s, st) == '-' && peekNext(s, st+1) == 'Z' {
				for ch := byte('A'); ch <= 'Z'; ch++ {
					ret.InsertASCII(ch)
				}
				st += 3
			} else {
				ret.InsertASCII(next)
				st++
			}
		case '0':
			if peekNext(s, st) == '-' && peekNext(s, st+1) == '9' {
				for ch := byte('0'); ch <= '9'; ch++ {
					ret.InsertASCII(ch)
				}
				st += 3
			} else {
				ret.InsertASCII(next)
				st++
			}
		default:
			n := codepoint.Width(next)
			if st+n >= len(s) {
				return nil, 0, &SyntaxError{Pos: st, Msg: "character class runs past end of pattern"}
			}
			for k := 1; k < n; k++ {
				if s[st+k] == ']' {
					return nil, 0, &SyntaxError{Pos: st, Msg: "unescaped ']' inside multi-byte class member"}
				}
			}
			switch n {
			case 1:
				ret.InsertASCII(next)
			case 2:
				ret.Insert2(next, s[st+1])
			case 3:
				ret.Insert3(next, s[st+1], s[st+2])
			default:
				ret.Insert4(next, s[st+1], s[st+2], s[st+3])
			}
			st += n
		}
		if st >= len(s) {
			return nil, 0, &SyntaxError{Pos: st, Msg: "character class missing closing ']'"}
		}
		next = s[st]
	}
	ret.ShrinkToFit()
	return ret, st, nil
}
