package syntax

import "github.com/2win9s/Simple-Regex/internal/codepoint"

// precedence ranks the operators this grammar recognizes; every
// operator is left-associative, and a value is only ever compared
// against another operator byte or against '(' handled as a special
// case by popStackPrecedence.
func precedence(c byte) int {
	switch c {
	case '\\':
		return 100
	case '(':
		return 90
	case '[':
		return 80
	case '?', '*', '+':
		return 70
	case concatSentinel:
		return 60
	case '|':
		return 50
	default:
		panic("syntax: precedence called with non-operator byte")
	}
}

// popStackPrecedence implements the operator-stack discipline of the
// second compiler pass: pop operators of greater-or-equal precedence
// into the output before pushing c, so the result is the postfix-ish
// stream the assembler consumes. Every operator here is left
// associative, so strictly-greater precedence (or a '(' boundary) is
// what stops the pop.
func popStackPrecedence(c byte, opStack *[]byte, out *[]byte) {
	for {
		n := len(*opStack)
		if n == 0 {
			*opStack = append(*opStack, c)
			return
		}
		top := (*opStack)[n-1]
		if precedence(c) > precedence(top) || top == '(' {
			*opStack = append(*opStack, c)
			return
		}
		*out = append(*out, top)
		*opStack = (*opStack)[:n-1]
	}
}

// ShuntingYard is the second compiler pass: it reorders the tokenised
// stream (atoms, '(' / ')' grouping, the five operators '?' '*' '+'
// concatSentinel '|', and whole bracketed classes copied intact) into
// the near-postfix form the assembler walks directly. It is not
// textbook shunting-yard because grouping parens are copied straight
// into the output alongside being pushed onto the operator stack — the
// assembler relies on seeing '(' and ')' in the output stream itself to
// know where capture groups begin and end.
func ShuntingYard(tokenised []byte) ([]byte, error) {
	var opStack []byte
	out := make([]byte, 0, len(tokenised))

	for i := 0; i < len(tokenised); i++ {
		c := tokenised[i]
		switch c {
		case '\\':
			out = append(out, c)
			i++
			if i >= len(tokenised) {
				return nil, &SyntaxError{Pos: i, Msg: "trailing backslash"}
			}
			out = append(out, tokenised[i])
		case '(':
			out = append(out, c)
			opStack = append(opStack, c)
		case ')':
			for {
				n := len(opStack)
				if n == 0 {
					return nil, &SyntaxError{Pos: i, Msg: "stray ')' with no matching '('"}
				}
				top := opStack[n-1]
				opStack = opStack[:n-1]
				if top == '(' {
					break
				}
				out = append(out, top)
			}
			out = append(out, c)
		case '[':
			for tokenised[i] != ']' {
				out = append(out, tokenised[i])
				i++
				if i == len(tokenised) {
					return nil, &SyntaxError{Pos: i, Msg: "stray '[' with no matching ']'"}
				}
			}
			out = append(out, tokenised[i])
		case ']':
			return nil, &SyntaxError{Pos: i, Msg: "stray ']' with no matching '['"}
		case '?', '*', '+', concatSentinel, '|':
			popStackPrecedence(c, &opStack, &out)
		default:
			n := codepoint.Width(c)
			if i+n > len(tokenised) {
				return nil, &SyntaxError{Pos: i, Msg: "invalid UTF-8 in pattern"}
			}
			out = append(out, tokenised[i:i+n]...)
			i += n - 1
		}
	}
	for n := len(opStack); n > 0; n-- {
		if opStack[n-1] == '(' {
			return nil, &SyntaxError{Pos: len(tokenised), Msg: "unterminated group: '(' with no matching ')'"}
		}
		out = append(out, opStack[n-1])
	}
	return out, nil
}
