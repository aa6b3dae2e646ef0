// Package syntax implements the three-pass compiler: Tokenize inserts
// implicit concatenation markers, ShuntingYard reorders the stream into
// near-postfix form, and Assemble builds the instruction program using
// Thompson's construction. Compile runs all three in sequence.
package syntax

import "github.com/2win9s/Simple-Regex/prog"

// Compile runs the full three-pass pipeline over pattern and returns the
// resulting instruction program.
func Compile(pattern string) (*prog.Program, error) {
	tokenised, err := Tokenize([]byte(pattern))
	if err != nil {
		return nil, err
	}
	processed, err := ShuntingYard(tokenised)
	if err != nil {
		return nil, err
	}
	p, err := Assemble(processed)
	if err != nil {
		return nil, err
	}
	return p, nil
}
