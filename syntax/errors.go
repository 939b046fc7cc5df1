package syntax

import (
	"fmt"

	"github.com/nicomt/mrsh/token"
)

// LexError reports a malformed token. The lenient Lexer in this
// package never returns one; unterminated quotes and substitutions
// are instead closed implicitly at EOF.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ParseError reports an unexpected token or a premature EOF while
// parsing, per §4.2 and §7.
type ParseError struct {
	Pos      token.Position
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%s: unexpected %s", e.Pos, e.Found)
	}
	return fmt.Sprintf("%s: expected %s, found %s", e.Pos, e.Expected, e.Found)
}
