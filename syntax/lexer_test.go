// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/nicomt/mrsh/token"
)

func allTokens(src string) []token.Token {
	l := NewLexer(src)
	var out []token.Token
	for {
		tk := l.NextToken()
		out = append(out, tk)
		if tk.Kind == token.EOF {
			return out
		}
	}
}

func TestLexerEndsInEOF(t *testing.T) {
	c := qt.New(t)
	for _, src := range []string{
		"", "echo hi", "a | b && c || d", "if true; then echo x; fi",
		"echo 'unterminated", `echo "unterminated`, "for i in a b; do echo $i; done",
	} {
		toks := allTokens(src)
		c.Assert(toks[len(toks)-1].Kind, qt.Equals, token.EOF, qt.Commentf("src=%q", src))
	}
}

func TestLexerOffsetsWithinBounds(t *testing.T) {
	c := qt.New(t)
	src := "echo hello world | wc -l"
	for _, tk := range allTokens(src) {
		c.Assert(tk.Start.Offset <= len(src), qt.IsTrue, qt.Commentf("tok=%v", tk))
		c.Assert(tk.Start.Offset >= 0, qt.IsTrue)
	}
}

func TestLexerOperators(t *testing.T) {
	c := qt.New(t)
	toks := allTokens("a&&b||c;;d<<-e")
	var ops []string
	for _, tk := range toks {
		if tk.Kind == token.Operator {
			ops = append(ops, tk.Value)
		}
	}
	c.Assert(ops, qt.DeepEquals, []string{"&&", "||", ";;", "<<-"})
}

func TestLexerSingleQuotedVerbatim(t *testing.T) {
	c := qt.New(t)
	toks := allTokens(`echo 'a$b c'`)
	c.Assert(toks[1].Kind, qt.Equals, token.Word)
	c.Assert(toks[1].Value, qt.Equals, `'a$b c'`)
}

func TestLexerDoubleQuotedKeepsBackslashN(t *testing.T) {
	c := qt.New(t)
	toks := allTokens(`"line1\nline2"`)
	c.Assert(toks[0].Value, qt.Equals, `"line1\nline2"`)
}

func TestLexerParamExpansionSpan(t *testing.T) {
	c := qt.New(t)
	toks := allTokens(`${X:-def}`)
	c.Assert(toks[0].Kind, qt.Equals, token.Word)
	c.Assert(toks[0].Value, qt.Equals, `${X:-def}`)
}

func TestLexerIoNumber(t *testing.T) {
	c := qt.New(t)
	toks := allTokens("2>&1")
	c.Assert(toks[0].Kind, qt.Equals, token.IoNumber)
	c.Assert(toks[0].Value, qt.Equals, "2")
	c.Assert(toks[1].Kind, qt.Equals, token.Operator)
	c.Assert(toks[1].Value, qt.Equals, ">&")
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	c := qt.New(t)
	l := NewLexer("echo hi")
	peeked := l.PeekToken()
	next := l.NextToken()
	c.Assert(peeked, qt.DeepEquals, next)
}
