// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

func TestParseSimpleCommand(t *testing.T) {
	c := qt.New(t)
	prog, err := Parse("echo hello world")
	c.Assert(err, qt.IsNil)
	c.Assert(prog.Commands, qt.HasLen, 1)
	sc := prog.Commands[0].AndOr.First.Commands[0].Cmd.Simple
	c.Assert(sc, qt.Not(qt.IsNil))
	name, ok := sc.Name.Lit()
	c.Assert(ok, qt.IsTrue)
	c.Assert(name, qt.Equals, "echo")
	c.Assert(sc.Args, qt.HasLen, 2)
}

func TestParsePipelineAtLeastOneCommand(t *testing.T) {
	c := qt.New(t)
	prog, err := Parse("a | b | c")
	c.Assert(err, qt.IsNil)
	pipe := prog.Commands[0].AndOr.First
	c.Assert(len(pipe.Commands) >= 1, qt.IsTrue)
	c.Assert(pipe.Commands, qt.HasLen, 3)
}

func TestParseAndOrListHasAtLeastOnePipeline(t *testing.T) {
	c := qt.New(t)
	prog, err := Parse("a && b || c")
	c.Assert(err, qt.IsNil)
	list := prog.Commands[0].AndOr
	c.Assert(list.First, qt.Not(qt.IsNil))
	c.Assert(list.Rest, qt.HasLen, 2)
	c.Assert(list.Rest[0].And, qt.IsTrue)
	c.Assert(list.Rest[1].And, qt.IsFalse)
}

func TestParseAssignmentOnly(t *testing.T) {
	c := qt.New(t)
	prog, err := Parse("X=1")
	c.Assert(err, qt.IsNil)
	sc := prog.Commands[0].AndOr.First.Commands[0].Cmd.Simple
	c.Assert(sc.Name, qt.IsNil)
	c.Assert(sc.Assignments, qt.HasLen, 1)
	c.Assert(sc.Assignments[0].Name, qt.Equals, "X")
}

func TestParseIfElifElse(t *testing.T) {
	c := qt.New(t)
	prog, err := Parse("if a; then b; elif c; then d; else e; fi")
	c.Assert(err, qt.IsNil)
	clause := prog.Commands[0].AndOr.First.Commands[0].Cmd.If
	c.Assert(clause, qt.Not(qt.IsNil))
	c.Assert(clause.Else, qt.Not(qt.IsNil))
	c.Assert(clause.Else.ElseBody, qt.HasLen, 1)
}

func TestParseForWithIn(t *testing.T) {
	c := qt.New(t)
	prog, err := Parse("for i in a b c; do echo $i; done")
	c.Assert(err, qt.IsNil)
	fc := prog.Commands[0].AndOr.First.Commands[0].Cmd.For
	c.Assert(fc.Name, qt.Equals, "i")
	c.Assert(fc.HasIn, qt.IsTrue)
	c.Assert(fc.Words, qt.HasLen, 3)
}

func TestParseWhileUntil(t *testing.T) {
	c := qt.New(t)
	prog, err := Parse("while a; do b; done")
	c.Assert(err, qt.IsNil)
	lc := prog.Commands[0].AndOr.First.Commands[0].Cmd.Loop
	c.Assert(lc.IsUntil, qt.IsFalse)

	prog2, err := Parse("until a; do b; done")
	c.Assert(err, qt.IsNil)
	lc2 := prog2.Commands[0].AndOr.First.Commands[0].Cmd.Loop
	c.Assert(lc2.IsUntil, qt.IsTrue)
}

func TestParseCaseMultiplePatterns(t *testing.T) {
	c := qt.New(t)
	prog, err := Parse("case $x in a|b) echo ab;; *) echo other;; esac")
	c.Assert(err, qt.IsNil)
	cc := prog.Commands[0].AndOr.First.Commands[0].Cmd.Case
	c.Assert(cc.Items, qt.HasLen, 2)
	c.Assert(cc.Items[0].Patterns, qt.HasLen, 2)
}

func TestParseSubshellAndBraceGroup(t *testing.T) {
	c := qt.New(t)
	prog, err := Parse("( a ); { b; }")
	c.Assert(err, qt.IsNil)
	c.Assert(prog.Commands, qt.HasLen, 2)
	c.Assert(prog.Commands[0].AndOr.First.Commands[0].Cmd.Subshell, qt.Not(qt.IsNil))
	c.Assert(prog.Commands[1].AndOr.First.Commands[0].Cmd.BraceGroup, qt.Not(qt.IsNil))
}

func TestParseFunctionDecl(t *testing.T) {
	c := qt.New(t)
	prog, err := Parse("foo() { echo hi; }")
	c.Assert(err, qt.IsNil)
	fd := prog.Commands[0].AndOr.First.Commands[0].Cmd.FuncDecl
	c.Assert(fd, qt.Not(qt.IsNil))
	c.Assert(fd.Name, qt.Equals, "foo")
	c.Assert(fd.Body.BraceGroup, qt.Not(qt.IsNil))
}

func TestParseRedirection(t *testing.T) {
	c := qt.New(t)
	prog, err := Parse("echo a > f.txt")
	c.Assert(err, qt.IsNil)
	sc := prog.Commands[0].AndOr.First.Commands[0].Cmd.Simple
	c.Assert(sc.Redirects, qt.HasLen, 1)
	c.Assert(sc.Redirects[0].Op, qt.Equals, RedirGreat)
	target, _ := sc.Redirects[0].Name.Lit()
	c.Assert(target, qt.Equals, "f.txt")
}

func TestParseNegation(t *testing.T) {
	c := qt.New(t)
	prog, err := Parse("! true")
	c.Assert(err, qt.IsNil)
	c.Assert(prog.Commands[0].AndOr.First.Negation, qt.IsTrue)
}

func TestParseInvalidSyntaxReturnsError(t *testing.T) {
	c := qt.New(t)
	_, err := Parse("if a; then b;")
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestParseEmptyProgram(t *testing.T) {
	c := qt.New(t)
	prog, err := Parse("")
	c.Assert(err, qt.IsNil)
	c.Assert(prog.Commands, qt.HasLen, 0)
}

// TestParseDeterministic asserts that parsing the same source twice
// produces identical ASTs, diffing with cmp when it doesn't.
func TestParseDeterministic(t *testing.T) {
	c := qt.New(t)
	src := `for i in a b c; do if test $i -eq a; then echo "$i" > out.txt; fi; done`
	a, err := Parse(src)
	c.Assert(err, qt.IsNil)
	b, err := Parse(src)
	c.Assert(err, qt.IsNil)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("repeated parse of the same source differs:\n%s", diff)
	}
}
