// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package expand

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/nicomt/mrsh/syntax"
)

type fakeCtx struct {
	env      map[string]string
	exitCode int
	errs     []string
}

func newFakeCtx() *fakeCtx { return &fakeCtx{env: map[string]string{}} }

func (c *fakeCtx) Lookup(name string) (string, bool) {
	v, ok := c.env[name]
	return v, ok
}
func (c *fakeCtx) Assign(name, value string)         { c.env[name] = value }
func (c *fakeCtx) LastExitCode() int                 { return c.exitCode }
func (c *fakeCtx) ShellName() string                 { return "mrsh" }
func (c *fakeCtx) RunCapture(*syntax.Program) string { return "" }
func (c *fakeCtx) ReportError(msg string)            { c.errs = append(c.errs, msg) }

func mustParse(t *testing.T, src string) *syntax.Word {
	t.Helper()
	p := syntax.NewParser(src)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return prog.Commands[0].AndOr.First.Commands[0].Cmd.Simple.Name
}

func TestExpandDefaultAndAssign(t *testing.T) {
	c := qt.New(t)
	ctx := newFakeCtx()

	w := mustParse(t, `${X:-d}`)
	c.Assert(Expand(w, ctx), qt.Equals, "d")

	w = mustParse(t, `${X:=d}`)
	c.Assert(Expand(w, ctx), qt.Equals, "d")
	v, ok := ctx.Lookup("X")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, "d")
}

func TestExpandLength(t *testing.T) {
	c := qt.New(t)
	ctx := newFakeCtx()
	ctx.env["X"] = "hello"
	w := mustParse(t, `${#X}`)
	c.Assert(Expand(w, ctx), qt.Equals, "5")
}

func TestExpandTrim(t *testing.T) {
	c := qt.New(t)
	ctx := newFakeCtx()
	ctx.env["X"] = "foobarbar"
	c.Assert(Expand(mustParse(t, `${X%bar*}`), ctx), qt.Equals, "foobar")
	c.Assert(Expand(mustParse(t, `${X%%bar*}`), ctx), qt.Equals, "foo")
}

func TestEvalArithmetic(t *testing.T) {
	c := qt.New(t)
	ctx := newFakeCtx()
	ctx.env["X"] = "4"
	c.Assert(evalArithmetic("1 + 2 * 3", ctx), qt.Equals, "7")
	c.Assert(evalArithmetic("$X / 2", ctx), qt.Equals, "2")
	c.Assert(evalArithmetic("1 / 0", ctx), qt.Equals, "0")
	c.Assert(evalArithmetic("(1 + 2) * 3", ctx), qt.Equals, "9")
}
