// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/nicomt/mrsh/registry/builtin"
)

func newTestShell(t *testing.T) (*Shell, *strings.Builder, *strings.Builder) {
	t.Helper()
	var out, errOut strings.Builder
	s := NewShell(
		WithEnv(map[string]string{"USER": "u", "HOSTNAME": "h"}),
		WithStdout(func(t string) { out.WriteString(t) }),
		WithStderr(func(t string) { errOut.WriteString(t) }),
	)
	builtin.Register(s.registry)
	return s, &out, &errOut
}

func TestScenarioEchoHelloWorld(t *testing.T) {
	c := qt.New(t)
	s, out, _ := newTestShell(t)
	code := s.Execute("echo hello world")
	c.Assert(code, qt.Equals, 0)
	c.Assert(out.String(), qt.Equals, "hello world\n")
}

func TestScenarioRedirectAndCat(t *testing.T) {
	c := qt.New(t)
	s, out, _ := newTestShell(t)
	code := s.Execute("echo a > f.txt && cat f.txt")
	c.Assert(code, qt.Equals, 0)
	c.Assert(out.String(), qt.Equals, "a\n")
	data, err := s.fs.ReadFile("/home/user/f.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(data, qt.Equals, "a\n")
}

func TestScenarioPipelineWordCount(t *testing.T) {
	c := qt.New(t)
	s, out, _ := newTestShell(t)
	code := s.Execute(`echo "line1\nline2" | wc -l`)
	c.Assert(code, qt.Equals, 0)
	c.Assert(out.String(), qt.Equals, "       1\n")
}

func TestScenarioIfTest(t *testing.T) {
	c := qt.New(t)
	s, out, _ := newTestShell(t)
	code := s.Execute(`X=1; if test $X -eq 1; then echo yes; else echo no; fi`)
	c.Assert(code, qt.Equals, 0)
	c.Assert(out.String(), qt.Equals, "yes\n")
}

func TestScenarioForLoop(t *testing.T) {
	c := qt.New(t)
	s, out, _ := newTestShell(t)
	code := s.Execute("for i in a b c; do echo $i; done")
	c.Assert(code, qt.Equals, 0)
	c.Assert(out.String(), qt.Equals, "a\nb\nc\n")
	v, ok := s.GetEnv("i")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, "c")
}

func TestScenarioMkdirSubshellPwd(t *testing.T) {
	c := qt.New(t)
	s, out, _ := newTestShell(t)
	code := s.Execute("mkdir -p a/b && ( cd a/b && pwd ) && pwd")
	c.Assert(code, qt.Equals, 0)
	c.Assert(out.String(), qt.Equals, "/home/user/a/b\n/home/user\n")
	c.Assert(s.GetCwd(), qt.Equals, "/home/user")
}

func TestShortCircuit(t *testing.T) {
	c := qt.New(t)
	s, out, _ := newTestShell(t)
	s.Execute("true && echo yes")
	c.Assert(out.String(), qt.Equals, "yes\n")

	s2, out2, _ := newTestShell(t)
	s2.Execute("false && echo yes")
	c.Assert(out2.String(), qt.Equals, "")

	s3, out3, _ := newTestShell(t)
	s3.Execute("true || echo no")
	c.Assert(out3.String(), qt.Equals, "")

	s4, out4, _ := newTestShell(t)
	s4.Execute("false || echo yes")
	c.Assert(out4.String(), qt.Equals, "yes\n")
}

func TestNegation(t *testing.T) {
	c := qt.New(t)
	s, _, _ := newTestShell(t)
	c.Assert(s.Execute("! true"), qt.Equals, 1)
	s2, _, _ := newTestShell(t)
	c.Assert(s2.Execute("! false"), qt.Equals, 0)
}

func TestSubshellIsolation(t *testing.T) {
	c := qt.New(t)
	s, _, _ := newTestShell(t)
	s.Execute("X=outer")
	s.Execute("( X=inner; cd / )")
	v, _ := s.GetEnv("X")
	c.Assert(v, qt.Equals, "outer")
	c.Assert(s.GetCwd(), qt.Equals, "/home/user")
}

func TestLastExitCodeUpdatesPerStatement(t *testing.T) {
	c := qt.New(t)
	s, out, _ := newTestShell(t)
	s.Execute("echo $?; false; echo $?")
	c.Assert(out.String(), qt.Equals, "0\n1\n")
}

func TestCommandNotFound(t *testing.T) {
	c := qt.New(t)
	s, _, errOut := newTestShell(t)
	code := s.Execute("nope")
	c.Assert(code, qt.Equals, 127)
	c.Assert(errOut.String(), qt.Equals, "mrsh: nope: command not found\n")
}

func TestAliasSelfReferenceNoInfiniteLoop(t *testing.T) {
	c := qt.New(t)
	s, out, _ := newTestShell(t)
	s.SetAlias("echo", "echo")
	code := s.Execute("echo hi")
	c.Assert(code, qt.Equals, 0)
	c.Assert(out.String(), qt.Equals, "hi\n")
}
