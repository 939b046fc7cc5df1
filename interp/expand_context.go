// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"strings"

	"github.com/nicomt/mrsh/syntax"
)

// Shell implements expand.Context, so the Evaluator can hand itself
// straight to the Word Engine.

func (s *Shell) Lookup(name string) (string, bool) {
	v, ok := s.env[name]
	return v, ok
}

func (s *Shell) Assign(name, value string) { s.env[name] = value }

func (s *Shell) LastExitCode() int { return s.lastExitCode }

func (s *Shell) ShellName() string { return s.programName }

// RunCapture executes prog with stdout captured to a string (§4.3's
// command-substitution rule), temporarily rebinding the stdout
// callback and restoring it unconditionally on return.
func (s *Shell) RunCapture(prog *syntax.Program) string {
	old := s.stdoutFn
	var buf strings.Builder
	s.stdoutFn = func(t string) { buf.WriteString(t) }
	defer func() { s.stdoutFn = old }()
	s.evalProgram(prog)
	return buf.String()
}

// ReportError surfaces an ExpansionError (§7) on stderr.
func (s *Shell) ReportError(message string) {
	s.stderrFn(message + "\n")
}
