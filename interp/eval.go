// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import (
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nicomt/mrsh/expand"
	"github.com/nicomt/mrsh/pattern"
	"github.com/nicomt/mrsh/registry"
	"github.com/nicomt/mrsh/syntax"
)

func (s *Shell) evalProgram(prog *syntax.Program) int {
	code := 0
	for _, cl := range prog.Commands {
		if !s.running {
			break
		}
		code = s.evalCommandList(cl)
	}
	return code
}

// evalBody runs a compound command's statement list in the current
// state, stopping early once running is cleared.
func (s *Shell) evalBody(list []*syntax.CommandList) int {
	code := 0
	for _, cl := range list {
		if !s.running {
			break
		}
		code = s.evalCommandList(cl)
	}
	return code
}

func (s *Shell) evalCommandList(cl *syntax.CommandList) int {
	// Async is parsed and carried but always executed synchronously
	// (§4.4: documented non-goal).
	code := s.evalAndOrList(cl.AndOr)
	s.lastExitCode = code
	return code
}

func (s *Shell) evalAndOrList(list *syntax.AndOrList) int {
	code := s.evalPipeline(list.First)
	for _, item := range list.Rest {
		if !s.running {
			break
		}
		if item.And && code != 0 {
			continue
		}
		if !item.And && code == 0 {
			continue
		}
		code = s.evalPipeline(item.Pipeline)
	}
	return code
}

func (s *Shell) evalPipeline(p *syntax.Pipeline) int {
	var code int
	if len(p.Commands) == 1 {
		code = s.evalCommand(p.Commands[0].Cmd)
	} else {
		current := s.pipeBuffer
		for i, pc := range p.Commands {
			s.pipeBuffer = current
			isLast := i == len(p.Commands)-1
			oldStdout := s.stdoutFn
			var buf strings.Builder
			if !isLast {
				s.stdoutFn = func(t string) { buf.WriteString(t) }
			}
			code = s.evalCommand(pc.Cmd)
			if !isLast {
				s.stdoutFn = oldStdout
				current = buf.String()
			}
			if !s.running {
				break
			}
		}
	}
	if p.Negation {
		if code == 0 {
			code = 1
		} else {
			code = 0
		}
	}
	return code
}

func (s *Shell) evalCommand(cmd *syntax.Command) int {
	switch {
	case cmd.Simple != nil:
		return s.evalSimple(cmd.Simple)
	case cmd.BraceGroup != nil:
		return s.evalBody(cmd.BraceGroup.Body)
	case cmd.Subshell != nil:
		return s.evalSubshell(cmd.Subshell)
	case cmd.If != nil:
		return s.evalIf(cmd.If)
	case cmd.For != nil:
		return s.evalFor(cmd.For)
	case cmd.Loop != nil:
		return s.evalLoop(cmd.Loop)
	case cmd.Case != nil:
		return s.evalCase(cmd.Case)
	case cmd.FuncDecl != nil:
		s.functions[cmd.FuncDecl.Name] = cmd.FuncDecl
		return 0
	}
	return 0
}

func (s *Shell) evalSubshell(sub *syntax.Subshell) int {
	savedEnv := cloneEnv(s.env)
	savedCwd := s.cwd
	s.trace("subshell-enter", logrus.Fields{"cwd": s.cwd})
	code := s.evalBody(sub.Body)
	s.trace("subshell-exit", logrus.Fields{"cwd": s.cwd, "exit": code})
	s.env = savedEnv
	s.cwd = savedCwd
	return code
}

func (s *Shell) evalIf(clause *syntax.IfClause) int {
	if s.evalBody(clause.Condition) == 0 {
		return s.evalBody(clause.Body)
	}
	if clause.Else != nil {
		return s.evalIf(clause.Else)
	}
	return s.evalBody(clause.ElseBody)
}

func (s *Shell) evalFor(fc *syntax.ForClause) int {
	if !fc.HasIn {
		// Whether a bare `for NAME; do` iterates positional parameters
		// is left unspecified; positional parameters are out of scope
		// here, so it runs zero times.
		return 0
	}
	code := 0
	for _, w := range fc.Words {
		if !s.running {
			break
		}
		s.env[fc.Name] = expand.Expand(w, s)
		code = s.evalBody(fc.Body)
	}
	return code
}

func (s *Shell) evalLoop(lc *syntax.LoopClause) int {
	code := 0
	for s.running {
		condCode := s.evalBody(lc.Condition)
		if lc.IsUntil {
			if condCode == 0 {
				break
			}
		} else if condCode != 0 {
			break
		}
		code = s.evalBody(lc.Body)
	}
	return code
}

func (s *Shell) evalCase(cc *syntax.CaseClause) int {
	word := expand.Expand(cc.Word, s)
	for _, item := range cc.Items {
		for _, pat := range item.Patterns {
			if pattern.Match(expand.Expand(pat, s), word) {
				return s.evalBody(item.Body)
			}
		}
	}
	return 0
}

// evalSimple runs a Simple command through the eight-step sequence of
// §4.4.
func (s *Shell) evalSimple(sc *syntax.SimpleCommand) int {
	savedStdout, savedStderr := s.stdoutFn, s.stderrFn
	defer func() { s.stdoutFn, s.stderrFn = savedStdout, savedStderr }()

	var stdoutCapture *strings.Builder
	var redirectTarget string
	var appendMode bool

	// Step 1: redirect targets.
	for _, r := range sc.Redirects {
		target := expand.Expand(r.Name, s)
		// File targets are resolved against the working directory.
		filePath := target
		if !path.IsAbs(filePath) {
			filePath = path.Join(s.cwd, filePath)
		}
		switch r.Op {
		case syntax.RedirGreat, syntax.RedirClobber:
			buf := &strings.Builder{}
			stdoutCapture, redirectTarget, appendMode = buf, filePath, false
			s.stdoutFn = func(t string) { buf.WriteString(t) }
		case syntax.RedirAppend:
			buf := &strings.Builder{}
			stdoutCapture, redirectTarget, appendMode = buf, filePath, true
			s.stdoutFn = func(t string) { buf.WriteString(t) }
		case syntax.RedirDupOut:
			if target == "2" {
				s.stdoutFn = s.stderrFn
			}
		case syntax.RedirLess:
			data, err := s.fs.ReadFile(filePath)
			if err != nil {
				s.stderrFn(s.programName + ": " + target + ": No such file or directory\n")
				return 1
			}
			s.pipeBuffer = data
		}
	}

	// Step 2: assignments.
	for _, a := range sc.Assignments {
		s.env[a.Name] = expand.Expand(a.Value, s)
	}
	if sc.Name == nil {
		return 0
	}

	// Step 3: command name.
	name := expand.Expand(sc.Name, s)

	// Step 4: alias resolution, guarded against self-referential
	// aliases by suppressing a single name for the duration of its
	// own re-evaluation.
	if canonical, ok := s.aliases[name]; ok && !s.suppressAlias[name] {
		args := make([]string, len(sc.Args))
		for i, a := range sc.Args {
			args[i] = expand.Expand(a, s)
		}
		newSrc := canonical
		if len(args) > 0 {
			newSrc += " " + strings.Join(args, " ")
		}
		s.trace("alias", logrus.Fields{"cmd": name, "alias": canonical, "cwd": s.cwd})
		prog, err := syntax.Parse(newSrc)
		if err != nil {
			s.stderrFn(s.programName + ": " + err.Error() + "\n")
			s.lastExitCode = 2
			return 2
		}
		s.suppressAlias[name] = true
		defer delete(s.suppressAlias, name)
		return s.evalProgram(prog)
	}

	// Step 5: function resolution.
	if fn, ok := s.functions[name]; ok {
		return s.evalCommand(fn.Body)
	}

	// Step 6: registry lookup.
	entry, ok := s.registry.Get(name)
	if !ok {
		s.stderrFn(s.programName + ": " + name + ": command not found\n")
		s.warn("command-not-found", logrus.Fields{"cmd": name, "cwd": s.cwd})
		return 127
	}

	// Step 7: argument parsing and handler invocation.
	args := make([]string, len(sc.Args))
	for i, a := range sc.Args {
		args[i] = expand.Expand(a, s)
	}
	values, err := entry.ParseArgs(args)
	if err != nil {
		s.stderrFn(s.programName + ": " + name + ": " + err.Error() + "\n")
		s.warn("handler-failure", logrus.Fields{"cmd": name, "cwd": s.cwd, "err": err.Error()})
		return 2
	}
	ctx := &registry.CommandContext{
		Stdout:   s.stdoutFn,
		Stderr:   s.stderrFn,
		Stdin:    s.pipeBuffer,
		Env:      cloneEnv(s.env),
		Cwd:      s.cwd,
		Filesystem: s.fs,
		Shell:    s,
		SetEnv:   func(n, v string) { s.env[n] = v },
		UnsetEnv: func(n string) { delete(s.env, n) },
		SetCwd:   s.SetCwd,
		Exit:     s.Exit,
	}
	code := entry.Execute(values, ctx)
	s.trace("exec", logrus.Fields{"cmd": name, "exit": code, "cwd": s.cwd})

	// Step 8: commit redirection.
	if stdoutCapture != nil {
		var werr error
		if appendMode {
			werr = s.fs.AppendFile(redirectTarget, stdoutCapture.String())
		} else {
			werr = s.fs.WriteFile(redirectTarget, stdoutCapture.String())
		}
		if werr != nil {
			savedStderr(s.programName + ": " + redirectTarget + ": " + werr.Error() + "\n")
			s.warn("handler-failure", logrus.Fields{"cmd": name, "cwd": s.cwd, "err": werr.Error()})
			code = 1
		}
	}
	return code
}
