// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package interp implements the Evaluator, Shell State, and Shell
// facade described in §4.4/§4.6/§6: a tree-walking evaluator over a
// parsed Program, carrying environment, working directory, aliases,
// functions, and a pluggable Command Registry.
package interp

import (
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nicomt/mrsh/hostfs"
	"github.com/nicomt/mrsh/registry"
	"github.com/nicomt/mrsh/syntax"
)

// Shell is the facade described in §6: execute, prompt, environment
// and working-directory accessors, and the registry/alias/function
// surfaces. It also implements expand.Context, so it can be passed
// directly to the Word Engine.
type Shell struct {
	env       map[string]string
	cwd       string
	aliases   map[string]string
	functions map[string]*syntax.FunctionDecl

	lastExitCode int
	running      bool

	pipeBuffer string
	stdoutFn   func(string)
	stderrFn   func(string)

	fs          hostfs.Filesystem
	registry    *registry.Registry
	programName string
	logger      *logrus.Logger

	suppressAlias map[string]bool
}

// ShellOption configures a Shell at construction, in the
// functional-options style.
type ShellOption func(*Shell)

// WithEnv seeds the initial environment, on top of the built-in
// defaults (§4.6).
func WithEnv(env map[string]string) ShellOption {
	return func(s *Shell) {
		for k, v := range env {
			s.env[k] = v
		}
	}
}

// WithCwd sets the initial working directory.
func WithCwd(dir string) ShellOption {
	return func(s *Shell) {
		s.cwd = dir
		s.env["PWD"] = dir
	}
}

// WithProgramName sets the name used in diagnostic messages (§7).
func WithProgramName(name string) ShellOption {
	return func(s *Shell) { s.programName = name }
}

// WithLogger installs a structured logger for the evaluator's trace
// output. A nil logger (the default) disables tracing.
func WithLogger(l *logrus.Logger) ShellOption {
	return func(s *Shell) { s.logger = l }
}

// WithFilesystem overrides the default in-memory Filesystem.
func WithFilesystem(fs hostfs.Filesystem) ShellOption {
	return func(s *Shell) { s.fs = fs }
}

// WithStdout installs the callback that receives stdout text.
func WithStdout(fn func(string)) ShellOption {
	return func(s *Shell) { s.stdoutFn = fn }
}

// WithStderr installs the callback that receives stderr text.
func WithStderr(fn func(string)) ShellOption {
	return func(s *Shell) { s.stderrFn = fn }
}

// WithRegistry installs a pre-populated Registry in place of an
// empty one.
func WithRegistry(r *registry.Registry) ShellOption {
	return func(s *Shell) { s.registry = r }
}

// NewShell constructs a Shell with the §4.6 defaults, then applies
// opts in order.
func NewShell(opts ...ShellOption) *Shell {
	s := &Shell{
		env: map[string]string{
			"HOME": "/home/user",
			"PATH": "/bin:/usr/bin",
			"PS1":  "$ ",
		},
		cwd:           "/home/user",
		aliases:       map[string]string{},
		functions:     map[string]*syntax.FunctionDecl{},
		running:       true,
		fs:            hostfs.NewMemFS(),
		registry:      registry.New(),
		programName:   "mrsh",
		stdoutFn:      func(string) {},
		stderrFn:      func(string) {},
		suppressAlias: map[string]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.env["PWD"] == "" {
		s.env["PWD"] = s.cwd
	}
	if seeder, ok := s.fs.(interface{ MkdirAll(string) }); ok {
		seeder.MkdirAll(s.cwd)
	}
	return s
}

// Execute parses source and runs it, returning the exit code of its
// last CommandList (§4.4 entry point).
func (s *Shell) Execute(source string) int {
	s.trace("execute", logrus.Fields{"source": source})
	prog, err := syntax.Parse(source)
	if err != nil {
		s.stderrFn(s.programName + ": " + err.Error() + "\n")
		s.lastExitCode = 2
		return 2
	}
	s.running = true
	code := s.evalProgram(prog)
	s.lastExitCode = code
	return code
}

// GetPrompt expands PS1 per §4.6: \w, \W, \u, \h, \$.
func (s *Shell) GetPrompt() string {
	ps1 := s.env["PS1"]
	if ps1 == "" {
		ps1 = "$ "
	}
	var sb strings.Builder
	for i := 0; i < len(ps1); i++ {
		if ps1[i] == '\\' && i+1 < len(ps1) {
			switch ps1[i+1] {
			case 'w':
				sb.WriteString(s.displayCwd())
			case 'W':
				sb.WriteString(path.Base(s.cwd))
			case 'u':
				sb.WriteString(s.env["USER"])
			case 'h':
				sb.WriteString(s.env["HOSTNAME"])
			case '$':
				sb.WriteString("$")
			default:
				sb.WriteByte(ps1[i])
				sb.WriteByte(ps1[i+1])
			}
			i++
			continue
		}
		sb.WriteByte(ps1[i])
	}
	return sb.String()
}

func (s *Shell) displayCwd() string {
	home := s.env["HOME"]
	if home != "" && strings.HasPrefix(s.cwd, home) {
		return "~" + strings.TrimPrefix(s.cwd, home)
	}
	return s.cwd
}

// SetCwd updates both cwd and env["PWD"].
func (s *Shell) SetCwd(dir string) {
	s.cwd = dir
	s.env["PWD"] = dir
}

func (s *Shell) GetCwd() string { return s.cwd }

func (s *Shell) SetEnv(name, value string) { s.env[name] = value }

func (s *Shell) GetEnv(name string) (string, bool) {
	v, ok := s.env[name]
	return v, ok
}

func (s *Shell) UnsetEnv(name string) { delete(s.env, name) }

func (s *Shell) GetLastExitCode() int { return s.lastExitCode }

func (s *Shell) IsRunning() bool { return s.running }

func (s *Shell) Exit(code int) {
	s.running = false
	s.lastExitCode = code
}

func (s *Shell) Register(e *registry.CommandEntry) { s.registry.Register(e) }

func (s *Shell) Get(name string) (*registry.CommandEntry, bool) { return s.registry.Get(name) }

func (s *Shell) List() []*registry.CommandEntry { return s.registry.List() }

func (s *Shell) ListVisible() []*registry.CommandEntry { return s.registry.ListVisible() }

func (s *Shell) SetAlias(name, value string) { s.aliases[name] = value }

func (s *Shell) UnsetAlias(name string) { delete(s.aliases, name) }

func (s *Shell) DefineFunction(name string, body *syntax.Command) {
	s.functions[name] = &syntax.FunctionDecl{Name: name, Body: body}
}

func (s *Shell) Filesystem() hostfs.Filesystem { return s.fs }

func cloneEnv(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
