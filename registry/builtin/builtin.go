// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package builtin supplies a small set of reference commands: echo,
// true, false, :, exit, pwd, cd, cat, wc, test, and mkdir. They are
// not part of the core Evaluator; a host registers whichever of them
// it wants via Register or individually.
package builtin

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/nicomt/mrsh/hostfs"
	"github.com/nicomt/mrsh/registry"
)

// Register adds every reference command in this package to r.
func Register(r *registry.Registry) {
	for _, e := range All() {
		r.Register(e)
	}
}

// All returns every reference CommandEntry this package defines.
func All() []*registry.CommandEntry {
	return []*registry.CommandEntry{
		echoEntry(), trueEntry(), falseEntry(), colonEntry(), exitEntry(),
		pwdEntry(), cdEntry(), catEntry(), wcEntry(), testEntry(), mkdirEntry(),
	}
}

func echoEntry() *registry.CommandEntry {
	return &registry.CommandEntry{
		Name:        "echo",
		Description: "write arguments to stdout",
		Params:      []registry.Param{{Name: "n", Short: "n", Type: registry.TypeBoolean}},
		Execute: func(v *registry.Values, ctx *registry.CommandContext) int {
			ctx.Stdout(strings.Join(v.Pos, " "))
			if !v.Bool("n") {
				ctx.Stdout("\n")
			}
			return 0
		},
	}
}

func trueEntry() *registry.CommandEntry {
	return &registry.CommandEntry{
		Name: "true", Description: "always succeed",
		Execute: func(*registry.Values, *registry.CommandContext) int { return 0 },
	}
}

func falseEntry() *registry.CommandEntry {
	return &registry.CommandEntry{
		Name: "false", Description: "always fail",
		Execute: func(*registry.Values, *registry.CommandContext) int { return 1 },
	}
}

func colonEntry() *registry.CommandEntry {
	return &registry.CommandEntry{
		Name: ":", Description: "no-op", Hidden: true,
		Execute: func(*registry.Values, *registry.CommandContext) int { return 0 },
	}
}

func exitEntry() *registry.CommandEntry {
	return &registry.CommandEntry{
		Name: "exit", Description: "terminate the shell",
		Execute: func(v *registry.Values, ctx *registry.CommandContext) int {
			code := 0
			if len(v.Pos) > 0 {
				if n, err := strconv.Atoi(v.Pos[0]); err == nil {
					code = n
				}
			}
			ctx.Exit(code)
			return code
		},
	}
}

func pwdEntry() *registry.CommandEntry {
	return &registry.CommandEntry{
		Name: "pwd", Description: "print the working directory",
		Execute: func(v *registry.Values, ctx *registry.CommandContext) int {
			ctx.Stdout(ctx.Cwd + "\n")
			return 0
		},
	}
}

// cdEntry handles HOME with no arguments, "-" for OLDPWD, a leading
// "~" expanded to HOME, and otherwise resolves the target relative to
// the current directory.
func cdEntry() *registry.CommandEntry {
	return &registry.CommandEntry{
		Name: "cd", Description: "change the working directory",
		Execute: func(v *registry.Values, ctx *registry.CommandContext) int {
			target := ctx.Env["HOME"]
			if len(v.Pos) > 0 {
				target = v.Pos[0]
			}
			switch {
			case target == "-":
				old, ok := ctx.Env["OLDPWD"]
				if !ok {
					ctx.Stderr("cd: OLDPWD not set\n")
					return 1
				}
				target = old
			case strings.HasPrefix(target, "~"):
				target = ctx.Env["HOME"] + strings.TrimPrefix(target, "~")
			}
			if !path.IsAbs(target) {
				target = path.Join(ctx.Cwd, target)
			}
			target = path.Clean(target)
			if fs, ok := ctx.Filesystem.(hostfs.Filesystem); ok {
				if info, err := fs.Stat(target); err != nil || !info.IsDirectory {
					ctx.Stderr("cd: " + target + ": No such file or directory\n")
					return 1
				}
			}
			ctx.SetEnv("OLDPWD", ctx.Cwd)
			ctx.SetCwd(target)
			return 0
		},
	}
}

func catEntry() *registry.CommandEntry {
	return &registry.CommandEntry{
		Name: "cat", Description: "concatenate files to stdout",
		Execute: func(v *registry.Values, ctx *registry.CommandContext) int {
			fs, ok := ctx.Filesystem.(hostfs.Filesystem)
			if !ok {
				return 1
			}
			if len(v.Pos) == 0 {
				ctx.Stdout(ctx.Stdin)
				return 0
			}
			code := 0
			for _, p := range v.Pos {
				target := p
				if !path.IsAbs(target) {
					target = path.Join(ctx.Cwd, target)
				}
				data, err := fs.ReadFile(target)
				if err != nil {
					ctx.Stderr("cat: " + p + ": No such file or directory\n")
					code = 1
					continue
				}
				ctx.Stdout(data)
			}
			return code
		},
	}
}

func wcEntry() *registry.CommandEntry {
	return &registry.CommandEntry{
		Name: "wc", Description: "count lines (-l) or words",
		Params: []registry.Param{{Name: "l", Short: "l", Type: registry.TypeBoolean}},
		Execute: func(v *registry.Values, ctx *registry.CommandContext) int {
			if v.Bool("l") {
				ctx.Stdout(fmt.Sprintf("%8d\n", strings.Count(ctx.Stdin, "\n")))
				return 0
			}
			words := len(strings.Fields(ctx.Stdin))
			ctx.Stdout(strconv.Itoa(words) + "\n")
			return 0
		},
	}
}

func testEntry() *registry.CommandEntry {
	ops := []string{"eq", "ne", "lt", "le", "gt", "ge"}
	params := make([]registry.Param, len(ops))
	for i, op := range ops {
		params[i] = registry.Param{Name: op, Short: op, Type: registry.TypeBoolean}
	}
	return &registry.CommandEntry{
		Name: "test", Description: "evaluate a conditional expression",
		Params: params,
		Execute: func(v *registry.Values, ctx *registry.CommandContext) int {
			for _, op := range ops {
				if !v.Bool(op) {
					continue
				}
				if len(v.Pos) < 2 {
					return 2
				}
				a, err1 := strconv.Atoi(v.Pos[0])
				b, err2 := strconv.Atoi(v.Pos[len(v.Pos)-1])
				if err1 != nil || err2 != nil {
					return 2
				}
				if compareOp(op, a, b) {
					return 0
				}
				return 1
			}
			if len(v.Pos) == 1 && v.Pos[0] != "" {
				return 0
			}
			return 1
		},
	}
}

func compareOp(op string, a, b int) bool {
	switch op {
	case "eq":
		return a == b
	case "ne":
		return a != b
	case "lt":
		return a < b
	case "le":
		return a <= b
	case "gt":
		return a > b
	case "ge":
		return a >= b
	}
	return false
}

func mkdirEntry() *registry.CommandEntry {
	return &registry.CommandEntry{
		Name: "mkdir", Description: "create a directory",
		Params: []registry.Param{{Name: "p", Short: "p", Type: registry.TypeBoolean}},
		Execute: func(v *registry.Values, ctx *registry.CommandContext) int {
			fs, ok := ctx.Filesystem.(hostfs.Filesystem)
			if !ok {
				return 1
			}
			code := 0
			for _, p := range v.Pos {
				target := p
				if !path.IsAbs(target) {
					target = path.Join(ctx.Cwd, target)
				}
				if err := fs.Mkdir(target, hostfs.MkdirOptions{Recursive: v.Bool("p")}); err != nil {
					ctx.Stderr("mkdir: " + p + ": " + err.Error() + "\n")
					code = 1
				}
			}
			return code
		},
	}
}
