// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package expand implements the Word Engine (§4.3): turning a parsed
// Word into the single string an evaluator needs, resolving
// parameter, command, and arithmetic expansions along the way.
package expand

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nicomt/mrsh/pattern"
	"github.com/nicomt/mrsh/syntax"
)

// Context is the view of shell state the Word Engine needs. An
// evaluator supplies it; expand never depends on the evaluator
// package directly, avoiding an import cycle.
type Context interface {
	// Lookup returns a variable's value and whether it is set.
	Lookup(name string) (value string, set bool)
	// Assign commits name=value to the environment, as triggered by
	// the ${name:=word} operator.
	Assign(name, value string)
	// LastExitCode backs the "$?" special parameter.
	LastExitCode() int
	// ShellName backs the "$0" special parameter.
	ShellName() string
	// RunCapture executes prog with stdout captured to a string, for
	// command substitution. Execution failures are swallowed into
	// whatever output was produced, per §4.3.
	RunCapture(prog *syntax.Program) string
	// ReportError surfaces an ExpansionError message (e.g. from
	// ${name:?message}) on stderr; expansion still proceeds to return "".
	ReportError(message string)
}

// Expand turns w into its string value (§4.3). It is the sole
// expansion entry point; field splitting and pathname expansion are
// explicit non-goals.
func Expand(w *syntax.Word, ctx Context) string {
	if w == nil {
		return ""
	}
	switch {
	case w.String != nil:
		return w.String.Value
	case w.List != nil:
		var sb strings.Builder
		for _, child := range w.List.Children {
			sb.WriteString(Expand(child, ctx))
		}
		return sb.String()
	case w.Parameter != nil:
		return expandParameter(w.Parameter, ctx)
	case w.Command != nil:
		if w.Command.Program == nil {
			return ""
		}
		out := ctx.RunCapture(w.Command.Program)
		return strings.TrimSuffix(out, "\n")
	case w.Arithmetic != nil:
		body := Expand(w.Arithmetic.Body, ctx)
		return evalArithmetic(body, ctx)
	}
	return ""
}

func lookupSpecial(name string, ctx Context) (string, bool) {
	switch name {
	case "?":
		return strconv.Itoa(ctx.LastExitCode()), true
	case "$", "!":
		return "1", true
	case "-":
		return "", true
	case "#":
		return "0", true
	case "*", "@":
		return "", true
	case "0":
		return ctx.ShellName(), true
	}
	return "", false
}

func expandParameter(pw *syntax.ParameterWord, ctx Context) string {
	var v string
	var isUnset bool
	if special, ok := lookupSpecial(pw.Name, ctx); ok {
		v = special
	} else {
		val, set := ctx.Lookup(pw.Name)
		v, isUnset = val, !set
	}
	isEmpty := v == ""
	isNull := pw.Colon && isEmpty

	switch pw.Op {
	case syntax.ParamNone:
		return v
	case syntax.ParamMinus:
		if isUnset || isNull {
			return Expand(pw.Arg, ctx)
		}
		return v
	case syntax.ParamEqual:
		if isUnset || isNull {
			val := Expand(pw.Arg, ctx)
			ctx.Assign(pw.Name, val)
			return val
		}
		return v
	case syntax.ParamQMark:
		if isUnset || isNull {
			msg := "parameter null or not set"
			if pw.Arg != nil {
				if s := Expand(pw.Arg, ctx); s != "" {
					msg = s
				}
			}
			ctx.ReportError(pw.Name + ": " + msg)
			return ""
		}
		return v
	case syntax.ParamPlus:
		if !isUnset && !isNull {
			return Expand(pw.Arg, ctx)
		}
		return ""
	case syntax.ParamLeadingHash:
		return strconv.Itoa(utf8.RuneCountInString(v))
	case syntax.ParamPercent:
		return stripSuffix(v, Expand(pw.Arg, ctx), false)
	case syntax.ParamDPercent:
		return stripSuffix(v, Expand(pw.Arg, ctx), true)
	case syntax.ParamHash:
		return stripPrefix(v, Expand(pw.Arg, ctx), false)
	case syntax.ParamDHash:
		return stripPrefix(v, Expand(pw.Arg, ctx), true)
	}
	return v
}

// stripSuffix removes the shortest (longest=false) or longest
// (longest=true) suffix of v matching the shell glob pat.
func stripSuffix(v, pat string, longest bool) string {
	if pat == "" {
		return v
	}
	re, err := pattern.Compile(pat, pattern.EntireString)
	if err != nil {
		return v
	}
	if longest {
		for i := 0; i <= len(v); i++ {
			if re.MatchString(v[i:]) {
				return v[:i]
			}
		}
		return v
	}
	for i := len(v); i >= 0; i-- {
		if re.MatchString(v[i:]) {
			return v[:i]
		}
	}
	return v
}

// stripPrefix removes the shortest or longest prefix of v matching pat.
func stripPrefix(v, pat string, longest bool) string {
	if pat == "" {
		return v
	}
	re, err := pattern.Compile(pat, pattern.EntireString)
	if err != nil {
		return v
	}
	if longest {
		for i := len(v); i >= 0; i-- {
			if re.MatchString(v[:i]) {
				return v[i:]
			}
		}
		return v
	}
	for i := 0; i <= len(v); i++ {
		if re.MatchString(v[:i]) {
			return v[i:]
		}
	}
	return v
}
