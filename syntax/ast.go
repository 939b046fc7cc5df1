// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package syntax implements the lexer, the recursive-descent parser,
// and the AST node definitions for the mrsh command language (§3/§4.1/§4.2).
package syntax

import "github.com/nicomt/mrsh/token"

// ParamOp is the operator of a Parameter expansion (§3 Word variants).
type ParamOp int

const (
	ParamNone ParamOp = iota
	ParamMinus
	ParamEqual
	ParamQMark
	ParamPlus
	ParamLeadingHash
	ParamPercent
	ParamDPercent
	ParamHash
	ParamDHash
)

// Word is a tagged variant: exactly one of the embedded *Kind fields is
// non-nil, selecting which alternative the node represents (§3).
type Word struct {
	Pos token.Position

	String     *StringWord
	Parameter  *ParameterWord
	Command    *CommandWord
	Arithmetic *ArithmeticWord
	List       *ListWord
}

// StringWord is a literal chunk of a Word.
type StringWord struct {
	Value        string
	SingleQuoted bool
	SplitFields  bool
}

// ParameterWord is a ${...}-style expansion.
type ParameterWord struct {
	Name  string
	Op    ParamOp
	Colon bool
	Arg   *Word // nil unless Op needs an argument
}

// CommandWord is a $(...) or `...` command substitution.
type CommandWord struct {
	Program    *Program // nil if not parsed (lazy backtick/raw body)
	Raw        string   // the unparsed source span, always populated
	BackQuoted bool
}

// ArithmeticWord is a $((...)) arithmetic expansion.
type ArithmeticWord struct {
	Body *Word
}

// ListWord is the concatenation of several sub-words: a composite
// token, or the contents of a double-quoted region.
type ListWord struct {
	Children     []*Word
	DoubleQuoted bool
}

// Lit reports whether w is (or collapses to) an unquoted literal
// string, returning it. Single-quoted strings and words of more than
// one part report false.
func (w *Word) Lit() (string, bool) {
	if w == nil {
		return "", false
	}
	switch {
	case w.String != nil && !w.String.SingleQuoted:
		return w.String.Value, true
	case w.List != nil && len(w.List.Children) == 1:
		return w.List.Children[0].Lit()
	}
	return "", false
}

// RedirOp is the operator of an IoRedirect.
type RedirOp int

const (
	RedirLess RedirOp = iota
	RedirGreat
	RedirClobber // >|
	RedirAppend  // >>
	RedirDupIn   // <&
	RedirDupOut  // >&
	RedirReadWrite
	RedirHeredoc     // <<
	RedirHeredocDash // <<-
)

// IoRedirect is a single redirection attached to a Simple command.
type IoRedirect struct {
	Pos          token.Position
	IoNumber     int // -1 if unspecified
	Op           RedirOp
	Name         *Word
	HereDocument []*Word // only for RedirHeredoc/RedirHeredocDash
}

// Assignment is a NAME=value prefix or word-shaped assignment.
type Assignment struct {
	Pos   token.Position
	Name  string
	Value *Word
}

// Command is a tagged variant of the command forms in §3.
type Command struct {
	Pos token.Position

	Simple      *SimpleCommand
	BraceGroup  *BraceGroup
	Subshell    *Subshell
	If          *IfClause
	For         *ForClause
	Loop        *LoopClause
	Case        *CaseClause
	FuncDecl    *FunctionDecl
}

// SimpleCommand is a non-compound command: assignments, a name, its
// arguments, and redirections.
type SimpleCommand struct {
	Name        *Word // nil if the statement is assignment-only
	Args        []*Word
	Redirects   []*IoRedirect
	Assignments []*Assignment
}

// BraceGroup is `{ ... }`.
type BraceGroup struct {
	Body []*CommandList
}

// Subshell is `( ... )`.
type Subshell struct {
	Body []*CommandList
}

// IfClause is `if ... then ... [elif ...] [else ...] fi`.
type IfClause struct {
	Condition []*CommandList
	Body      []*CommandList
	Else      *IfClause // elif chains desugar into nested Else; nil when absent
	ElseBody  []*CommandList
}

// ForClause is `for NAME [in WORD...]; do ... done`.
type ForClause struct {
	Name  string
	HasIn bool
	Words []*Word
	Body  []*CommandList
}

// LoopClause is `while`/`until ... do ... done`.
type LoopClause struct {
	IsUntil   bool
	Condition []*CommandList
	Body      []*CommandList
}

// CaseItem is one pattern alternative inside a CaseClause.
type CaseItem struct {
	Patterns []*Word
	Body     []*CommandList
}

// CaseClause is `case WORD in ITEM... esac`.
type CaseClause struct {
	Word  *Word
	Items []*CaseItem
}

// FunctionDecl is `name() { ... }`.
type FunctionDecl struct {
	Name string
	Body *Command
}

// Pipeline is a (possibly negated) chain of commands joined by `|`.
type Pipeline struct {
	Negation bool
	Commands []*PipelineCommand
}

// PipelineCommand is one stage of a Pipeline: the Command plus the
// Stmt-level decorations (assignments/redirects already live on the
// SimpleCommand itself; negation and async live at higher levels).
type PipelineCommand struct {
	Pos token.Position
	Cmd *Command
}

// AndOrItem chains a pipeline onto the previous one with && or ||.
type AndOrItem struct {
	And      bool // true: &&, false: ||
	Pipeline *Pipeline
}

// AndOrList is a sequence of pipelines with short-circuit operators.
type AndOrList struct {
	First *Pipeline
	Rest  []*AndOrItem
}

// CommandList is one top-level or compound-list statement.
type CommandList struct {
	AndOr *AndOrList
	Async bool
}

// Program is a parsed source text: the root AST node.
type Program struct {
	Commands []*CommandList
}
