// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"regexp"
	"strings"

	"github.com/nicomt/mrsh/token"
)

// Parser is a recursive-descent parser with one token of look-ahead,
// turning a token stream into a Program AST (§4.2).
type Parser struct {
	lex *Lexer
	cur token.Token
}

// NewParser returns a Parser reading src.
func NewParser(src string) *Parser {
	p := &Parser{lex: NewLexer(src)}
	p.advance()
	return p
}

// Parse is a convenience wrapper around NewParser(src).ParseProgram().
func Parse(src string) (*Program, error) {
	return NewParser(src).ParseProgram()
}

func (p *Parser) advance() { p.cur = p.lex.NextToken() }

func (p *Parser) skipNewlines() {
	for p.cur.Kind == token.NewLine {
		p.advance()
	}
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (p *Parser) isWord(val string) bool {
	return p.cur.Kind == token.Word && p.cur.Value == val
}

func (p *Parser) isOp(val string) bool {
	return p.cur.Kind == token.Operator && p.cur.Value == val
}

func describeTok(t token.Token) string {
	if t.Kind == token.EOF {
		return "EOF"
	}
	return t.String()
}

func (p *Parser) errorf(expected string) error {
	return &ParseError{Pos: p.cur.Start, Expected: expected, Found: describeTok(p.cur)}
}

func (p *Parser) expectWord(val string) error {
	if !p.isWord(val) {
		return p.errorf("'" + val + "'")
	}
	p.advance()
	return nil
}

func (p *Parser) expectOp(val string) error {
	if !p.isOp(val) {
		return p.errorf("'" + val + "'")
	}
	p.advance()
	return nil
}

// ParseProgram parses a full source text into a Program (the grammar's
// top-level production).
func (p *Parser) ParseProgram() (*Program, error) {
	var commands []*CommandList
	p.skipNewlines()
	for p.cur.Kind != token.EOF {
		cl, err := p.parseCommandList()
		if err != nil {
			return nil, err
		}
		commands = append(commands, cl)
		switch {
		case p.cur.Kind == token.NewLine:
			p.advance()
			p.skipNewlines()
		case p.isOp(";"):
			p.advance()
			p.skipNewlines()
		case p.cur.Kind == token.EOF:
		default:
			return nil, p.errorf("';' or newline")
		}
	}
	return &Program{Commands: commands}, nil
}

// parseSubProgram parses an embedded command substitution body
// eagerly, as its own Program, per the Design Notes. Arithmetic bodies
// are built as Words instead.
func (p *Parser) parseSubProgram(src string) (*Program, error) {
	return Parse(src)
}

func (p *Parser) parseCommandList() (*CommandList, error) {
	andOr, err := p.parseAndOrList()
	if err != nil {
		return nil, err
	}
	async := false
	if p.isOp("&") {
		async = true
		p.advance()
	}
	return &CommandList{AndOr: andOr, Async: async}, nil
}

func (p *Parser) parseAndOrList() (*AndOrList, error) {
	first, err := p.parsePipeline()
	if err != nil {
		return nil, err
	}
	list := &AndOrList{First: first}
	for p.isOp("&&") || p.isOp("||") {
		and := p.isOp("&&")
		p.advance()
		p.skipNewlines()
		next, err := p.parsePipeline()
		if err != nil {
			return nil, err
		}
		list.Rest = append(list.Rest, &AndOrItem{And: and, Pipeline: next})
	}
	return list, nil
}

func (p *Parser) parsePipeline() (*Pipeline, error) {
	negation := false
	if p.isWord("!") {
		negation = true
		p.advance()
	}
	first, err := p.parseCommand()
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, p.errorf("command")
	}
	pipe := &Pipeline{Negation: negation, Commands: []*PipelineCommand{{Pos: first.Pos, Cmd: first}}}
	for p.isOp("|") {
		p.advance()
		p.skipNewlines()
		next, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, p.errorf("command")
		}
		pipe.Commands = append(pipe.Commands, &PipelineCommand{Pos: next.Pos, Cmd: next})
	}
	return pipe, nil
}

func (p *Parser) parseCommand() (*Command, error) {
	switch {
	case p.isOp("{"):
		return p.parseBraceGroup()
	case p.isOp("("):
		return p.parseSubshell()
	case p.isWord("if"):
		return p.parseIf()
	case p.isWord("for"):
		return p.parseFor()
	case p.isWord("while"), p.isWord("until"):
		return p.parseLoop()
	case p.isWord("case"):
		return p.parseCase()
	default:
		return p.parseSimpleOrFunc()
	}
}

var closerCompound = []string{"}", ")", "then", "else", "elif", "fi", "do", "done", "esac", ";;"}

func (p *Parser) atCloser(closers []string) bool {
	if p.cur.Kind == token.EOF {
		return true
	}
	for _, c := range closers {
		if p.cur.Value == c && (p.cur.Kind == token.Word || p.cur.Kind == token.Operator) {
			return true
		}
	}
	return false
}

// parseCompoundList parses CommandLists until a closer from the given
// set (or EOF) is reached, per §4.2's CompoundList production.
func (p *Parser) parseCompoundList(closers []string) ([]*CommandList, error) {
	var list []*CommandList
	p.skipNewlines()
	for !p.atCloser(closers) {
		cl, err := p.parseCommandList()
		if err != nil {
			return nil, err
		}
		list = append(list, cl)
		for p.cur.Kind == token.NewLine || p.isOp(";") {
			p.advance()
			p.skipNewlines()
		}
	}
	return list, nil
}

func (p *Parser) parseBraceGroup() (*Command, error) {
	pos := p.cur.Start
	p.advance() // {
	body, err := p.parseCompoundList([]string{"}"})
	if err != nil {
		return nil, err
	}
	if err := p.expectOp("}"); err != nil {
		return nil, err
	}
	return &Command{Pos: pos, BraceGroup: &BraceGroup{Body: body}}, nil
}

func (p *Parser) parseSubshell() (*Command, error) {
	pos := p.cur.Start
	p.advance() // (
	body, err := p.parseCompoundList([]string{")"})
	if err != nil {
		return nil, err
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return &Command{Pos: pos, Subshell: &Subshell{Body: body}}, nil
}

func (p *Parser) parseIf() (*Command, error) {
	pos := p.cur.Start
	clause, err := p.parseIfTail()
	if err != nil {
		return nil, err
	}
	return &Command{Pos: pos, If: clause}, nil
}

// parseIfTail parses the shared 'if'/'elif' body: condition, then,
// body, and the elif/else tail, folding 'elif' chains into nested
// IfClause.Else links.
func (p *Parser) parseIfTail() (*IfClause, error) {
	p.advance() // if / elif
	cond, err := p.parseCompoundList([]string{"then"})
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("then"); err != nil {
		return nil, err
	}
	body, err := p.parseCompoundList([]string{"elif", "else", "fi"})
	if err != nil {
		return nil, err
	}
	clause := &IfClause{Condition: cond, Body: body}
	switch {
	case p.isWord("elif"):
		next, err := p.parseIfTail()
		if err != nil {
			return nil, err
		}
		clause.Else = next
		// The nested elif clause has already consumed the closing 'fi'.
		return clause, nil
	case p.isWord("else"):
		p.advance()
		elseBody, err := p.parseCompoundList([]string{"fi"})
		if err != nil {
			return nil, err
		}
		clause.ElseBody = elseBody
	}
	if err := p.expectWord("fi"); err != nil {
		return nil, err
	}
	return clause, nil
}

func (p *Parser) parseFor() (*Command, error) {
	pos := p.cur.Start
	p.advance() // for
	if p.cur.Kind != token.Word {
		return nil, p.errorf("name")
	}
	name := p.cur.Value
	p.advance()
	p.skipNewlines()
	hasIn := false
	var words []*Word
	if p.isWord("in") {
		hasIn = true
		p.advance()
		for p.cur.Kind == token.Word {
			w, err := p.parseWordToken()
			if err != nil {
				return nil, err
			}
			words = append(words, w)
		}
	}
	switch {
	case p.isOp(";"):
		p.advance()
	case p.cur.Kind == token.NewLine:
		p.advance()
	default:
		return nil, p.errorf("';' or newline")
	}
	p.skipNewlines()
	if err := p.expectWord("do"); err != nil {
		return nil, err
	}
	body, err := p.parseCompoundList([]string{"done"})
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("done"); err != nil {
		return nil, err
	}
	return &Command{Pos: pos, For: &ForClause{Name: name, HasIn: hasIn, Words: words, Body: body}}, nil
}

func (p *Parser) parseLoop() (*Command, error) {
	pos := p.cur.Start
	isUntil := p.isWord("until")
	p.advance()
	cond, err := p.parseCompoundList([]string{"do"})
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("do"); err != nil {
		return nil, err
	}
	body, err := p.parseCompoundList([]string{"done"})
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("done"); err != nil {
		return nil, err
	}
	return &Command{Pos: pos, Loop: &LoopClause{IsUntil: isUntil, Condition: cond, Body: body}}, nil
}

func (p *Parser) parseCase() (*Command, error) {
	pos := p.cur.Start
	p.advance() // case
	word, err := p.parseWordToken()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	if err := p.expectWord("in"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	var items []*CaseItem
	for !p.isWord("esac") && p.cur.Kind != token.EOF {
		if p.isOp("(") {
			p.advance()
		}
		var patterns []*Word
		pat, err := p.parseWordToken()
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pat)
		for p.isOp("|") {
			p.advance()
			pat, err := p.parseWordToken()
			if err != nil {
				return nil, err
			}
			patterns = append(patterns, pat)
		}
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		body, err := p.parseCompoundList([]string{"esac", ";;"})
		if err != nil {
			return nil, err
		}
		items = append(items, &CaseItem{Patterns: patterns, Body: body})
		if p.isOp(";;") {
			p.advance()
			p.skipNewlines()
		}
	}
	if err := p.expectWord("esac"); err != nil {
		return nil, err
	}
	return &Command{Pos: pos, Case: &CaseClause{Word: word, Items: items}}, nil
}

func (p *Parser) parseWordToken() (*Word, error) {
	if p.cur.Kind != token.Word {
		return nil, p.errorf("word")
	}
	w, err := p.buildWord(p.cur.Value, p.cur.Start)
	if err != nil {
		return nil, err
	}
	p.advance()
	return w, nil
}

var redirOps = map[string]RedirOp{
	"<": RedirLess, ">": RedirGreat, ">|": RedirClobber, ">>": RedirAppend,
	"<&": RedirDupIn, ">&": RedirDupOut, "<>": RedirReadWrite,
	"<<": RedirHeredoc, "<<-": RedirHeredocDash,
}

func (p *Parser) atRedirect() bool {
	if p.cur.Kind == token.IoNumber {
		return true
	}
	if p.cur.Kind == token.Operator {
		_, ok := redirOps[p.cur.Value]
		return ok
	}
	return false
}

func (p *Parser) parseRedirect() (*IoRedirect, error) {
	pos := p.cur.Start
	ioNumber := -1
	if p.cur.Kind == token.IoNumber {
		ioNumber = int(p.cur.Value[0] - '0')
		p.advance()
	}
	if p.cur.Kind != token.Operator {
		return nil, p.errorf("redirection operator")
	}
	op, ok := redirOps[p.cur.Value]
	if !ok {
		return nil, p.errorf("redirection operator")
	}
	p.advance()
	target, err := p.parseWordToken()
	if err != nil {
		return nil, err
	}
	return &IoRedirect{Pos: pos, IoNumber: ioNumber, Op: op, Name: target}, nil
}

// looksLikeAssignment reports whether raw is of the form NAME=value
// with a syntactically valid identifier before the first '='.
func looksLikeAssignment(raw string) (name, valueRaw string, ok bool) {
	i := strings.IndexByte(raw, '=')
	if i <= 0 {
		return "", "", false
	}
	name = raw[:i]
	if !identRe.MatchString(name) {
		return "", "", false
	}
	return name, raw[i+1:], true
}

// parseSimpleOrFunc parses a SimpleCommand, detecting the
// `name() { ... }` function-definition shorthand along the way.
func (p *Parser) parseSimpleOrFunc() (*Command, error) {
	pos := p.cur.Start
	var assignments []*Assignment
	var redirects []*IoRedirect
	var name *Word
	var args []*Word
	nameBound := false

	for {
		switch {
		case p.atRedirect():
			r, err := p.parseRedirect()
			if err != nil {
				return nil, err
			}
			redirects = append(redirects, r)
		case p.cur.Kind == token.Word:
			if !nameBound {
				if n, v, ok := looksLikeAssignment(p.cur.Value); ok {
					valWord, err := p.buildWord(v, p.cur.Start)
					if err != nil {
						return nil, err
					}
					assignments = append(assignments, &Assignment{Pos: p.cur.Start, Name: n, Value: valWord})
					p.advance()
					continue
				}
				if len(assignments) == 0 && len(redirects) == 0 && identRe.MatchString(p.cur.Value) {
					if nt := p.lex.PeekToken(); nt.Kind == token.Operator && nt.Value == "(" {
						return p.parseFuncDecl(pos)
					}
				}
				w, err := p.parseWordToken()
				if err != nil {
					return nil, err
				}
				name = w
				nameBound = true
				continue
			}
			w, err := p.parseWordToken()
			if err != nil {
				return nil, err
			}
			args = append(args, w)
		default:
			goto done
		}
	}
done:
	if name == nil && len(args) == 0 && len(redirects) == 0 && len(assignments) == 0 {
		return nil, nil
	}
	return &Command{Pos: pos, Simple: &SimpleCommand{Name: name, Args: args, Redirects: redirects, Assignments: assignments}}, nil
}

// parseFuncDecl handles the `name ( ) compound-command` shorthand. pos
// is the token at the start of the statement; the current token is
// the function name, followed by '(' and ')' operators.
func (p *Parser) parseFuncDecl(pos token.Position) (*Command, error) {
	name := p.cur.Value
	p.advance()
	if err := p.expectOp("("); err != nil {
		return nil, err
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	body, err := p.parseCommand()
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, p.errorf("function body")
	}
	return &Command{Pos: pos, FuncDecl: &FunctionDecl{Name: name, Body: body}}, nil
}
