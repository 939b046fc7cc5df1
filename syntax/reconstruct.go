// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"strings"

	"github.com/nicomt/mrsh/token"
)

// buildWord turns the raw source fragment captured by a Word token
// into a Word tree, per §4.2's word-reconstruction rules. Command and
// arithmetic substitutions are parsed eagerly and cached on the node,
// per the Design Notes' guidance to prefer (b) over lazy re-parsing.
func (p *Parser) buildWord(raw string, pos token.Position) (*Word, error) {
	if !strings.ContainsAny(raw, "$`\"'") {
		return &Word{Pos: pos, String: &StringWord{Value: raw, SplitFields: true}}, nil
	}
	children, err := p.scanWordChildren(raw, false)
	if err != nil {
		return nil, err
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return &Word{Pos: pos, List: &ListWord{Children: children}}, nil
}

// scanWordChildren scans s left to right, producing one Word per
// literal run or special construct. dq indicates s is already inside
// a double-quoted region (affects single-quote handling and whether
// literal runs are eligible for field splitting).
func (p *Parser) scanWordChildren(s string, dq bool) ([]*Word, error) {
	var out []*Word
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, &Word{String: &StringWord{Value: buf.String(), SplitFields: !dq}})
			buf.Reset()
		}
	}
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\'' && !dq:
			flush()
			j := strings.IndexByte(s[i+1:], '\'')
			if j < 0 {
				out = append(out, &Word{String: &StringWord{Value: s[i+1:], SingleQuoted: true}})
				i = len(s)
				break
			}
			out = append(out, &Word{String: &StringWord{Value: s[i+1 : i+1+j], SingleQuoted: true}})
			i = i + 1 + j + 1
		case c == '"' && !dq:
			flush()
			inner, next := scanDoubleQuoteSpan(s, i)
			children, err := p.scanWordChildren(inner, true)
			if err != nil {
				return nil, err
			}
			out = append(out, children...)
			i = next
		case c == '\\':
			lit, consumed := unescapeBackslash(s, i, dq)
			buf.WriteString(lit)
			i += consumed
		case c == '$':
			flush()
			child, next, err := p.scanDollar(s, i)
			if err != nil {
				return nil, err
			}
			if child != nil {
				out = append(out, child)
			}
			i = next
		case c == '`':
			flush()
			child, next, err := p.scanBacktickCommand(s, i)
			if err != nil {
				return nil, err
			}
			out = append(out, child)
			i = next
		default:
			buf.WriteByte(c)
			i++
		}
	}
	flush()
	return out, nil
}

// scanDoubleQuoteSpan returns the inner content of a "..." region
// starting at s[i] (which must be '"') and the index right after the
// closing quote.
func scanDoubleQuoteSpan(s string, i int) (string, int) {
	j := i + 1
	for j < len(s) {
		if s[j] == '\\' && j+1 < len(s) {
			j += 2
			continue
		}
		if s[j] == '"' {
			return s[i+1 : j], j + 1
		}
		j++
	}
	return s[i+1:], len(s)
}

// unescapeBackslash interprets one backslash escape at s[i] (which
// must be '\\'), returning the literal text it produces and how many
// source bytes were consumed.
func unescapeBackslash(s string, i int, dq bool) (string, int) {
	if i+1 >= len(s) {
		return `\`, 1
	}
	next := s[i+1]
	if !dq {
		// Outside quotes, backslash always escapes the following byte.
		return string(next), 2
	}
	switch next {
	case '$', '`', '"', '\\':
		return string(next), 2
	case '\n':
		return "", 2
	default:
		return `\` + string(next), 2
	}
}

const specialParamBytes = "@*#?-$!"

// scanDollar dispatches on the form following a '$' at s[i].
func (p *Parser) scanDollar(s string, i int) (*Word, int, error) {
	rest := s[i+1:]
	switch {
	case strings.HasPrefix(rest, "(("):
		inner, next := scanBalancedStr(s, i+3, '(', ')', 2)
		// Only the final ')' is excluded; drop the first of the closing "))".
		if strings.HasSuffix(s[:next], "))") && strings.HasSuffix(inner, ")") {
			inner = inner[:len(inner)-1]
		}
		body, err := p.buildWord(inner, token.Position{})
		if err != nil {
			return nil, 0, err
		}
		return &Word{Arithmetic: &ArithmeticWord{Body: body}}, next, nil
	case strings.HasPrefix(rest, "("):
		inner, next := scanBalancedStr(s, i+2, '(', ')', 1)
		prog, err := p.parseSubProgram(inner)
		if err != nil {
			return nil, 0, err
		}
		return &Word{Command: &CommandWord{Program: prog, Raw: inner}}, next, nil
	case strings.HasPrefix(rest, "{"):
		inner, next := scanBraceSpan(s, i+2)
		pw, err := p.parseParamExp(inner)
		if err != nil {
			return nil, 0, err
		}
		return &Word{Parameter: pw}, next, nil
	case rest != "" && (strings.IndexByte(specialParamBytes, rest[0]) >= 0 || (rest[0] >= '0' && rest[0] <= '9')):
		return &Word{Parameter: &ParameterWord{Name: string(rest[0])}}, i + 2, nil
	case rest != "" && isNameByte(rest[0]) && !(rest[0] >= '0' && rest[0] <= '9'):
		j := 0
		for j < len(rest) && isNameByte(rest[j]) {
			j++
		}
		return &Word{Parameter: &ParameterWord{Name: rest[:j]}}, i + 1 + j, nil
	default:
		return &Word{String: &StringWord{Value: "$"}}, i + 1, nil
	}
}

// scanBalancedStr consumes text starting at index i (just past the
// opening bytes) until the given open/close byte pair returns to
// depth zero, honoring nested quotes. It returns the inner text
// (excluding the final closing byte) and the index right after it.
func scanBalancedStr(s string, i int, open, close byte, depth int) (string, int) {
	start := i
	for depth > 0 && i < len(s) {
		switch s[i] {
		case '\'':
			if j := strings.IndexByte(s[i+1:], '\''); j >= 0 {
				i = i + 1 + j + 1
				continue
			}
			i = len(s)
		case '"':
			_, next := scanDoubleQuoteSpan(s, i)
			i = next
		case open:
			depth++
			i++
		case close:
			depth--
			i++
		default:
			i++
		}
	}
	if depth > 0 {
		return s[start:i], i
	}
	return s[start : i-1], i
}

// scanBraceSpan consumes text starting at index i (just past `${`)
// until the matching `}`, honoring nested `${` and quotes.
func scanBraceSpan(s string, i int) (string, int) {
	start := i
	depth := 1
	for depth > 0 && i < len(s) {
		switch {
		case s[i] == '\'':
			if j := strings.IndexByte(s[i+1:], '\''); j >= 0 {
				i = i + 1 + j + 1
				continue
			}
			i = len(s)
		case s[i] == '"':
			_, next := scanDoubleQuoteSpan(s, i)
			i = next
		case s[i] == '$' && i+1 < len(s) && s[i+1] == '{':
			depth++
			i += 2
		case s[i] == '}':
			depth--
			i++
		default:
			i++
		}
	}
	if depth > 0 {
		return s[start:i], i
	}
	return s[start : i-1], i
}

func scanBacktickInner(s string, i int) (string, int) {
	j := i + 1
	for j < len(s) {
		if s[j] == '\\' && j+1 < len(s) {
			j += 2
			continue
		}
		if s[j] == '`' {
			return s[i+1 : j], j + 1
		}
		j++
	}
	return s[i+1:], len(s)
}

func (p *Parser) scanBacktickCommand(s string, i int) (*Word, int, error) {
	inner, next := scanBacktickInner(s, i)
	unescaped := strings.NewReplacer("\\`", "`", `\\`, `\`).Replace(inner)
	prog, err := p.parseSubProgram(unescaped)
	if err != nil {
		return nil, 0, err
	}
	return &Word{Command: &CommandWord{Program: prog, Raw: unescaped, BackQuoted: true}}, next, nil
}

// scanName reads a leading parameter name: either a single
// special/positional character, or a greedy run of name bytes.
func scanName(s string) (name, tail string) {
	if s == "" {
		return "", ""
	}
	if strings.IndexByte(specialParamBytes, s[0]) >= 0 || (s[0] >= '0' && s[0] <= '9') {
		return s[:1], s[1:]
	}
	j := 0
	for j < len(s) && isNameByte(s[j]) {
		j++
	}
	return s[:j], s[j:]
}

// parseParamExp parses the content of a ${...} span into a
// ParameterWord, per §4.2/§3.
func (p *Parser) parseParamExp(content string) (*ParameterWord, error) {
	if strings.HasPrefix(content, "#") && content != "#" {
		if name, tail := scanName(content[1:]); tail == "" && name != "" {
			return &ParameterWord{Name: name, Op: ParamLeadingHash}, nil
		}
	}
	name, tail := scanName(content)
	pw := &ParameterWord{Name: name}
	if tail == "" {
		return pw, nil
	}
	var argRaw string
	switch {
	case strings.HasPrefix(tail, ":-"):
		pw.Colon, pw.Op, argRaw = true, ParamMinus, tail[2:]
	case strings.HasPrefix(tail, ":="):
		pw.Colon, pw.Op, argRaw = true, ParamEqual, tail[2:]
	case strings.HasPrefix(tail, ":?"):
		pw.Colon, pw.Op, argRaw = true, ParamQMark, tail[2:]
	case strings.HasPrefix(tail, ":+"):
		pw.Colon, pw.Op, argRaw = true, ParamPlus, tail[2:]
	case strings.HasPrefix(tail, "-"):
		pw.Op, argRaw = ParamMinus, tail[1:]
	case strings.HasPrefix(tail, "="):
		pw.Op, argRaw = ParamEqual, tail[1:]
	case strings.HasPrefix(tail, "?"):
		pw.Op, argRaw = ParamQMark, tail[1:]
	case strings.HasPrefix(tail, "+"):
		pw.Op, argRaw = ParamPlus, tail[1:]
	case strings.HasPrefix(tail, "##"):
		pw.Op, argRaw = ParamDHash, tail[2:]
	case strings.HasPrefix(tail, "#"):
		pw.Op, argRaw = ParamHash, tail[1:]
	case strings.HasPrefix(tail, "%%"):
		pw.Op, argRaw = ParamDPercent, tail[2:]
	case strings.HasPrefix(tail, "%"):
		pw.Op, argRaw = ParamPercent, tail[1:]
	default:
		// Unrecognized trailing text: treat the whole span as a bare
		// name rather than guessing at operator intent.
		return &ParameterWord{Name: content}, nil
	}
	arg, err := p.buildWord(argRaw, token.Position{})
	if err != nil {
		return nil, err
	}
	pw.Arg = arg
	return pw, nil
}
