// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package pattern translates the shell glob subset used by case items
// and ${param#pattern}-style trims into Go regular expressions: `*`
// matches any run of characters, `?` matches exactly one, and every
// other regular-expression metacharacter is escaped literally. It does
// not implement character classes, "**", or filename-aware matching.
package pattern

import (
	"regexp"
	"strings"
)

// Mode selects how the translated expression anchors.
type Mode uint

const (
	// EntireString anchors the expression with ^ and $, for case-item
	// matching. Without it, Regexp returns an expression suited to
	// Shortest or Longest matching from an arbitrary offset.
	EntireString Mode = 1 << iota
	// Shortest makes "*" non-greedy (".*?"), preferring the shortest
	// match.
	Shortest
)

// Regexp turns a shell pattern into the source of a Go regular
// expression. The result can be passed to regexp.Compile.
func Regexp(pat string, mode Mode) string {
	var sb strings.Builder
	if mode&EntireString != 0 {
		sb.WriteString("^")
	}
	for _, r := range pat {
		switch r {
		case '*':
			if mode&Shortest != 0 {
				sb.WriteString(".*?")
			} else {
				sb.WriteString(".*")
			}
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if mode&EntireString != 0 {
		sb.WriteString("$")
	}
	return sb.String()
}

// Compile is a convenience wrapper combining Regexp and regexp.Compile.
func Compile(pat string, mode Mode) (*regexp.Regexp, error) {
	return regexp.Compile(Regexp(pat, mode))
}

// Match reports whether name matches the entire shell pattern pat, as
// used by case items (§4.4).
func Match(pat, name string) bool {
	re, err := Compile(pat, EntireString)
	if err != nil {
		return pat == name
	}
	return re.MatchString(name)
}
