// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package pattern

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestRegexp(t *testing.T) {
	c := qt.New(t)
	cases := []struct {
		pat, mode, want string
	}{
		{"foo", "", "foo"},
		{"foo*", "", "foo.*"},
		{"foo*", "shortest", "foo.*?"},
		{"f?o", "", "f.o"},
		{"a.b", "", `a\.b`},
	}
	for _, tc := range cases {
		mode := Mode(0)
		if tc.mode == "shortest" {
			mode = Shortest
		}
		got := Regexp(tc.pat, mode)
		c.Assert(got, qt.Equals, tc.want)
	}
}

func TestMatch(t *testing.T) {
	c := qt.New(t)
	c.Assert(Match("foo*", "foobar"), qt.IsTrue)
	c.Assert(Match("foo*", "barfoo"), qt.IsFalse)
	c.Assert(Match("f?o", "foo"), qt.IsTrue)
	c.Assert(Match("*.go", "main.go"), qt.IsTrue)
	c.Assert(Match("*.go", "main.py"), qt.IsFalse)
}
