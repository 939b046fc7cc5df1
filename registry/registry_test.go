// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package registry

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func echoEntry() *CommandEntry {
	return &CommandEntry{
		Name:    "echo",
		Aliases: []string{"print"},
		Params: []Param{
			{Name: "n", Type: TypeBoolean, Short: "n"},
			{Name: "sep", Type: TypeString, Default: " "},
		},
	}
}

func TestRegistryLookup(t *testing.T) {
	c := qt.New(t)
	r := New()
	r.Register(echoEntry())

	e, ok := r.Get("echo")
	c.Assert(ok, qt.IsTrue)
	c.Assert(e.Name, qt.Equals, "echo")

	e, ok = r.Get("print")
	c.Assert(ok, qt.IsTrue)
	c.Assert(e.Name, qt.Equals, "echo")

	_, ok = r.Get("missing")
	c.Assert(ok, qt.IsFalse)
}

func TestParseArgsLongShortAndPositional(t *testing.T) {
	c := qt.New(t)
	e := echoEntry()

	v, err := e.ParseArgs([]string{"-n", "--sep=,", "hello", "world"})
	c.Assert(err, qt.IsNil)
	c.Assert(v.Bool("n"), qt.IsTrue)
	c.Assert(v.String("sep"), qt.Equals, ",")
	c.Assert(v.Pos, qt.DeepEquals, []string{"hello", "world"})
}

func TestParseArgsRequired(t *testing.T) {
	c := qt.New(t)
	e := &CommandEntry{
		Name:   "need",
		Params: []Param{{Name: "path", Type: TypeString, Required: true}},
	}
	_, err := e.ParseArgs(nil)
	c.Assert(err, qt.Not(qt.IsNil))

	v, err := e.ParseArgs([]string{"--path", "/tmp"})
	c.Assert(err, qt.IsNil)
	c.Assert(v.String("path"), qt.Equals, "/tmp")
}
