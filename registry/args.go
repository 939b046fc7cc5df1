// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// ArgumentError is returned by ParseArgs on schema validation failure
// (§7); the caller maps it to exit code 2.
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string { return e.Message }

func (e *CommandEntry) paramByName(name string) (Param, bool) {
	for _, p := range e.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

func (e *CommandEntry) paramByShort(short string) (Param, bool) {
	for _, p := range e.Params {
		if p.Short == short {
			return p, true
		}
	}
	return Param{}, false
}

// ParseArgs applies the §4.5 left-to-right flag-parsing rule to args,
// then fills in defaults and validates required options.
func (e *CommandEntry) ParseArgs(args []string) (*Values, error) {
	v := newValues()
	i := 0
	for i < len(args) {
		a := args[i]
		switch {
		case strings.HasPrefix(a, "--"):
			body := a[2:]
			if eq := strings.IndexByte(body, '='); eq >= 0 {
				name, val := body[:eq], body[eq+1:]
				e.setValue(v, name, val)
				i++
				continue
			}
			p, known := e.paramByName(body)
			if known && p.Type == TypeBoolean {
				e.setValue(v, body, "true")
				i++
				continue
			}
			if i+1 < len(args) {
				e.setValue(v, body, args[i+1])
				i += 2
				continue
			}
			e.setValue(v, body, "")
			i++
		case strings.HasPrefix(a, "-") && len(a) > 1:
			x := a[1:]
			name := x
			if p, ok := e.paramByShort(x); ok {
				name = p.Name
			} else if _, ok := e.paramByName(x); !ok {
				// Neither an alias nor a declared long name: record as
				// a bare boolean flag under its own short form.
				v.opts[x] = true
				i++
				continue
			}
			p, known := e.paramByName(name)
			if known && p.Type == TypeBoolean {
				e.setValue(v, name, "true")
				i++
				continue
			}
			if i+1 < len(args) {
				e.setValue(v, name, args[i+1])
				i += 2
				continue
			}
			e.setValue(v, name, "")
			i++
		default:
			v.Pos = append(v.Pos, a)
			i++
		}
	}

	for _, p := range e.Params {
		if _, ok := v.opts[p.Name]; !ok && p.Default != nil {
			v.opts[p.Name] = p.Default
		}
		if p.Required {
			if _, ok := v.opts[p.Name]; !ok {
				return nil, &ArgumentError{Message: fmt.Sprintf("missing required option %q", p.Name)}
			}
		}
	}
	return v, nil
}

// setValue records raw for name, coercing it into the type declared
// by the matching Param when the command declares one; flags with no
// matching schema entry are kept as plain strings.
func (e *CommandEntry) setValue(v *Values, name, raw string) {
	if p, ok := e.paramByName(name); ok {
		v.opts[name] = coerce(p, raw)
		return
	}
	v.opts[name] = raw
}

func coerce(p Param, raw string) any {
	switch p.Type {
	case TypeBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return raw == "true"
		}
		return b
	case TypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0.0
		}
		return n
	case TypeArray:
		if raw == "" {
			return []string{}
		}
		return strings.Split(raw, ",")
	default:
		return raw
	}
}
