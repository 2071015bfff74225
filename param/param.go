// Package param resolves raw ABI parameter records into typed parameters.
//
// A record carries "name", "type" and, for tuple-shaped types, "components".
// Resolution parses the type string and, when the result is a tuple, an array
// of tuple or a fixed array of tuple, replaces the tuple's fields with the
// kinds resolved from components, in declaration order.
//
// Resolution is pure: it performs no I/O, keeps no state between calls and is
// safe for concurrent use.
package param

import (
	"xdao.co/abiparam/paramtype"
)

// Param is a named, fully resolved parameter.
//
// Name is an opaque label. It is not checked for uniqueness and carries no
// meaning for resolution.
type Param struct {
	Name string
	Kind paramtype.ParamType
}

// New constructs a Param.
func New(name string, kind paramtype.ParamType) Param {
	return Param{Name: name, Kind: kind}
}

// Record yields the fields of one parameter record in source order.
//
// After NextKey reports a key, the caller consumes its value with exactly one
// of DecodeString, DecodeEach or Skip.
type Record interface {
	// NextKey returns the next key, or ok=false once the record is exhausted.
	NextKey() (key string, ok bool, err error)
	// DecodeString decodes the current value as a string.
	DecodeString() (string, error)
	// DecodeEach decodes the current value as a sequence of nested records,
	// calling fn for each in order. An error from fn is returned unchanged.
	DecodeEach(fn func(Record) error) error
	// Skip discards the current value.
	Skip() error
}

// Resolver resolves records. The zero value uses paramtype.Parse.
type Resolver struct {
	// ParseType turns a "type" string into a descriptor. Its errors are
	// returned to the caller unchanged.
	ParseType func(string) (paramtype.ParamType, error)
}

// Resolve resolves rec with the default Resolver.
func Resolve(rec Record) (Param, error) {
	return Resolver{}.Resolve(rec)
}

// Resolve consumes rec and returns the resolved Param.
//
// A repeated "name", "type" or "components" key fails as soon as the second
// occurrence is seen. Keys other than those three are skipped. Nothing is
// returned alongside an error.
func (r Resolver) Resolve(rec Record) (Param, error) {
	var (
		name       string
		kind       paramtype.ParamType
		components []paramtype.ParamType

		haveName, haveKind, haveComponents bool
	)

	for {
		key, ok, err := rec.NextKey()
		if err != nil {
			return Param{}, err
		}
		if !ok {
			break
		}

		switch key {
		case "name":
			if haveName {
				return Param{}, duplicateField("name")
			}
			v, err := rec.DecodeString()
			if err != nil {
				return Param{}, err
			}
			name, haveName = v, true
		case "type":
			// Reported as the record key "type", not as Kind.
			if haveKind {
				return Param{}, duplicateField("type")
			}
			v, err := rec.DecodeString()
			if err != nil {
				return Param{}, err
			}
			k, err := r.parseType(v)
			if err != nil {
				return Param{}, err
			}
			kind, haveKind = k, true
		case "components":
			if haveComponents {
				return Param{}, duplicateField("components")
			}
			kinds := []paramtype.ParamType{}
			err := rec.DecodeEach(func(c Record) error {
				p, err := r.Resolve(c)
				if err != nil {
					return err
				}
				kinds = append(kinds, p.Kind)
				return nil
			})
			if err != nil {
				return Param{}, err
			}
			components, haveComponents = kinds, true
		default:
			if err := rec.Skip(); err != nil {
				return Param{}, err
			}
		}
	}

	if !haveName {
		return Param{}, missingField("name")
	}
	if !haveKind {
		// Reported as the record key "type", not as Kind.
		return Param{}, missingField("type")
	}

	resolved, err := bindComponents(kind, components, haveComponents)
	if err != nil {
		return Param{}, err
	}
	return Param{Name: name, Kind: resolved}, nil
}

func (r Resolver) parseType(s string) (paramtype.ParamType, error) {
	if r.ParseType != nil {
		return r.ParseType(s)
	}
	return paramtype.Parse(s)
}

// bindComponents substitutes components into a tuple-shaped kind. Every other
// shape is returned as is, and components, if any, are ignored.
func bindComponents(kind paramtype.ParamType, components []paramtype.ParamType, ok bool) (paramtype.ParamType, error) {
	if !kind.TupleShaped() {
		return kind, nil
	}
	if !ok {
		return paramtype.ParamType{}, missingField("components")
	}
	switch kind.Tag {
	case paramtype.TagArray:
		return paramtype.Array(kind.Elem.WithFields(components)), nil
	case paramtype.TagFixedArray:
		return paramtype.FixedArray(kind.Elem.WithFields(components), kind.Size), nil
	default:
		return kind.WithFields(components), nil
	}
}
