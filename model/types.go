package model

import (
	"encoding/json"
	"strconv"

	"xdao.co/abiparam/param"
	"xdao.co/abiparam/paramtype"
)

// Param is the record shape of a resolved parameter.
//
// Components is nil for types that are not tuple-shaped. A tuple-shaped type
// always carries a non-nil Components, which renders as [] when empty.
type Param struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Indexed    *bool   `json:"indexed,omitempty"`
	Components []Param `json:"components,omitempty"`
}

func (p Param) MarshalJSON() ([]byte, error) {
	type bare struct {
		Name    string `json:"name"`
		Type    string `json:"type"`
		Indexed *bool  `json:"indexed,omitempty"`
	}
	if p.Components == nil {
		return json.Marshal(bare{Name: p.Name, Type: p.Type, Indexed: p.Indexed})
	}
	type withComponents struct {
		Name       string  `json:"name"`
		Type       string  `json:"type"`
		Indexed    *bool   `json:"indexed,omitempty"`
		Components []Param `json:"components"`
	}
	return json.Marshal(withComponents{Name: p.Name, Type: p.Type, Indexed: p.Indexed, Components: p.Components})
}

// Entry is the record shape of one interface-description entry.
type Entry struct {
	Type            string  `json:"type"`
	Name            string  `json:"name,omitempty"`
	Inputs          []Param `json:"inputs"`
	Outputs         []Param `json:"outputs,omitempty"`
	StateMutability string  `json:"stateMutability,omitempty"`
	Anonymous       bool    `json:"anonymous,omitempty"`
}

// FromParam projects p back into record form.
func FromParam(p param.Param) Param {
	return fromKind(p.Name, p.Kind)
}

// FromParams projects ps in order. The result is never nil.
func FromParams(ps []param.Param) []Param {
	out := make([]Param, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromParam(p))
	}
	return out
}

func fromKind(name string, kind paramtype.ParamType) Param {
	if !kind.TupleShaped() {
		return Param{Name: name, Type: kind.String()}
	}

	tuple := kind
	typ := "tuple"
	switch kind.Tag {
	case paramtype.TagArray:
		tuple = *kind.Elem
		typ = "tuple[]"
	case paramtype.TagFixedArray:
		tuple = *kind.Elem
		typ = "tuple[" + strconv.Itoa(kind.Size) + "]"
	}

	components := make([]Param, 0, len(tuple.Fields))
	for _, f := range tuple.Fields {
		components = append(components, fromKind("", f))
	}
	return Param{Name: name, Type: typ, Components: components}
}
