// Package abi loads contract interface descriptions: a JSON array of
// function, constructor, event, error, fallback and receive entries.
//
// Every parameter is resolved with package param. A description with any
// unresolvable parameter is rejected as a whole.
package abi

import (
	"encoding/json"
	"errors"
	"fmt"

	"xdao.co/abiparam/param"
)

type EntryType string

const (
	TypeFunction    EntryType = "function"
	TypeConstructor EntryType = "constructor"
	TypeEvent       EntryType = "event"
	TypeError       EntryType = "error"
	TypeFallback    EntryType = "fallback"
	TypeReceive     EntryType = "receive"
)

var (
	ErrMalformed    = errors.New("abi: malformed interface description")
	ErrEntryType    = errors.New("abi: unknown entry type")
	ErrEntryName    = errors.New("abi: entry name is required")
	ErrNotCanonical = errors.New("abi: stored description is not canonical")
)

// Entry is one resolved interface entry.
//
// Indexed is set for events only and runs parallel to Inputs.
type Entry struct {
	Type            EntryType
	Name            string
	Inputs          []param.Param
	Outputs         []param.Param
	Indexed         []bool
	StateMutability string
	Anonymous       bool
}

// Contract is a resolved interface description. Entries keep declaration order.
type Contract struct {
	Entries []Entry
}

// Parse resolves a JSON interface description.
func Parse(data []byte) (*Contract, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	c := &Contract{Entries: make([]Entry, 0, len(raw))}
	for i, r := range raw {
		e, err := parseEntry(r)
		if err != nil {
			return nil, fmt.Errorf("abi: entry %d: %w", i, err)
		}
		c.Entries = append(c.Entries, e)
	}
	return c, nil
}

type rawEntry struct {
	Type            EntryType         `json:"type"`
	Name            string            `json:"name"`
	Inputs          []json.RawMessage `json:"inputs"`
	Outputs         []json.RawMessage `json:"outputs"`
	StateMutability string            `json:"stateMutability"`
	Anonymous       bool              `json:"anonymous"`

	// Pre-0.4.16 compilers emitted these instead of stateMutability.
	Constant bool `json:"constant"`
	Payable  bool `json:"payable"`
}

func parseEntry(data json.RawMessage) (Entry, error) {
	var r rawEntry
	if err := json.Unmarshal(data, &r); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if r.Type == "" {
		r.Type = TypeFunction
	}

	e := Entry{Type: r.Type, Name: r.Name}
	switch r.Type {
	case TypeFunction, TypeEvent, TypeError:
		if r.Name == "" {
			return Entry{}, fmt.Errorf("%w for %s", ErrEntryName, r.Type)
		}
	case TypeConstructor, TypeFallback, TypeReceive:
	default:
		return Entry{}, fmt.Errorf("%w %q", ErrEntryType, r.Type)
	}

	var err error
	if e.Inputs, err = resolveAll(r.Inputs); err != nil {
		return Entry{}, fmt.Errorf("inputs: %w", err)
	}

	switch r.Type {
	case TypeFunction:
		if e.Outputs, err = resolveAll(r.Outputs); err != nil {
			return Entry{}, fmt.Errorf("outputs: %w", err)
		}
		e.StateMutability = mutability(r)
	case TypeConstructor, TypeFallback, TypeReceive:
		e.StateMutability = mutability(r)
	case TypeEvent:
		e.Anonymous = r.Anonymous
		e.Indexed = make([]bool, len(r.Inputs))
		for i, in := range r.Inputs {
			var ix struct {
				Indexed bool `json:"indexed"`
			}
			if err := json.Unmarshal(in, &ix); err != nil {
				return Entry{}, fmt.Errorf("inputs: %w: %v", ErrMalformed, err)
			}
			e.Indexed[i] = ix.Indexed
		}
	}
	return e, nil
}

func resolveAll(raw []json.RawMessage) ([]param.Param, error) {
	out := make([]param.Param, 0, len(raw))
	for i, r := range raw {
		p, err := param.ParseJSON(r)
		if err != nil {
			return nil, fmt.Errorf("param %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func mutability(r rawEntry) string {
	switch {
	case r.StateMutability != "":
		return r.StateMutability
	case r.Type == TypeReceive:
		return "payable"
	case r.Payable:
		return "payable"
	case r.Constant:
		return "view"
	default:
		return "nonpayable"
	}
}

// Functions returns the function entries named name, in declaration order.
// Overloads share a name and differ in their selectors.
func (c *Contract) Functions(name string) []Entry {
	return c.byTypeAndName(TypeFunction, name)
}

// Events returns the event entries named name, in declaration order.
func (c *Contract) Events(name string) []Entry {
	return c.byTypeAndName(TypeEvent, name)
}

// Errors returns the custom error entries named name, in declaration order.
func (c *Contract) Errors(name string) []Entry {
	return c.byTypeAndName(TypeError, name)
}

// Constructor returns the constructor entry, if declared.
func (c *Contract) Constructor() (Entry, bool) {
	for _, e := range c.Entries {
		if e.Type == TypeConstructor {
			return e, true
		}
	}
	return Entry{}, false
}

func (c *Contract) byTypeAndName(t EntryType, name string) []Entry {
	var out []Entry
	for _, e := range c.Entries {
		if e.Type == t && e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
