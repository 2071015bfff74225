package abi

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Signature returns the canonical signature, e.g. "transfer(address,uint256)".
// Tuples render as parenthesized field lists.
//
// Components are only bound to a tuple, an array of tuple or a fixed array of
// tuple. A deeper nesting such as "tuple[][]" keeps an empty placeholder
// tuple and renders as "()[][]", so the derived selector does not identify
// the on-chain entry.
func (e Entry) Signature() string {
	var b strings.Builder
	b.WriteString(e.Name)
	b.WriteByte('(')
	for i, p := range e.Inputs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Kind.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Selector returns the first four bytes of the Keccak-256 of Signature.
// It identifies functions and custom errors in call data.
func (e Entry) Selector() [4]byte {
	var sel [4]byte
	h := keccak256(e.Signature())
	copy(sel[:], h[:4])
	return sel
}

// Topic returns the Keccak-256 of Signature, the first log topic of a
// non-anonymous event.
func (e Entry) Topic() [32]byte {
	return keccak256(e.Signature())
}

// Signatures lists "0x<selector> <signature>" for every function and error,
// and "0x<topic> <signature>" for every event, in declaration order.
func (c *Contract) Signatures() []string {
	var out []string
	for _, e := range c.Entries {
		switch e.Type {
		case TypeFunction, TypeError:
			sel := e.Selector()
			out = append(out, "0x"+hex.EncodeToString(sel[:])+" "+e.Signature())
		case TypeEvent:
			topic := e.Topic()
			out = append(out, "0x"+hex.EncodeToString(topic[:])+" "+e.Signature())
		}
	}
	return out
}

func keccak256(s string) [32]byte {
	var out [32]byte
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(s))
	h.Sum(out[:0])
	return out
}
