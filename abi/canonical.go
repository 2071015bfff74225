package abi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ipfs/go-cid"

	"xdao.co/abiparam/cidutil"
	"xdao.co/abiparam/model"
	"xdao.co/abiparam/storage"
)

// Canonical renders c as compact JSON in declaration order. Parse of the
// result yields an equal Contract, and Canonical of that yields the same bytes.
func (c *Contract) Canonical() ([]byte, error) {
	entries := make([]model.Entry, 0, len(c.Entries))
	for _, e := range c.Entries {
		me := model.Entry{
			Type:            string(e.Type),
			Name:            e.Name,
			Inputs:          model.FromParams(e.Inputs),
			StateMutability: e.StateMutability,
			Anonymous:       e.Anonymous,
		}
		if e.Type == TypeFunction {
			me.Outputs = model.FromParams(e.Outputs)
		}
		if e.Type == TypeEvent {
			for i := range me.Inputs {
				indexed := i < len(e.Indexed) && e.Indexed[i]
				me.Inputs[i].Indexed = &indexed
			}
		}
		entries = append(entries, me)
	}
	return json.Marshal(entries)
}

// CID returns the content identifier of the canonical bytes.
func (c *Contract) CID() (cid.Cid, error) {
	b, err := c.Canonical()
	if err != nil {
		return cid.Undef, err
	}
	return cidutil.Sum(b)
}

// Publish stores the canonical form of c and returns its CID.
func Publish(cas storage.CAS, c *Contract) (cid.Cid, error) {
	b, err := c.Canonical()
	if err != nil {
		return cid.Undef, err
	}
	return cas.Put(b)
}

// Fetch loads and resolves a published description. Bytes that are not in
// canonical form are rejected even when they resolve.
func Fetch(cas storage.CAS, id cid.Cid) (*Contract, error) {
	b, err := cas.Get(id)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, err
	}
	canonical, err := c.Canonical()
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(canonical, b) {
		return nil, fmt.Errorf("%w: %s", ErrNotCanonical, id)
	}
	return c, nil
}
