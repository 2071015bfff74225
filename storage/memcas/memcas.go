// Package memcas is an in-memory storage.CAS, used by the daemon when no
// store directory is configured and by tests.
package memcas

import (
	"bytes"
	"sync"

	"github.com/ipfs/go-cid"

	"xdao.co/abiparam/cidutil"
	"xdao.co/abiparam/storage"
)

type CAS struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func New() *CAS {
	return &CAS{objects: make(map[string][]byte)}
}

func (c *CAS) Put(data []byte) (cid.Cid, error) {
	id, err := cidutil.Sum(data)
	if err != nil {
		return cid.Undef, err
	}
	key := id.KeyString()

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.objects[key]; ok {
		if !bytes.Equal(existing, data) {
			return cid.Undef, storage.ErrImmutable
		}
		return id, nil
	}
	c.objects[key] = bytes.Clone(data)
	return id, nil
}

func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	c.mu.RLock()
	b, ok := c.objects[id.KeyString()]
	c.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	return bytes.Clone(b), nil
}

func (c *CAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.objects[id.KeyString()]
	return ok
}
