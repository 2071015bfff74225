// Package localfs stores canonical interface descriptions on the local
// filesystem, one read-only file per CID under a two-character shard.
package localfs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"

	"xdao.co/abiparam/cidutil"
	"xdao.co/abiparam/storage"
)

type CAS struct {
	root string
}

// New constructs a filesystem CAS rooted at root. The directory will be created if needed.
func New(root string) (*CAS, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &CAS{root: root}, nil
}

// Put writes data to a temporary file in the shard directory and links it
// into place, so a concurrent reader never observes a partial object.
func (c *CAS) Put(data []byte) (cid.Cid, error) {
	id, err := cidutil.Sum(data)
	if err != nil {
		return cid.Undef, err
	}

	path := c.pathFor(id)
	if c.Has(id) {
		return c.checkExisting(id, data)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return cid.Undef, err
	}

	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return cid.Undef, err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return cid.Undef, err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return cid.Undef, err
	}
	if err := tmp.Close(); err != nil {
		return cid.Undef, err
	}
	if err := os.Chmod(tmpName, 0o444); err != nil {
		return cid.Undef, err
	}

	// Link fails if another writer got there first; the existing object must
	// then hold the same bytes.
	if err := os.Link(tmpName, path); err != nil {
		if os.IsExist(err) {
			return c.checkExisting(id, data)
		}
		return cid.Undef, err
	}
	return id, nil
}

func (c *CAS) checkExisting(id cid.Cid, data []byte) (cid.Cid, error) {
	existing, err := os.ReadFile(c.pathFor(id))
	if err != nil || !bytes.Equal(existing, data) {
		return cid.Undef, storage.ErrImmutable
	}
	return id, nil
}

func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	b, err := os.ReadFile(c.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	if err := cidutil.Verify(id, b); err != nil {
		if errors.Is(err, cidutil.ErrMismatch) {
			return nil, storage.ErrCIDMismatch
		}
		return nil, err
	}
	return b, nil
}

func (c *CAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := os.Stat(c.pathFor(id))
	return err == nil
}

func (c *CAS) pathFor(id cid.Cid) string {
	s := id.String()
	if len(s) < 2 {
		return filepath.Join(c.root, s)
	}
	return filepath.Join(c.root, s[len(s)-2:], s)
}
