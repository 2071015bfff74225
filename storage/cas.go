// Package storage defines content-addressed storage for canonical interface
// descriptions.
package storage

import "github.com/ipfs/go-cid"

// CAS is a minimal content-addressable storage interface.
//
// Contract:
// - Put MUST be idempotent and MUST key objects by cidutil.Sum of their bytes.
// - Stored objects MUST be immutable.
// - Get MUST return ErrNotFound when the CID is absent and ErrCIDMismatch when
//   the stored bytes no longer hash to the CID.
// - Undefined CIDs MUST be rejected with ErrInvalidCID.
//
// Callers are responsible for supplying canonical bytes.
type CAS interface {
	Put(data []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
