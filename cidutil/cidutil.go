// Package cidutil derives content identifiers for canonical interface
// descriptions.
package cidutil

import (
	"errors"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// ErrMismatch is returned by Verify when data does not hash to the given CID.
var ErrMismatch = errors.New("cidutil: cid does not match data")

// Sum returns the CIDv1 ("raw" multicodec, sha2-256 multihash) of data.
func Sum(data []byte) (cid.Cid, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// String is Sum rendered in its default multibase form. It returns "" only if
// hashing fails, which does not happen for sha2-256.
func String(data []byte) string {
	id, err := Sum(data)
	if err != nil {
		return ""
	}
	return id.String()
}

// Verify reports whether data hashes to id.
func Verify(id cid.Cid, data []byte) error {
	got, err := Sum(data)
	if err != nil {
		return err
	}
	if !got.Equals(id) {
		return ErrMismatch
	}
	return nil
}
