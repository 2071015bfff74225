// Package testkit holds a conformance suite shared by storage.CAS
// implementations.
package testkit

import (
	"bytes"
	"sync"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/abiparam/cidutil"
	"xdao.co/abiparam/storage"
)

// NewCAS constructs a fresh, empty CAS instance for a test.
// The returned CAS MUST be isolated from other tests.
type NewCAS func(t *testing.T) storage.CAS

const sampleABI = `[{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}]}]`

func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		want := []byte(sampleABI)

		id, err := cas.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID, err := cidutil.Sum(want)
		if err != nil {
			t.Fatalf("Sum failed: %v", err)
		}
		if !id.Equals(wantID) {
			t.Fatalf("Put CID mismatch: got %s want %s", id, wantID)
		}

		got, err := cas.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte(sampleABI)

		id1, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if !id1.Equals(id2) {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("ConcurrentPut", func(t *testing.T) {
		cas := newCAS(t)
		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := cas.Put([]byte(sampleABI)); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("concurrent Put failed: %v", err)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("missing")
		id, err := cidutil.Sum(b)
		if err != nil {
			t.Fatalf("Sum failed: %v", err)
		}

		if cas.Has(id) {
			t.Fatalf("Has returned true for missing CID")
		}
		if _, err := cas.Get(id); !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}

		if _, err := cas.Put(b); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !cas.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		cas := newCAS(t)
		var undef cid.Cid
		if cas.Has(undef) {
			t.Fatalf("Has should be false for undefined CID")
		}
		if _, err := cas.Get(undef); err != storage.ErrInvalidCID {
			t.Fatalf("Get(undef): got %v want ErrInvalidCID", err)
		}
	})
}
