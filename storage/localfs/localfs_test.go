package localfs

import (
	"os"
	"testing"

	"xdao.co/abiparam/cidutil"
	"xdao.co/abiparam/storage"
	"xdao.co/abiparam/storage/testkit"
)

func TestLocalFS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		t.Helper()
		cas, err := New(t.TempDir())
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		return cas
	})
}

func TestLocalFS_DetectsCorruption(t *testing.T) {
	cas, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	orig := []byte(`[{"type":"function","name":"f","inputs":[]}]`)
	id, err := cas.Put(orig)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Corrupt the stored object out-of-band.
	path := cas.pathFor(id)
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("corrupted"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := cas.Get(id); err != storage.ErrCIDMismatch {
		t.Fatalf("Get mismatch: got %v want %v", err, storage.ErrCIDMismatch)
	}
	if _, err := cas.Put(orig); err != storage.ErrImmutable {
		t.Fatalf("Put after corruption: got %v want %v", err, storage.ErrImmutable)
	}
	if err := cidutil.Verify(id, orig); err != nil {
		t.Fatalf("CID no longer matches original bytes: %v", err)
	}
}

func TestLocalFS_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	cas, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	id, err := cas.Put([]byte("x"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	s := id.String()
	entries, err := os.ReadDir(dir + "/" + s[len(s)-2:])
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != s {
		t.Fatalf("expected only the object file, got %v", entries)
	}
}

func TestNew_RequiresRoot(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected error for empty root")
	}
}
