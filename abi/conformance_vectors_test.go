package abi

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConformanceVectors_CanonicalCIDAndSignatures(t *testing.T) {
	root := filepath.Join("..", "testdata", "conformance", "abi")
	dirs, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read vectors: %v", err)
	}
	if len(dirs) == 0 {
		t.Fatalf("no vectors under %s", root)
	}

	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		name := d.Name()
		t.Run(name, func(t *testing.T) {
			read := func(file string) []byte {
				t.Helper()
				b, err := os.ReadFile(filepath.Join(root, name, file))
				if err != nil {
					t.Fatalf("read %s: %v", file, err)
				}
				return b
			}
			input := read("input.json")
			wantCanonical := read("canonical.json")
			wantCID := strings.TrimSpace(string(read("canonical.cid")))
			wantSigs := strings.Split(strings.TrimSpace(string(read("signatures.txt"))), "\n")

			c, err := Parse(input)
			if err != nil {
				t.Fatalf("Parse(input): %v", err)
			}
			canonical, err := c.Canonical()
			if err != nil {
				t.Fatalf("Canonical: %v", err)
			}
			if !bytes.Equal(canonical, wantCanonical) {
				t.Fatalf("canonical bytes mismatch:\ngot  %s\nwant %s", canonical, wantCanonical)
			}

			// Canonical bytes are a fixed point.
			again, err := Parse(wantCanonical)
			if err != nil {
				t.Fatalf("Parse(canonical): %v", err)
			}
			reCanonical, err := again.Canonical()
			if err != nil {
				t.Fatalf("Canonical(reparsed): %v", err)
			}
			if !bytes.Equal(reCanonical, wantCanonical) {
				t.Fatalf("canonical form is not a fixed point")
			}

			id, err := c.CID()
			if err != nil {
				t.Fatalf("CID: %v", err)
			}
			if id.String() != wantCID {
				t.Fatalf("CID mismatch: got %s want %s", id, wantCID)
			}

			gotSigs := c.Signatures()
			if strings.Join(gotSigs, "\n") != strings.Join(wantSigs, "\n") {
				t.Fatalf("signatures mismatch:\ngot  %q\nwant %q", gotSigs, wantSigs)
			}
		})
	}
}
