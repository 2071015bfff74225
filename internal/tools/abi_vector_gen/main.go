package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"xdao.co/abiparam/abi"
)

func main() {
	var (
		abiPath = flag.String("abi", "", "path to a JSON interface description")
		outDir  = flag.String("out", "", "output directory")
	)
	flag.Parse()

	if *abiPath == "" || *outDir == "" {
		fmt.Fprintln(os.Stderr, "usage: abi_vector_gen -abi <input.json> -out <dir>")
		os.Exit(2)
	}

	input, err := os.ReadFile(*abiPath)
	if err != nil {
		fatalf("read description: %v", err)
	}
	c, err := abi.Parse(input)
	if err != nil {
		fatalf("abi.Parse: %v", err)
	}
	canonical, err := c.Canonical()
	if err != nil {
		fatalf("Canonical: %v", err)
	}
	id, err := c.CID()
	if err != nil {
		fatalf("CID: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatalf("mkdir out: %v", err)
	}
	files := map[string][]byte{
		"input.json":     input,
		"canonical.json": canonical,
		"canonical.cid":  []byte(id.String() + "\n"),
		"signatures.txt": []byte(strings.Join(c.Signatures(), "\n") + "\n"),
	}
	for name, b := range files {
		if err := os.WriteFile(filepath.Join(*outDir, name), b, 0o644); err != nil {
			fatalf("write %s: %v", name, err)
		}
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
