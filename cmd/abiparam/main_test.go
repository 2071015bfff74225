package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"xdao.co/abiparam/abi"
)

const sampleABI = `[{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}]`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestParam_JSONAndYAML(t *testing.T) {
	want := `{"name":"s","type":"tuple[2]","components":[{"name":"","type":"address"},{"name":"","type":"uint256"}]}` + "\n"

	jsonPath := writeFile(t, "p.json", `{"name":"s","type":"tuple[2]","components":[{"name":"a","type":"address"},{"name":"b","type":"uint"}]}`)
	code, out, errOut := runCLI(t, "", "param", jsonPath)
	if code != 0 {
		t.Fatalf("param json: exit %d: %s", code, errOut)
	}
	if out != want {
		t.Fatalf("param json output:\n%s", out)
	}

	yamlPath := writeFile(t, "p.yaml", "name: s\ntype: tuple[2]\ncomponents:\n  - {name: a, type: address}\n  - {name: b, type: uint}\n")
	code, out, errOut = runCLI(t, "", "param", yamlPath)
	if code != 0 {
		t.Fatalf("param yaml: exit %d: %s", code, errOut)
	}
	if out != want {
		t.Fatalf("param yaml output:\n%s", out)
	}
}

func TestParam_Stdin(t *testing.T) {
	code, out, errOut := runCLI(t, `{"name":"x","type":"bool"}`, "param", "-")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != `{"name":"x","type":"bool"}`+"\n" {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestParam_ReportsRuleID(t *testing.T) {
	code, _, errOut := runCLI(t, `{"name":"x","name":"y","type":"bool"}`, "param", "-")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut, "[PARAM-FLD-001]") {
		t.Fatalf("expected rule id in error output: %s", errOut)
	}

	code, _, errOut = runCLI(t, `{"name":"x","type":"uint7"}`, "param", "-")
	if code != 1 || !strings.Contains(errOut, "[PT-RNG-001]") {
		t.Fatalf("expected type rule id, got exit %d: %s", code, errOut)
	}
}

func TestSignaturesAndCID(t *testing.T) {
	path := writeFile(t, "abi.json", sampleABI)

	code, out, errOut := runCLI(t, "", "signatures", path)
	if code != 0 {
		t.Fatalf("signatures: exit %d: %s", code, errOut)
	}
	if out != "0xa9059cbb transfer(address,uint256)\n" {
		t.Fatalf("signatures output: %q", out)
	}

	c, err := abi.Parse([]byte(sampleABI))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	id, err := c.CID()
	if err != nil {
		t.Fatalf("CID: %v", err)
	}
	code, out, errOut = runCLI(t, "", "cid", path)
	if code != 0 {
		t.Fatalf("cid: exit %d: %s", code, errOut)
	}
	if strings.TrimSpace(out) != id.String() {
		t.Fatalf("cid output %q, want %s", out, id)
	}
}

func TestPutGet_LocalStore(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, "abi.json", sampleABI)

	code, out, errOut := runCLI(t, "", "put", "--dir", dir, path)
	if code != 0 {
		t.Fatalf("put: exit %d: %s", code, errOut)
	}
	id := strings.TrimSpace(out)

	code, canonical, errOut := runCLI(t, "", "canonical", path)
	if code != 0 {
		t.Fatalf("canonical: exit %d: %s", code, errOut)
	}

	code, got, errOut := runCLI(t, "", "get", "--dir", dir, id)
	if code != 0 {
		t.Fatalf("get: exit %d: %s", code, errOut)
	}
	if got != canonical {
		t.Fatalf("get returned non-canonical bytes:\n%s\n%s", got, canonical)
	}
}

func TestUsageErrors(t *testing.T) {
	cases := [][]string{
		{},
		{"nope"},
		{"param"},
		{"param", "--format", "toml", "-"},
		{"put", "x.json"},
		{"put", "--dir", "d", "--addr", "a:1", "x.json"},
		{"get", "--dir", "d", "not-a-cid"},
	}
	for _, args := range cases {
		if code, _, _ := runCLI(t, "{}", args...); code != 2 {
			t.Fatalf("%v: expected exit 2, got %d", args, code)
		}
	}
}
