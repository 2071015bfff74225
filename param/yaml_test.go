package param

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	pt "xdao.co/abiparam/paramtype"
)

func TestParseYAML_MatchesJSON(t *testing.T) {
	y := []byte(`
name: foo
type: "tuple[2]"
components:
  - name: amount
    type: uint48
  - name: to
    type: address
  - name: from
    type: address
`)
	got, err := ParseYAML(y)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	want := mustParseJSON(t, `{"name":"foo","type":"tuple[2]","components":[
		{"name":"amount","type":"uint48"},{"name":"to","type":"address"},{"name":"from","type":"address"}]}`)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseYAML_DuplicateKey(t *testing.T) {
	_, err := ParseYAML([]byte("name: a\ntype: address\nname: b\n"))
	if !IsDuplicateField(err, "name") {
		t.Fatalf("expected duplicate name, got %v", err)
	}
}

func TestParseYAML_Aliases(t *testing.T) {
	y := []byte(`
name: pair
type: tuple
components:
  - &leg
    name: left
    type: address
  - *leg
`)
	got, err := ParseYAML(y)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if !got.Kind.Equal(pt.Tuple(pt.Address(), pt.Address())) {
		t.Fatalf("got %s", got.Kind)
	}
}

func TestParseYAML_SelfReferentialAlias(t *testing.T) {
	cases := []string{
		"&a\nname: x\ntype: tuple\ncomponents:\n  - *a\n",
		"name: x\ntype: tuple\ncomponents:\n  - &b\n    name: y\n    type: tuple\n    components:\n      - {name: z, type: bool}\n      - *b\n",
	}
	for _, in := range cases {
		_, err := ParseYAML([]byte(in))
		if !IsKind(err, KindSyntax) || RuleID(err) != "PARAM-SYN-006" {
			t.Fatalf("%q: expected PARAM-SYN-006, got %v", in, err)
		}
	}
}

func TestParseYAML_AliasBudget(t *testing.T) {
	var b strings.Builder
	b.WriteString("defs:\n  - &c0 {name: a, type: bool}\n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&b, "  - &c%d {name: n, type: tuple, components: [", i)
		for j := 0; j < 10; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "*c%d", i-1)
		}
		b.WriteString("]}\n")
	}
	b.WriteString("name: x\ntype: tuple\ncomponents: [*c5]\n")

	_, err := ParseYAML([]byte(b.String()))
	if !IsKind(err, KindSyntax) || RuleID(err) != "PARAM-SYN-007" {
		t.Fatalf("expected PARAM-SYN-007, got %v", err)
	}
}

func TestParseYAML_Errors(t *testing.T) {
	cases := []struct {
		in     string
		ruleID string
	}{
		{"", "PARAM-SYN-001"},
		{"- a\n- b\n", "PARAM-SYN-001"},
		{"name: 5\ntype: address\n", "PARAM-SYN-002"},
		{"name: true\ntype: address\n", "PARAM-SYN-002"},
		{"name:\ntype: address\n", "PARAM-SYN-002"},
		{"name: a\ntype: tuple\ncomponents: {}\n", "PARAM-SYN-003"},
		{"name: a\ntype: tuple\ncomponents:\n  - uint8\n", "PARAM-SYN-001"},
		{"name: [a\n", "PARAM-SYN-004"},
	}
	for _, tc := range cases {
		_, err := ParseYAML([]byte(tc.in))
		if got := RuleID(err); got != tc.ruleID {
			t.Fatalf("%q: expected %s, got %s (%v)", tc.in, tc.ruleID, got, err)
		}
	}

	_, err := ParseYAML([]byte("name: a\ntype: tuple\n"))
	if !IsMissingField(err, "components") {
		t.Fatalf("expected missing components, got %v", err)
	}
}

func TestUnmarshalYAML_Embedded(t *testing.T) {
	var doc struct {
		Inputs []Param `yaml:"inputs"`
	}
	err := yaml.Unmarshal([]byte(`
inputs:
  - name: to
    type: address
  - name: amounts
    type: "uint256[]"
`), &doc)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := []Param{New("to", pt.Address()), New("amounts", pt.Array(pt.Uint(256)))}
	if diff := cmp.Diff(want, doc.Inputs); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	var p Param
	err = yaml.Unmarshal([]byte("name: a\nname: b\ntype: bool\n"), &p)
	if !IsDuplicateField(err, "name") {
		t.Fatalf("expected duplicate name through yaml.Unmarshal, got %v", err)
	}
}
