package param

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML resolves a YAML mapping. Decoding goes through yaml.Node, which
// keeps repeated keys so that they can be reported as duplicates.
func ParseYAML(data []byte) (Param, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return Param{}, syntaxError("PARAM-SYN-004", "malformed YAML", err)
	}
	return resolveYAML(&n)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Param) UnmarshalYAML(value *yaml.Node) error {
	v, err := resolveYAML(value)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func resolveYAML(n *yaml.Node) (Param, error) {
	var d yamlDecoder
	rec, err := d.open(n, nil)
	if err != nil {
		return Param{}, err
	}
	return Resolve(rec)
}

// maxYAMLAliases bounds alias expansions per document.
const maxYAMLAliases = 10000

// yamlDecoder carries the alias budget shared by every record of a document.
type yamlDecoder struct {
	aliases int
}

type yamlRecord struct {
	dec    *yamlDecoder
	parent *yamlRecord
	node   *yaml.Node
	next   int
	cur    *yaml.Node
}

// open starts a record at n. A mapping that is already open further up the
// component path is rejected; following it again would never terminate.
func (d *yamlDecoder) open(n *yaml.Node, parent *yamlRecord) (*yamlRecord, error) {
	m, err := d.deref(n)
	if err != nil {
		return nil, err
	}
	if m == nil || m.Kind != yaml.MappingNode {
		return nil, syntaxError("PARAM-SYN-001", "record must be a mapping"+yamlPos(m), nil)
	}
	for p := parent; p != nil; p = p.parent {
		if p.node == m {
			return nil, syntaxError("PARAM-SYN-006", "alias refers to an enclosing record"+yamlPos(n), nil)
		}
	}
	return &yamlRecord{dec: d, parent: parent, node: m}, nil
}

// deref unwraps document and alias nodes, charging each alias to the budget.
func (d *yamlDecoder) deref(n *yaml.Node) (*yaml.Node, error) {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil, nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			d.aliases++
			if d.aliases > maxYAMLAliases {
				return nil, syntaxError("PARAM-SYN-007", "too many alias expansions"+yamlPos(n), nil)
			}
			n = n.Alias
		default:
			return n, nil
		}
	}
	return nil, nil
}

func (r *yamlRecord) NextKey() (string, bool, error) {
	if r.next+1 >= len(r.node.Content) {
		return "", false, nil
	}
	k := r.node.Content[r.next]
	r.cur = r.node.Content[r.next+1]
	r.next += 2
	if k.Kind != yaml.ScalarNode {
		return "", false, syntaxError("PARAM-SYN-004", "malformed mapping key"+yamlPos(k), nil)
	}
	return k.Value, true, nil
}

func (r *yamlRecord) DecodeString() (string, error) {
	v, err := r.dec.deref(r.cur)
	if err != nil {
		return "", err
	}
	if v == nil || v.Kind != yaml.ScalarNode || v.ShortTag() != "!!str" {
		return "", syntaxError("PARAM-SYN-002", "value must be a string"+yamlPos(v), nil)
	}
	return v.Value, nil
}

func (r *yamlRecord) DecodeEach(fn func(Record) error) error {
	v, err := r.dec.deref(r.cur)
	if err != nil {
		return err
	}
	if v == nil || v.Kind != yaml.SequenceNode {
		return syntaxError("PARAM-SYN-003", "components must be a sequence of mappings"+yamlPos(v), nil)
	}
	for _, item := range v.Content {
		child, err := r.dec.open(item, r)
		if err != nil {
			return err
		}
		if err := fn(child); err != nil {
			return err
		}
	}
	return nil
}

func (r *yamlRecord) Skip() error { return nil }

func yamlPos(n *yaml.Node) string {
	if n == nil || n.Line == 0 {
		return ""
	}
	return fmt.Sprintf(" at line %d column %d", n.Line, n.Column)
}
