package paramtype

import (
	"strconv"
	"strings"
)

// Parse reads a type string such as "uint48", "tuple[2]" or
// "(address,bytes32)[]" into a ParamType.
//
// The bare keyword "tuple" yields a placeholder Tuple with no fields; callers
// that know the components are expected to substitute them. Array suffixes
// bind left to right, so "tuple[2][]" is an Array of FixedArray.
func Parse(s string) (ParamType, error) {
	p := parser{input: s}
	return p.parse(s)
}

type parser struct {
	input string
}

func (p *parser) parse(s string) (ParamType, error) {
	if s == "" {
		return ParamType{}, p.fail(KindSyntax, "PT-SYN-001", "empty type")
	}

	if s[len(s)-1] == ']' {
		// The final suffix never contains '[' itself, so its opening bracket
		// is the last one in s.
		i := strings.LastIndexByte(s, '[')
		if i <= 0 {
			return ParamType{}, p.fail(KindSyntax, "PT-SYN-002", "unbalanced array brackets")
		}
		elem, err := p.parse(s[:i])
		if err != nil {
			return ParamType{}, err
		}
		dims := s[i+1 : len(s)-1]
		if dims == "" {
			return Array(elem), nil
		}
		n, err := p.number(dims, "PT-SYN-003", "invalid array length")
		if err != nil {
			return ParamType{}, err
		}
		return FixedArray(elem, n), nil
	}

	if s[0] == '(' {
		return p.tuple(s)
	}

	switch s {
	case "address":
		return Address(), nil
	case "bool":
		return Bool(), nil
	case "string":
		return String(), nil
	case "bytes":
		return Bytes(), nil
	case "tuple":
		return Tuple(), nil
	case "int":
		return Int(256), nil
	case "uint":
		return Uint(256), nil
	}

	switch {
	case strings.HasPrefix(s, "bytes"):
		n, err := p.number(s[len("bytes"):], "PT-SYN-004", "invalid bytes length")
		if err != nil {
			return ParamType{}, err
		}
		if n < 1 || n > 32 {
			return ParamType{}, p.fail(KindRange, "PT-RNG-002", "bytes length out of range")
		}
		return FixedBytes(n), nil
	case strings.HasPrefix(s, "uint"):
		n, err := p.width(s[len("uint"):])
		if err != nil {
			return ParamType{}, err
		}
		return Uint(n), nil
	case strings.HasPrefix(s, "int"):
		n, err := p.width(s[len("int"):])
		if err != nil {
			return ParamType{}, err
		}
		return Int(n), nil
	}

	return ParamType{}, p.fail(KindUnknown, "PT-UNK-001", "unknown type "+strconv.Quote(s))
}

func (p *parser) tuple(s string) (ParamType, error) {
	if s[len(s)-1] != ')' {
		return ParamType{}, p.fail(KindSyntax, "PT-SYN-002", "unbalanced parentheses")
	}
	body := s[1 : len(s)-1]
	if body == "" {
		return Tuple(), nil
	}

	var fields []ParamType
	depth, start := 0, 0
	for i := 0; i <= len(body); i++ {
		if i < len(body) {
			switch body[i] {
			case '(':
				depth++
				continue
			case ')':
				depth--
				if depth < 0 {
					return ParamType{}, p.fail(KindSyntax, "PT-SYN-002", "unbalanced parentheses")
				}
				continue
			case ',':
				if depth > 0 {
					continue
				}
			default:
				continue
			}
		}
		part := body[start:i]
		if part == "" {
			return ParamType{}, p.fail(KindSyntax, "PT-SYN-005", "empty tuple component")
		}
		f, err := p.parse(part)
		if err != nil {
			return ParamType{}, err
		}
		fields = append(fields, f)
		start = i + 1
	}
	if depth != 0 {
		return ParamType{}, p.fail(KindSyntax, "PT-SYN-002", "unbalanced parentheses")
	}
	return Tuple(fields...), nil
}

func (p *parser) width(digits string) (int, error) {
	n, err := p.number(digits, "PT-SYN-004", "invalid integer width")
	if err != nil {
		return 0, err
	}
	if n < 8 || n > 256 || n%8 != 0 {
		return 0, p.fail(KindRange, "PT-RNG-001", "integer width out of range")
	}
	return n, nil
}

// number accepts only canonical decimal digits: no sign, no leading zero.
func (p *parser) number(digits, ruleID, msg string) (int, error) {
	if digits == "" || (len(digits) > 1 && digits[0] == '0') {
		return 0, p.fail(KindSyntax, ruleID, msg)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, p.fail(KindSyntax, ruleID, msg)
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, p.fail(KindSyntax, ruleID, msg)
	}
	return n, nil
}

func (p *parser) fail(kind Kind, ruleID, msg string) error {
	return newError(kind, ruleID, p.input, msg)
}
