// Package paramtype models ABI type descriptors.
//
// A ParamType is a recursive tagged value. Array and FixedArray hold their
// element behind a pointer; Tuple holds its fields as an ordered slice whose
// order is significant.
package paramtype

import (
	"strconv"
	"strings"
)

// Tag identifies the variant of a ParamType.
type Tag uint8

const (
	TagInvalid Tag = iota
	TagAddress
	TagBytes
	TagInt
	TagUint
	TagBool
	TagString
	TagFixedBytes
	TagArray
	TagFixedArray
	TagTuple
)

var tagNames = [...]string{
	TagInvalid:    "invalid",
	TagAddress:    "address",
	TagBytes:      "bytes",
	TagInt:        "int",
	TagUint:       "uint",
	TagBool:       "bool",
	TagString:     "string",
	TagFixedBytes: "fixedbytes",
	TagArray:      "array",
	TagFixedArray: "fixedarray",
	TagTuple:      "tuple",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "tag(" + strconv.Itoa(int(t)) + ")"
}

// ParamType is a resolved ABI type descriptor.
//
// Size carries the bit width for Int/Uint, the byte length for FixedBytes and
// the declared length for FixedArray. It is zero for every other variant.
type ParamType struct {
	Tag    Tag
	Size   int
	Elem   *ParamType
	Fields []ParamType
}

func Address() ParamType { return ParamType{Tag: TagAddress} }
func Bytes() ParamType { return ParamType{Tag: TagBytes} }
func Int(bits int) ParamType { return ParamType{Tag: TagInt, Size: bits} }
func Uint(bits int) ParamType { return ParamType{Tag: TagUint, Size: bits} }
func Bool() ParamType { return ParamType{Tag: TagBool} }
func String() ParamType { return ParamType{Tag: TagString} }
func FixedBytes(n int) ParamType { return ParamType{Tag: TagFixedBytes, Size: n} }

// Array returns an unbounded array of elem.
func Array(elem ParamType) ParamType {
	return ParamType{Tag: TagArray, Elem: &elem}
}

// FixedArray returns an array of elem with a declared length of size.
func FixedArray(elem ParamType, size int) ParamType {
	return ParamType{Tag: TagFixedArray, Size: size, Elem: &elem}
}

// Tuple returns a tuple with the given fields in order.
// The slice is copied; later changes by the caller are not observed.
func Tuple(fields ...ParamType) ParamType {
	return ParamType{Tag: TagTuple, Fields: append([]ParamType(nil), fields...)}
}

// IsTuple reports whether t is a Tuple.
func (t ParamType) IsTuple() bool { return t.Tag == TagTuple }

// TupleShaped reports whether t is a Tuple, or an Array/FixedArray whose
// direct element is a Tuple. Deeper nesting does not count.
func (t ParamType) TupleShaped() bool {
	switch t.Tag {
	case TagTuple:
		return true
	case TagArray, TagFixedArray:
		return t.Elem != nil && t.Elem.IsTuple()
	default:
		return false
	}
}

// WithFields returns a copy of the tuple t whose fields are replaced by
// fields. It panics if t is not a Tuple.
func (t ParamType) WithFields(fields []ParamType) ParamType {
	if !t.IsTuple() {
		panic("paramtype: WithFields on " + t.Tag.String())
	}
	return Tuple(fields...)
}

// Equal reports whether t and o describe the same type.
func (t ParamType) Equal(o ParamType) bool {
	if t.Tag != o.Tag || t.Size != o.Size {
		return false
	}
	switch t.Tag {
	case TagArray, TagFixedArray:
		if t.Elem == nil || o.Elem == nil {
			return t.Elem == o.Elem
		}
		return t.Elem.Equal(*o.Elem)
	case TagTuple:
		if len(t.Fields) != len(o.Fields) {
			return false
		}
		for i := range t.Fields {
			if !t.Fields[i].Equal(o.Fields[i]) {
				return false
			}
		}
	}
	return true
}

// String renders t in canonical ABI form, as used in function signatures.
// Tuples render as a parenthesized field list.
func (t ParamType) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t ParamType) write(b *strings.Builder) {
	switch t.Tag {
	case TagAddress, TagBytes, TagBool, TagString:
		b.WriteString(t.Tag.String())
	case TagInt, TagUint:
		b.WriteString(t.Tag.String())
		b.WriteString(strconv.Itoa(t.Size))
	case TagFixedBytes:
		b.WriteString("bytes")
		b.WriteString(strconv.Itoa(t.Size))
	case TagArray:
		t.elem().write(b)
		b.WriteString("[]")
	case TagFixedArray:
		t.elem().write(b)
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(t.Size))
		b.WriteByte(']')
	case TagTuple:
		b.WriteByte('(')
		for i, f := range t.Fields {
			if i > 0 {
				b.WriteByte(',')
			}
			f.write(b)
		}
		b.WriteByte(')')
	default:
		b.WriteString("invalid")
	}
}

func (t ParamType) elem() ParamType {
	if t.Elem == nil {
		return ParamType{}
	}
	return *t.Elem
}
