package param

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// ParseJSON resolves a single JSON object. Trailing data after the object is
// rejected.
func ParseJSON(data []byte) (Param, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	p, err := decodeJSON(dec)
	if err != nil {
		return Param{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Param{}, syntaxError("PARAM-SYN-005", "trailing data after record", nil)
	}
	return p, nil
}

// DecodeJSON resolves the next JSON object read from r.
func DecodeJSON(r io.Reader) (Param, error) {
	return decodeJSON(json.NewDecoder(r))
}

// UnmarshalJSON implements json.Unmarshaler so that Params can be embedded in
// larger documents decoded with encoding/json.
func (p *Param) UnmarshalJSON(data []byte) error {
	v, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func decodeJSON(dec *json.Decoder) (Param, error) {
	rec, err := openJSONRecord(dec)
	if err != nil {
		return Param{}, err
	}
	return Resolve(rec)
}

// jsonRecord streams one object from a shared token decoder, so that key
// order and repeated keys are observed as written.
type jsonRecord struct {
	dec     *json.Decoder
	pending bool
	done    bool
}

func openJSONRecord(dec *json.Decoder) (*jsonRecord, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, jsonSyntax(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, syntaxError("PARAM-SYN-001", "record must be an object", nil)
	}
	return &jsonRecord{dec: dec}, nil
}

func (r *jsonRecord) NextKey() (string, bool, error) {
	if r.done {
		return "", false, nil
	}
	if r.pending {
		if err := r.Skip(); err != nil {
			return "", false, err
		}
	}
	tok, err := r.dec.Token()
	if err != nil {
		return "", false, jsonSyntax(err)
	}
	if d, ok := tok.(json.Delim); ok && d == '}' {
		r.done = true
		return "", false, nil
	}
	key, ok := tok.(string)
	if !ok {
		return "", false, syntaxError("PARAM-SYN-004", "malformed object key", nil)
	}
	r.pending = true
	return key, true, nil
}

func (r *jsonRecord) DecodeString() (string, error) {
	r.pending = false
	tok, err := r.dec.Token()
	if err != nil {
		return "", jsonSyntax(err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", syntaxError("PARAM-SYN-002", "value must be a string", nil)
	}
	return s, nil
}

func (r *jsonRecord) DecodeEach(fn func(Record) error) error {
	r.pending = false
	tok, err := r.dec.Token()
	if err != nil {
		return jsonSyntax(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return syntaxError("PARAM-SYN-003", "components must be an array of objects", nil)
	}
	for r.dec.More() {
		child, err := openJSONRecord(r.dec)
		if err != nil {
			return err
		}
		if err := fn(child); err != nil {
			return err
		}
		if err := child.drain(); err != nil {
			return err
		}
	}
	if _, err := r.dec.Token(); err != nil {
		return jsonSyntax(err)
	}
	return nil
}

func (r *jsonRecord) Skip() error {
	r.pending = false
	depth := 0
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return jsonSyntax(err)
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
		if depth == 0 {
			return nil
		}
	}
}

// drain consumes whatever fn left unread of the record.
func (r *jsonRecord) drain() error {
	for {
		_, ok, err := r.NextKey()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

func jsonSyntax(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return syntaxError("PARAM-SYN-004", "malformed JSON", err)
}
