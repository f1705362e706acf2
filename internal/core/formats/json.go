package formats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/sheetedit/internal/core"
)

// ParseJSON reads one JSON document. An array yields one record per
// element, a single object yields one record. Object key order is kept.
// Strings, numbers, booleans and null keep their JSON type; nested objects
// and arrays are stored as compact JSON text.
func ParseJSON(r io.Reader) ([]core.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc json.RawMessage
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, core.ErrEmptyFile
		}
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after document", core.ErrInvalidJSON)
	}

	switch firstByte(doc) {
	case '{':
		rec, err := decodeObject(doc)
		if err != nil {
			return nil, err
		}
		return []core.Record{rec}, nil

	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(doc, &elems); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidJSON, err)
		}
		records := make([]core.Record, 0, len(elems))
		for i, elem := range elems {
			if firstByte(elem) != '{' {
				return nil, fmt.Errorf("%w: element %d is not an object", core.ErrInvalidJSON, i)
			}
			rec, err := decodeObject(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			records = append(records, rec)
		}
		return records, nil

	default:
		return nil, fmt.Errorf("%w: expected an object or an array of objects", core.ErrInvalidJSON)
	}
}

// decodeObject walks an object's tokens so keys come out in source order.
// A repeated key keeps its first position and its last value.
func decodeObject(data []byte) (core.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil {
		return core.Record{}, fmt.Errorf("%w: %v", core.ErrInvalidJSON, err)
	}

	rec := core.Record{Values: make(map[string]core.Value)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return core.Record{}, fmt.Errorf("%w: %v", core.ErrInvalidJSON, err)
		}
		key, ok := tok.(string)
		if !ok {
			return core.Record{}, fmt.Errorf("%w: object key %v", core.ErrInvalidJSON, tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return core.Record{}, fmt.Errorf("%w: value of %q: %v", core.ErrInvalidJSON, key, err)
		}
		value, err := jsonValue(raw)
		if err != nil {
			return core.Record{}, fmt.Errorf("%w: value of %q: %v", core.ErrInvalidJSON, key, err)
		}

		if _, seen := rec.Values[key]; !seen {
			rec.Keys = append(rec.Keys, key)
		}
		rec.Values[key] = value
	}
	return rec, nil
}

func jsonValue(raw json.RawMessage) (core.Value, error) {
	switch firstByte(raw) {
	case 'n':
		return nil, nil
	case 't':
		return true, nil
	case 'f':
		return false, nil
	case '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, err
		}
		return buf.String(), nil
	default:
		n := json.Number(bytes.TrimSpace(raw))
		if f, err := n.Float64(); err == nil {
			return f, nil
		}
		return n.String(), nil
	}
}

func firstByte(b []byte) byte {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return 0
	}
	return b[0]
}
