package input

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/typegraph-dev/typegraph/compiler/errors"
)

// DecodeJSON decodes one JSON document into a sampled value, preserving
// object key order.
func DecodeJSON(name string, r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	value, err := decodeValue(dec)
	if err != nil {
		return Value{}, errors.New(errors.ErrInputInvalidDocument,
			errors.Properties{"name": name, "reason": err.Error()})
	}
	return value, nil
}

// DecodeJSONString decodes a JSON document given as a string.
func DecodeJSONString(name, document string) (Value, error) {
	return DecodeJSON(name, strings.NewReader(document))
}

func decodeValue(dec *json.Decoder) (Value, error) {
	token, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeFromToken(dec, token)
}

func decodeFromToken(dec *json.Decoder, token json.Token) (Value, error) {
	switch t := token.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Boolean(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Integer64(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q", t.String())
		}
		return Float(f), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	default:
		return Value{}, fmt.Errorf("unexpected token %v", token)
	}
}

func decodeObject(dec *json.Decoder) (Value, error) {
	var members []Member
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyToken.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key is not a string: %v", keyToken)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: key, Value: value})
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Object(members...), nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	var items []Value
	for dec.More() {
		item, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Array(items...), nil
}
