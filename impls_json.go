package stablehash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FromJSON maps a JSON document onto the hashable adapters: objects become
// unordered string-keyed maps, arrays become lists, strings and booleans map
// to their adapter directly and null maps to the absent optional. Numbers
// keep full precision, an integer literal becomes an arbitrary-precision
// integer and anything with a fraction or exponent becomes a decimal.
//
// Whitespace and object key order never affect the digest. Number spelling
// can: an integer literal and a fraction-or-exponent literal are distinct
// value types even when numerically equal, so `100` and `1e2` hash
// differently while `1.50` and `15e-1` do not.
func FromJSON(data []byte) (Hashable, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var document any
	if err := decoder.Decode(&document); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	if decoder.More() {
		return nil, fmt.Errorf("trailing data after document")
	}

	return fromJSONValue(document)
}

func fromJSONValue(value any) (Hashable, error) {
	switch v := value.(type) {
	case nil:
		return None[Bool](), nil

	case bool:
		return Bool(v), nil

	case string:
		return String(v), nil

	case json.Number:
		return fromJSONNumber(v)

	case []any:
		out := make(List[Hashable], len(v))
		for i, element := range v {
			hashable, err := fromJSONValue(element)
			if err != nil {
				return nil, fmt.Errorf("element #%d: %w", i, err)
			}

			out[i] = hashable
		}

		return out, nil

	case map[string]any:
		out := make(Map[string, Hashable], len(v))
		for key, element := range v {
			hashable, err := fromJSONValue(element)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}

			out[key] = hashable
		}

		return out, nil

	default:
		return nil, fmt.Errorf("unsupported JSON value of type %T", value)
	}
}

func fromJSONNumber(number json.Number) (Hashable, error) {
	if !strings.ContainsAny(number.String(), ".eE") {
		if out, err := NewBigIntFromString(number.String()); err == nil {
			return out, nil
		}
	}

	out, err := NewBigDecimalFromString(number.String())
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", number, err)
	}

	return out, nil
}
