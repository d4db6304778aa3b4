package store

import "encoding/json"

// marshalJSON serializes v for storage in a JSON column, returning nil
// (SQL NULL) for an empty slice rather than the literal string "null".
func marshalJSON(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case []string:
		if len(t) == 0 {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalJSON(s string, v interface{}) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}
