package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// listKeys are the envelope fields that may carry a list, in precedence
// order. A present non-null field wins even when it is empty.
var listKeys = []string{"data", "results", "posts", "notifications", "communities"}

// List is a slice that decodes from any of the API's list envelopes.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if isNull(b) {
		*l = nil
		return nil
	}

	if b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("list envelope: %w", err)
	}
	for _, key := range listKeys {
		raw, ok := env[key]
		if !ok || isNull(bytes.TrimSpace(raw)) {
			continue
		}
		var inner List[T]
		if err := json.Unmarshal(raw, &inner); err != nil {
			return fmt.Errorf("list envelope %q: %w", key, err)
		}
		*l = inner
		return nil
	}

	*l = nil
	return nil
}

// Object decodes either a bare object or one wrapped in {"data": ...}.
type Object[T any] struct {
	Value T
}

func (o *Object[T]) UnmarshalJSON(b []byte) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &env); err == nil {
		if d := bytes.TrimSpace(env.Data); len(d) > 0 && d[0] == '{' {
			return json.Unmarshal(d, &o.Value)
		}
	}
	return json.Unmarshal(b, &o.Value)
}

func isNull(b []byte) bool {
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

// ID is a resource identifier. The API sends numbers for most resources
// and strings for some; both decode into ID.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if isNull(b) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string {
	return string(id)
}
