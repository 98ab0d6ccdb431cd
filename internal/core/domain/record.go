package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Known record fields the core interprets. Every other column is opaque payload.
const (
	// FieldGameType selects the game a question belongs to.
	FieldGameType = "game_type"

	// FieldDifficulty is consumed by presentation collaborators for filtering.
	FieldDifficulty = "difficulty"
)

// Record is one parsed data row: lower-cased column header to cell value.
// Keys keep header order. Setting an existing key replaces its value
// without moving it.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord creates an empty record with room for n fields.
func NewRecord(n int) Record {
	return Record{
		keys:   make([]string, 0, n),
		values: make(map[string]string, n),
	}
}

// RecordOf builds a record from alternating key/value pairs.
// A trailing key without a value maps to the empty string.
func RecordOf(pairs ...string) Record {
	r := NewRecord(len(pairs) / 2)
	for i := 0; i < len(pairs); i += 2 {
		value := ""
		if i+1 < len(pairs) {
			value = pairs[i+1]
		}
		r.Set(pairs[i], value)
	}
	return r
}

// Set stores value under key.
func (r *Record) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key, or "" if the key is absent.
func (r Record) Get(key string) string {
	return r.values[key]
}

// Lookup returns the value for key and whether the key exists.
func (r Record) Lookup(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the field names in header order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Values returns the field values in header order.
func (r Record) Values() []string {
	out := make([]string, len(r.keys))
	for i, k := range r.keys {
		out[i] = r.values[k]
	}
	return out
}

// Map returns a copy of the fields as a map.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.keys))
	for _, k := range r.keys {
		out[k] = r.values[k]
	}
	return out
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.keys)
}

// IsBlank reports whether every value is empty after trimming whitespace.
func (r Record) IsBlank() bool {
	for _, v := range r.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// GameType returns the game_type field.
func (r Record) GameType() string {
	return r.values[FieldGameType]
}

// Difficulty returns the difficulty field.
func (r Record) Difficulty() string {
	return r.values[FieldDifficulty]
}

// Equal reports whether both records hold the same keys in the same order
// with the same values.
func (r Record) Equal(other Record) bool {
	if len(r.keys) != len(other.keys) {
		return false
	}
	for i, k := range r.keys {
		if other.keys[i] != k || other.values[k] != r.values[k] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record as a JSON object in header order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RecordSet is the ordered output of one parse.
type RecordSet []Record

// FilterByGameType returns the records whose game_type equals filter,
// keeping their relative order. An empty filter returns the set unchanged.
func (s RecordSet) FilterByGameType(filter string) RecordSet {
	return s.filterBy(FieldGameType, filter)
}

// FilterByDifficulty returns the records whose difficulty equals filter.
// An empty filter returns the set unchanged.
func (s RecordSet) FilterByDifficulty(filter string) RecordSet {
	return s.filterBy(FieldDifficulty, filter)
}

func (s RecordSet) filterBy(field, filter string) RecordSet {
	if filter == "" {
		return s
	}
	out := make(RecordSet, 0, len(s))
	for _, r := range s {
		if r.Get(field) == filter {
			out = append(out, r)
		}
	}
	return out
}

// Equal reports whether both sets hold equal records in the same order.
func (s RecordSet) Equal(other RecordSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].Equal(other[i]) {
			return false
		}
	}
	return true
}
