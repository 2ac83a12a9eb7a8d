package model

import (
	"bytes"
	"encoding/json"
)

// Field is an optional JSON field that remembers whether it was present and
// whether it was an explicit null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Present reports a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// Get returns the value and whether it is present and non-null.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Present()
}
