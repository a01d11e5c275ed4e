// Package normalization maps loosely spelled user input onto enum values.
package normalization

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownValue is wrapped by Parse when no spelling matches.
var ErrUnknownValue = errors.New("unknown value")

// EnumNormalizer resolves case- and whitespace-insensitive spellings of an
// enum. Several spellings may map to the same value.
type EnumNormalizer[T comparable] struct {
	name     string
	values   map[string]T
	fallback T
	keys     []string
}

// NewEnumNormalizer creates a normalizer named name for error messages.
// Normalize returns fallback for unknown input.
func NewEnumNormalizer[T comparable](name string, values map[string]T, fallback T) *EnumNormalizer[T] {
	e := &EnumNormalizer[T]{
		name:     name,
		values:   make(map[string]T, len(values)),
		fallback: fallback,
	}
	for k, v := range values {
		key := clean(k)
		e.values[key] = v
		e.keys = append(e.keys, key)
	}
	sort.Strings(e.keys)
	return e
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalize returns the value for raw, or the fallback.
func (e *EnumNormalizer[T]) Normalize(raw string) T {
	if v, ok := e.values[clean(raw)]; ok {
		return v
	}
	return e.fallback
}

// Parse returns the value for raw or an error listing the accepted spellings.
func (e *EnumNormalizer[T]) Parse(raw string) (T, error) {
	if v, ok := e.values[clean(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q: %w (valid: %s)", e.name, raw, ErrUnknownValue, strings.Join(e.keys, ", "))
}

// Names returns the accepted spellings, sorted.
func (e *EnumNormalizer[T]) Names() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}
