// Package transform holds ready to use implementations of docmap.Transform.
package transform

import (
	"slices"

	"github.com/go-gum/docmap"
)

// Enum converts between a document scalar and a named type with a fixed set
// of values, like
//
//	type Color string
//
//	var Colors = transform.NewEnum[Color]("red", "green", "blue")
//
// Values outside of the set are rejected in both directions. An Enum without
// values accepts everything the classifier can convert to E.
type Enum[E comparable] struct {
	values []E
}

var _ docmap.Transform[string, string] = Enum[string]{}

func NewEnum[E comparable](values ...E) Enum[E] {
	return Enum[E]{values: slices.Clone(values)}
}

// Values returns the accepted values in the order they were given.
func (e Enum[E]) Values() []E {
	return slices.Clone(e.values)
}

func (e Enum[E]) accepts(value E) bool {
	return len(e.values) == 0 || slices.Contains(e.values, value)
}

func (e Enum[E]) Decode(value docmap.Value) (E, bool) {
	decoded, ok := docmap.As[E](value)
	if !ok || !e.accepts(decoded) {
		var zero E
		return zero, false
	}

	return decoded, true
}

func (e Enum[E]) Encode(value E) (E, bool) {
	if !e.accepts(value) {
		var zero E
		return zero, false
	}

	return value, true
}
