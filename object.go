package docmap

import (
	"iter"
	"slices"
)

// Object is an ordered collection of uniquely keyed members.
//
// Objects are persistent: With returns a new Object and never changes the
// receiver, so an Object can be shared freely between documents.
// The zero Object is empty and ready to use.
type Object struct {
	keys   []string
	values map[string]Value
}

func (o Object) Len() int {
	return len(o.keys)
}

func (o Object) Get(key string) (Value, bool) {
	value, ok := o.values[key]
	return value, ok
}

// Keys returns the keys in insertion order.
func (o Object) Keys() []string {
	return slices.Clone(o.keys)
}

// All iterates over all members in insertion order.
func (o Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, key := range o.keys {
			if !yield(key, o.values[key]) {
				return
			}
		}
	}
}

// With returns a copy of o with the member key set to value. An existing
// member keeps its position, a new member is appended.
func (o Object) With(key string, value Value) Object {
	values := make(map[string]Value, len(o.values)+1)
	for k, v := range o.values {
		values[k] = v
	}

	keys := o.keys
	if _, exists := o.values[key]; !exists {
		keys = append(slices.Clip(o.keys), key)
	}

	values[key] = value

	return Object{keys: keys, values: values}
}

// objectBuilder fills a fresh Object in place, for code that constructs a
// whole object at once. The builder must not be used after build.
type objectBuilder struct {
	keys   []string
	values map[string]Value
}

func newObjectBuilder(capacity int) *objectBuilder {
	return &objectBuilder{
		keys:   make([]string, 0, capacity),
		values: make(map[string]Value, capacity),
	}
}

// set works like [Object.With] without copying.
func (b *objectBuilder) set(key string, value Value) {
	if _, exists := b.values[key]; !exists {
		b.keys = append(b.keys, key)
	}

	b.values[key] = value
}

func (b *objectBuilder) build() Object {
	object := Object{keys: b.keys, values: b.values}
	*b = objectBuilder{}
	return object
}

// Equal reports whether both objects hold equal members. Member order is
// not significant.
func (o Object) Equal(other Object) bool {
	if len(o.keys) != len(other.keys) {
		return false
	}

	for key, value := range o.values {
		otherValue, ok := other.values[key]
		if !ok || !value.Equal(otherValue) {
			return false
		}
	}

	return true
}
