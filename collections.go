package docmap

import (
	"cmp"
	"slices"
	"strings"
)

// Collections of Mappable values. Decoding is lenient: an element that fails
// to decode is dropped from the result, and a value of the wrong container
// kind leaves the field untouched. A nil slice or map is not encoded.

// MappedSlice binds a sequence of objects.
func MappedSlice[T any, PT Convertible[T]](c *Context, field *[]T) {
	if c.direction == FromDocument {
		if !c.present {
			return
		}

		if values, ok := DecodeSliceWith[T, PT](c.mapper, c.current); ok {
			*field = values
		}

		return
	}

	if *field != nil {
		c.write(EncodeSliceWith[T, PT](c.mapper, *field))
	}
}

// MappedSlice2D binds a sequence of sequences of objects. Inner values that
// are not sequences are dropped.
func MappedSlice2D[T any, PT Convertible[T]](c *Context, field *[][]T) {
	if c.direction == FromDocument {
		rows, ok := c.current.AsSequence()
		if !c.present || !ok {
			return
		}

		values := make([][]T, 0, len(rows))
		for idx, row := range rows {
			decoded, ok := DecodeSliceWith[T, PT](c.mapper, row)
			if !ok {
				c.mapper.logf(Debug, "decode %q: drop row idx=%d, it is %s", c.key, idx, row.Kind())
				continue
			}

			values = append(values, decoded)
		}

		*field = values
		return
	}

	if *field == nil {
		return
	}

	rows := make([]Value, len(*field))
	for idx, row := range *field {
		rows[idx] = EncodeSliceWith[T, PT](c.mapper, row)
	}

	c.write(Value{kind: KindSequence, seq: rows})
}

// MappedSet binds a sequence of objects to a set. Encoded elements are sorted
// by their string representation, as sets have no order.
func MappedSet[T comparable, PT Convertible[T]](c *Context, field *map[T]struct{}) {
	if c.direction == FromDocument {
		if !c.present {
			return
		}

		values, ok := DecodeSliceWith[T, PT](c.mapper, c.current)
		if !ok {
			return
		}

		set := make(map[T]struct{}, len(values))
		for _, value := range values {
			set[value] = struct{}{}
		}

		*field = set
		return
	}

	if *field == nil {
		return
	}

	elements := make([]Value, 0, len(*field))
	for value := range *field {
		elements = append(elements, c.mapper.Encode(PT(&value)))
	}

	slices.SortFunc(elements, func(a, b Value) int {
		return strings.Compare(a.String(), b.String())
	})

	c.write(Value{kind: KindSequence, seq: elements})
}

// MappedMap binds an object whose members are objects.
func MappedMap[T any, PT Convertible[T]](c *Context, field *map[string]T) {
	if c.direction == FromDocument {
		object, ok := c.current.AsObject()
		if !c.present || !ok {
			return
		}

		values := make(map[string]T, object.Len())
		for key, member := range object.All() {
			var value T
			if !c.mapper.DecodeInto(member, PT(&value)) {
				c.mapper.logf(Debug, "decode %q: drop member %q", c.key, key)
				continue
			}

			values[key] = value
		}

		*field = values
		return
	}

	if *field == nil {
		return
	}

	builder := newObjectBuilder(len(*field))
	for _, key := range sortedKeys(*field) {
		value := (*field)[key]
		builder.set(key, c.mapper.Encode(PT(&value)))
	}

	c.write(ObjectValue(builder.build()))
}

// MappedMapOfSlices binds an object whose members are sequences of objects.
// Members that are not sequences are dropped.
func MappedMapOfSlices[T any, PT Convertible[T]](c *Context, field *map[string][]T) {
	if c.direction == FromDocument {
		object, ok := c.current.AsObject()
		if !c.present || !ok {
			return
		}

		values := make(map[string][]T, object.Len())
		for key, member := range object.All() {
			decoded, ok := DecodeSliceWith[T, PT](c.mapper, member)
			if !ok {
				c.mapper.logf(Debug, "decode %q: drop member %q, it is %s", c.key, key, member.Kind())
				continue
			}

			values[key] = decoded
		}

		*field = values
		return
	}

	if *field == nil {
		return
	}

	builder := newObjectBuilder(len(*field))
	for _, key := range sortedKeys(*field) {
		builder.set(key, EncodeSliceWith[T, PT](c.mapper, (*field)[key]))
	}

	c.write(ObjectValue(builder.build()))
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	slices.Sort(keys)
	return keys
}
