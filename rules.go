package docmap

// Primitive binds a document shaped field: a bool, string or number, or a
// slice or string keyed map of those.
//
// Decoding assigns the value at the current key if it can be classified as a
// T and leaves the field untouched otherwise. Encoding writes the field if
// [Marshal] accepts it. Other values are silently left out of the document.
func Primitive[T any](c *Context, field *T) {
	if c.direction == FromDocument {
		if value, ok := Read[T](c); ok {
			*field = value
		}

		return
	}

	c.writeAny(*field)
}

// Strict is like Primitive, but a missing or mismatching value counts as a
// failed read and makes the surrounding decode fail. The field is set to the
// zero value in that case.
func Strict[T any](c *Context, field *T) {
	if c.direction == FromDocument {
		*field = ReadOrFail[T](c)
		return
	}

	c.writeAny(*field)
}

// Optional binds a field that may be absent. Decoding sets the pointer if a
// value is present, encoding writes nothing for a nil pointer.
func Optional[T any](c *Context, field **T) {
	if c.direction == FromDocument {
		if value, ok := Read[T](c); ok {
			*field = &value
		}

		return
	}

	if *field != nil {
		c.writeAny(**field)
	}
}

// Transformed binds a field using a Transform. Decoding passes the value at
// the current key to t.Decode and assigns the result. A missing value is
// passed as null, so a transform can supply a default. Encoding writes the
// result of t.Encode, if any.
func Transformed[S, D any](c *Context, field *S, t Transform[S, D]) {
	if c.direction == FromDocument {
		if value, ok := t.Decode(c.current); ok {
			*field = value
		}

		return
	}

	encodeTransformed(c, *field, t)
}

// OptionalTransformed is the optional variant of Transformed: the pointer is
// set if t.Decode accepts the value, a nil field is not encoded.
func OptionalTransformed[S, D any](c *Context, field **S, t Transform[S, D]) {
	if c.direction == FromDocument {
		if value, ok := t.Decode(c.current); ok {
			*field = &value
		}

		return
	}

	if *field != nil {
		encodeTransformed(c, **field, t)
	}
}

func encodeTransformed[S, D any](c *Context, value S, t Transform[S, D]) {
	encoded, ok := t.Encode(value)
	if !ok {
		return
	}

	c.writeAny(encoded)
}

// TransformedSlice binds a slice whose elements are converted using t.
// Elements that do not convert are left out in both directions. Decoding a
// missing value or one that is not a sequence yields an empty slice.
func TransformedSlice[S, D any](c *Context, field *[]S, t Transform[S, D]) {
	if c.direction == FromDocument {
		elements, _ := c.current.AsSequence()

		values := make([]S, 0, len(elements))
		for _, element := range elements {
			if value, ok := t.Decode(element); ok {
				values = append(values, value)
			}
		}

		*field = values
		return
	}

	if *field == nil {
		return
	}

	elements := make([]Value, 0, len(*field))
	for _, value := range *field {
		if encoded, ok := encodeWith(value, t); ok {
			elements = append(elements, encoded)
		}
	}

	c.write(Value{kind: KindSequence, seq: elements})
}

// TransformedMap binds a string keyed map whose values are converted using t.
// Members that do not convert are left out in both directions. Decoding a
// missing value or one that is not an object yields an empty map.
func TransformedMap[S, D any](c *Context, field *map[string]S, t Transform[S, D]) {
	if c.direction == FromDocument {
		object, _ := c.current.AsObject()

		values := make(map[string]S, object.Len())
		for key, member := range object.All() {
			if value, ok := t.Decode(member); ok {
				values[key] = value
			}
		}

		*field = values
		return
	}

	if *field == nil {
		return
	}

	builder := newObjectBuilder(len(*field))
	for _, key := range sortedKeys(*field) {
		if encoded, ok := encodeWith((*field)[key], t); ok {
			builder.set(key, encoded)
		}
	}

	c.write(ObjectValue(builder.build()))
}

func encodeWith[S, D any](value S, t Transform[S, D]) (Value, bool) {
	encoded, ok := t.Encode(value)
	if !ok {
		return Value{}, false
	}

	return Marshal(encoded)
}

// Mapped binds a field of a Mappable type. Decoding maps the value at the
// current key onto a new T and assigns it if the decode succeeds. Encoding
// writes the object produced by the field's Mapping.
func Mapped[T any, PT Convertible[T]](c *Context, field *T) {
	if c.direction == FromDocument {
		if !c.present {
			return
		}

		var value T
		if c.mapper.DecodeInto(c.current, PT(&value)) {
			*field = value
		}

		return
	}

	c.write(c.mapper.Encode(PT(field)))
}

// OptionalMapped is the optional variant of Mapped: a nil field is not encoded.
func OptionalMapped[T any, PT Convertible[T]](c *Context, field **T) {
	if c.direction == FromDocument {
		if !c.present {
			return
		}

		if value, ok := DecodeWith[T, PT](c.mapper, c.current); ok {
			*field = value
		}

		return
	}

	if *field != nil {
		c.write(c.mapper.Encode(PT(*field)))
	}
}
