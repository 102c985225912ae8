package docmap

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
)

var tyTextMarshaler = reflect.TypeFor[encoding.TextMarshaler]()
var tyJsonNumber = reflect.TypeFor[json.Number]()

// Marshal converts a Go value into a document value. Only document shaped
// values are accepted: booleans, strings, numbers, encoding.TextMarshaler
// implementations, Values, and slices, arrays and string keyed maps of those.
// Pointers and interfaces are followed.
//
// Everything else (structs, functions, channels, maps with non string keys)
// is rejected. A nil value at the top level, including nil slices and maps,
// is rejected too: it marks a value that is absent, not null.
func Marshal(value any) (Value, bool) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return Value{}, false
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return Value{}, false
		}
	}

	encoded, err := encodeValue(rv)
	if err != nil {
		return Value{}, false
	}

	return encoded, true
}

// encodeValue walks a Go value. Nil pointers, interfaces, slices and maps below
// the top level become null.
func encodeValue(rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return Null(), nil
	}

	ty := rv.Type()

	switch {
	case ty == tyValue:
		return rv.Interface().(Value), nil

	case ty == tyJsonNumber:
		return numberValue(rv.Interface().(json.Number))

	case ty.Kind() != reflect.Pointer && ty.Kind() != reflect.Interface && ty.Implements(tyTextMarshaler):
		text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return Value{}, fmt.Errorf("marshal text of %s: %w", ty, err)
		}

		return String(string(text)), nil
	}

	switch ty.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.String:
		return String(rv.String()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil

	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}

		return encodeValue(rv.Elem())

	case reflect.Slice:
		if rv.IsNil() {
			return Null(), nil
		}

		return encodeSequence(rv)

	case reflect.Array:
		return encodeSequence(rv)

	case reflect.Map:
		if ty.Key().Kind() != reflect.String {
			return Value{}, NotSupportedError{Type: ty}
		}

		if rv.IsNil() {
			return Null(), nil
		}

		keys := make([]string, 0, rv.Len())
		for _, key := range rv.MapKeys() {
			keys = append(keys, key.String())
		}

		slices.Sort(keys)

		builder := newObjectBuilder(len(keys))
		for _, key := range keys {
			member, err := encodeValue(rv.MapIndex(reflect.ValueOf(key).Convert(ty.Key())))
			if err != nil {
				return Value{}, fmt.Errorf("encode key %q: %w", key, err)
			}

			builder.set(key, member)
		}

		return ObjectValue(builder.build()), nil

	default:
		return Value{}, NotSupportedError{Type: ty}
	}
}

func encodeSequence(rv reflect.Value) (Value, error) {
	elements := make([]Value, rv.Len())

	for idx := range rv.Len() {
		element, err := encodeValue(rv.Index(idx))
		if err != nil {
			return Value{}, fmt.Errorf("encode element idx=%d: %w", idx, err)
		}

		elements[idx] = element
	}

	return Value{kind: KindSequence, seq: elements}, nil
}

func numberValue(number json.Number) (Value, error) {
	if i, err := strconv.ParseInt(string(number), 10, 64); err == nil {
		return Int(i), nil
	}

	if u, err := strconv.ParseUint(string(number), 10, 64); err == nil {
		return Uint(u), nil
	}

	f, err := strconv.ParseFloat(string(number), 64)
	if err != nil {
		return Value{}, fmt.Errorf("parse number %q: %w", number, ErrNotSupported)
	}

	return Float(f), nil
}

func encodeValueOf(value any) (Value, error) {
	return encodeValue(reflect.ValueOf(value))
}
