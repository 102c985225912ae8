package docmap

import (
	"fmt"
	"slices"
)

// FromAny converts a generic Go tree, like the ones produced by
// encoding/json or yaml.v3 when decoding into an `any`, into a document Value.
//
// nil becomes null. Maps must have string keys, map[any]any is accepted as
// long as every key is a string. Object members are sorted by key as Go maps
// have no order. Any other value is converted as described in [Marshal].
func FromAny(value any) (Value, error) {
	switch value := value.(type) {
	case map[any]any:
		keys := make([]string, 0, len(value))
		for key := range value {
			stringKey, ok := key.(string)
			if !ok {
				return Value{}, fmt.Errorf("map key %v of type %T: %w", key, key, ErrNotSupported)
			}

			keys = append(keys, stringKey)
		}

		slices.Sort(keys)

		builder := newObjectBuilder(len(keys))
		for _, key := range keys {
			member, err := FromAny(value[key])
			if err != nil {
				return Value{}, fmt.Errorf("convert key %q: %w", key, err)
			}

			builder.set(key, member)
		}

		return ObjectValue(builder.build()), nil

	case []any:
		elements := make([]Value, len(value))
		for idx, element := range value {
			converted, err := FromAny(element)
			if err != nil {
				return Value{}, fmt.Errorf("convert element idx=%d: %w", idx, err)
			}

			elements[idx] = converted
		}

		return Value{kind: KindSequence, seq: elements}, nil

	case map[string]any:
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}

		slices.Sort(keys)

		builder := newObjectBuilder(len(keys))
		for _, key := range keys {
			member, err := FromAny(value[key])
			if err != nil {
				return Value{}, fmt.Errorf("convert key %q: %w", key, err)
			}

			builder.set(key, member)
		}

		return ObjectValue(builder.build()), nil

	default:
		return encodeValueOf(value)
	}
}

// MustFromAny is like FromAny but panics if the value can not be converted.
func MustFromAny(value any) Value {
	converted, err := FromAny(value)
	if err != nil {
		panic(err)
	}

	return converted
}

// ToAny converts a document Value into a generic Go tree made of
// map[string]any, []any, bool, string, int64, uint64, float64 and nil.
func ToAny(value Value) any {
	switch value.kind {
	case KindScalar:
		return value.scalar

	case KindObject:
		result := make(map[string]any, value.object.Len())
		for key, member := range value.object.All() {
			result[key] = ToAny(member)
		}

		return result

	case KindSequence:
		result := make([]any, len(value.seq))
		for idx, element := range value.seq {
			result[idx] = ToAny(element)
		}

		return result

	default:
		return nil
	}
}
