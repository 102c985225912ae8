package docmap

import (
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Kind describes which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindObject
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindSequence:
		return "sequence"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ScalarType is the set of Go types a scalar Value can be built from.
type ScalarType interface {
	~bool | ~string | constraints.Integer | constraints.Float
}

// Value is a node of a document: null, a scalar, an object or a sequence.
//
// A Value is immutable. The zero Value is null. Scalars hold exactly one of
// bool, string, int64, uint64 or float64. Functions that "modify" a document,
// like [Write] or [Object.With], return a new Value and leave their input
// untouched.
//
// Values are classified using the As* methods. Classification never panics,
// a mismatch simply reports false:
//
//	if name, ok := value.AsString(); ok {
//	    // ...
//	}
//
// Use the generic [As] to classify a value into any Go type the classifier
// supports, e.g. slices or maps of primitives.
type Value struct {
	kind   Kind
	scalar any
	object Object
	seq    []Value
}

// Null returns the null Value. It is the same as the zero Value.
func Null() Value {
	return Value{}
}

func Bool(b bool) Value {
	return Value{kind: KindScalar, scalar: b}
}

func String(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

func Int(i int64) Value {
	return Value{kind: KindScalar, scalar: i}
}

func Uint(u uint64) Value {
	return Value{kind: KindScalar, scalar: u}
}

func Float(f float64) Value {
	return Value{kind: KindScalar, scalar: f}
}

// Scalar builds a scalar Value from any primitive, including named types like
// `type Color string`. Signed integers are stored as int64, unsigned integers
// as uint64 and floats as float64.
func Scalar[T ScalarType](value T) Value {
	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.String:
		return String(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint())
	default:
		return Float(rv.Float())
	}
}

// Sequence returns a sequence Value holding a copy of the given values.
func Sequence(values ...Value) Value {
	if values == nil {
		values = []Value{}
	}

	return Value{kind: KindSequence, seq: slices.Clone(values)}
}

// ObjectValue wraps an Object into a Value.
func ObjectValue(object Object) Value {
	return Value{kind: KindObject, object: object}
}

// EmptyObject returns an object Value without members.
func EmptyObject() Value {
	return ObjectValue(Object{})
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Pair returns a Member, to be used with ObjectOf.
func Pair(key string, value Value) Member {
	return Member{Key: key, Value: value}
}

// ObjectOf returns an object Value holding the given members in order.
// A repeated key overwrites the earlier value but keeps its position.
func ObjectOf(members ...Member) Value {
	builder := newObjectBuilder(len(members))
	for _, member := range members {
		builder.set(member.Key, member.Value)
	}

	return ObjectValue(builder.build())
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsObject returns the object held by v.
func (v Value) AsObject() (Object, bool) {
	if v.kind != KindObject {
		return Object{}, false
	}

	return v.object, true
}

// AsSequence returns a copy of the elements of a sequence value.
func (v Value) AsSequence() ([]Value, bool) {
	if v.kind != KindSequence {
		return nil, false
	}

	return slices.Clone(v.seq), true
}

// Len returns the number of members or elements of a container, zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return v.object.Len()
	case KindSequence:
		return len(v.seq)
	default:
		return 0
	}
}

// Get returns the member with the given key if v is an object.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}

	return v.object.Get(key)
}

// Index returns the element at idx if v is a sequence and idx is in range.
func (v Value) Index(idx int) (Value, bool) {
	if v.kind != KindSequence || idx < 0 || idx >= len(v.seq) {
		return Value{}, false
	}

	return v.seq[idx], true
}

// Scalar returns the raw scalar: a bool, string, int64, uint64 or float64.
func (v Value) Scalar() (any, bool) {
	if v.kind != KindScalar {
		return nil, false
	}

	return v.scalar, true
}

func (v Value) AsBool() (bool, bool) {
	b, ok := v.scalar.(bool)
	return b, ok && v.kind == KindScalar
}

func (v Value) AsString() (string, bool) {
	s, ok := v.scalar.(string)
	return s, ok && v.kind == KindScalar
}

// AsInt returns the value as an int64. Unsigned values and integral floats
// are accepted if they fit.
func (v Value) AsInt() (int64, bool) {
	i, err := intOf(v)
	return i, err == nil
}

// AsUint returns the value as an uint64. Non negative ints and integral
// floats are accepted if they fit.
func (v Value) AsUint() (uint64, bool) {
	u, err := uintOf(v)
	return u, err == nil
}

// AsFloat returns any numeric scalar as a float64.
func (v Value) AsFloat() (float64, bool) {
	f, err := floatOf(v)
	return f, err == nil
}

// As classifies v into a value of type T. It returns false if the value can
// not be represented as a T.
func As[T any](v Value) (T, bool) {
	value, err := UnmarshalNew[T](v)
	return value, err == nil
}

func intOf(v Value) (int64, error) {
	switch value := v.scalar.(type) {
	case int64:
		return value, nil

	case uint64:
		if value > math.MaxInt64 {
			return 0, strconv.ErrRange
		}

		return int64(value), nil

	case float64:
		if value != math.Trunc(value) {
			return 0, ErrNotSupported
		}

		if value < math.MinInt64 || value >= math.MaxInt64 {
			return 0, strconv.ErrRange
		}

		return int64(value), nil

	default:
		return 0, kindError(v)
	}
}

func uintOf(v Value) (uint64, error) {
	switch value := v.scalar.(type) {
	case int64:
		if value < 0 {
			return 0, strconv.ErrRange
		}

		return uint64(value), nil

	case uint64:
		return value, nil

	case float64:
		if value != math.Trunc(value) {
			return 0, ErrNotSupported
		}

		if value < 0 || value >= math.MaxUint64 {
			return 0, strconv.ErrRange
		}

		return uint64(value), nil

	default:
		return 0, kindError(v)
	}
}

func floatOf(v Value) (float64, error) {
	switch value := v.scalar.(type) {
	case int64:
		return float64(value), nil
	case uint64:
		return float64(value), nil
	case float64:
		return value, nil
	default:
		return 0, kindError(v)
	}
}

// kindError returns ErrNoValue for null and ErrNotSupported for everything else.
func kindError(v Value) error {
	if v.kind == KindNull {
		return ErrNoValue
	}

	return ErrNotSupported
}

// Equal reports whether v and other are structurally equal. Numbers compare by
// their numeric value, so Int(1) equals Float(1).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true

	case KindScalar:
		return scalarEqual(v.scalar, other.scalar)

	case KindObject:
		return v.object.Equal(other.object)

	case KindSequence:
		return slices.EqualFunc(v.seq, other.seq, Value.Equal)

	default:
		return false
	}
}

func scalarEqual(a, b any) bool {
	switch a := a.(type) {
	case bool:
		b, ok := b.(bool)
		return ok && a == b

	case string:
		b, ok := b.(string)
		return ok && a == b
	}

	if _, isFloat := a.(float64); !isFloat {
		if _, isFloat := b.(float64); !isFloat {
			ai, aErr := intOf(Value{kind: KindScalar, scalar: a})
			bi, bErr := intOf(Value{kind: KindScalar, scalar: b})
			if aErr == nil && bErr == nil {
				return ai == bi
			}

			// at least one of them is an uint64 beyond MaxInt64
			au, aErr := uintOf(Value{kind: KindScalar, scalar: a})
			bu, bErr := uintOf(Value{kind: KindScalar, scalar: b})
			return aErr == nil && bErr == nil && au == bu
		}
	}

	af, aErr := floatOf(Value{kind: KindScalar, scalar: a})
	bf, bErr := floatOf(Value{kind: KindScalar, scalar: b})
	return aErr == nil && bErr == nil && af == bf
}

// String renders the value in a compact, JSON like notation.
func (v Value) String() string {
	var sb strings.Builder
	v.render(&sb)
	return sb.String()
}

func (v Value) render(sb *strings.Builder) {
	switch v.kind {
	case KindScalar:
		switch value := v.scalar.(type) {
		case bool:
			sb.WriteString(strconv.FormatBool(value))
		case string:
			sb.WriteString(strconv.Quote(value))
		case int64:
			sb.WriteString(strconv.FormatInt(value, 10))
		case uint64:
			sb.WriteString(strconv.FormatUint(value, 10))
		case float64:
			sb.WriteString(strconv.FormatFloat(value, 'g', -1, 64))
		}

	case KindObject:
		sb.WriteByte('{')
		for idx, key := range v.object.keys {
			if idx > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(strconv.Quote(key))
			sb.WriteString(": ")
			v.object.values[key].render(sb)
		}
		sb.WriteByte('}')

	case KindSequence:
		sb.WriteByte('[')
		for idx, element := range v.seq {
			if idx > 0 {
				sb.WriteString(", ")
			}

			element.render(sb)
		}
		sb.WriteByte(']')

	default:
		sb.WriteString("null")
	}
}
