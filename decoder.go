package docmap

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"golang.org/x/exp/constraints"
)

var ErrNoValue = errors.New("no value")
var ErrNotSupported = errors.New("not supported")

type NotSupportedError struct {
	Type reflect.Type
}

func (n NotSupportedError) Error() string {
	return fmt.Sprintf("type %q is not supported", n.Type)
}

// Unmarshal classifies the document value into the Go value target points to.
// It is the typed read behind [Read] and [As], exposed with error details.
func Unmarshal(source Value, target any) error {
	return mapper.Unmarshal(source, target)
}

func UnmarshalNew[T any](source Value) (T, error) {
	return UnmarshalNewWith[T](mapper, source)
}

func UnmarshalNewWith[T any](m *Mapper, source Value) (T, error) {
	var target T
	err := m.Unmarshal(source, &target)
	return target, err
}

// A setter sets the reflect.Value to a value extracted from the given document Value
type setter func(Value, reflect.Value) error

// A set of types that are currently in construction
type typeSet map[reflect.Type]struct{}

var tyTextUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()
var tyValue = reflect.TypeFor[Value]()

func (m *Mapper) Unmarshal(source Value, target any) error {
	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Pointer || targetValue.IsNil() {
		return fmt.Errorf("target %T: %w", target, ErrNotSupported)
	}

	return m.unmarshalValue(source, targetValue.Elem())
}

func (m *Mapper) unmarshalValue(source Value, target reflect.Value) error {
	// build the setter for the targets type
	setter, err := m.setterOf(typeSet{}, target.Type())
	if err != nil {
		return err
	}

	return setter(source, target)
}

func (m *Mapper) setterOf(inConstruction typeSet, ty reflect.Type) (setter, error) {
	if cached, ok := m.setterCache.Load(ty); ok {
		return cached.(setter), nil
	}

	if _, ok := inConstruction[ty]; ok {
		// detected a cycle. return a setter that does a cache lookup when executed.
		// we assume that the actual setter will be in the cache once this setter is executed.
		lazySetter := func(source Value, target reflect.Value) error {
			cached, _ := m.setterCache.Load(ty)
			return cached.(setter)(source, target)
		}

		return lazySetter, nil
	}

	inConstruction[ty] = struct{}{}

	setter, err := m.makeSetterOf(inConstruction, ty)
	if err != nil {
		return nil, err
	}

	m.setterCache.Store(ty, setter)

	return setter, nil
}

func (m *Mapper) makeSetterOf(inConstruction typeSet, ty reflect.Type) (setter, error) {
	if ty == tyValue {
		return setValue, nil
	}

	if reflect.PointerTo(ty).Implements(tyTextUnmarshaler) {
		return setTextUnmarshaler, nil
	}

	switch ty.Kind() {
	case reflect.Bool:
		return setBool, nil

	case reflect.Int:
		return makeSetInt(intOf, reflect.Value.SetInt, math.MinInt, math.MaxInt), nil

	case reflect.Int8:
		return makeSetInt(intOf, reflect.Value.SetInt, math.MinInt8, math.MaxInt8), nil

	case reflect.Int16:
		return makeSetInt(intOf, reflect.Value.SetInt, math.MinInt16, math.MaxInt16), nil

	case reflect.Int32:
		return makeSetInt(intOf, reflect.Value.SetInt, math.MinInt32, math.MaxInt32), nil

	case reflect.Int64:
		return makeSetInt(intOf, reflect.Value.SetInt, math.MinInt64, math.MaxInt64), nil

	case reflect.Uint:
		return makeSetInt(uintOf, reflect.Value.SetUint, 0, math.MaxUint), nil

	case reflect.Uint8:
		return makeSetInt(uintOf, reflect.Value.SetUint, 0, math.MaxUint8), nil

	case reflect.Uint16:
		return makeSetInt(uintOf, reflect.Value.SetUint, 0, math.MaxUint16), nil

	case reflect.Uint32:
		return makeSetInt(uintOf, reflect.Value.SetUint, 0, math.MaxUint32), nil

	case reflect.Uint64:
		return makeSetInt(uintOf, reflect.Value.SetUint, 0, math.MaxUint64), nil

	case reflect.Float32, reflect.Float64:
		return setFloat, nil

	case reflect.String:
		return setString, nil

	case reflect.Interface:
		if ty.NumMethod() != 0 {
			return nil, NotSupportedError{Type: ty}
		}

		return setAny, nil

	case reflect.Pointer:
		return m.makeSetPointer(inConstruction, ty)

	case reflect.Slice:
		return m.makeSetSlice(inConstruction, ty)

	case reflect.Array:
		return m.makeSetArray(inConstruction, ty)

	case reflect.Map:
		return m.makeSetMap(inConstruction, ty)

	default:
		return nil, NotSupportedError{Type: ty}
	}
}

func (m *Mapper) makeSetMap(inConstruction typeSet, ty reflect.Type) (setter, error) {
	keySetter, err := m.setterOf(inConstruction, ty.Key())
	if err != nil {
		return nil, fmt.Errorf("setter for key type %q: %w", ty, err)
	}

	valueSetter, err := m.setterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for value type %q: %w", ty, err)
	}

	keyType := ty.Key()
	valueType := ty.Elem()

	setter := func(source Value, target reflect.Value) error {
		object, ok := source.AsObject()
		if !ok {
			return kindError(source)
		}

		mapTarget := reflect.MakeMapWithSize(ty, object.Len())

		for key, value := range object.All() {
			keyTarget := reflect.New(keyType).Elem()
			if err := keySetter(String(key), keyTarget); err != nil {
				return fmt.Errorf("set key %q: %w", key, err)
			}

			valueTarget := reflect.New(valueType).Elem()
			if err := valueSetter(value, valueTarget); err != nil {
				return fmt.Errorf("set value of key %q: %w", key, err)
			}

			mapTarget.SetMapIndex(keyTarget, valueTarget)
		}

		target.Set(mapTarget)

		return nil
	}

	return setter, nil
}

func (m *Mapper) makeSetSlice(inConstruction typeSet, ty reflect.Type) (setter, error) {
	elementSetter, err := m.setterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for element type %q: %w", ty, err)
	}

	setter := func(source Value, target reflect.Value) error {
		if source.Kind() != KindSequence {
			return kindError(source)
		}

		sliceTarget := reflect.MakeSlice(ty, len(source.seq), len(source.seq))

		for idx, elementSource := range source.seq {
			if err := elementSetter(elementSource, sliceTarget.Index(idx)); err != nil {
				return fmt.Errorf("set element idx=%d: %w", idx, err)
			}
		}

		target.Set(sliceTarget)

		return nil
	}

	return setter, nil
}

func (m *Mapper) makeSetArray(inConstruction typeSet, ty reflect.Type) (setter, error) {
	elementSetter, err := m.setterOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for element type %q: %w", ty, err)
	}

	// number of elements in the array
	elementCount := ty.Len()

	setter := func(source Value, target reflect.Value) error {
		if source.Kind() != KindSequence {
			return kindError(source)
		}

		arrayTarget := reflect.New(ty).Elem()

		for idx := 0; idx < elementCount && idx < len(source.seq); idx++ {
			if err := elementSetter(source.seq[idx], arrayTarget.Index(idx)); err != nil {
				return fmt.Errorf("set element idx=%d: %w", idx, err)
			}
		}

		target.Set(arrayTarget)

		return nil
	}

	return setter, nil
}

func (m *Mapper) makeSetPointer(inConstruction typeSet, ty reflect.Type) (setter, error) {
	pointeeType := ty.Elem()

	pointeeSetter, err := m.setterOf(inConstruction, pointeeType)
	if err != nil {
		return nil, err
	}

	setter := func(source Value, target reflect.Value) error {
		if source.IsNull() {
			target.Set(reflect.Zero(ty))
			return nil
		}

		// newValue is now a pointer to an instance of the pointeeType
		newValue := reflect.New(pointeeType)
		if err := pointeeSetter(source, newValue.Elem()); err != nil {
			return err
		}

		// set pointer to the new value
		target.Set(newValue)

		return nil
	}

	return setter, err
}

func setValue(source Value, target reflect.Value) error {
	target.Set(reflect.ValueOf(source))
	return nil
}

func setAny(source Value, target reflect.Value) error {
	if source.IsNull() {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}

	target.Set(reflect.ValueOf(ToAny(source)))
	return nil
}

func setBool(source Value, target reflect.Value) error {
	boolValue, ok := source.AsBool()
	if !ok {
		return fmt.Errorf("get bool value: %w", kindError(source))
	}

	target.SetBool(boolValue)
	return nil
}

func makeSetInt[V constraints.Integer](
	classify func(Value) (V, error),
	setValue func(reflect.Value, V),
	minValue, maxValue V,
) setter {
	return func(source Value, target reflect.Value) error {
		intValue, err := classify(source)
		if err != nil {
			return fmt.Errorf("get %s value: %w", target.Type(), err)
		}

		if intValue < minValue || intValue > maxValue {
			return fmt.Errorf("invalid %s value %d: %w", target.Type(), intValue, strconv.ErrRange)
		}

		setValue(target, intValue)
		return nil
	}
}

func setFloat(source Value, target reflect.Value) error {
	floatValue, err := floatOf(source)
	if err != nil {
		return fmt.Errorf("get float value: %w", err)
	}

	if target.OverflowFloat(floatValue) {
		return fmt.Errorf("invalid %s value %g: %w", target.Type(), floatValue, strconv.ErrRange)
	}

	target.SetFloat(floatValue)
	return nil
}

func setString(source Value, target reflect.Value) error {
	stringValue, ok := source.AsString()
	if !ok {
		return fmt.Errorf("get string value: %w", kindError(source))
	}

	target.SetString(stringValue)

	return nil
}

func setTextUnmarshaler(source Value, target reflect.Value) error {
	text, ok := source.AsString()
	if !ok {
		return fmt.Errorf("get string value: %w", kindError(source))
	}

	m := target.Addr().Interface().(encoding.TextUnmarshaler)
	return m.UnmarshalText([]byte(text))
}
