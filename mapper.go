package docmap

import (
	"sync"
)

// Mappable is implemented by types that can be converted from and to a
// document. Mapping binds every field of the type to a path in the document
// using the conversion rules of this package, like [Primitive] or [Mapped].
//
// The same Mapping runs for both directions. It may inspect
// [Context.Direction] where decoding and encoding genuinely differ.
type Mappable interface {
	Mapping(c *Context)
}

// Initializer is an optional interface of Mappable types. Init is called
// before Mapping when decoding. Returning false rejects the document.
type Initializer interface {
	Init(c *Context) bool
}

// Convertible is satisfied by *T if *T implements Mappable.
type Convertible[T any] interface {
	*T
	Mappable
}

// The default Mapper instance.
var mapper = NewMapper()

// Mapper drives conversions between documents and Mappable values. This type is typesafe.
type Mapper struct {
	// the struct tag that is used by Fields
	structTag string

	// receives debug messages about dropped values
	logger Logger

	// Cache for setters, indexed by reflect.Type
	setterCache sync.Map

	// Cache for the fields bound by Fields, indexed by reflect.Type
	fieldCache sync.Map
}

func NewMapper() *Mapper {
	return &Mapper{
		structTag: "docmap",
		logger:    Noop{},
	}
}

// WithTag returns a Mapper that reads field paths for [Fields] from the given struct tag.
func (m *Mapper) WithTag(structTag string) *Mapper {
	if m.structTag == structTag {
		return m
	}

	return &Mapper{
		structTag: structTag,
		logger:    m.logger,
	}
}

// WithLogger returns a Mapper that logs dropped values and failed reads to logger.
func (m *Mapper) WithLogger(logger Logger) *Mapper {
	if logger == nil {
		logger = Noop{}
	}

	return &Mapper{
		structTag: m.structTag,
		logger:    logger,
	}
}

func (m *Mapper) logf(level Classification, format string, v ...any) {
	m.logger.Logf(level, format, v...)
}

// Decode creates a new T from the document using the default Mapper.
func Decode[T any, PT Convertible[T]](document Value) (*T, bool) {
	return DecodeWith[T, PT](mapper, document)
}

// DecodeWith creates a new T from the document. It returns false if the
// document is not an object, if T rejects it in Init or if any strict read
// failed during Mapping.
func DecodeWith[T any, PT Convertible[T]](m *Mapper, document Value) (*T, bool) {
	target := new(T)
	if !m.DecodeInto(document, PT(target)) {
		return nil, false
	}

	return target, true
}

// DecodeInto maps the document onto an existing value using the default Mapper.
func DecodeInto(document Value, target Mappable) bool {
	return mapper.DecodeInto(document, target)
}

// DecodeInto maps the document onto an existing value. Fields without a value
// in the document keep their current value.
func (m *Mapper) DecodeInto(document Value, target Mappable) bool {
	if document.Kind() != KindObject {
		m.logf(Debug, "decode %T: document is %s, expected object", target, document.Kind())
		return false
	}

	c := newContext(m, FromDocument, document)

	if initializer, ok := target.(Initializer); ok && !initializer.Init(c) {
		m.logf(Debug, "decode %T: rejected by Init", target)
		return false
	}

	target.Mapping(c)

	if !c.IsValid() {
		m.logf(Debug, "decode %T: %d failed reads", target, c.Failures())
		return false
	}

	return true
}

// Encode converts value into an object document using the default Mapper.
func Encode(value Mappable) Value {
	return mapper.Encode(value)
}

// Encode converts value into an object document.
func (m *Mapper) Encode(value Mappable) Value {
	c := newContext(m, ToDocument, EmptyObject())
	value.Mapping(c)
	return c.document
}

// DecodeSlice decodes every element of a sequence. Elements that fail to
// decode are dropped. It returns false if the value is not a sequence.
func DecodeSlice[T any, PT Convertible[T]](sequence Value) ([]T, bool) {
	return DecodeSliceWith[T, PT](mapper, sequence)
}

func DecodeSliceWith[T any, PT Convertible[T]](m *Mapper, sequence Value) ([]T, bool) {
	if sequence.Kind() != KindSequence {
		return nil, false
	}

	result := make([]T, 0, len(sequence.seq))
	for idx, element := range sequence.seq {
		var target T
		if !m.DecodeInto(element, PT(&target)) {
			m.logf(Debug, "drop element idx=%d of %T", idx, result)
			continue
		}

		result = append(result, target)
	}

	return result, true
}

// EncodeSlice encodes every element into a sequence of objects.
func EncodeSlice[T any, PT Convertible[T]](values []T) Value {
	return EncodeSliceWith[T, PT](mapper, values)
}

func EncodeSliceWith[T any, PT Convertible[T]](m *Mapper, values []T) Value {
	elements := make([]Value, len(values))
	for idx := range values {
		elements[idx] = m.Encode(PT(&values[idx]))
	}

	return Value{kind: KindSequence, seq: elements}
}
