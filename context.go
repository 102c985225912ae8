package docmap

import (
	"fmt"
	"strings"
)

// Direction tells a Context whether it is decoding or encoding.
type Direction int

const (
	// FromDocument decodes a document into a Go value.
	FromDocument Direction = iota

	// ToDocument encodes a Go value into a document.
	ToDocument
)

func (d Direction) String() string {
	switch d {
	case FromDocument:
		return "decode"
	case ToDocument:
		return "encode"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Context holds the state of a single decode or encode run: the document, the
// key the next rule binds to and the value found there, and the number of
// failed strict reads.
//
// A Context is created by the Mapper for each object and passed to its
// Mapping method. It must not be retained or shared between goroutines.
type Context struct {
	mapper    *Mapper
	direction Direction

	// input document when decoding, the document being built when encoding
	document Value

	key    string
	nested bool
	query  bool

	current Value
	present bool

	required bool
	failures int
}

func newContext(m *Mapper, direction Direction, document Value) *Context {
	return &Context{
		mapper:    m,
		direction: direction,
		document:  document,
	}
}

// At binds the next rule to key. A key containing a '.' is treated as a
// path, see AtNested.
func (c *Context) At(key string) *Context {
	return c.AtNested(key, strings.Contains(key, "."))
}

// AtNested binds the next rule to key. If nested is true, key is a path and
// resolved using [Resolve], otherwise key is the name of a member of the
// root object. A null member counts as missing.
func (c *Context) AtNested(key string, nested bool) *Context {
	c.key = key
	c.nested = nested
	c.query = false
	c.required = false

	if nested {
		c.current, c.present = Resolve(key, c.document)
		return c
	}

	c.current, c.present = c.document.Get(key)
	if c.current.IsNull() {
		c.current, c.present = Value{}, false
	}

	return c
}

// AtRequired binds the next rule to the path key and marks it as required.
// When decoding, the process wide [RequiredFieldHook] is called to check
// that a value is present. A missing required value is not counted as a
// failed read.
func (c *Context) AtRequired(key string) *Context {
	c.AtNested(key, true)
	c.required = true

	if c.direction == FromDocument {
		assumeRequired(c.present, fmt.Sprintf("%s is a required field, should not be nil", key))
	}

	return c
}

// AtQuery binds the next rule to the result of a JMESPath expression
// evaluated against the document. Query results can only be read: when
// encoding, rules bound to a query write nothing.
func (c *Context) AtQuery(expression string) *Context {
	c.key = expression
	c.nested = false
	c.query = true
	c.required = false

	if c.direction == FromDocument {
		c.current, c.present = Search(expression, c.document)
	} else {
		c.current, c.present = Value{}, false
	}

	return c
}

func (c *Context) Direction() Direction {
	return c.direction
}

// Document returns the input document when decoding and the document built
// so far when encoding.
func (c *Context) Document() Value {
	return c.document
}

// Key returns the key or path the context is currently bound to.
func (c *Context) Key() string {
	return c.key
}

// Value returns the value found at the current key.
func (c *Context) Value() (Value, bool) {
	return c.current, c.present
}

// IsRequired reports whether the current key was bound using AtRequired.
func (c *Context) IsRequired() bool {
	return c.required
}

// Fail records a failed read. Any failure makes the decode fail.
func (c *Context) Fail() {
	c.failures++
}

func (c *Context) Failures() int {
	return c.failures
}

// IsValid reports whether no read has failed so far.
func (c *Context) IsValid() bool {
	return c.failures == 0
}

// Read classifies the value at the current key as a T. It returns false if
// there is no value or it can not be represented as a T.
func Read[T any](c *Context) (T, bool) {
	var zero T
	if !c.present {
		return zero, false
	}

	value, err := UnmarshalNewWith[T](c.mapper, c.current)
	if err != nil {
		return zero, false
	}

	return value, true
}

// ReadOr is like Read, but returns fallback if no T could be read.
func ReadOr[T any](c *Context, fallback T) T {
	if value, ok := Read[T](c); ok {
		return value
	}

	return fallback
}

// ReadOrFail is like Read, but records a failure on the context and returns the
// zero value of T if no T could be read.
func ReadOrFail[T any](c *Context) T {
	value, ok := Read[T](c)
	if !ok {
		c.Fail()
		c.mapper.logf(Debug, "read %q as %T failed", c.key, value)
	}

	return value
}

// write installs value at the current key of the document being encoded.
func (c *Context) write(value Value) {
	switch {
	case c.query:
		c.mapper.logf(Debug, "encode %q: query bindings are read only, dropped", c.key)

	case c.nested:
		written, ok := writePath(ParsePath(c.key), value, c.document)
		if !ok {
			c.mapper.logf(Debug, "encode %q: path blocked by a scalar, dropped", c.key)
			return
		}

		c.document = written

	default:
		object, ok := c.document.AsObject()
		if !ok {
			c.mapper.logf(Debug, "encode %q: document is %s, dropped", c.key, c.document.Kind())
			return
		}

		c.document = ObjectValue(object.With(c.key, value))
	}
}

// writeAny encodes value using [Marshal] and writes it if it is document shaped.
func (c *Context) writeAny(value any) {
	encoded, ok := Marshal(value)
	if !ok {
		c.mapper.logf(Debug, "encode %q: %T is not a document value, dropped", c.key, value)
		return
	}

	c.write(encoded)
}
