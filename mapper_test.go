package docmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type employer struct {
	Name string
}

func (e *employer) Mapping(c *Context) {
	Primitive(c.At("name"), &e.Name)
}

type employee struct {
	Name     string
	Age      int
	Employer employer
	Skills   []string
}

func (e *employee) Mapping(c *Context) {
	Primitive(c.At("name"), &e.Name)
	Strict(c.At("age"), &e.Age)
	Mapped(c.At("employer"), &e.Employer)
	Primitive(c.At("skills"), &e.Skills)
}

// picky rejects documents without a kind of "picky"
type picky struct {
	Value string
}

func (p *picky) Init(c *Context) bool {
	kind, _ := c.At("kind").Value()
	return kind.Equal(String("picky"))
}

func (p *picky) Mapping(c *Context) {
	Primitive(c.At("value"), &p.Value)
}

func employeeDocument() Value {
	return ObjectOf(
		Pair("name", String("Albert")),
		Pair("age", Int(21)),
		Pair("employer", ObjectOf(Pair("name", String("Carma")))),
		Pair("skills", Sequence(String("go"), String("sql"))),
	)
}

func TestDecode(t *testing.T) {
	value, ok := Decode[employee](employeeDocument())
	require.True(t, ok)
	require.Equal(t, &employee{
		Name:     "Albert",
		Age:      21,
		Employer: employer{Name: "Carma"},
		Skills:   []string{"go", "sql"},
	}, value)
}

func TestDecodeRejects(t *testing.T) {
	_, ok := Decode[employee](Sequence(employeeDocument()))
	require.False(t, ok, "not an object")

	_, ok = Decode[employee](Write("age", String("old"), employeeDocument()))
	require.False(t, ok, "strict read failed")

	_, ok = Decode[picky](ObjectOf(Pair("kind", String("other"))))
	require.False(t, ok, "rejected by Init")

	value, ok := Decode[picky](ObjectOf(Pair("kind", String("picky")), Pair("value", String("v"))))
	require.True(t, ok)
	require.Equal(t, "v", value.Value)
}

func TestDecodeIntoKeepsMissingFields(t *testing.T) {
	target := employee{Name: "Bert", Skills: []string{"java"}}

	ok := DecodeInto(ObjectOf(Pair("age", Int(30))), &target)
	require.True(t, ok)
	require.Equal(t, employee{Name: "Bert", Age: 30, Skills: []string{"java"}}, target)
}

func TestEncode(t *testing.T) {
	value := employee{
		Name:     "Albert",
		Age:      21,
		Employer: employer{Name: "Carma"},
		Skills:   []string{"go", "sql"},
	}

	requireEqualValue(t, employeeDocument(), Encode(&value))

	// nil slices are not encoded
	value.Skills = nil
	_, ok := Encode(&value).Get("skills")
	require.False(t, ok)
}

func TestRoundTrip(t *testing.T) {
	decoded, ok := Decode[employee](employeeDocument())
	require.True(t, ok)

	again, ok := Decode[employee](Encode(decoded))
	require.True(t, ok)
	require.Equal(t, decoded, again)
}

func TestDecodeSlice(t *testing.T) {
	sequence := Sequence(
		ObjectOf(Pair("name", String("Carma"))),
		String("not an object"),
		ObjectOf(Pair("name", String("Acme"))),
	)

	values, ok := DecodeSlice[employer](sequence)
	require.True(t, ok)
	require.Equal(t, []employer{{Name: "Carma"}, {Name: "Acme"}}, values)

	_, ok = DecodeSlice[employer](EmptyObject())
	require.False(t, ok)

	encoded := EncodeSlice(values)
	requireEqualValue(t, Sequence(
		ObjectOf(Pair("name", String("Carma"))),
		ObjectOf(Pair("name", String("Acme"))),
	), encoded)
}

func TestMapperLogsRejections(t *testing.T) {
	logger := &recordingLogger{}
	m := NewMapper().WithLogger(logger)

	_, ok := DecodeWith[employee](m, String("foo"))
	require.False(t, ok)
	require.Equal(t, []string{"DEBUG decode *docmap.employee: document is scalar, expected object"}, logger.Messages)
}

func TestMapperOptionsCopyOnWrite(t *testing.T) {
	m := NewMapper()
	require.Same(t, m, m.WithTag("docmap"))

	tagged := m.WithTag("json")
	require.NotSame(t, m, tagged)
	require.Equal(t, "docmap", m.structTag)
	require.Equal(t, "json", tagged.structTag)

	logged := tagged.WithLogger(nil)
	require.Equal(t, "json", logged.structTag)
	require.Equal(t, Noop{}, logged.logger)
}
