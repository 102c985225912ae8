package docmap

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func TestWriteSynthesizesContainers(t *testing.T) {
	written := Write("a.0", String("v"), EmptyObject())
	requireEqualValue(t, ObjectOf(Pair("a", Sequence(String("v")))), written)

	written = Write("a.name", String("v"), EmptyObject())
	requireEqualValue(t, ObjectOf(Pair("a", ObjectOf(Pair("name", String("v"))))), written)

	written = Write("employments.0.employer.name", String("Carma"), EmptyObject())
	expected := ObjectOf(
		Pair("employments", Sequence(
			ObjectOf(Pair("employer", ObjectOf(Pair("name", String("Carma"))))),
		)),
	)

	requireEqualValue(t, expected, written)
}

func TestWriteResolveRoundTrip(t *testing.T) {
	values := []Value{
		String("x"),
		Int(-3),
		Bool(false),
		Sequence(Int(1), Int(2)),
		ObjectOf(Pair("nested", Float(0.5))),
		EmptyObject(),
	}

	paths := []string{"a", "a.b", "a.0", "a.0.b.0.c", "x.y.z"}

	for _, path := range paths {
		for _, value := range values {
			written := Write(path, value, EmptyObject())

			resolved, ok := Resolve(path, written)
			require.True(t, ok, "path %q in %s", path, written)
			requireEqualValue(t, value, resolved)
		}
	}
}

func TestWriteIntoExistingContainers(t *testing.T) {
	root := ObjectOf(
		Pair("name", String("Albert")),
		Pair("list", Sequence(Int(1), Int(2))),
	)

	// overwrite in range
	written := Write("list.1", Int(20), root)
	requireEqualValue(t, Sequence(Int(1), Int(20)), mustResolve(t, "list", written))

	// out of range appends, the index is not honored
	written = Write("list.7", Int(3), root)
	requireEqualValue(t, Sequence(Int(1), Int(2), Int(3)), mustResolve(t, "list", written))

	// non index segment on a sequence appends too
	written = Write("list.foo", Int(3), root)
	requireEqualValue(t, Sequence(Int(1), Int(2), Int(3)), mustResolve(t, "list", written))

	// existing members keep their position
	written = Write("name", String("Bert"), root)
	object, _ := written.AsObject()
	require.Equal(t, []string{"name", "list"}, object.Keys())
}

func TestWriteIsPersistent(t *testing.T) {
	root := ObjectOf(Pair("a", ObjectOf(Pair("b", Int(1)))))
	before := root.String()

	written := Write("a.c", Int(2), root)
	t.Log(spew.Sdump(ToAny(written)))

	require.Equal(t, before, root.String())
	requireEqualValue(t, ObjectOf(Pair("a", ObjectOf(Pair("b", Int(1)), Pair("c", Int(2))))), written)
}

func TestWriteReplacesNull(t *testing.T) {
	root := ObjectOf(Pair("a", Null()))

	written := Write("a.b", Int(1), root)
	requireEqualValue(t, ObjectOf(Pair("a", ObjectOf(Pair("b", Int(1))))), written)
}

func TestWriteBlockedByScalar(t *testing.T) {
	root := ObjectOf(Pair("a", String("scalar")))

	written, ok := writePath(ParsePath("a.b"), Int(1), root)
	require.False(t, ok)
	requireEqualValue(t, root, written)

	requireEqualValue(t, root, Write("a.b.c", Int(1), root))
}

func TestWriteRequiresObjectRoot(t *testing.T) {
	root := Sequence(Int(1))
	requireEqualValue(t, root, Write("0", Int(2), root))

	requireEqualValue(t, EmptyObject(), Write("", Int(2), EmptyObject()))
}

func mustResolve(t *testing.T, path string, root Value) Value {
	t.Helper()

	value, ok := Resolve(path, root)
	require.True(t, ok, "resolve %q in %s", path, root)
	return value
}
