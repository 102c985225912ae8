package docyaml

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-gum/docmap"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const personYAML = `name: Albert
age: 21
height: 1.76
active: true
nickname: null
employments:
  - employer:
      name: Carma
    title: Developer
big: 18446744073709551615
`

func TestDecode(t *testing.T) {
	value, err := Decode([]byte(personYAML))
	require.NoError(t, err)

	expected := docmap.ObjectOf(
		docmap.Pair("name", docmap.String("Albert")),
		docmap.Pair("age", docmap.Int(21)),
		docmap.Pair("height", docmap.Float(1.76)),
		docmap.Pair("active", docmap.Bool(true)),
		docmap.Pair("nickname", docmap.Null()),
		docmap.Pair("employments", docmap.Sequence(docmap.ObjectOf(
			docmap.Pair("employer", docmap.ObjectOf(docmap.Pair("name", docmap.String("Carma")))),
			docmap.Pair("title", docmap.String("Developer")),
		))),
		docmap.Pair("big", docmap.Uint(18446744073709551615)),
	)

	if diff := cmp.Diff(expected, value); diff != "" {
		t.Fatalf("document mismatch (-expected +actual):\n%s", diff)
	}

	object, _ := value.AsObject()
	require.Equal(t, []string{"name", "age", "height", "active", "nickname", "employments", "big"}, object.Keys())
}

func TestDecodeJSON(t *testing.T) {
	value, err := Decode([]byte(`{"b": [1, "two", null], "a": {"c": false}}`))
	require.NoError(t, err)

	expected := docmap.ObjectOf(
		docmap.Pair("b", docmap.Sequence(docmap.Int(1), docmap.String("two"), docmap.Null())),
		docmap.Pair("a", docmap.ObjectOf(docmap.Pair("c", docmap.Bool(false)))),
	)

	require.True(t, expected.Equal(value), value.String())
}

func TestDecodeScalarsAndKeys(t *testing.T) {
	value, err := Decode([]byte(`
1: one
true: yes
quoted: "12"
date: 2024-01-01
hex: 0x1F
`))

	require.NoError(t, err)

	expected := docmap.ObjectOf(
		docmap.Pair("1", docmap.String("one")),
		docmap.Pair("true", docmap.String("yes")),
		docmap.Pair("quoted", docmap.String("12")),
		docmap.Pair("date", docmap.String("2024-01-01")),
		docmap.Pair("hex", docmap.Int(31)),
	)

	require.True(t, expected.Equal(value), value.String())
}

func TestDecodeAliasesAndMerge(t *testing.T) {
	value, err := Decode([]byte(`
base: &base
  a: 1
  b: 2
copy: *base
merged:
  <<: *base
  b: 3
`))

	require.NoError(t, err)

	copied, ok := docmap.Resolve("copy.a", value)
	require.True(t, ok)
	require.True(t, docmap.Int(1).Equal(copied))

	merged, _ := docmap.Resolve("merged", value)
	require.True(t, docmap.ObjectOf(
		docmap.Pair("a", docmap.Int(1)),
		docmap.Pair("b", docmap.Int(3)),
	).Equal(merged), merged.String())
}

func TestDecodeNestedAliases(t *testing.T) {
	// every level references the previous one ten times, expanding all
	// aliases would produce 10^9 scalars
	var doc strings.Builder
	doc.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for level := 1; level <= 8; level++ {
		refs := strings.TrimSuffix(strings.Repeat(fmt.Sprintf("*l%d, ", level-1), 10), ", ")
		fmt.Fprintf(&doc, "l%d: &l%d [%s]\n", level, level, refs)
	}

	value, err := Decode([]byte(doc.String()))
	require.NoError(t, err)

	leaf, ok := docmap.Resolve("l8.9.9.9.9.9.9.9.9.0", value)
	require.True(t, ok)
	require.True(t, docmap.String("x").Equal(leaf), leaf.String())

	top, _ := docmap.Resolve("l8", value)
	require.Equal(t, 10, top.Len())
}

func TestDecodeRecursiveAlias(t *testing.T) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Anchor: "self"}
	root.Content = []*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: "self"},
		{Kind: yaml.AliasNode, Value: "self", Alias: root},
	}

	_, err := FromNode(root)
	require.ErrorIs(t, err, ErrRecursiveAlias)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("? [a, b]\n: c\n"))
	require.ErrorIs(t, err, ErrUnsupportedKey)

	_, err = Decode([]byte("a: [b"))
	require.Error(t, err)

	value, err := Decode(nil)
	require.NoError(t, err)
	require.True(t, value.IsNull())
}

func TestEncodeRoundTrip(t *testing.T) {
	value, err := Decode([]byte(personYAML))
	require.NoError(t, err)

	encoded, err := Encode(value)
	require.NoError(t, err)

	again, err := Decode(encoded)
	require.NoError(t, err)
	require.True(t, value.Equal(again), string(encoded))

	// key order is kept
	object, _ := again.AsObject()
	require.Equal(t, []string{"name", "age", "height", "active", "nickname", "employments", "big"}, object.Keys())
}

func TestEncodeQuotesAmbiguousStrings(t *testing.T) {
	value := docmap.ObjectOf(
		docmap.Pair("a", docmap.String("true")),
		docmap.Pair("b", docmap.String("12")),
		docmap.Pair("c", docmap.Float(2)),
	)

	encoded, err := Encode(value)
	require.NoError(t, err)
	require.Equal(t, "a: \"true\"\nb: \"12\"\nc: 2\n", string(encoded))

	again, err := Decode(encoded)
	require.NoError(t, err)
	require.True(t, value.Equal(again))
}

func TestDocument(t *testing.T) {
	type Config struct {
		Name  string   `yaml:"name"`
		Extra Document `yaml:"extra"`
	}

	var config Config
	require.NoError(t, yaml.Unmarshal([]byte("name: demo\nextra:\n  x: [1, 2]\n"), &config))

	require.Equal(t, "demo", config.Name)
	require.True(t, docmap.ObjectOf(
		docmap.Pair("x", docmap.Sequence(docmap.Int(1), docmap.Int(2))),
	).Equal(config.Extra.Value))

	encoded, err := yaml.Marshal(config)
	require.NoError(t, err)
	require.Equal(t, "name: demo\nextra:\n    x:\n        - 1\n        - 2\n", string(encoded))
}
