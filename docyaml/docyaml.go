// Package docyaml reads and writes docmap documents as YAML using yaml.v3.
//
// Documents are parsed into a yaml.Node tree first, so object members keep
// the order of the input. As YAML is a superset of JSON, Decode reads JSON
// documents too.
package docyaml

import (
	"errors"
	"fmt"

	"github.com/go-gum/docmap"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedKey = errors.New("mapping key is not a scalar")
	ErrRecursiveAlias = errors.New("alias refers to a node containing it")
)

// Decode parses a single YAML document. An empty input decodes to null.
func Decode(data []byte) (docmap.Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return docmap.Value{}, fmt.Errorf("parse yaml: %w", err)
	}

	return FromNode(&node)
}

// Encode serializes the document as YAML.
func Encode(value docmap.Value) ([]byte, error) {
	node, err := ToNode(value)
	if err != nil {
		return nil, err
	}

	return yaml.Marshal(node)
}

// FromNode converts a parsed yaml.Node into a document Value. Aliases are
// resolved, merge keys are applied. Scalars are typed by their resolved tag:
// integers that do not fit an int64 become uint64 or float64, tags other than
// null, bool, int and float are kept as strings.
//
// Every anchored node is converted once and the result is shared by all of
// its aliases, so nested aliases do not expand exponentially.
func FromNode(node *yaml.Node) (docmap.Value, error) {
	conv := converter{
		anchored: map[*yaml.Node]docmap.Value{},
		active:   map[*yaml.Node]bool{},
	}

	return conv.valueOf(node)
}

type converter struct {
	// anchored holds the converted value of every anchored node seen so far
	anchored map[*yaml.Node]docmap.Value

	// active holds the anchored nodes currently being converted
	active map[*yaml.Node]bool
}

func (conv *converter) valueOf(node *yaml.Node) (docmap.Value, error) {
	if node.Anchor == "" {
		return conv.convert(node)
	}

	if value, ok := conv.anchored[node]; ok {
		return value, nil
	}

	if conv.active[node] {
		return docmap.Value{}, fmt.Errorf("line %d: anchor %q: %w", node.Line, node.Anchor, ErrRecursiveAlias)
	}

	conv.active[node] = true
	defer delete(conv.active, node)

	value, err := conv.convert(node)
	if err != nil {
		return docmap.Value{}, err
	}

	conv.anchored[node] = value
	return value, nil
}

func (conv *converter) convert(node *yaml.Node) (docmap.Value, error) {
	switch node.Kind {
	case 0:
		// zero node of an empty document
		return docmap.Null(), nil

	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return docmap.Null(), nil
		}

		return conv.valueOf(node.Content[0])

	case yaml.AliasNode:
		if node.Alias == nil {
			return docmap.Value{}, fmt.Errorf("line %d: alias %q has no target", node.Line, node.Value)
		}

		return conv.valueOf(node.Alias)

	case yaml.MappingNode:
		return conv.mappingOf(node)

	case yaml.SequenceNode:
		elements := make([]docmap.Value, len(node.Content))
		for idx, child := range node.Content {
			element, err := conv.valueOf(child)
			if err != nil {
				return docmap.Value{}, fmt.Errorf("element idx=%d: %w", idx, err)
			}

			elements[idx] = element
		}

		return docmap.Sequence(elements...), nil

	case yaml.ScalarNode:
		return scalarOf(node)

	default:
		return docmap.Value{}, fmt.Errorf("line %d: unknown node kind %v", node.Line, node.Kind)
	}
}

func (conv *converter) mappingOf(node *yaml.Node) (docmap.Value, error) {
	members := make([]docmap.Member, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)

	var merged []docmap.Object

	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		keyNode, valueNode := node.Content[idx], node.Content[idx+1]
		if keyNode.Kind == yaml.AliasNode && keyNode.Alias != nil {
			keyNode = keyNode.Alias
		}

		if keyNode.Kind != yaml.ScalarNode {
			return docmap.Value{}, fmt.Errorf("line %d: %w", keyNode.Line, ErrUnsupportedKey)
		}

		value, err := conv.valueOf(valueNode)
		if err != nil {
			return docmap.Value{}, fmt.Errorf("key %q: %w", keyNode.Value, err)
		}

		if keyNode.ShortTag() == "!!merge" {
			sources, err := mergeSources(value)
			if err != nil {
				return docmap.Value{}, fmt.Errorf("line %d: %w", keyNode.Line, err)
			}

			merged = append(merged, sources...)
			continue
		}

		members = append(members, docmap.Pair(keyNode.Value, value))
		seen[keyNode.Value] = true
	}

	// explicit keys win over merged ones, earlier merge sources over later ones
	for _, source := range merged {
		for key, value := range source.All() {
			if !seen[key] {
				members = append(members, docmap.Pair(key, value))
				seen[key] = true
			}
		}
	}

	return docmap.ObjectOf(members...), nil
}

func mergeSources(value docmap.Value) ([]docmap.Object, error) {
	if object, ok := value.AsObject(); ok {
		return []docmap.Object{object}, nil
	}

	elements, ok := value.AsSequence()
	if !ok {
		return nil, fmt.Errorf("merge value is %s", value.Kind())
	}

	sources := make([]docmap.Object, 0, len(elements))
	for _, element := range elements {
		object, ok := element.AsObject()
		if !ok {
			return nil, fmt.Errorf("merge element is %s", element.Kind())
		}

		sources = append(sources, object)
	}

	return sources, nil
}

func scalarOf(node *yaml.Node) (docmap.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return docmap.Null(), nil

	case "!!bool":
		var value bool
		if err := node.Decode(&value); err != nil {
			return docmap.Value{}, err
		}

		return docmap.Bool(value), nil

	case "!!int":
		var intValue int64
		if err := node.Decode(&intValue); err == nil {
			return docmap.Int(intValue), nil
		}

		var uintValue uint64
		if err := node.Decode(&uintValue); err == nil {
			return docmap.Uint(uintValue), nil
		}

		var floatValue float64
		if err := node.Decode(&floatValue); err != nil {
			return docmap.Value{}, err
		}

		return docmap.Float(floatValue), nil

	case "!!float":
		var value float64
		if err := node.Decode(&value); err != nil {
			return docmap.Value{}, err
		}

		return docmap.Float(value), nil

	default:
		return docmap.String(node.Value), nil
	}
}

// ToNode converts a document Value into a yaml.Node tree.
func ToNode(value docmap.Value) (*yaml.Node, error) {
	switch value.Kind() {
	case docmap.KindObject:
		object, _ := value.AsObject()

		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for key, member := range object.All() {
			keyNode, err := encodeScalar(key)
			if err != nil {
				return nil, err
			}

			valueNode, err := ToNode(member)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}

			node.Content = append(node.Content, keyNode, valueNode)
		}

		return node, nil

	case docmap.KindSequence:
		elements, _ := value.AsSequence()

		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for idx, element := range elements {
			child, err := ToNode(element)
			if err != nil {
				return nil, fmt.Errorf("element idx=%d: %w", idx, err)
			}

			node.Content = append(node.Content, child)
		}

		return node, nil

	case docmap.KindScalar:
		scalar, _ := value.Scalar()
		return encodeScalar(scalar)

	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
}

// encodeScalar lets yaml.v3 pick the representation, so strings that look
// like other types get quoted.
func encodeScalar(value any) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(value); err != nil {
		return nil, fmt.Errorf("encode %T: %w", value, err)
	}

	return &node, nil
}

// Document wraps a Value so it can be used as a field of types decoded or
// encoded directly by yaml.v3.
type Document struct {
	docmap.Value
}

var _ yaml.Unmarshaler = (*Document)(nil)
var _ yaml.Marshaler = Document{}

func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	value, err := FromNode(node)
	if err != nil {
		return err
	}

	d.Value = value
	return nil
}

func (d Document) MarshalYAML() (any, error) {
	return ToNode(d.Value)
}
