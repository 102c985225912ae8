package docmap

// Resolve returns the value found at the dotted path below root.
// See ResolvePath.
func Resolve(path string, root Value) (Value, bool) {
	return ResolvePath(ParsePath(path), root)
}

// ResolvePath descends into root one segment at a time, using object members
// by key and sequence elements by index. It returns false if the path is
// empty, a member is missing, an index is invalid or out of range, or a
// scalar is reached while segments remain. A null value anywhere on the path,
// including the last segment, also resolves to false.
func ResolvePath(path Path, root Value) (Value, bool) {
	if len(path) == 0 {
		return Value{}, false
	}

	current := root
	for _, segment := range path {
		child, ok := childOf(current, segment)
		if !ok || child.IsNull() {
			return Value{}, false
		}

		current = child
	}

	return current, true
}

// childOf looks up a single segment in a container. Scalars and null have
// no children.
func childOf(container Value, segment string) (Value, bool) {
	switch container.Kind() {
	case KindObject:
		return container.object.Get(segment)

	case KindSequence:
		idx, ok := index(segment)
		if !ok {
			return Value{}, false
		}

		return container.Index(idx)

	default:
		return Value{}, false
	}
}
