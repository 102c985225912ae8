package docmap

import "slices"

// Write returns a copy of root with value installed at the dotted path.
// See WritePath.
func Write(path string, value, root Value) Value {
	return WritePath(ParsePath(path), value, root)
}

// WritePath returns a copy of root with value installed at path. root must be
// an object; any other root is returned unchanged.
//
// Missing intermediate containers are created: a sequence if the following
// segment is an index, an object otherwise. Writing into a sequence
// overwrites the element at an in range index and appends in every other
// case, so the appended position can differ from the requested index.
//
// If a scalar is found where a container is required, nothing is written and
// root is returned unchanged.
func WritePath(path Path, value, root Value) Value {
	written, ok := writePath(path, value, root)
	if !ok {
		return root
	}

	return written
}

func writePath(path Path, value, root Value) (Value, bool) {
	if root.Kind() != KindObject || len(path) == 0 {
		return root, false
	}

	return setIn(root, path, value)
}

// setIn rebuilds collection with value stored below path. Containers are
// values, so every level needs to put its rebuilt child back into a rebuilt
// copy of itself.
func setIn(collection Value, path Path, value Value) (Value, bool) {
	head, tail := path[0], path[1:]
	if len(tail) == 0 {
		return addValue(collection, head, value)
	}

	child, ok := childOf(collection, head)
	if !ok || child.IsNull() {
		// the next segment decides on the kind of the new container
		if _, isIndex := index(tail[0]); isIndex {
			child = Sequence()
		} else {
			child = EmptyObject()
		}
	}

	child, ok = setIn(child, tail, value)
	if !ok {
		return collection, false
	}

	return addValue(collection, head, child)
}

// addValue sets a member of an object, or replaces or appends an element of a
// sequence. It fails for scalars and null.
func addValue(collection Value, key string, value Value) (Value, bool) {
	switch collection.Kind() {
	case KindObject:
		return ObjectValue(collection.object.With(key, value)), true

	case KindSequence:
		elements := slices.Clone(collection.seq)

		if idx, ok := index(key); ok && idx < len(elements) {
			elements[idx] = value
		} else {
			elements = append(elements, value)
		}

		return Value{kind: KindSequence, seq: elements}, true

	default:
		return collection, false
	}
}
