package docmap

// Transform converts between a field of type S and a document shaped value
// of type D. Decode receives the raw document value found at the bound key.
// The result of Encode is written using [Marshal], so D must be something
// Marshal accepts.
type Transform[S, D any] interface {
	Decode(value Value) (S, bool)
	Encode(value S) (D, bool)
}

// TransformFunc adapts a pair of functions to a Transform. A nil function
// always reports false.
type TransformFunc[S, D any] struct {
	DecodeFunc func(Value) (S, bool)
	EncodeFunc func(S) (D, bool)
}

var _ Transform[string, string] = TransformFunc[string, string]{}

func NewTransform[S, D any](decode func(Value) (S, bool), encode func(S) (D, bool)) TransformFunc[S, D] {
	return TransformFunc[S, D]{DecodeFunc: decode, EncodeFunc: encode}
}

func (t TransformFunc[S, D]) Decode(value Value) (S, bool) {
	if t.DecodeFunc == nil {
		var zero S
		return zero, false
	}

	return t.DecodeFunc(value)
}

func (t TransformFunc[S, D]) Encode(value S) (D, bool) {
	if t.EncodeFunc == nil {
		var zero D
		return zero, false
	}

	return t.EncodeFunc(value)
}
