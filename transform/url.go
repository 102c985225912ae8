package transform

import (
	"net/url"

	"github.com/go-gum/docmap"
)

// URL converts between a string and a parsed *url.URL.
type URL struct {
	// RequireAbsolute rejects URLs without a scheme.
	RequireAbsolute bool
}

var _ docmap.Transform[*url.URL, string] = URL{}

func (u URL) Decode(value docmap.Value) (*url.URL, bool) {
	text, ok := value.AsString()
	if !ok {
		return nil, false
	}

	parsed, err := url.Parse(text)
	if err != nil || (u.RequireAbsolute && !parsed.IsAbs()) {
		return nil, false
	}

	return parsed, true
}

func (u URL) Encode(value *url.URL) (string, bool) {
	if value == nil {
		return "", false
	}

	return value.String(), true
}
