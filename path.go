package docmap

import (
	"strconv"
	"strings"
)

// Path is a parsed, dot separated address into a document. A segment that
// is a non negative base 10 integer addresses a sequence element, every
// other segment addresses an object member.
type Path []string

// ParsePath splits s on '.'. Empty segments are dropped, so "a..b" and
// "a.b" address the same value.
func ParsePath(s string) Path {
	var path Path

	for _, segment := range strings.Split(s, ".") {
		if segment == "" {
			continue
		}

		path = append(path, segment)
	}

	return path
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// index interprets a segment as a sequence index.
func index(segment string) (int, bool) {
	idx, err := strconv.ParseUint(segment, 10, strconv.IntSize-1)
	if err != nil {
		return 0, false
	}

	return int(idx), true
}
