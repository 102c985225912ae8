package transform

import (
	"math"
	"strconv"
	"time"

	"github.com/go-gum/docmap"
)

// UnixTime converts between seconds since the unix epoch and a time.Time.
// Fractional seconds are kept with microsecond precision. Decoding also
// accepts the number formatted as a string. A zero time is not encoded.
type UnixTime struct{}

var _ docmap.Transform[time.Time, float64] = UnixTime{}

func (UnixTime) Decode(value docmap.Value) (time.Time, bool) {
	seconds, ok := value.AsFloat()
	if !ok {
		text, isString := value.AsString()
		if !isString {
			return time.Time{}, false
		}

		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return time.Time{}, false
		}

		seconds = parsed
	}

	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return time.Time{}, false
	}

	whole, fraction := math.Modf(seconds)
	micros := int64(math.Round(fraction * 1e6))

	return time.Unix(int64(whole), micros*int64(time.Microsecond)).UTC(), true
}

func (UnixTime) Encode(value time.Time) (float64, bool) {
	if value.IsZero() {
		return 0, false
	}

	return float64(value.UnixMicro()) / 1e6, true
}

// Layout converts between a string and a time.Time using a layout as
// understood by time.Parse. Times without a zone are parsed in Location, or
// in UTC if Location is nil. A zero time is not encoded.
type Layout struct {
	Layout   string
	Location *time.Location
}

var _ docmap.Transform[time.Time, string] = Layout{}

// ISO8601 formats timestamps like 2006-01-02T15:04:05Z07:00.
var ISO8601 = Layout{Layout: time.RFC3339}

// Date formats calendar dates like 2006-01-02.
var Date = Layout{Layout: time.DateOnly}

func (l Layout) location() *time.Location {
	if l.Location == nil {
		return time.UTC
	}

	return l.Location
}

func (l Layout) Decode(value docmap.Value) (time.Time, bool) {
	text, ok := value.AsString()
	if !ok {
		return time.Time{}, false
	}

	parsed, err := time.ParseInLocation(l.Layout, text, l.location())
	if err != nil {
		return time.Time{}, false
	}

	return parsed, true
}

func (l Layout) Encode(value time.Time) (string, bool) {
	if value.IsZero() {
		return "", false
	}

	return value.In(l.location()).Format(l.Layout), true
}
