package transform

import (
	"net/url"
	"testing"
	"time"

	"github.com/go-gum/docmap"
	"github.com/stretchr/testify/require"
)

type Color string

func TestEnum(t *testing.T) {
	colors := NewEnum[Color]("red", "green")

	value, ok := colors.Decode(docmap.String("red"))
	require.True(t, ok)
	require.Equal(t, Color("red"), value)

	_, ok = colors.Decode(docmap.String("blue"))
	require.False(t, ok)

	_, ok = colors.Decode(docmap.Int(1))
	require.False(t, ok)

	encoded, ok := colors.Encode("green")
	require.True(t, ok)
	require.Equal(t, Color("green"), encoded)

	_, ok = colors.Encode("blue")
	require.False(t, ok)

	require.Equal(t, []Color{"red", "green"}, colors.Values())
}

func TestEnumWithoutValues(t *testing.T) {
	type Priority int

	var priorities Enum[Priority]

	value, ok := priorities.Decode(docmap.Int(3))
	require.True(t, ok)
	require.Equal(t, Priority(3), value)
}

func TestUnixTime(t *testing.T) {
	value, ok := UnixTime{}.Decode(docmap.Int(1700000000))
	require.True(t, ok)
	require.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), value)

	value, ok = UnixTime{}.Decode(docmap.String("1700000000.25"))
	require.True(t, ok)
	require.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 250_000_000, time.UTC), value)

	_, ok = UnixTime{}.Decode(docmap.String("yesterday"))
	require.False(t, ok)

	_, ok = UnixTime{}.Decode(docmap.Bool(true))
	require.False(t, ok)

	seconds, ok := UnixTime{}.Encode(value)
	require.True(t, ok)
	require.Equal(t, 1700000000.25, seconds)

	_, ok = UnixTime{}.Encode(time.Time{})
	require.False(t, ok)
}

func TestLayout(t *testing.T) {
	value, ok := ISO8601.Decode(docmap.String("2024-02-29T12:30:00+01:00"))
	require.True(t, ok)
	require.True(t, value.Equal(time.Date(2024, 2, 29, 11, 30, 0, 0, time.UTC)))

	text, ok := ISO8601.Encode(value)
	require.True(t, ok)
	require.Equal(t, "2024-02-29T11:30:00Z", text)

	day, ok := Date.Decode(docmap.String("2024-02-29"))
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), day)

	_, ok = Date.Decode(docmap.String("29.02.2024"))
	require.False(t, ok)

	zurich := time.FixedZone("CET", 3600)
	local := Layout{Layout: time.DateTime, Location: zurich}

	text, ok = local.Encode(time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC))
	require.True(t, ok)
	require.Equal(t, "2024-01-01 12:00:00", text)
}

func TestURL(t *testing.T) {
	value, ok := URL{}.Decode(docmap.String("https://example.com/a?b=c"))
	require.True(t, ok)
	require.Equal(t, "example.com", value.Host)

	_, ok = URL{RequireAbsolute: true}.Decode(docmap.String("/relative"))
	require.False(t, ok)

	_, ok = URL{}.Decode(docmap.String("http://[::1"))
	require.False(t, ok)

	text, ok := URL{}.Encode(value)
	require.True(t, ok)
	require.Equal(t, "https://example.com/a?b=c", text)

	_, ok = URL{}.Encode((*url.URL)(nil))
	require.False(t, ok)
}

type event struct {
	Color   Color
	At      time.Time
	Created time.Time
	Link    *url.URL
}

func (e *event) Mapping(c *docmap.Context) {
	docmap.Transformed(c.At("color"), &e.Color, NewEnum[Color]("red", "green"))
	docmap.Transformed(c.At("at"), &e.At, UnixTime{})
	docmap.Transformed(c.At("meta.created"), &e.Created, ISO8601)
	docmap.Transformed(c.At("link"), &e.Link, URL{})
}

func TestTransformsInMapping(t *testing.T) {
	document := docmap.ObjectOf(
		docmap.Pair("color", docmap.String("green")),
		docmap.Pair("at", docmap.Int(1700000000)),
		docmap.Pair("meta", docmap.ObjectOf(docmap.Pair("created", docmap.String("2024-02-29T11:30:00Z")))),
		docmap.Pair("link", docmap.String("https://example.com")),
	)

	value, ok := docmap.Decode[event](document)
	require.True(t, ok)
	require.Equal(t, Color("green"), value.Color)
	require.Equal(t, "example.com", value.Link.Host)

	require.True(t, document.Equal(docmap.Encode(value)))
}
