// Package docmap maps between dynamically shaped documents and typed Go values
// in both directions using a single mapping description per type.
//
// A document is a tree of [Value]s: null, scalars, ordered objects and
// sequences. Documents usually come from a parser, see the docyaml package or
// [FromAny] for the output of encoding/json.
//
// A type becomes convertible by implementing [Mappable]. Its Mapping method
// binds each field to a key or a dotted path in the document and applies a
// conversion rule:
//
//	type Person struct {
//	    Name     string
//	    Age      int
//	    Employer *Company
//	}
//
//	func (p *Person) Mapping(c *docmap.Context) {
//	    docmap.Primitive(c.At("name"), &p.Name)
//	    docmap.Primitive(c.AtRequired("age"), &p.Age)
//	    docmap.OptionalMapped(c.At("employments.0.employer"), &p.Employer)
//	}
//
// The same Mapping runs when decoding with [Decode] and when encoding with
// [Encode]. Paths with numeric segments address sequence elements. When
// encoding, missing containers along a path are created: a sequence if the
// next segment is an index, an object otherwise.
//
// Decoding is lenient. Values that are missing or have the wrong shape leave
// the field untouched, except for the Transformed rules documented otherwise,
// and elements of collections that fail to decode are dropped. Use [Strict], [ReadOrFail] or [Context.Fail] to reject a document
// instead. Encoding silently skips values that are not document shaped.
//
// Simple structs do not need to bind every field by hand, see [Fields].
package docmap
