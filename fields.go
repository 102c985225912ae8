package docmap

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// boundField describes an exported struct field and the path it is bound to.
type boundField struct {
	Path     string
	Required bool
	Strict   bool
	Type     reflect.Type
	Index    []int
}

var tyMappable = reflect.TypeFor[Mappable]()

// Fields binds every exported field of the struct target points to, using
// the path found in the mappers struct tag (`docmap` by default). Fields
// without a tag are bound to their Go name, a tag of "-" skips the field.
//
// The tag may carry options after the path:
//
//	type Person struct {
//	    Name    string   `docmap:"name,required"`
//	    Age     int      `docmap:"age,strict"`
//	    City    *string  `docmap:"address.city"`
//	    Friends []Person `docmap:"friends"`
//	}
//
//	func (p *Person) Mapping(c *docmap.Context) {
//	    docmap.Fields(c, p)
//	}
//
// "required" binds the field using [Context.AtRequired], "strict" makes a
// missing or mismatching value fail the decode like [Strict] does.
//
// Fields of a Mappable type, pointers to one, and slices or string keyed maps
// of one are bound like [Mapped], [OptionalMapped], [MappedSlice] and
// [MappedMap]. Everything else is bound like [Primitive], with pointers
// treated as optional values.
//
// Embedded structs are flattened. If the same path is visible more than once
// at the shallowest depth, a tagged field wins over untagged ones. If that
// does not resolve the conflict, the path is ignored.
//
// Fields panics if target is not a non-nil pointer to a struct.
func Fields(c *Context, target any) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("docmap: Fields requires a non-nil pointer to a struct, got %T", target))
	}

	rv = rv.Elem()

	for _, field := range c.mapper.fieldsOf(rv.Type()) {
		if field.Required {
			c.AtRequired(field.Path)
		} else {
			c.At(field.Path)
		}

		c.bindField(field, rv.FieldByIndex(field.Index))
	}
}

func (m *Mapper) fieldsOf(ty reflect.Type) []boundField {
	if cached, ok := m.fieldCache.Load(ty); ok {
		return cached.([]boundField)
	}

	cached, _ := m.fieldCache.LoadOrStore(ty, boundFieldsOf(ty, m.structTag))
	return cached.([]boundField)
}

func (c *Context) bindField(field boundField, target reflect.Value) {
	ty := field.Type

	switch {
	case reflect.PointerTo(ty).Implements(tyMappable):
		c.bindMappable(target)

	case ty.Kind() == reflect.Pointer && ty.Implements(tyMappable):
		c.bindOptionalMappable(target)

	case ty.Kind() == reflect.Slice && reflect.PointerTo(ty.Elem()).Implements(tyMappable):
		c.bindMappableSlice(target)

	case ty.Kind() == reflect.Map && ty.Key().Kind() == reflect.String && reflect.PointerTo(ty.Elem()).Implements(tyMappable):
		c.bindMappableMap(target)

	default:
		c.bindPrimitive(field, target)
	}
}

// decodeNew decodes value into a new instance of ty and returns a pointer to it.
func (c *Context) decodeNew(ty reflect.Type, value Value) (reflect.Value, bool) {
	ptr := reflect.New(ty)
	if !c.mapper.DecodeInto(value, ptr.Interface().(Mappable)) {
		return reflect.Value{}, false
	}

	return ptr, true
}

func (c *Context) bindMappable(target reflect.Value) {
	if c.direction == FromDocument {
		if !c.present {
			return
		}

		if ptr, ok := c.decodeNew(target.Type(), c.current); ok {
			target.Set(ptr.Elem())
		}

		return
	}

	c.write(c.mapper.Encode(target.Addr().Interface().(Mappable)))
}

func (c *Context) bindOptionalMappable(target reflect.Value) {
	if c.direction == FromDocument {
		if !c.present {
			return
		}

		if ptr, ok := c.decodeNew(target.Type().Elem(), c.current); ok {
			target.Set(ptr)
		}

		return
	}

	if !target.IsNil() {
		c.write(c.mapper.Encode(target.Interface().(Mappable)))
	}
}

func (c *Context) bindMappableSlice(target reflect.Value) {
	ty := target.Type()

	if c.direction == FromDocument {
		elements, ok := c.current.AsSequence()
		if !c.present || !ok {
			return
		}

		result := reflect.MakeSlice(ty, 0, len(elements))
		for idx, element := range elements {
			ptr, ok := c.decodeNew(ty.Elem(), element)
			if !ok {
				c.mapper.logf(Debug, "decode %q: drop element idx=%d", c.key, idx)
				continue
			}

			result = reflect.Append(result, ptr.Elem())
		}

		target.Set(result)
		return
	}

	if target.IsNil() {
		return
	}

	elements := make([]Value, target.Len())
	for idx := range elements {
		elements[idx] = c.mapper.Encode(target.Index(idx).Addr().Interface().(Mappable))
	}

	c.write(Value{kind: KindSequence, seq: elements})
}

func (c *Context) bindMappableMap(target reflect.Value) {
	ty := target.Type()

	if c.direction == FromDocument {
		object, ok := c.current.AsObject()
		if !c.present || !ok {
			return
		}

		result := reflect.MakeMapWithSize(ty, object.Len())
		for key, member := range object.All() {
			ptr, ok := c.decodeNew(ty.Elem(), member)
			if !ok {
				c.mapper.logf(Debug, "decode %q: drop member %q", c.key, key)
				continue
			}

			result.SetMapIndex(reflect.ValueOf(key).Convert(ty.Key()), ptr.Elem())
		}

		target.Set(result)
		return
	}

	if target.IsNil() {
		return
	}

	keys := target.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return strings.Compare(a.String(), b.String())
	})

	builder := newObjectBuilder(len(keys))
	for _, key := range keys {
		// map values are not addressable, encode a copy
		ptr := reflect.New(ty.Elem())
		ptr.Elem().Set(target.MapIndex(key))

		builder.set(key.String(), c.mapper.Encode(ptr.Interface().(Mappable)))
	}

	c.write(ObjectValue(builder.build()))
}

func (c *Context) bindPrimitive(field boundField, target reflect.Value) {
	if c.direction == FromDocument {
		if !c.present {
			if field.Strict {
				c.Fail()
				c.mapper.logf(Debug, "read %q as %s failed: no value", c.key, field.Type)
			}

			return
		}

		// decode into a temporary to keep the field untouched on failure
		value := reflect.New(field.Type).Elem()
		if err := c.mapper.unmarshalValue(c.current, value); err != nil {
			if field.Strict {
				c.Fail()
				c.mapper.logf(Debug, "read %q as %s failed: %s", c.key, field.Type, err)
			}

			return
		}

		target.Set(value)
		return
	}

	if target.Kind() == reflect.Pointer && target.IsNil() {
		return
	}

	c.writeAny(target.Interface())
}

func boundFieldsOf(ty reflect.Type, structTag string) []boundField {
	if ty.Kind() != reflect.Struct {
		panic("not a struct")
	}

	type queued struct {
		Type        reflect.Type
		ParentIndex []int
	}

	type candidate struct {
		Explicit bool
		Field    boundField
	}

	// walk the struct and its embedded structs breadth first, so candidates
	// for the same path are sorted by depth
	queue := []queued{{Type: ty}}

	candidates := map[string][]candidate{}

	var order []string

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		for idx := range item.Type.NumField() {
			fi := item.Type.Field(idx)
			if !fi.IsExported() {
				continue
			}

			tag := parseTag(fi, structTag)
			if tag.Path == "" {
				continue
			}

			// copy the parents index, it is shared between siblings
			parent := item.ParentIndex
			index := append(parent[:len(parent):len(parent)], fi.Index...)

			if fi.Anonymous && !tag.Explicit {
				if fi.Type.Kind() == reflect.Struct {
					queue = append(queue, queued{fi.Type, index})
				}

				continue
			}

			if len(candidates[tag.Path]) == 0 {
				order = append(order, tag.Path)
			}

			candidates[tag.Path] = append(candidates[tag.Path], candidate{
				Explicit: tag.Explicit,
				Field: boundField{
					Path:     tag.Path,
					Required: tag.Required,
					Strict:   tag.Strict,
					Type:     fi.Type,
					Index:    index,
				},
			})
		}
	}

	var fields []boundField

	for _, path := range order {
		shallowest := candidates[path]
		depth := len(shallowest[0].Field.Index)

		cut := slices.IndexFunc(shallowest, func(c candidate) bool { return len(c.Field.Index) != depth })
		if cut >= 0 {
			shallowest = shallowest[:cut]
		}

		if len(shallowest) == 1 {
			fields = append(fields, shallowest[0].Field)
			continue
		}

		explicit := slices.DeleteFunc(shallowest, func(c candidate) bool { return !c.Explicit })
		if len(explicit) == 1 {
			fields = append(fields, explicit[0].Field)
		}

		// ambiguous paths are ignored
	}

	return fields
}

type fieldTag struct {
	Path     string
	Explicit bool
	Required bool
	Strict   bool
}

func parseTag(fi reflect.StructField, structTag string) fieldTag {
	tag := fi.Tag.Get(structTag)

	switch tag {
	case "":
		return fieldTag{Path: fi.Name}

	case "-":
		// empty path, skip this field
		return fieldTag{Explicit: true}
	}

	path, options, _ := strings.Cut(tag, ",")

	result := fieldTag{Path: path, Explicit: path != ""}
	if path == "" {
		result.Path = fi.Name
	}

	for _, option := range strings.Split(options, ",") {
		switch option {
		case "required":
			result.Required = true
		case "strict":
			result.Strict = true
		}
	}

	return result
}
