package model

import (
	"reflect"

	"github.com/shrek82/lappa/convert"
)

var bytesType = reflect.TypeFor[[]byte]()

// IsCustomReferenceType reports whether t is a reference shape (pointer, map,
// slice or interface) a mapper would descend into. Text, including []byte
// blobs, is never custom.
func IsCustomReferenceType(t reflect.Type) bool {
	if t == nil || t == bytesType {
		return false
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return true
	}
	return false
}

// IsCustomValueType reports whether t is a composite value shape (struct or
// array) that is neither an enumeration nor a primitive.
func IsCustomValueType(t reflect.Type) bool {
	if t == nil || convert.IsEnum(t) || convert.IsPrimitive(t) {
		return false
	}
	k := t.Kind()
	return k == reflect.Struct || k == reflect.Array
}

// MappableMembers returns the members of t eligible for mapping, read with
// the default tag name. See Registry.MappableMembers.
func MappableMembers(t reflect.Type) []*Field {
	return DefaultRegistry.MappableMembers(t)
}

// MappableMembers returns, in declaration order, every exported writable
// field of t (embedded structs flattened) followed by its writable
// properties ordered by name. Members typed as interface, func or chan are
// skipped because their behavior is bound at run time.
func (r *Registry) MappableMembers(t reflect.Type) []*Field {
	t = indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var out []*Field
	for _, f := range r.members(t) {
		if f.Writable() && !polymorphic(f.Type) {
			out = append(out, f)
		}
	}
	return out
}

// members lists every exported field and property of t, writable or not.
func (r *Registry) members(t reflect.Type) []*Field {
	fields := r.structFields(t, nil, map[reflect.Type]bool{t: true})
	names := make(map[string]bool, len(fields))
	for _, f := range fields {
		names[f.Name] = true
	}
	return append(fields, properties(t, names)...)
}

// structFields flattens embedded structs and exported embedded struct
// pointers. seen holds the types on the current path, which stops
// self-referencing embeds.
func (r *Registry) structFields(t reflect.Type, parent []int, seen map[reflect.Type]bool) []*Field {
	var out []*Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int(nil), parent...), i)

		tagStr := sf.Tag.Get(r.tagName)
		tag := ParseTag(tagStr)
		if tag.Ignore {
			continue
		}

		if sf.Anonymous && tag.Column == "" {
			et := sf.Type
			if et.Kind() == reflect.Pointer && sf.IsExported() {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				if seen[et] {
					continue
				}
				seen[et] = true
				out = append(out, r.structFields(et, index, seen)...)
				delete(seen, et)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		column := tag.Column
		if column == "" {
			column = camelToSnake(sf.Name)
		}
		out = append(out, &Field{
			Name:     sf.Name,
			Column:   column,
			Type:     sf.Type,
			Kind:     MemberField,
			Index:    index,
			IsPK:     tag.PrimaryKey,
			IsAuto:   tag.AutoInc,
			ReadOnly: tag.ReadOnly,
			Tag:      tagStr,
		})
	}
	return out
}

// properties finds getter/setter method pairs declared on *t. A getter is
// X() T, its setter SetX(T). Names already taken by fields are skipped.
func properties(t reflect.Type, taken map[string]bool) []*Field {
	pt := reflect.PointerTo(t)
	var out []*Field
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if taken[m.Name] || !isGetter(m) {
			continue
		}
		typ := m.Type.Out(0)
		f := &Field{
			Name:     m.Name,
			Column:   camelToSnake(m.Name),
			Type:     typ,
			Kind:     MemberProperty,
			Getter:   m.Name,
			ReadOnly: true,
		}
		if s, ok := pt.MethodByName("Set" + m.Name); ok && isSetter(s, typ) {
			f.Setter = s.Name
			f.ReadOnly = false
		}
		out = append(out, f)
	}
	return out
}

// receiver counts as the first input of a method obtained from a type
func isGetter(m reflect.Method) bool {
	return m.Type.NumIn() == 1 && m.Type.NumOut() == 1
}

func isSetter(m reflect.Method, typ reflect.Type) bool {
	return m.Type.NumIn() == 2 && m.Type.NumOut() == 0 && m.Type.In(1) == typ
}

func polymorphic(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// HasMember reports whether obj's type has an exported field or a property
// getter with the given name.
func HasMember(obj any, name string) bool {
	t := indirect(reflect.TypeOf(obj))
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Struct {
		if sf, ok := t.FieldByName(name); ok && sf.IsExported() {
			return true
		}
		m, ok := reflect.PointerTo(t).MethodByName(name)
		return ok && isGetter(m)
	}
	return false
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
