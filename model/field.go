package model

import (
	"reflect"
)

// MemberKind tells how a member is implemented on its record type.
type MemberKind int

const (
	// MemberField is a plain exported struct field.
	MemberField MemberKind = iota
	// MemberProperty is a getter/setter method pair, X() T and SetX(T).
	MemberProperty
)

func (k MemberKind) String() string {
	if k == MemberProperty {
		return "property"
	}
	return "field"
}

// Field describes one mappable data member of a record type.
type Field struct {
	Name     string       // Go member name
	Column   string       // DB column name
	Type     reflect.Type // Declared type
	Kind     MemberKind   // Field or property
	Index    []int        // Struct field index path, embedded structs flattened
	Getter   string       // Property getter method name
	Setter   string       // Property setter method name, empty when read-only
	IsPK     bool         // Is primary key
	IsAuto   bool         // Is auto-increment
	ReadOnly bool         // Tagged readonly or a getter without setter
	Tag      string       // Raw tag string
}

// Writable reports whether values can be assigned to the member.
func (f *Field) Writable() bool {
	if f.ReadOnly {
		return false
	}
	return f.Kind == MemberField || f.Setter != ""
}
