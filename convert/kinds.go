package convert

import (
	"database/sql"
	"reflect"
	"time"
)

var (
	timeType    = reflect.TypeFor[time.Time]()
	bytesType   = reflect.TypeFor[[]byte]()
	scannerType = reflect.TypeFor[sql.Scanner]()
)

// predeclared integer type per kind, used as the storage type of enums
var kindTypes = map[reflect.Kind]reflect.Type{
	reflect.Int:     reflect.TypeFor[int](),
	reflect.Int8:    reflect.TypeFor[int8](),
	reflect.Int16:   reflect.TypeFor[int16](),
	reflect.Int32:   reflect.TypeFor[int32](),
	reflect.Int64:   reflect.TypeFor[int64](),
	reflect.Uint:    reflect.TypeFor[uint](),
	reflect.Uint8:   reflect.TypeFor[uint8](),
	reflect.Uint16:  reflect.TypeFor[uint16](),
	reflect.Uint32:  reflect.TypeFor[uint32](),
	reflect.Uint64:  reflect.TypeFor[uint64](),
	reflect.Uintptr: reflect.TypeFor[uintptr](),
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// IsNumeric reports whether k is an integer or floating point kind.
func IsNumeric(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || isFloat(k)
}

// IsPrimitive reports whether t is a bool or numeric type (defined or not).
func IsPrimitive(t reflect.Type) bool {
	if t == nil {
		return false
	}
	k := t.Kind()
	return k == reflect.Bool || IsNumeric(k) || k == reflect.Complex64 || k == reflect.Complex128
}

// IsEnum reports whether t is an enumeration, i.e. a defined (named,
// non-predeclared) type whose underlying type is an integer.
func IsEnum(t reflect.Type) bool {
	if t == nil {
		return false
	}
	k := t.Kind()
	return (isInt(k) || isUint(k)) && t.PkgPath() != ""
}

// Underlying returns the integer type an enumeration is stored as. Any other
// type is returned unchanged.
func Underlying(t reflect.Type) reflect.Type {
	if !IsEnum(t) {
		return t
	}
	return kindTypes[t.Kind()]
}

func isText(v reflect.Value) bool {
	return v.Kind() == reflect.String || (v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8)
}

func text(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return string(v.Bytes())
}
