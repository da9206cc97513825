// Package convert coerces values between the representation delivered by a
// storage layer and the types declared on record members.
//
// ForRead moves a value from storage into a member, ForWrite moves a member
// value into a storage-safe representation. Enumerations (defined integer
// types) always travel as their underlying integer, and booleans are written
// as a single unsigned byte.
package convert

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// ErrConversion is returned when a value cannot be represented as the
// destination type.
var ErrConversion = errors.New("conversion failed")

// ForRead converts value into dest for assignment into a record member.
// A nil value yields the zero value of dest.
func ForRead(value any, dest reflect.Type) (any, error) {
	if dest == nil {
		return nil, fmt.Errorf("%w: nil destination type", ErrConversion)
	}
	if value == nil {
		return reflect.Zero(dest).Interface(), nil
	}
	v, err := To(reflect.ValueOf(value), dest)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// ForWrite converts a member value into its storage representation. A bool is
// always written as uint8 1 or 0, whatever dest is. An enumeration dest is
// written as its underlying integer. A nil value stays nil.
func ForWrite(value any, dest reflect.Type) (any, error) {
	if value == nil {
		return nil, nil
	}
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Bool {
		if v.Bool() {
			return uint8(1), nil
		}
		return uint8(0), nil
	}
	return ForRead(value, Underlying(dest))
}

// To converts src to a reflect.Value of exactly type dest, or of a type
// implementing dest when dest is an interface.
func To(src reflect.Value, dest reflect.Type) (reflect.Value, error) {
	if !src.IsValid() {
		return reflect.Zero(dest), nil
	}
	if src.Type() == dest {
		return src, nil
	}
	if dest.Kind() == reflect.Interface && src.Type().Implements(dest) {
		return src, nil
	}

	for src.Kind() == reflect.Pointer || src.Kind() == reflect.Interface {
		if src.IsNil() {
			return reflect.Zero(dest), nil
		}
		src = src.Elem()
		if src.Type() == dest {
			return src, nil
		}
	}

	if dest.Kind() == reflect.Pointer {
		elem, err := To(src, dest.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(dest.Elem())
		p.Elem().Set(elem)
		return p, nil
	}

	if IsEnum(dest) {
		u, err := To(src, Underlying(dest))
		if err != nil {
			return reflect.Value{}, err
		}
		return u.Convert(dest), nil
	}

	if dest != timeType && reflect.PointerTo(dest).Implements(scannerType) {
		p := reflect.New(dest)
		if err := p.Interface().(sql.Scanner).Scan(src.Interface()); err != nil {
			return reflect.Value{}, failed(src, dest, err)
		}
		return p.Elem(), nil
	}

	out := reflect.New(dest).Elem()
	k := dest.Kind()
	switch {
	case k == reflect.Bool:
		b, err := toBool(src)
		if err != nil {
			return reflect.Value{}, failed(src, dest, err)
		}
		out.SetBool(b)
		return out, nil

	case isInt(k):
		n, err := toInt(src)
		if err != nil {
			return reflect.Value{}, failed(src, dest, err)
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, failed(src, dest, errOverflow)
		}
		out.SetInt(n)
		return out, nil

	case isUint(k):
		n, err := toUint(src)
		if err != nil {
			return reflect.Value{}, failed(src, dest, err)
		}
		if out.OverflowUint(n) {
			return reflect.Value{}, failed(src, dest, errOverflow)
		}
		out.SetUint(n)
		return out, nil

	case isFloat(k):
		f, err := toFloat(src)
		if err != nil {
			return reflect.Value{}, failed(src, dest, err)
		}
		if out.OverflowFloat(f) {
			return reflect.Value{}, failed(src, dest, errOverflow)
		}
		out.SetFloat(f)
		return out, nil

	case k == reflect.String:
		s, err := toString(src)
		if err != nil {
			return reflect.Value{}, failed(src, dest, err)
		}
		out.SetString(s)
		return out, nil

	case k == reflect.Slice && dest.Elem().Kind() == reflect.Uint8 && isText(src):
		out.SetBytes([]byte(text(src)))
		return out, nil

	case k == reflect.Slice || k == reflect.Array:
		if isText(src) && k == reflect.Slice {
			return fromArrayLiteral(src, dest)
		}
		if src.Kind() == reflect.Slice || src.Kind() == reflect.Array {
			return elementWise(src, dest)
		}

	case dest == timeType:
		if isText(src) {
			t, err := parseTime(text(src))
			if err != nil {
				return reflect.Value{}, failed(src, dest, err)
			}
			out.Set(reflect.ValueOf(t))
			return out, nil
		}
	}

	if src.Kind() != reflect.Slice && src.Type().ConvertibleTo(dest) {
		return src.Convert(dest), nil
	}
	return reflect.Value{}, failed(src, dest, errors.New("no conversion exists"))
}

var (
	errOverflow = errors.New("value out of range")
	errNegative = errors.New("negative value for unsigned type")
)

func failed(src reflect.Value, dest reflect.Type, cause error) error {
	return fmt.Errorf("%w: cannot convert %s to %s: %v", ErrConversion, src.Type(), dest, cause)
}

func elementWise(src reflect.Value, dest reflect.Type) (reflect.Value, error) {
	n := src.Len()
	var out reflect.Value
	if dest.Kind() == reflect.Array {
		if n != dest.Len() {
			return reflect.Value{}, failed(src, dest, fmt.Errorf("length %d does not match %d", n, dest.Len()))
		}
		out = reflect.New(dest).Elem()
	} else {
		if src.Kind() == reflect.Slice && src.IsNil() {
			return reflect.Zero(dest), nil
		}
		out = reflect.MakeSlice(dest, n, n)
	}
	for i := 0; i < n; i++ {
		ev, err := To(src.Index(i), dest.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}

func toBool(v reflect.Value) (bool, error) {
	k := v.Kind()
	switch {
	case k == reflect.Bool:
		return v.Bool(), nil
	case isInt(k):
		return v.Int() != 0, nil
	case isUint(k):
		return v.Uint() != 0, nil
	case isFloat(k):
		return v.Float() != 0, nil
	case isText(v):
		return strconv.ParseBool(strings.TrimSpace(text(v)))
	}
	return false, errors.New("not a boolean representation")
}

func toInt(v reflect.Value) (int64, error) {
	k := v.Kind()
	switch {
	case isInt(k):
		return v.Int(), nil
	case isUint(k):
		u := v.Uint()
		if u > math.MaxInt64 {
			return 0, errOverflow
		}
		return int64(u), nil
	case isFloat(k):
		f := math.RoundToEven(v.Float())
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, errOverflow
		}
		return int64(f), nil
	case k == reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	case isText(v):
		return strconv.ParseInt(strings.TrimSpace(text(v)), 10, 64)
	}
	return 0, errors.New("not a numeric representation")
}

func toUint(v reflect.Value) (uint64, error) {
	k := v.Kind()
	switch {
	case isInt(k):
		n := v.Int()
		if n < 0 {
			return 0, errNegative
		}
		return uint64(n), nil
	case isUint(k):
		return v.Uint(), nil
	case isFloat(k):
		f := math.RoundToEven(v.Float())
		if math.IsNaN(f) || f < 0 || f >= math.MaxUint64 {
			return 0, errOverflow
		}
		return uint64(f), nil
	case k == reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	case isText(v):
		return strconv.ParseUint(strings.TrimSpace(text(v)), 10, 64)
	}
	return 0, errors.New("not a numeric representation")
}

func toFloat(v reflect.Value) (float64, error) {
	k := v.Kind()
	switch {
	case isInt(k):
		return float64(v.Int()), nil
	case isUint(k):
		return float64(v.Uint()), nil
	case isFloat(k):
		return v.Float(), nil
	case k == reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	case isText(v):
		return strconv.ParseFloat(strings.TrimSpace(text(v)), 64)
	}
	return 0, errors.New("not a numeric representation")
}

func toString(v reflect.Value) (string, error) {
	if v.Type() == timeType {
		return formatTime(v), nil
	}
	if s, ok := v.Interface().(fmt.Stringer); ok && v.Type().PkgPath() != "" && v.Kind() != reflect.String {
		return s.String(), nil
	}
	k := v.Kind()
	switch {
	case isText(v):
		return text(v), nil
	case k == reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case isInt(k):
		return strconv.FormatInt(v.Int(), 10), nil
	case isUint(k):
		return strconv.FormatUint(v.Uint(), 10), nil
	case k == reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32), nil
	case k == reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64), nil
	}
	return "", errors.New("not a text representation")
}
