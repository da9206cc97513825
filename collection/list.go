// Package collection builds containers whose element type is only known at
// run time, and key indexes over materialized rows.
package collection

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
)

var (
	// ErrConstruction is returned when no container can be built for a type.
	ErrConstruction = errors.New("cannot construct list")
	// ErrElemType is returned when a value does not fit a list's element type.
	ErrElemType = errors.New("element type mismatch")
)

// List is an ordered, growable container specialized for one element type
// at construction time.
type List interface {
	ElemType() reflect.Type
	Len() int
	Append(v any) error
	At(i int) any
	All() iter.Seq2[int, any]
	// Slice returns the backing []T.
	Slice() any
}

type sliceList struct {
	elem  reflect.Type
	slice reflect.Value
}

// NewList returns an empty list of elem. Interface element types have no
// concrete shape and are rejected.
func NewList(elem reflect.Type) (List, error) {
	if elem == nil {
		return nil, fmt.Errorf("%w: nil element type", ErrConstruction)
	}
	if elem.Kind() == reflect.Interface {
		return nil, fmt.Errorf("%w: %s is an interface type", ErrConstruction, elem)
	}
	return &sliceList{
		elem:  elem,
		slice: reflect.MakeSlice(reflect.SliceOf(elem), 0, 0),
	}, nil
}

// ListOf returns an empty list for T.
func ListOf[T any]() (List, error) {
	return NewList(reflect.TypeFor[T]())
}

func (l *sliceList) ElemType() reflect.Type { return l.elem }

func (l *sliceList) Len() int { return l.slice.Len() }

// Append adds v to the end of the list. v must be assignable to the element
// type; nil is accepted for nillable element types.
func (l *sliceList) Append(v any) error {
	var rv reflect.Value
	if v == nil {
		switch l.elem.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			rv = reflect.Zero(l.elem)
		default:
			return fmt.Errorf("%w: nil is not a %s", ErrElemType, l.elem)
		}
	} else {
		rv = reflect.ValueOf(v)
		if !rv.Type().AssignableTo(l.elem) {
			return fmt.Errorf("%w: %s is not assignable to %s", ErrElemType, rv.Type(), l.elem)
		}
	}
	l.slice = reflect.Append(l.slice, rv)
	return nil
}

func (l *sliceList) At(i int) any {
	return l.slice.Index(i).Interface()
}

func (l *sliceList) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i := 0; i < l.slice.Len(); i++ {
			if !yield(i, l.slice.Index(i).Interface()) {
				return
			}
		}
	}
}

func (l *sliceList) Slice() any {
	return l.slice.Interface()
}
