package collection

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrDuplicateKey is returned when two elements produce the same key.
var ErrDuplicateKey = errors.New("duplicate key")

// Index maps every element of seq by the key selector returns for it, in a
// single ordered pass. Keys must be unique: on the first collision Index
// returns ErrDuplicateKey and no map.
func Index[K comparable, T any](seq []T, key func(T) K) (map[K]T, error) {
	out := make(map[K]T, len(seq))
	for i, item := range seq {
		k := key(item)
		if _, ok := out[k]; ok {
			return nil, fmt.Errorf("%w: %v (element %d)", ErrDuplicateKey, k, i)
		}
		out[k] = item
	}
	return out, nil
}

// IndexList is Index for a run-time typed List. The selector may fail, in
// which case its error is returned. Keys must be comparable.
func IndexList(l List, key func(any) (any, error)) (map[any]any, error) {
	out := make(map[any]any, l.Len())
	for i, item := range l.All() {
		k, err := key(item)
		if err != nil {
			return nil, err
		}
		if k != nil && !reflect.TypeOf(k).Comparable() {
			return nil, fmt.Errorf("%w: key %T of element %d is not comparable", ErrElemType, k, i)
		}
		if _, ok := out[k]; ok {
			return nil, fmt.Errorf("%w: %v (element %d)", ErrDuplicateKey, k, i)
		}
		out[k] = item
	}
	return out, nil
}
