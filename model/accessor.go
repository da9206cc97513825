package model

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/shrek82/lappa/convert"
)

// ErrMapping is returned when a member does not exist, cannot be targeted,
// or cannot be written.
var ErrMapping = errors.New("mapping failed")

// Getter reads a member off a record instance.
type Getter func(instance any) (any, error)

// Setter writes a value into a member of a record instance.
type Setter func(instance any, value any) error

// Accessor is a compiled read/write pair bound to one member of one record
// type. Member resolution happens once in Compile; Get and Set only walk the
// precomputed index path or call the precomputed method.
type Accessor struct {
	Field *Field
	Owner reflect.Type

	read  func(rv reflect.Value) reflect.Value
	write func(rv reflect.Value, v reflect.Value)
}

// Compile resolves member on recordType (a struct or pointer to struct) with
// the default tag name. See Registry.Compile.
func Compile(recordType reflect.Type, member string) (*Accessor, error) {
	return DefaultRegistry.Compile(recordType, member)
}

// Compile resolves member on recordType (a struct or pointer to struct) and
// returns its accessor pair. Field tags are honored, so a readonly field
// compiles to a read-only accessor. Compiling the same member twice yields
// two independent accessors that behave identically.
func (r *Registry) Compile(recordType reflect.Type, member string) (*Accessor, error) {
	t := indirect(recordType)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v is not a struct type", ErrMapping, recordType)
	}

	for _, f := range r.members(t) {
		if f.Name == member {
			return CompileField(t, f)
		}
	}

	if sf, ok := t.FieldByName(member); ok && !sf.IsExported() {
		return nil, fmt.Errorf("%w: field %s.%s is not exported", ErrMapping, t.Name(), member)
	}
	if m, ok := reflect.PointerTo(t).MethodByName(member); ok && !isGetter(m) {
		return nil, fmt.Errorf("%w: %s.%s takes arguments and cannot be targeted as a member", ErrMapping, t.Name(), member)
	}
	return nil, fmt.Errorf("%w: %s has no member %s", ErrMapping, t.Name(), member)
}

// CompileField builds the accessor pair for an already resolved member.
func CompileField(recordType reflect.Type, f *Field) (*Accessor, error) {
	t := indirect(recordType)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v is not a struct type", ErrMapping, recordType)
	}
	if f.Type == nil {
		return nil, fmt.Errorf("%w: %s.%s has no declared type", ErrMapping, t.Name(), f.Name)
	}
	if polymorphic(f.Type) {
		return nil, fmt.Errorf("%w: %s.%s is %s typed and cannot be targeted", ErrMapping, t.Name(), f.Name, f.Type.Kind())
	}
	a := &Accessor{Field: f, Owner: t}

	switch f.Kind {
	case MemberField:
		sf, ok := fieldByIndex(t, f.Index)
		if !ok || sf.Type != f.Type {
			return nil, fmt.Errorf("%w: %s has no field at %v", ErrMapping, t.Name(), f.Index)
		}
		index := f.Index
		if len(index) == 1 {
			i := index[0]
			a.read = func(rv reflect.Value) reflect.Value { return rv.Field(i) }
			if f.Writable() {
				a.write = func(rv reflect.Value, v reflect.Value) { rv.Field(i).Set(v) }
			}
			break
		}
		a.read = func(rv reflect.Value) reflect.Value {
			fv, err := rv.FieldByIndexErr(index)
			if err != nil {
				return reflect.Value{}
			}
			return fv
		}
		if f.Writable() {
			a.write = func(rv reflect.Value, v reflect.Value) { allocByIndex(rv, index).Set(v) }
		}

	case MemberProperty:
		pt := reflect.PointerTo(t)
		get, ok := pt.MethodByName(f.Getter)
		if !ok || !isGetter(get) || get.Type.Out(0) != f.Type {
			return nil, fmt.Errorf("%w: %s has no getter %s", ErrMapping, t.Name(), f.Getter)
		}
		getFn := get.Func
		a.read = func(rv reflect.Value) reflect.Value {
			return getFn.Call([]reflect.Value{rv.Addr()})[0]
		}
		if f.Setter != "" && !f.ReadOnly {
			set, ok := pt.MethodByName(f.Setter)
			if !ok || !isSetter(set, f.Type) {
				return nil, fmt.Errorf("%w: %s has no setter %s", ErrMapping, t.Name(), f.Setter)
			}
			setFn := set.Func
			a.write = func(rv reflect.Value, v reflect.Value) {
				setFn.Call([]reflect.Value{rv.Addr(), v})
			}
		}

	default:
		return nil, fmt.Errorf("%w: unknown member kind %d", ErrMapping, f.Kind)
	}
	return a, nil
}

// Get reads the member from instance (a record or pointer to record). Nil
// pointers, maps and slices read as nil, as does a field promoted through a
// nil embedded pointer. Any other value is normalized through
// convert.ForRead; an enumeration comes back as its underlying integer.
func (a *Accessor) Get(instance any) (any, error) {
	rv, err := a.target(instance, false)
	if err != nil {
		return nil, err
	}
	raw := a.read(rv)
	if !raw.IsValid() {
		return nil, nil
	}
	switch raw.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if raw.IsNil() {
			return nil, nil
		}
	}
	if raw.Kind() == reflect.Interface {
		raw = raw.Elem()
	}
	return convert.ForRead(raw.Interface(), convert.Underlying(raw.Type()))
}

// Set coerces value for storage against the declared member type and
// assigns the result into instance, which must be a non-nil pointer.
func (a *Accessor) Set(instance any, value any) error {
	if a.write == nil {
		return fmt.Errorf("%w: %s.%s is read-only", ErrMapping, a.Owner.Name(), a.Field.Name)
	}
	rv, err := a.target(instance, true)
	if err != nil {
		return err
	}

	declared := a.Field.Type
	var v reflect.Value
	if value != nil && reflect.TypeOf(value) == declared {
		v = reflect.ValueOf(value)
	} else {
		stored, err := convert.ForWrite(value, declared)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", a.Owner.Name(), a.Field.Name, err)
		}
		v, err = convert.To(reflect.ValueOf(stored), declared)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", a.Owner.Name(), a.Field.Name, err)
		}
		if v.Type() != declared {
			v = v.Convert(declared)
		}
	}
	a.write(rv, v)
	return nil
}

// Getter returns Get as a function value.
func (a *Accessor) Getter() Getter {
	return a.Get
}

// Setter returns Set as a function value, or ErrMapping if the member is
// read-only.
func (a *Accessor) Setter() (Setter, error) {
	if a.write == nil {
		return nil, fmt.Errorf("%w: %s.%s is read-only", ErrMapping, a.Owner.Name(), a.Field.Name)
	}
	return a.Set, nil
}

// target resolves instance to an addressable struct value of the owner type.
func (a *Accessor) target(instance any, forWrite bool) (reflect.Value, error) {
	rv := reflect.ValueOf(instance)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil %s instance", ErrMapping, a.Owner.Name())
		}
		rv = rv.Elem()
		if rv.Type() == a.Owner {
			return rv, nil
		}
	} else if !forWrite && rv.IsValid() && rv.Type() == a.Owner {
		cp := reflect.New(a.Owner).Elem()
		cp.Set(rv)
		return cp, nil
	}
	if forWrite && rv.IsValid() && rv.Type() == a.Owner {
		return reflect.Value{}, fmt.Errorf("%w: %s must be passed by pointer to be written", ErrMapping, a.Owner.Name())
	}
	return reflect.Value{}, fmt.Errorf("%w: instance %T is not a %s", ErrMapping, instance, a.Owner.Name())
}

// fieldByIndex is reflect.Type.FieldByIndex without the panics: it reports
// false for an out of range index or a step through a non-struct. Embedded
// pointers must be exported so a write can allocate them.
func fieldByIndex(t reflect.Type, index []int) (reflect.StructField, bool) {
	var sf reflect.StructField
	for i, x := range index {
		if i > 0 {
			if sf.Type.Kind() == reflect.Pointer {
				if !sf.IsExported() {
					return sf, false
				}
				t = sf.Type.Elem()
			} else {
				t = sf.Type
			}
		}
		if t.Kind() != reflect.Struct || x < 0 || x >= t.NumField() {
			return sf, false
		}
		sf = t.Field(x)
	}
	return sf, len(index) > 0
}

// allocByIndex walks index from rv, allocating nil embedded pointers on the
// way, and returns the settable field at the end.
func allocByIndex(rv reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				rv.Set(reflect.New(rv.Type().Elem()))
			}
			rv = rv.Elem()
		}
		rv = rv.Field(x)
	}
	return rv
}

// TypedAccessor is an Accessor specialized for record type T.
type TypedAccessor[T any] struct {
	Get func(record *T) (any, error)
	Set func(record *T, value any) error
}

// For compiles member on T and returns typed closures over the accessor.
func For[T any](member string) (*TypedAccessor[T], error) {
	a, err := Compile(reflect.TypeFor[T](), member)
	if err != nil {
		return nil, err
	}
	return &TypedAccessor[T]{
		Get: func(record *T) (any, error) { return a.Get(record) },
		Set: func(record *T, value any) error { return a.Set(record, value) },
	}, nil
}
