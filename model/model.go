package model

import (
	"fmt"
	"reflect"
	"sync"
	"unicode"

	"github.com/shrek82/lappa/inflect"
)

// Model represents table metadata for a record type
type Model struct {
	Name      string
	TableName string
	Type      reflect.Type
	Fields    []*Field
	FieldMap  map[string]*Field
	PKField   *Field

	accessors map[string]*Accessor
}

// Accessor returns the compiled accessor for a column.
func (m *Model) Accessor(column string) (*Accessor, bool) {
	a, ok := m.accessors[column]
	return a, ok
}

// Tabler is implemented by records that name their own table.
type Tabler interface {
	TableName() string
}

// Options configures a Registry.
type Options struct {
	// TagName is the struct tag key, DefaultTagName when empty.
	TagName string
	// SingularTables disables pluralization of derived table names.
	SingularTables bool
	// Pluralizer derives table names, inflect.Default() when nil.
	Pluralizer *inflect.Pluralizer
}

// Registry parses and caches model metadata. Metadata for a type, including
// its compiled accessors, is built once and shared by every caller.
type Registry struct {
	tagName    string
	singular   bool
	pluralizer *inflect.Pluralizer
	cache      sync.Map // reflect.Type -> *Model
}

// NewRegistry creates a registry with the given options.
func NewRegistry(opts Options) *Registry {
	r := &Registry{
		tagName:    opts.TagName,
		singular:   opts.SingularTables,
		pluralizer: opts.Pluralizer,
	}
	if r.tagName == "" {
		r.tagName = DefaultTagName
	}
	return r
}

// DefaultRegistry is used by the package level functions.
var DefaultRegistry = NewRegistry(Options{})

// GetModel returns the model metadata for a given value
func GetModel(value any) (*Model, error) {
	return DefaultRegistry.GetModel(value)
}

// GetModel returns the model metadata for a record, a pointer to one, or a
// reflect.Type of either.
func (r *Registry) GetModel(value any) (*Model, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: value is nil", ErrMapping)
	}

	typ, ok := value.(reflect.Type)
	if !ok {
		typ = reflect.TypeOf(value)
	}
	typ = indirect(typ)

	if typ.Kind() == reflect.Slice {
		typ = indirect(typ.Elem())
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: value must be a struct or pointer to struct, got %s", ErrMapping, typ.Kind())
	}

	if cached, ok := r.cache.Load(typ); ok {
		return cached.(*Model), nil
	}

	m, err := r.parseModel(typ)
	if err != nil {
		return nil, err
	}

	actual, _ := r.cache.LoadOrStore(typ, m)
	return actual.(*Model), nil
}

// TableName derives the default table name of a record type: its
// snake_case name, pluralized unless SingularTables is set.
func (r *Registry) TableName(typ reflect.Type) string {
	typ = indirect(typ)
	if t, ok := reflect.New(typ).Interface().(Tabler); ok {
		if name := t.TableName(); name != "" {
			return name
		}
	}
	return r.DeriveTableName(typ.Name())
}

// DeriveTableName derives a table name from an entity name such as
// "OrderItem", without consulting any Tabler implementation.
func (r *Registry) DeriveTableName(entity string) string {
	name := camelToSnake(entity)
	if r.singular {
		return name
	}
	if r.pluralizer != nil {
		return r.pluralizer.Pluralize(name)
	}
	return inflect.Pluralize(name)
}

func (r *Registry) parseModel(typ reflect.Type) (*Model, error) {
	m := &Model{
		Name:      typ.Name(),
		TableName: r.TableName(typ),
		Type:      typ,
		FieldMap:  make(map[string]*Field),
		accessors: make(map[string]*Accessor),
	}

	for _, field := range r.MappableMembers(typ) {
		if prev, ok := m.FieldMap[field.Column]; ok {
			return nil, fmt.Errorf("%w: %s maps column %q twice (%s, %s)", ErrMapping, typ.Name(), field.Column, prev.Name, field.Name)
		}
		a, err := CompileField(typ, field)
		if err != nil {
			return nil, err
		}

		m.Fields = append(m.Fields, field)
		m.FieldMap[field.Column] = field
		m.accessors[field.Column] = a

		if field.IsPK {
			m.PKField = field
		}
	}

	if m.PKField == nil {
		if f, ok := m.FieldMap["id"]; ok {
			m.PKField = f
		}
	}

	return m, nil
}

func camelToSnake(s string) string {
	if s == "ID" {
		return "id"
	}
	runes := []rune(s)
	var res []rune
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				res = append(res, '_')
			}
			res = append(res, unicode.ToLower(r))
		} else {
			res = append(res, r)
		}
	}
	return string(res)
}
