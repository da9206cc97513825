package dialect

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shrek82/lappa/convert"
	"github.com/shrek82/lappa/model"
)

// ErrUnsupportedType is returned when a member type has no column type.
var ErrUnsupportedType = errors.New("unsupported column type")

// Dialect represents the database-specific SQL used to list, probe and
// create the tables records are mapped to.
type Dialect interface {
	// Name returns the database/sql driver name
	Name() string
	// Quote wraps a name (table or column) in database-specific quotes
	Quote(name string) string
	// DataTypeOf returns the column type storing values of typ
	DataTypeOf(typ reflect.Type) (string, error)
	// TablesSQL lists user tables in a single column named "name"
	TablesSQL() string
	// HasTableSQL generates the SQL to count tables with the given name
	HasTableSQL(tableName string) (string, []any)
	// CreateTableSQL generates the CREATE TABLE statement for the given model
	CreateTableSQL(m *model.Model) (string, error)
}

var (
	mu       sync.RWMutex
	dialects = make(map[string]Dialect)
)

// Register registers a new dialect for a given driver name
func Register(name string, d Dialect) {
	mu.Lock()
	defer mu.Unlock()
	dialects[name] = d
}

// Get retrieves a registered dialect by driver name
func Get(name string) (Dialect, bool) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := dialects[name]
	return d, ok
}

// Names returns the registered driver names in order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// class is the storage shape of a member type, shared by all dialects.
type class int

const (
	classBool class = iota
	classInt
	classBigInt
	classFloat
	classDouble
	classText
	classBytes
	classTime
	classList
)

var timeType = reflect.TypeFor[time.Time]()

// classify resolves pointers and enumerations before picking a storage
// shape, so Status int16 stores like int16.
func classify(typ reflect.Type) (class, error) {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	typ = convert.Underlying(typ)

	if typ == timeType {
		return classTime, nil
	}
	switch typ.Kind() {
	case reflect.Bool:
		return classBool, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return classInt, nil
	case reflect.Int64, reflect.Uint64:
		return classBigInt, nil
	case reflect.Float32:
		return classFloat, nil
	case reflect.Float64:
		return classDouble, nil
	case reflect.String:
		return classText, nil
	case reflect.Slice, reflect.Array:
		if typ.Elem().Kind() == reflect.Uint8 {
			return classBytes, nil
		}
		if ec, err := classify(typ.Elem()); err == nil && ec != classList && ec != classBytes {
			return classList, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
}

// createTable renders CREATE TABLE with one column per mapped member.
// column returns the full column definition for f.
func createTable(d Dialect, m *model.Model, column func(f *model.Field, typ string) string) (string, error) {
	columns := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		typ, err := d.DataTypeOf(f.Type)
		if err != nil {
			return "", fmt.Errorf("%s.%s: %w", m.Name, f.Name, err)
		}
		columns = append(columns, column(f, typ))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.Quote(m.TableName), strings.Join(columns, ", ")), nil
}
