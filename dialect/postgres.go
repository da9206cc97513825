package dialect

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/shrek82/lappa/model"
)

type postgres struct{}

func init() {
	Register("postgres", &postgres{})
}

func (d *postgres) Name() string { return "postgres" }

// DataTypeOf maps slices of primitives to native arrays; the array literal
// they scan back as is decoded by the convert package.
func (d *postgres) DataTypeOf(typ reflect.Type) (string, error) {
	c, err := classify(typ)
	if err != nil {
		return "", err
	}
	switch c {
	case classBool:
		return "boolean", nil
	case classInt:
		return "integer", nil
	case classBigInt:
		return "bigint", nil
	case classFloat:
		return "real", nil
	case classDouble:
		return "double precision", nil
	case classBytes:
		return "bytea", nil
	case classTime:
		return "timestamp with time zone", nil
	case classList:
		for typ.Kind() == reflect.Pointer {
			typ = typ.Elem()
		}
		elem, err := d.DataTypeOf(typ.Elem())
		if err != nil {
			return "", err
		}
		return elem + "[]", nil
	default:
		return "text", nil
	}
}

func (d *postgres) Quote(name string) string {
	return fmt.Sprintf(`"%s"`, strings.ReplaceAll(name, `"`, `""`))
}

func (d *postgres) TablesSQL() string {
	return "SELECT tablename AS name FROM pg_catalog.pg_tables WHERE schemaname != 'pg_catalog' AND schemaname != 'information_schema'"
}

func (d *postgres) HasTableSQL(tableName string) (string, []any) {
	return "SELECT count(*) AS count FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1", []any{tableName}
}

func (d *postgres) CreateTableSQL(m *model.Model) (string, error) {
	return createTable(d, m, func(f *model.Field, typ string) string {
		if f.IsAuto {
			// integer columns use SERIAL, bigint ones BIGSERIAL
			serial := "SERIAL"
			if typ == "bigint" {
				serial = "BIGSERIAL"
			}
			column := fmt.Sprintf("%s %s", d.Quote(f.Column), serial)
			if f.IsPK {
				column += " PRIMARY KEY"
			}
			return column
		}
		column := fmt.Sprintf("%s %s", d.Quote(f.Column), typ)
		if f.IsPK {
			column += " PRIMARY KEY"
		}
		return column
	})
}
