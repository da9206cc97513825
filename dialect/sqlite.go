package dialect

import (
	"fmt"
	"reflect"

	"github.com/shrek82/lappa/model"
)

type sqlite3 struct{}

func init() {
	Register("sqlite3", &sqlite3{})
}

func (d *sqlite3) Name() string { return "sqlite3" }

// DataTypeOf uses declared types the sqlite3 driver recognizes, so boolean
// and datetime columns scan back as bool and time.Time.
func (d *sqlite3) DataTypeOf(typ reflect.Type) (string, error) {
	c, err := classify(typ)
	if err != nil {
		return "", err
	}
	switch c {
	case classBool:
		return "boolean", nil
	case classInt, classBigInt:
		return "integer", nil
	case classFloat, classDouble:
		return "real", nil
	case classBytes:
		return "blob", nil
	case classTime:
		return "datetime", nil
	default:
		return "text", nil
	}
}

func (d *sqlite3) Quote(name string) string {
	return fmt.Sprintf("`%s`", name)
}

func (d *sqlite3) TablesSQL() string {
	return "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'"
}

func (d *sqlite3) HasTableSQL(tableName string) (string, []any) {
	return "SELECT count(*) AS count FROM sqlite_master WHERE type='table' AND name = ?", []any{tableName}
}

func (d *sqlite3) CreateTableSQL(m *model.Model) (string, error) {
	return createTable(d, m, func(f *model.Field, typ string) string {
		column := fmt.Sprintf("%s %s", d.Quote(f.Column), typ)
		if f.IsPK {
			column += " PRIMARY KEY"
		}
		if f.IsAuto {
			column += " AUTOINCREMENT"
		}
		return column
	})
}
