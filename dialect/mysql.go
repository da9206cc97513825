package dialect

import (
	"fmt"
	"reflect"

	"github.com/shrek82/lappa/model"
)

type mysql struct{}

func init() {
	Register("mysql", &mysql{})
}

func (d *mysql) Name() string { return "mysql" }

func (d *mysql) DataTypeOf(typ reflect.Type) (string, error) {
	c, err := classify(typ)
	if err != nil {
		return "", err
	}
	switch c {
	case classBool:
		return "boolean", nil
	case classInt:
		return "int", nil
	case classBigInt:
		return "bigint", nil
	case classFloat, classDouble:
		return "double", nil
	case classBytes:
		return "blob", nil
	case classTime:
		return "datetime(6)", nil
	case classList:
		return "text", nil
	default:
		return "varchar(255)", nil
	}
}

func (d *mysql) Quote(name string) string {
	return fmt.Sprintf("`%s`", name)
}

func (d *mysql) TablesSQL() string {
	return "SELECT table_name AS name FROM information_schema.tables WHERE table_schema = DATABASE()"
}

func (d *mysql) HasTableSQL(tableName string) (string, []any) {
	return "SELECT count(*) AS count FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?", []any{tableName}
}

func (d *mysql) CreateTableSQL(m *model.Model) (string, error) {
	return createTable(d, m, func(f *model.Field, typ string) string {
		column := fmt.Sprintf("%s %s", d.Quote(f.Column), typ)
		if f.IsPK {
			column += " PRIMARY KEY"
		}
		if f.IsAuto {
			column += " AUTO_INCREMENT"
		}
		return column
	})
}
