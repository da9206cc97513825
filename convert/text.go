package convert

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// parseTime reads a DATETIME/TIMESTAMP column delivered as text. MySQL's
// text protocol layout is tried first, RFC 3339 (SQLite, JSON) second.
func parseTime(s string) (time.Time, error) {
	var nt mysql.NullTime
	if err := nt.Scan(s); err == nil && nt.Valid {
		return nt.Time, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func formatTime(v reflect.Value) string {
	return v.Interface().(time.Time).Format(time.RFC3339Nano)
}

// fromArrayLiteral decodes a PostgreSQL array literal such as "{1,2,3}"
// into a slice of dest's element type.
func fromArrayLiteral(src reflect.Value, dest reflect.Type) (reflect.Value, error) {
	var buf any
	k := dest.Elem().Kind()
	switch {
	case k == reflect.Bool:
		buf = &[]bool{}
	case isInt(k), isUint(k):
		buf = &[]int64{}
	case isFloat(k):
		buf = &[]float64{}
	case k == reflect.String:
		buf = &[]string{}
	default:
		return reflect.Value{}, failed(src, dest, fmt.Errorf("array element type %s not supported", dest.Elem()))
	}

	if err := pq.Array(buf).Scan([]byte(text(src))); err != nil {
		return reflect.Value{}, failed(src, dest, err)
	}
	return elementWise(reflect.ValueOf(buf).Elem(), dest)
}
