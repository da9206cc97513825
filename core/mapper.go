// Package core materializes query results into records using compiled model
// accessors.
package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/shrek82/lappa/collection"
	"github.com/shrek82/lappa/logger"
	"github.com/shrek82/lappa/model"
)

// Rows is the row source consumed by a Mapper. It is implemented by *sql.Rows.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// Querier runs a query. It is implemented by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Mapper scans rows into records.
type Mapper struct {
	registry *model.Registry
	logger   logger.Logger
	reported sync.Map // column set -> struct{}
	mws      []Middleware
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithRegistry sets the model registry, model.DefaultRegistry by default.
func WithRegistry(r *model.Registry) Option {
	return func(m *Mapper) { m.registry = r }
}

// WithLogger sets the mapper's logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Mapper) { m.logger = l }
}

// NewMapper creates a Mapper.
func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{
		registry: model.DefaultRegistry,
		logger:   logger.NewStdLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetLogger sets a custom logger for the Mapper.
func (m *Mapper) SetLogger(l logger.Logger) {
	m.logger = l
}

// Registry returns the registry used to resolve record types.
func (m *Mapper) Registry() *model.Registry {
	return m.registry
}

// ScanRow scans the current row into dest, a non-nil pointer to a record.
// Columns without a writable member are skipped.
func (m *Mapper) ScanRow(rows Rows, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a pointer to a struct", ErrInvalidDest, dest)
	}
	md, err := m.registry.GetModel(rv.Type())
	if err != nil {
		return err
	}
	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	return m.scanInto(rows, md, m.plan(md, columns), dest)
}

// ScanOne advances rows and scans the first row into dest.
func (m *Mapper) ScanOne(rows Rows, dest any) error {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return ErrRecordNotFound
	}
	if err := m.ScanRow(rows, dest); err != nil {
		return err
	}
	return afterFind(dest)
}

// ScanAll drains rows into a list of elemType, which is a record type or a
// pointer to one.
func (m *Mapper) ScanAll(rows Rows, elemType reflect.Type) (collection.List, error) {
	list, err := collection.NewList(elemType)
	if err != nil {
		return nil, err
	}
	recordType := elemType
	isPtr := elemType.Kind() == reflect.Pointer
	if isPtr {
		recordType = elemType.Elem()
	}
	if recordType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a record type", ErrInvalidDest, elemType)
	}

	md, err := m.registry.GetModel(recordType)
	if err != nil {
		return nil, err
	}
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	plan := m.plan(md, columns)

	for rows.Next() {
		item := reflect.New(recordType)
		if err := m.scanInto(rows, md, plan, item.Interface()); err != nil {
			return nil, err
		}
		if err := afterFind(item.Interface()); err != nil {
			return nil, err
		}
		if !isPtr {
			item = item.Elem()
		}
		if err := list.Append(item.Interface()); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// ScanSlice drains rows into dest, a pointer to a slice of records or of
// record pointers. Scanned records are appended.
func (m *Mapper) ScanSlice(rows Rows, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("%w: dest must be a pointer to a slice, got %T", ErrInvalidDest, dest)
	}
	slice := rv.Elem()
	list, err := m.ScanAll(rows, slice.Type().Elem())
	if err != nil {
		return err
	}
	scanned := reflect.ValueOf(list.Slice())
	if slice.Type() != scanned.Type() {
		scanned = scanned.Convert(slice.Type())
	}
	slice.Set(reflect.AppendSlice(slice, scanned))
	return nil
}

// ScanMap drains rows into records of type T keyed by key. Two rows with the
// same key fail with ErrDuplicateKey.
func ScanMap[K comparable, T any](m *Mapper, rows Rows, key func(T) K) (map[K]T, error) {
	list, err := m.ScanAll(rows, reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return collection.Index(list.Slice().([]T), key)
}

// First runs query and scans its first row into dest.
func (m *Mapper) First(ctx context.Context, q Querier, dest any, query string, args ...any) error {
	st := &Statement{SQL: query, Args: args, Dest: dest}
	return m.run(ctx, q, st, func(rows Rows) (int, error) {
		if err := m.ScanOne(rows, dest); err != nil {
			return 0, err
		}
		return 1, nil
	})
}

// Find runs query and appends every row to dest, a pointer to a slice.
func (m *Mapper) Find(ctx context.Context, q Querier, dest any, query string, args ...any) error {
	st := &Statement{SQL: query, Args: args, Dest: dest}
	return m.run(ctx, q, st, func(rows Rows) (int, error) {
		rv := reflect.ValueOf(dest)
		before := 0
		if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Slice {
			before = rv.Elem().Len()
		}
		if err := m.ScanSlice(rows, dest); err != nil {
			return 0, err
		}
		return rv.Elem().Len() - before, nil
	})
}

// run executes st through the middleware chain.
func (m *Mapper) run(ctx context.Context, q Querier, st *Statement, scan func(Rows) (int, error)) error {
	if strings.TrimSpace(st.SQL) == "" {
		return ErrInvalidSQL
	}
	final := func(ctx context.Context, st *Statement) error {
		start := time.Now()
		rows, err := q.QueryContext(ctx, st.SQL, st.Args...)
		if err == nil {
			st.Rows, err = scan(rows)
			if cerr := rows.Close(); err == nil {
				err = cerr
			}
		}
		st.Elapsed = time.Since(start)
		m.logStatement(st, err)
		return err
	}
	return m.chain(final)(ctx, st)
}

func (m *Mapper) logStatement(st *Statement, err error) {
	fields := map[string]any{
		"sql":     st.SQL,
		"args":    st.Args,
		"rows":    st.Rows,
		"elapsed": st.Elapsed.String(),
	}
	for k, v := range st.Fields {
		fields[k] = v
	}
	l := m.logger.WithFields(fields)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		l.Error("query failed: %v", err)
		return
	}
	l.Debug("query")
}

// plan resolves each column to its accessor. Unmapped columns get a nil
// entry and are reported once per record type and column set.
func (m *Mapper) plan(md *model.Model, columns []string) []*model.Accessor {
	plan := make([]*model.Accessor, len(columns))
	var unknown []string
	for i, col := range columns {
		if a, ok := md.Accessor(col); ok {
			plan[i] = a
		} else {
			unknown = append(unknown, col)
		}
	}
	if len(unknown) > 0 {
		key := md.Type.String() + "|" + strings.Join(columns, ",")
		if _, seen := m.reported.LoadOrStore(key, struct{}{}); !seen {
			m.logger.WithFields(map[string]any{"model": md.Name}).
				Debug("ignoring unmapped columns %v", unknown)
		}
	}
	return plan
}

func (m *Mapper) scanInto(rows Rows, md *model.Model, plan []*model.Accessor, dest any) error {
	raw := make([]any, len(plan))
	ptrs := make([]any, len(plan))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return err
	}
	for i, a := range plan {
		if a == nil {
			continue
		}
		if err := a.Set(dest, raw[i]); err != nil {
			return fmt.Errorf("scan %s.%s: %w", md.Name, a.Field.Column, err)
		}
	}
	return nil
}

func afterFind(record any) error {
	if h, ok := record.(AfterFinder); ok {
		return h.AfterFind()
	}
	return nil
}
