package core

import (
	"context"
	"time"
)

// Statement is a query run by Mapper.First or Mapper.Find.
type Statement struct {
	SQL  string
	Args []any
	Dest any

	// Fields are added to the statement's log entry.
	Fields map[string]any
	// Rows and Elapsed are set once the query has run.
	Rows    int
	Elapsed time.Duration
}

// WithFields adds log fields to the statement.
func (s *Statement) WithFields(fields map[string]any) {
	if s.Fields == nil {
		s.Fields = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		s.Fields[k] = v
	}
}

// QueryFunc is the function type for the next step in the middleware chain.
type QueryFunc func(ctx context.Context, st *Statement) error

// Middleware intercepts statements run by a Mapper.
type Middleware interface {
	Name() string
	Process(ctx context.Context, st *Statement, next QueryFunc) error
}

// Use appends middlewares to the chain. The first one registered runs
// outermost. Use is not safe to call while queries are running.
func (m *Mapper) Use(mws ...Middleware) {
	m.mws = append(m.mws, mws...)
}

func (m *Mapper) chain(final QueryFunc) QueryFunc {
	next := final
	for i := len(m.mws) - 1; i >= 0; i-- {
		mw, inner := m.mws[i], next
		next = func(ctx context.Context, st *Statement) error {
			return mw.Process(ctx, st, inner)
		}
	}
	return next
}
