// Package middleware provides statement interceptors for core.Mapper.
package middleware

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shrek82/lappa/core"
	"github.com/shrek82/lappa/logger"
)

// SlowLogMiddleware logs statements that take longer than the specified threshold.
type SlowLogMiddleware struct {
	Threshold time.Duration
	logger    logger.Logger
	file      *os.File
}

// NewSlowLog creates a new SlowLogMiddleware writing to l at warn level.
func NewSlowLog(threshold time.Duration, l logger.Logger) *SlowLogMiddleware {
	return &SlowLogMiddleware{Threshold: threshold, logger: l}
}

// OpenSlowLog creates a SlowLogMiddleware appending JSON entries to the file
// at path. Close releases the file.
func OpenSlowLog(threshold time.Duration, path string) (*SlowLogMiddleware, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open slow log file: %w", err)
	}
	l := logger.NewStdLogger()
	l.SetFormat(logger.LogFormatJSON)
	l.SetOutput(f)
	return &SlowLogMiddleware{Threshold: threshold, logger: l, file: f}, nil
}

func (m *SlowLogMiddleware) Name() string {
	return "SlowLog"
}

// Close closes the log file opened by OpenSlowLog.
func (m *SlowLogMiddleware) Close() error {
	if m.file != nil {
		return m.file.Close()
	}
	return nil
}

func (m *SlowLogMiddleware) Process(ctx context.Context, st *core.Statement, next core.QueryFunc) error {
	err := next(ctx, st)
	if st.Elapsed > m.Threshold {
		fields := map[string]any{
			"duration": st.Elapsed.String(),
			"sql":      st.SQL,
			"args":     st.Args,
			"rows":     st.Rows,
		}
		if err != nil {
			fields["error"] = err.Error()
		}
		for k, v := range st.Fields {
			fields[k] = v
		}
		m.logger.WithFields(fields).Warn("slow query")
	}
	return err
}
