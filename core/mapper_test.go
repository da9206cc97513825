package core

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shrek82/lappa/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Status int8

const (
	StatusDraft Status = iota
	StatusLive
)

type User struct {
	ID        int64 `lappa:"pk auto"`
	Name      string
	Active    bool
	Status    Status
	Tags      []string
	CreatedAt time.Time

	finds int
}

func (u *User) AfterFind() error {
	u.finds++
	return nil
}

type Broken struct {
	ID int64
}

func (b *Broken) AfterFind() error { return errors.New("after find failed") }

var (
	userColumns = []string{"id", "name", "active", "status", "tags", "created_at", "extra"}
	created     = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func mockRows(t *testing.T, rows *sqlmock.Rows) *sql.Rows {
	t.Helper()
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)
	r, err := db.Query("SELECT * FROM users")
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows(userColumns).
		AddRow(int64(1), "alice", true, int64(1), "{admin,dev}", created, "x").
		AddRow(int64(2), []byte("bob"), int64(0), int64(0), nil, created, "y")
}

func quietMapper() *Mapper {
	return NewMapper(WithLogger(logger.Discard()))
}

func TestScanSlice(t *testing.T) {
	m := quietMapper()

	t.Run("Values", func(t *testing.T) {
		var users []User
		require.NoError(t, m.ScanSlice(mockRows(t, userRows()), &users))
		require.Len(t, users, 2)

		assert.Equal(t, int64(1), users[0].ID)
		assert.Equal(t, "alice", users[0].Name)
		assert.True(t, users[0].Active)
		assert.Equal(t, StatusLive, users[0].Status)
		assert.Equal(t, []string{"admin", "dev"}, users[0].Tags)
		assert.Equal(t, created, users[0].CreatedAt)
		assert.Equal(t, 1, users[0].finds)

		assert.Equal(t, "bob", users[1].Name)
		assert.False(t, users[1].Active)
		assert.Equal(t, StatusDraft, users[1].Status)
		assert.Nil(t, users[1].Tags)
	})

	t.Run("Pointers", func(t *testing.T) {
		users := []*User{{Name: "existing"}}
		require.NoError(t, m.ScanSlice(mockRows(t, userRows()), &users))
		require.Len(t, users, 3)
		assert.Equal(t, "existing", users[0].Name)
		assert.Equal(t, "bob", users[2].Name)
		assert.Equal(t, 1, users[2].finds)
	})

	t.Run("InvalidDest", func(t *testing.T) {
		var users []User
		assert.ErrorIs(t, m.ScanSlice(mockRows(t, userRows()), users), ErrInvalidDest)

		var ifaces []any
		assert.ErrorIs(t, m.ScanSlice(mockRows(t, userRows()), &ifaces), ErrConstruction)

		var ints []int
		assert.ErrorIs(t, m.ScanSlice(mockRows(t, userRows()), &ints), ErrInvalidDest)
	})

	t.Run("ConversionFailure", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id"}).AddRow("not-a-number")
		var users []User
		err := m.ScanSlice(mockRows(t, rows), &users)
		assert.ErrorIs(t, err, ErrConversion)
		assert.Contains(t, err.Error(), "User.id")
	})

	t.Run("HookFailure", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(1))
		var out []Broken
		assert.EqualError(t, m.ScanSlice(mockRows(t, rows), &out), "after find failed")
	})

	t.Run("RowError", func(t *testing.T) {
		boom := errors.New("connection reset")
		rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)).RowError(1, boom)
		var users []User
		assert.ErrorIs(t, m.ScanSlice(mockRows(t, rows), &users), boom)
	})
}

func TestScanAll(t *testing.T) {
	m := quietMapper()

	list, err := m.ScanAll(mockRows(t, userRows()), reflect.TypeFor[*User]())
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[*User](), list.ElemType())
	assert.Equal(t, 2, list.Len())
	assert.Equal(t, "alice", list.At(0).(*User).Name)

	empty, err := m.ScanAll(mockRows(t, sqlmock.NewRows(userColumns)), reflect.TypeFor[User]())
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, []User{}, empty.Slice())
}

func TestScanOne(t *testing.T) {
	m := quietMapper()

	var u User
	require.NoError(t, m.ScanOne(mockRows(t, userRows()), &u))
	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, 1, u.finds)

	err := m.ScanOne(mockRows(t, sqlmock.NewRows(userColumns)), &u)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	err = m.ScanOne(mockRows(t, userRows()), u)
	assert.ErrorIs(t, err, ErrInvalidDest)
}

func TestScanMap(t *testing.T) {
	m := quietMapper()

	byID, err := ScanMap(m, mockRows(t, userRows()), func(u *User) int64 { return u.ID })
	require.NoError(t, err)
	require.Len(t, byID, 2)
	assert.Equal(t, "bob", byID[2].Name)

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(int64(1), "alice").
		AddRow(int64(2), "alice")
	byName, err := ScanMap(m, mockRows(t, rows), func(u User) string { return u.Name })
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Nil(t, byName)
}

func TestUnmappedColumnsLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewStdLogger()
	l.SetLevel(logger.LogLevelDebug)
	l.SetOutput(&buf)
	m := NewMapper(WithLogger(l))

	for i := 0; i < 3; i++ {
		var users []User
		require.NoError(t, m.ScanSlice(mockRows(t, userRows()), &users))
	}
	assert.Equal(t, 1, strings.Count(buf.String(), "ignoring unmapped columns [extra]"))
}

func TestFirstAndFind(t *testing.T) {
	m := quietMapper()
	ctx := context.Background()
	query := "SELECT * FROM users WHERE active = ?"

	t.Run("Find", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(true).WillReturnRows(userRows())

		var users []User
		require.NoError(t, m.Find(ctx, db, &users, query, true))
		assert.Len(t, users, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("First", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(true).WillReturnRows(sqlmock.NewRows(userColumns))

		var u User
		assert.ErrorIs(t, m.First(ctx, db, &u, query, true), ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("QueryError", func(t *testing.T) {
		db, mock := newMock(t)
		boom := errors.New("syntax error")
		mock.ExpectQuery("SELECT").WillReturnError(boom)

		var users []User
		assert.ErrorIs(t, m.Find(ctx, db, &users, query, true), boom)
	})

	t.Run("EmptySQL", func(t *testing.T) {
		db, _ := newMock(t)
		var users []User
		assert.ErrorIs(t, m.Find(ctx, db, &users, "  "), ErrInvalidSQL)
	})
}
