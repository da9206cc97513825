package convert

import (
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Status int32

const (
	StatusDraft Status = iota
	StatusPublished
	StatusArchived
)

func (s Status) String() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusPublished:
		return "published"
	case StatusArchived:
		return "archived"
	}
	return "unknown"
}

type Level uint8

type Flag bool

type Name string

func typeOf[T any]() reflect.Type { return reflect.TypeFor[T]() }

func TestIsEnum(t *testing.T) {
	assert.True(t, IsEnum(typeOf[Status]()))
	assert.True(t, IsEnum(typeOf[Level]()))
	assert.True(t, IsEnum(typeOf[time.Duration]()))
	assert.False(t, IsEnum(typeOf[int32]()))
	assert.False(t, IsEnum(typeOf[Flag]()))
	assert.False(t, IsEnum(typeOf[Name]()))
	assert.False(t, IsEnum(nil))

	assert.Equal(t, typeOf[int32](), Underlying(typeOf[Status]()))
	assert.Equal(t, typeOf[uint8](), Underlying(typeOf[Level]()))
	assert.Equal(t, typeOf[string](), Underlying(typeOf[string]()))
}

func TestForRead(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		dest  reflect.Type
		want  any
	}{
		{"identity", int64(7), typeOf[int64](), int64(7)},
		{"int64 to int", int64(42), typeOf[int](), 42},
		{"int64 to uint16", int64(42), typeOf[uint16](), uint16(42)},
		{"float to int rounds half even", 2.5, typeOf[int](), 2},
		{"float to int", 3.6, typeOf[int32](), int32(4)},
		{"int to float", int64(3), typeOf[float64](), 3.0},
		{"bytes to int", []byte("123"), typeOf[int](), 123},
		{"text to int", " -17 ", typeOf[int64](), int64(-17)},
		{"text to float", "1.25", typeOf[float32](), float32(1.25)},
		{"uint8 to bool", uint8(1), typeOf[bool](), true},
		{"int zero to bool", int64(0), typeOf[bool](), false},
		{"text to bool", "true", typeOf[bool](), true},
		{"bytes to string", []byte("hello"), typeOf[string](), "hello"},
		{"int to string", int64(12), typeOf[string](), "12"},
		{"bool to string", true, typeOf[string](), "true"},
		{"enum to string", StatusArchived, typeOf[string](), "archived"},
		{"string to bytes", "raw", typeOf[[]byte](), []byte("raw")},
		{"string to defined string", "bob", typeOf[Name](), Name("bob")},
		{"int to defined bool", int64(1), typeOf[Flag](), Flag(true)},
		{"int to enum", int64(1), typeOf[Status](), StatusPublished},
		{"text to enum", []byte("2"), typeOf[Status](), StatusArchived},
		{"enum to enum underlying", StatusPublished, typeOf[int32](), int32(1)},
		{"int to pointer", int64(5), typeOf[*int](), ptr(5)},
		{"pointer to value", ptr(int64(9)), typeOf[int](), 9},
		{"nil to zero", nil, typeOf[int](), 0},
		{"nil to nil pointer", nil, typeOf[*string](), (*string)(nil)},
		{"mysql datetime", []byte("2024-01-15 10:30:00"), typeOf[time.Time](), ts},
		{"rfc3339 datetime", "2024-01-15T10:30:00Z", typeOf[time.Time](), ts},
		{"time identity", ts, typeOf[time.Time](), ts},
		{"postgres int array", []byte("{1,2,3}"), typeOf[[]int](), []int{1, 2, 3}},
		{"postgres text array", "{a,\"b c\"}", typeOf[[]string](), []string{"a", "b c"}},
		{"postgres bool array", "{t,f}", typeOf[[]bool](), []bool{true, false}},
		{"postgres enum array", "{0,2}", typeOf[[]Status](), []Status{StatusDraft, StatusArchived}},
		{"slice element wise", []int64{4, 5}, typeOf[[]uint8](), []uint8{4, 5}},
		{"slice to array", []int{1, 2}, typeOf[[2]int64](), [2]int64{1, 2}},
		{"scanner", int64(8), typeOf[sql.NullInt64](), sql.NullInt64{Int64: 8, Valid: true}},
		{"scanner null string", "x", typeOf[sql.NullString](), sql.NullString{String: "x", Valid: true}},
		{"interface dest", int64(3), typeOf[any](), int64(3)},
		{"duration", int64(1500), typeOf[time.Duration](), time.Duration(1500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForRead(tt.value, tt.dest)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.dest.Kind() != reflect.Interface {
				assert.Equal(t, tt.dest, reflect.TypeOf(got))
			}
		})
	}
}

func TestForReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		value any
		dest  reflect.Type
	}{
		{"non numeric text", "abc", typeOf[int]()},
		{"overflow int8", int64(300), typeOf[int8]()},
		{"negative to uint", int64(-1), typeOf[uint32]()},
		{"huge uint to int64", uint64(1 << 63), typeOf[int64]()},
		{"text to bool", "maybe", typeOf[bool]()},
		{"struct to int", struct{}{}, typeOf[int]()},
		{"bad datetime", "yesterday", typeOf[time.Time]()},
		{"bad array", "{1,x}", typeOf[[]int]()},
		{"array length mismatch", []int{1}, typeOf[[2]int]()},
		{"enum overflow", int64(1 << 40), typeOf[Status]()},
		{"nil dest", 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ForRead(tt.value, tt.dest)
			assert.ErrorIs(t, err, ErrConversion)
		})
	}
}

func TestForWrite(t *testing.T) {
	t.Run("BooleanNarrowing", func(t *testing.T) {
		for _, dest := range []reflect.Type{typeOf[bool](), typeOf[int](), typeOf[string](), typeOf[Status]()} {
			got, err := ForWrite(true, dest)
			require.NoError(t, err)
			assert.Equal(t, uint8(1), got, dest.String())

			got, err = ForWrite(false, dest)
			require.NoError(t, err)
			assert.Equal(t, uint8(0), got, dest.String())
		}

		got, err := ForWrite(Flag(true), typeOf[Flag]())
		require.NoError(t, err)
		assert.Equal(t, uint8(1), got)
	})

	t.Run("Enum", func(t *testing.T) {
		got, err := ForWrite(StatusArchived, typeOf[Status]())
		require.NoError(t, err)
		assert.Equal(t, int32(2), got)

		got, err = ForWrite(int64(1), typeOf[Status]())
		require.NoError(t, err)
		assert.Equal(t, int32(1), got)

		got, err = ForWrite(Level(3), typeOf[Level]())
		require.NoError(t, err)
		assert.Equal(t, uint8(3), got)
	})

	t.Run("Direct", func(t *testing.T) {
		got, err := ForWrite("12", typeOf[int64]())
		require.NoError(t, err)
		assert.Equal(t, int64(12), got)

		got, err = ForWrite(nil, typeOf[int64]())
		require.NoError(t, err)
		assert.Nil(t, got)

		_, err = ForWrite("twelve", typeOf[int64]())
		assert.ErrorIs(t, err, ErrConversion)
	})
}

func TestEnumRoundTrip(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusPublished, StatusArchived} {
		stored, err := ForWrite(s, typeOf[Status]())
		require.NoError(t, err)
		assert.Equal(t, int32(s), stored)

		back, err := ForRead(stored, typeOf[Status]())
		require.NoError(t, err)
		assert.Equal(t, s, back)
	}
}

func ptr[T any](v T) *T { return &v }
