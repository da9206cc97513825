package lappa

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Invoice struct {
	ID     int64
	Paid   bool
	Amount float64
}

func TestFacade(t *testing.T) {
	m, err := GetModel(&Invoice{})
	require.NoError(t, err)
	assert.Equal(t, "invoices", m.TableName)
	assert.Equal(t, "people", Pluralize("person"))

	paid, err := For[Invoice]("Paid")
	require.NoError(t, err)
	inv := &Invoice{}
	require.NoError(t, paid.Set(inv, uint8(1)))
	assert.True(t, inv.Paid)

	stored, err := ForWrite(true, reflect.TypeFor[bool]())
	require.NoError(t, err)
	assert.Equal(t, uint8(1), stored)

	l, err := NewList(reflect.TypeFor[Invoice]())
	require.NoError(t, err)
	require.NoError(t, l.Append(Invoice{ID: 1}))
	require.NoError(t, l.Append(Invoice{ID: 1}))

	_, err = Index(l.Slice().([]Invoice), func(i Invoice) int64 { return i.ID })
	assert.ErrorIs(t, err, ErrDuplicateKey)
}
