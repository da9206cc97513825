package core

import (
	"errors"

	"github.com/shrek82/lappa/collection"
	"github.com/shrek82/lappa/convert"
	"github.com/shrek82/lappa/model"
)

var (
	// ErrRecordNotFound is returned when a query expects at least one record but none were found.
	ErrRecordNotFound = errors.New("record not found")
	// ErrInvalidDest is returned when a scan destination is not a pointer to a record or a slice of records.
	ErrInvalidDest = errors.New("invalid destination")
	// ErrInvalidSQL is returned when a raw SQL statement is empty.
	ErrInvalidSQL = errors.New("invalid sql")

	// ErrConversion is returned when a column value cannot be coerced into a member.
	ErrConversion = convert.ErrConversion
	// ErrMapping is returned when a record type or member cannot be mapped.
	ErrMapping = model.ErrMapping
	// ErrConstruction is returned when no list can be built for an element type.
	ErrConstruction = collection.ErrConstruction
	// ErrElemType is returned when a value does not fit a list's element type.
	ErrElemType = collection.ErrElemType
	// ErrDuplicateKey is returned when two records produce the same index key.
	ErrDuplicateKey = collection.ErrDuplicateKey
)
