// Package lappa is the metadata runtime of the lappa ORM: table naming,
// value coercion, compiled member accessors, run-time typed lists and
// materialization of query rows into records.
package lappa

import (
	"github.com/shrek82/lappa/collection"
	"github.com/shrek82/lappa/convert"
	"github.com/shrek82/lappa/core"
	"github.com/shrek82/lappa/inflect"
	"github.com/shrek82/lappa/model"
)

// Re-export model types and functions
type Model = model.Model
type Field = model.Field
type Accessor = model.Accessor
type Registry = model.Registry
type RegistryOptions = model.Options

var (
	GetModel              = model.GetModel
	NewRegistry           = model.NewRegistry
	Compile               = model.Compile
	MappableMembers       = model.MappableMembers
	HasMember             = model.HasMember
	IsCustomReferenceType = model.IsCustomReferenceType
	IsCustomValueType     = model.IsCustomValueType
)

// For compiles member on record type T.
func For[T any](member string) (*model.TypedAccessor[T], error) {
	return model.For[T](member)
}

// Re-export naming and coercion
type Pluralizer = inflect.Pluralizer

var (
	Pluralize     = inflect.Pluralize
	NewPluralizer = inflect.NewPluralizer
	ForRead       = convert.ForRead
	ForWrite      = convert.ForWrite
)

// Re-export collections
type List = collection.List

var NewList = collection.NewList

// Index maps seq by key, failing with ErrDuplicateKey on a repeated key.
func Index[K comparable, T any](seq []T, key func(T) K) (map[K]T, error) {
	return collection.Index(seq, key)
}

// Re-export the materializer
type Mapper = core.Mapper

var NewMapper = core.NewMapper

// Errors
var (
	ErrConversion     = core.ErrConversion
	ErrMapping        = core.ErrMapping
	ErrConstruction   = core.ErrConstruction
	ErrElemType       = core.ErrElemType
	ErrDuplicateKey   = core.ErrDuplicateKey
	ErrRecordNotFound = core.ErrRecordNotFound
)
