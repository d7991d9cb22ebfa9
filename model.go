package query

import (
	"fmt"
	"slices"
)

// FieldType represents the abstract storage type of a model field.
type FieldType int

const (
	TypeText FieldType = iota
	TypeInt64
	TypeFloat64
	TypeBool
	TypeBlob
)

// Field describes a single column in a model's schema.
type Field struct {
	Name string
	Type FieldType
}

// Model is a result type that describes its own table and columns, as
// generated code does. Consumers implement it on a pointer receiver.
// Schema() and Pointers() MUST always be in the same field order.
type Model interface {
	TableName() string
	Schema() []Field
	Pointers() []any
}

// ModelPtr constrains PT to a pointer to T that implements Model.
type ModelPtr[T any] interface {
	*T
	Model
}

// FindModel compiles a handle over the table of the model type, filtered by conds.
func FindModel[T any, PT ModelPtr[T]](s *Session, conds ...Condition) (*Handle[PT], error) {
	table := PT(new(T)).TableName()
	return FindWith(s, From(table).Where(conds...), ModelMapper[T, PT]())
}

// ModelMapper maps rows into fresh models, scanning through Pointers().
func ModelMapper[T any, PT ModelPtr[T]]() Mapper[PT] {
	schema := PT(new(T)).Schema()
	cols := make([]string, len(schema))
	for i, f := range schema {
		cols[i] = f.Name
	}
	return modelMapper[T, PT]{columns: cols}
}

type modelMapper[T any, PT ModelPtr[T]] struct {
	columns []string
}

func (m modelMapper[T, PT]) Columns() []string { return slices.Clone(m.columns) }

func (m modelMapper[T, PT]) Scan(rows Rows) (PT, error) {
	v := PT(new(T))
	ptrs := v.Pointers()
	if len(ptrs) != len(m.columns) {
		return nil, fmt.Errorf("%w: %s has %d pointers for %d columns", ErrValidation, v.TableName(), len(ptrs), len(m.columns))
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return v, nil
}
