package query

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	twfmt "github.com/tinywasm/fmt"
)

// Mapper binds a result type to the columns it selects and turns the current
// row of Rows into a value.
type Mapper[R any] interface {
	// Columns lists the selected columns in scan order. Empty selects every column.
	Columns() []string
	Scan(rows Rows) (R, error)
}

// RowMap is a row keyed by column name.
type RowMap map[string]any

// MapperFor derives a Mapper for R. R may be a struct, a pointer to a struct
// or RowMap. Struct fields map to snake_case columns unless a db tag names the
// column; db:"-" skips a field. Fields of untagged embedded structs are mapped
// as if declared on R.
func MapperFor[R any]() (Mapper[R], error) {
	var zero R
	if _, ok := any(zero).(RowMap); ok {
		return any(rowMapMapper{}).(Mapper[R]), nil
	}
	m, err := newStructMapper[R]()
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Column maps a single column to a scalar value.
func Column[T any](name string) Mapper[T] {
	return columnMapper[T]{name: name}
}

type columnMapper[T any] struct {
	name string
}

func (m columnMapper[T]) Columns() []string { return []string{m.name} }

func (m columnMapper[T]) Scan(rows Rows) (T, error) {
	var v T
	err := rows.Scan(&v)
	return v, err
}

type rowMapMapper struct{}

func (rowMapMapper) Columns() []string { return nil }

func (rowMapMapper) Scan(rows Rows) (RowMap, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	row := make(RowMap, len(cols))
	for i, col := range cols {
		if b, ok := vals[i].([]byte); ok {
			row[col] = string(b)
			continue
		}
		row[col] = vals[i]
	}
	return row, nil
}

type structMapper[R any] struct {
	typ     reflect.Type
	ptr     bool
	columns []string
	index   [][]int
}

func newStructMapper[R any]() (*structMapper[R], error) {
	t := reflect.TypeFor[R]()
	m := &structMapper[R]{typ: t}
	if t.Kind() == reflect.Pointer {
		m.ptr = true
		m.typ = t.Elem()
	}
	if m.typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedResultType, t)
	}

	if err := m.collect(m.typ, nil, make(map[string]string)); err != nil {
		return nil, err
	}

	if len(m.columns) == 0 {
		return nil, fmt.Errorf("%w: %s has no mappable fields", ErrUnsupportedResultType, t)
	}
	return m, nil
}

// collect adds the columns of typ, reached from the result type through the
// field indexes in prefix. Embedded structs without a db tag contribute their
// own fields. Embedded pointers are skipped.
func (m *structMapper[R]) collect(typ reflect.Type, prefix []int, seen map[string]string) error {
	for i := range typ.NumField() {
		field := typ.Field(i)
		index := append(slices.Clip(prefix), field.Index...)

		if field.Anonymous {
			if _, tagged := field.Tag.Lookup("db"); !tagged && field.Type.Kind() == reflect.Struct {
				if err := m.collect(field.Type, index, seen); err != nil {
					return err
				}
			}
			continue
		}
		if !field.IsExported() {
			continue
		}

		col := columnName(field)
		if col == "-" {
			continue
		}

		switch field.Type.Kind() {
		case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Interface:
			continue
		}

		if prev, ok := seen[col]; ok {
			return fmt.Errorf("%w: %s.%s and %s.%s both map to column %q", ErrValidation, m.typ.Name(), prev, m.typ.Name(), field.Name, col)
		}
		seen[col] = field.Name

		m.columns = append(m.columns, col)
		m.index = append(m.index, index)
	}
	return nil
}

// columnName returns the column a field maps to: the first element of its db
// tag, or the snake_case field name.
func columnName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("db"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name
		}
	}
	return twfmt.Convert(field.Name).SnakeLow().String()
}

func (m *structMapper[R]) Columns() []string { return slices.Clone(m.columns) }

func (m *structMapper[R]) Scan(rows Rows) (R, error) {
	v := reflect.New(m.typ).Elem()
	dest := make([]any, len(m.index))
	for i, idx := range m.index {
		dest[i] = v.FieldByIndex(idx).Addr().Interface()
	}
	if err := rows.Scan(dest...); err != nil {
		var zero R
		return zero, err
	}
	if m.ptr {
		return v.Addr().Interface().(R), nil
	}
	return v.Interface().(R), nil
}
