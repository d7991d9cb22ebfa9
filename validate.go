package query

import "fmt"

func validate(c Criteria) error {
	if c.table == "" {
		return ErrEmptyTable
	}
	for i, cond := range c.conds {
		if cond.field == "" {
			return fmt.Errorf("%w: condition %d has no field", ErrValidation, i)
		}
	}
	for i, o := range c.orderBy {
		if o.column == "" {
			return fmt.Errorf("%w: order %d has no column", ErrValidation, i)
		}
		if o.dir != Asc && o.dir != Desc {
			return fmt.Errorf("%w: order %q has direction %q", ErrValidation, o.column, o.dir)
		}
	}
	return nil
}
