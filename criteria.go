package query

import "slices"

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Order represents a sort order for a query.
// It is a sealed value type constructed via Criteria.OrderBy().
type Order struct {
	column string
	dir    Direction
}

func (o Order) Column() string { return o.column }
func (o Order) Dir() Direction { return o.dir }

// Criteria is the predicate and ordering of a query. It is a value: every
// method returns a modified copy and leaves the receiver untouched.
type Criteria struct {
	table   string
	conds   []Condition
	orderBy []Order
}

// From starts a Criteria over table.
func From(table string) Criteria {
	return Criteria{table: table}
}

// Where adds conditions to the criteria.
func (c Criteria) Where(conds ...Condition) Criteria {
	c.conds = append(slices.Clip(c.conds), conds...)
	return c
}

// OrderBy adds an order clause to the criteria.
func (c Criteria) OrderBy(column string, dir Direction) Criteria {
	c.orderBy = append(slices.Clip(c.orderBy), Order{column: column, dir: dir})
	return c
}

func (c Criteria) Table() string           { return c.table }
func (c Criteria) Conditions() []Condition { return slices.Clone(c.conds) }
func (c Criteria) Orders() []Order         { return slices.Clone(c.orderBy) }
