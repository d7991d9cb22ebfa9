package query

// Condition represents a filter for a query.
// It is a sealed value type constructed via helper functions.
type Condition struct {
	field    string
	operator string
	value    any
	logic    string
}

func (c Condition) Field() string    { return c.field }
func (c Condition) Operator() string { return c.operator }
func (c Condition) Value() any       { return c.value }
func (c Condition) Logic() string    { return c.logic }

func cond(field, operator string, value any) Condition {
	return Condition{
		field:    field,
		operator: operator,
		value:    value,
		logic:    "AND",
	}
}

// Eq creates a condition for checking equality.
func Eq(field string, value any) Condition { return cond(field, "=", value) }

// Neq creates a condition for checking inequality.
func Neq(field string, value any) Condition { return cond(field, "!=", value) }

// Gt creates a condition for checking if a value is greater than another.
func Gt(field string, value any) Condition { return cond(field, ">", value) }

// Gte creates a condition for checking if a value is greater than or equal to another.
func Gte(field string, value any) Condition { return cond(field, ">=", value) }

// Lt creates a condition for checking if a value is less than another.
func Lt(field string, value any) Condition { return cond(field, "<", value) }

// Lte creates a condition for checking if a value is less than or equal to another.
func Lte(field string, value any) Condition { return cond(field, "<=", value) }

// Like creates a condition for checking if a value matches a pattern.
func Like(field string, value any) Condition { return cond(field, "LIKE", value) }

// In creates a condition for checking membership in a list of values.
func In(field string, values ...any) Condition { return cond(field, "IN", values) }

// IsNull creates a condition for checking that a field is NULL.
func IsNull(field string) Condition { return cond(field, "IS NULL", nil) }

// Or creates a condition with OR logic.
func Or(c Condition) Condition {
	c.logic = "OR"
	return c
}
