// Package sqlplan turns query statements into SQL with squirrel.
package sqlplan

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ccoveille/go-safecast/v2"

	"github.com/tinywasm/query"
)

const (
	// HintTimeout bounds the execution of a statement. The value is a
	// time.Duration or a number of milliseconds.
	HintTimeout = "query.timeout"

	// HintComment prefixes the statement with an SQL comment.
	HintComment = "query.comment"
)

// ErrUnsupportedOperator is returned for conditions the planner cannot render.
var ErrUnsupportedOperator = errors.New("unsupported operator")

// ErrInvalidWindow is returned for statements with a negative limit or offset.
var ErrInvalidWindow = errors.New("invalid window")

// ErrInvalidHint is returned when a known hint carries a value of the wrong type.
var ErrInvalidHint = errors.New("invalid hint")

// Planner builds SQL for a dialect.
type Planner struct {
	dialect Dialect
}

var _ query.Planner = (*Planner)(nil)

// New returns a Planner for d.
func New(d Dialect) *Planner {
	return &Planner{dialect: d}
}

// Dialect returns the dialect the planner builds SQL for.
func (p *Planner) Dialect() Dialect {
	return p.dialect
}

// Plan implements query.Planner.
func (p *Planner) Plan(stmt query.Statement) (query.Plan, error) {
	where, err := predicate(stmt.Conditions)
	if err != nil {
		return query.Plan{}, err
	}

	timeout, err := timeoutHint(stmt.Hints)
	if err != nil {
		return query.Plan{}, err
	}

	var b sq.SelectBuilder
	switch stmt.Action {
	case query.ActionCount:
		b = sq.Select("COUNT(*)").From(stmt.Table)
		if where != nil {
			b = b.Where(where)
		}
	case query.ActionSelect:
		b, err = p.selectBuilder(stmt, where)
		if err != nil {
			return query.Plan{}, err
		}
	default:
		return query.Plan{}, fmt.Errorf("sqlplan: unsupported action %s", stmt.Action)
	}

	if comment, ok := stmt.Hints[HintComment].(string); ok && comment != "" {
		b = b.Prefix("/* " + strings.ReplaceAll(comment, "*/", "* /") + " */")
	}

	sql, args, err := b.PlaceholderFormat(p.dialect.placeholder()).ToSql()
	if err != nil {
		return query.Plan{}, err
	}
	return query.Plan{
		Mode:    stmt.Action,
		Query:   sql,
		Args:    args,
		Timeout: timeout,
	}, nil
}

func (p *Planner) selectBuilder(stmt query.Statement, where sq.Sqlizer) (sq.SelectBuilder, error) {
	limit, err := safecast.Convert[uint64](stmt.Limit)
	if err != nil {
		return sq.SelectBuilder{}, fmt.Errorf("%w: limit %d", ErrInvalidWindow, stmt.Limit)
	}
	offset, err := safecast.Convert[uint64](stmt.Offset)
	if err != nil {
		return sq.SelectBuilder{}, fmt.Errorf("%w: offset %d", ErrInvalidWindow, stmt.Offset)
	}

	columns := stmt.Columns
	if len(columns) == 0 {
		columns = []string{"*"}
	}

	b := sq.Select(columns...).From(stmt.Table)
	if where != nil {
		b = b.Where(where)
	}
	for _, o := range stmt.OrderBy {
		b = b.OrderBy(o.Column() + " " + string(o.Dir()))
	}

	switch {
	case limit > 0:
		b = b.Limit(limit)
	case offset > 0 && p.dialect.requiresLimitForOffset():
		b = b.Limit(math.MaxInt64)
	}
	if offset > 0 {
		b = b.Offset(offset)
	}

	if suffix := p.dialect.lockClause(stmt.Lock); suffix != "" {
		b = b.Suffix(suffix)
	}
	return b, nil
}

// predicate folds conditions left to right, joining each to the previous
// ones with its logic.
func predicate(conds []query.Condition) (sq.Sqlizer, error) {
	var acc sq.Sqlizer
	for _, c := range conds {
		expr, err := condition(c)
		if err != nil {
			return nil, err
		}
		switch {
		case acc == nil:
			acc = expr
		case c.Logic() == "OR":
			acc = sq.Or{acc, expr}
		default:
			acc = sq.And{acc, expr}
		}
	}
	return acc, nil
}

func condition(c query.Condition) (sq.Sqlizer, error) {
	field, value := c.Field(), c.Value()
	switch c.Operator() {
	case "=":
		return sq.Eq{field: value}, nil
	case "!=":
		return sq.NotEq{field: value}, nil
	case ">":
		return sq.Gt{field: value}, nil
	case ">=":
		return sq.GtOrEq{field: value}, nil
	case "<":
		return sq.Lt{field: value}, nil
	case "<=":
		return sq.LtOrEq{field: value}, nil
	case "LIKE":
		return sq.Like{field: value}, nil
	case "IN":
		return sq.Eq{field: value}, nil
	case "IS NULL":
		return sq.Eq{field: nil}, nil
	default:
		return nil, fmt.Errorf("%w: %q on %s", ErrUnsupportedOperator, c.Operator(), field)
	}
}

func timeoutHint(hints map[string]any) (time.Duration, error) {
	v, ok := hints[HintTimeout]
	if !ok {
		return 0, nil
	}
	switch t := v.(type) {
	case time.Duration:
		return t, nil
	case int:
		return time.Duration(t) * time.Millisecond, nil
	case int64:
		return time.Duration(t) * time.Millisecond, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a time.Duration or milliseconds, got %T", ErrInvalidHint, HintTimeout, v)
	}
}
