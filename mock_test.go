package query

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"
)

// MockPlanner records every statement it plans. The Query of each plan is
// the index of its statement, so MockExecutor can look it up.
type MockPlanner struct {
	Statements    []Statement
	ReturnTimeout time.Duration
	ReturnErr     error
}

func (m *MockPlanner) Plan(stmt Statement) (Plan, error) {
	if m.ReturnErr != nil {
		return Plan{}, m.ReturnErr
	}
	m.Statements = append(m.Statements, stmt)
	return Plan{
		Mode:    stmt.Action,
		Query:   strconv.Itoa(len(m.Statements) - 1),
		Timeout: m.ReturnTimeout,
	}, nil
}

// Last returns the last planned statement.
func (m *MockPlanner) Last() Statement {
	return m.Statements[len(m.Statements)-1]
}

// MockExecutor serves statements planned by Planner from an in-memory table.
// Only equality conditions are evaluated.
type MockExecutor struct {
	Planner *MockPlanner
	Columns []string
	Data    [][]any

	QueryCalls    int
	QueryRowCalls int
	Deadlines     []bool
	Opened        []*MockRows

	ReturnQueryErr error
	ReturnCountErr error
	ReturnCount    *int64
	ScanErrAt      int
}

func (m *MockExecutor) statement(q string) Statement {
	i, err := strconv.Atoi(q)
	if err != nil {
		panic(err)
	}
	return m.Planner.Statements[i]
}

func (m *MockExecutor) matching(stmt Statement) [][]any {
	var out [][]any
	for _, row := range m.Data {
		if m.matches(row, stmt.Conditions) {
			out = append(out, row)
		}
	}
	return out
}

func (m *MockExecutor) matches(row []any, conds []Condition) bool {
	for _, c := range conds {
		i := slices.Index(m.Columns, c.Field())
		if i < 0 || c.Operator() != "=" || row[i] != c.Value() {
			return false
		}
	}
	return true
}

func (m *MockExecutor) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	m.QueryCalls++
	_, ok := ctx.Deadline()
	m.Deadlines = append(m.Deadlines, ok)
	if m.ReturnQueryErr != nil {
		return nil, m.ReturnQueryErr
	}

	stmt := m.statement(q)
	rows := m.matching(stmt)
	rows = rows[min(stmt.Offset, len(rows)):]
	if stmt.Limit > 0 {
		rows = rows[:min(stmt.Limit, len(rows))]
	}

	cols := stmt.Columns
	if len(cols) == 0 {
		cols = m.Columns
	}
	projected := make([][]any, len(rows))
	for r, row := range rows {
		for _, col := range cols {
			projected[r] = append(projected[r], row[slices.Index(m.Columns, col)])
		}
	}

	mr := &MockRows{Cols: cols, Data: projected, ScanErrAt: m.ScanErrAt}
	m.Opened = append(m.Opened, mr)
	return mr, nil
}

func (m *MockExecutor) QueryRow(ctx context.Context, q string, args ...any) Scanner {
	m.QueryRowCalls++
	_, ok := ctx.Deadline()
	m.Deadlines = append(m.Deadlines, ok)
	if m.ReturnCountErr != nil {
		return &MockScanner{ScanErr: m.ReturnCountErr}
	}
	n := int64(len(m.matching(m.statement(q))))
	if m.ReturnCount != nil {
		n = *m.ReturnCount
	}
	return &MockScanner{Value: n}
}

type MockScanner struct {
	Value   int64
	ScanErr error
}

func (m *MockScanner) Scan(dest ...any) error {
	if m.ScanErr != nil {
		return m.ScanErr
	}
	return assign(dest[0], m.Value)
}

// MockRows iterates a fixed set of rows. ScanErrAt makes the scan of the
// given one-based row fail.
type MockRows struct {
	Cols      []string
	Data      [][]any
	Current   int
	ScanErrAt int
	Closed    bool
	ErrVal    error
}

func (m *MockRows) Next() bool {
	if m.Closed || m.Current >= len(m.Data) {
		return false
	}
	m.Current++
	return true
}

func (m *MockRows) Scan(dest ...any) error {
	if m.Current == m.ScanErrAt {
		return errScan
	}
	row := m.Data[m.Current-1]
	if len(dest) != len(row) {
		return fmt.Errorf("expected %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		if err := assign(d, row[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockRows) Columns() ([]string, error) { return m.Cols, nil }

func (m *MockRows) Close() error {
	m.Closed = true
	return nil
}

func (m *MockRows) Err() error { return m.ErrVal }

var errScan = errors.New("scan failed")

func assign(dest, v any) error {
	switch d := dest.(type) {
	case *any:
		*d = v
	case *int64:
		n, ok := v.(int64)
		if !ok {
			return fmt.Errorf("cannot scan %T into *int64", v)
		}
		*d = n
	case *string:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("cannot scan %T into *string", v)
		}
		*d = s
	default:
		return fmt.Errorf("unsupported destination %T", dest)
	}
	return nil
}

// MockTxExecutor is a MockExecutor that opens MockTxBoundExecutor transactions.
type MockTxExecutor struct {
	MockExecutor
	Bound      *MockTxBoundExecutor
	BeginTxErr error
}

func (m *MockTxExecutor) BeginTx(ctx context.Context) (TxBoundExecutor, error) {
	if m.BeginTxErr != nil {
		return nil, m.BeginTxErr
	}
	if m.Bound == nil {
		m.Bound = &MockTxBoundExecutor{MockExecutor: MockExecutor{
			Planner: m.Planner,
			Columns: m.Columns,
			Data:    m.Data,
		}}
	}
	return m.Bound, nil
}

type MockTxBoundExecutor struct {
	MockExecutor
	CommitCalled   bool
	RollbackCalled bool
	CommitErr      error
	RollbackErr    error
}

func (m *MockTxBoundExecutor) Commit() error {
	m.CommitCalled = true
	return m.CommitErr
}

func (m *MockTxBoundExecutor) Rollback() error {
	m.RollbackCalled = true
	return m.RollbackErr
}

// User is the struct form of the rows of the users table.
type User struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Age  int64  `db:"age"`
}

type UserName struct {
	Name string `db:"name"`
}

// newUsers returns a session over a users table of n rows with ids 0 to
// n-1, names user000 onwards, and ages cycling through 20 to 29.
func newUsers(n int) (*Session, *MockPlanner, *MockExecutor) {
	planner := &MockPlanner{}
	exec := &MockExecutor{
		Planner: planner,
		Columns: []string{"id", "name", "age"},
	}
	for i := range n {
		exec.Data = append(exec.Data, []any{int64(i), fmt.Sprintf("user%03d", i), int64(20 + i%10)})
	}
	return NewSession(exec, planner), planner, exec
}
