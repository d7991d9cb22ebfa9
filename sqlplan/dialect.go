package sqlplan

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/tinywasm/query"
)

// Dialect is an SQL flavour.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
	MySQL
)

func (d Dialect) String() string {
	switch d {
	case SQLite:
		return "sqlite"
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	default:
		return "unknown"
	}
}

// ParseDialect returns the dialect named s.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	default:
		return 0, fmt.Errorf("sqlplan: unknown dialect %q", s)
	}
}

func (d Dialect) placeholder() sq.PlaceholderFormat {
	if d == Postgres {
		return sq.Dollar
	}
	return sq.Question
}

// requiresLimitForOffset reports whether OFFSET is only valid after LIMIT.
func (d Dialect) requiresLimitForOffset() bool {
	return d != Postgres
}

// lockClause renders a lock mode as a row locking suffix. SQLite locks whole
// databases rather than rows, and optimistic modes are checked by the writer,
// so both render nothing.
func (d Dialect) lockClause(mode query.LockMode) string {
	if d == SQLite {
		return ""
	}
	switch mode {
	case query.LockRead, query.LockPessimisticRead:
		return "FOR SHARE"
	case query.LockWrite, query.LockPessimisticWrite, query.LockPessimisticForceIncrement:
		return "FOR UPDATE"
	default:
		return ""
	}
}
