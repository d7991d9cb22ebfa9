package query

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrUnsupportedNavigation is returned by page navigation when the cursor is not paged.
var ErrUnsupportedNavigation = errors.New("page navigation requires a paged cursor")

// ErrInvalidPageSize is returned when a page is set with a size below one.
var ErrInvalidPageSize = errors.New("page size must be positive")

// ErrInvalidPageIndex is returned when a page is set with a negative index.
var ErrInvalidPageIndex = errors.New("page index must not be negative")

// ErrInvalidRange is returned when a range starts below zero or ends before it starts.
var ErrInvalidRange = errors.New("invalid range")

// ErrNoResult is returned by SingleResult when no row matches.
var ErrNoResult = errors.New("no result")

// ErrNonUniqueResult is returned by SingleResult and SingleResultOptional when more than one row matches.
var ErrNonUniqueResult = errors.New("result is not unique")

// ErrNilSession is returned when a handle is compiled without a Session.
var ErrNilSession = errors.New("nil session")

// ErrEmptyTable is returned when a Criteria has no table.
var ErrEmptyTable = errors.New("empty table name")

// ErrValidation is returned when a Criteria is malformed.
var ErrValidation = errors.New("validation error")

// ErrUnsupportedResultType is returned when no Mapper can be derived for a result type.
var ErrUnsupportedResultType = errors.New("unsupported result type")

// ErrNoTxSupport is returned by Session.Tx() when the executor does not implement TxExecutor.
var ErrNoTxSupport = errors.New("transaction not supported")

// ErrStreamClosed is returned when a closed Stream is iterated again.
var ErrStreamClosed = errors.New("stream is closed")

// NavigationError is returned when a page navigation operation runs against
// a cursor that is unpaged or ranged.
type NavigationError struct {
	Op     string
	Window Window
}

func (err *NavigationError) Error() string {
	return fmt.Sprintf("%s: %s, cursor is %s", err.Op, ErrUnsupportedNavigation, err.Window)
}

func (err *NavigationError) Unwrap() error {
	return ErrUnsupportedNavigation
}

// MarshalZerologObject implements zerolog object marshalling.
func (err *NavigationError) MarshalZerologObject(e *zerolog.Event) {
	e.Str("op", err.Op).Stringer("window", err.Window)
}
