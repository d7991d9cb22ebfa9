// Package query provides paged query handles: a compiled query bound to a
// result type and a mutable cursor (page or range window, lock mode, hints
// and a cached row count), read as a list, a stream or a single value.
package query

import "context"

// Handle is a compiled query over result type R with its own cursor.
// Mutators change the cursor in place and return the same handle.
// A Handle is not safe for concurrent use.
type Handle[R any] struct {
	session  *Session
	criteria Criteria
	mapper   Mapper[R]
	cursor   *Cursor
}

// Find compiles criteria into a handle whose rows are mapped by MapperFor[R].
func Find[R any](s *Session, criteria Criteria) (*Handle[R], error) {
	m, err := MapperFor[R]()
	if err != nil {
		return nil, err
	}
	return FindWith(s, criteria, m)
}

// FindWith compiles criteria into a handle whose rows are mapped by m.
func FindWith[R any](s *Session, criteria Criteria, m Mapper[R]) (*Handle[R], error) {
	if s == nil {
		return nil, ErrNilSession
	}
	if err := validate(criteria); err != nil {
		return nil, err
	}
	return &Handle[R]{
		session:  s,
		criteria: criteria,
		mapper:   m,
		cursor:   NewCursor(),
	}, nil
}

// Criteria returns the predicate and ordering the handle was compiled with.
func (h *Handle[R]) Criteria() Criteria {
	return h.criteria
}

// Window returns the current window.
func (h *Handle[R]) Window() Window {
	return h.cursor.Window()
}

// Lock returns the lock mode.
func (h *Handle[R]) Lock() LockMode {
	return h.cursor.Lock()
}

// Hints returns a copy of the hints.
func (h *Handle[R]) Hints() map[string]any {
	return h.cursor.Hints()
}

// WithPage sets the current page.
func (h *Handle[R]) WithPage(p Page) (*Handle[R], error) {
	return h, h.cursor.SetPage(p)
}

// Page sets the current page from an index and a size.
func (h *Handle[R]) Page(index, size int) (*Handle[R], error) {
	return h.WithPage(Page{Index: index, Size: size})
}

// CurrentPage returns the current page.
func (h *Handle[R]) CurrentPage() (Page, error) {
	return h.cursor.Page()
}

// NextPage moves to the next page.
func (h *Handle[R]) NextPage() (*Handle[R], error) {
	return h, h.cursor.NextPage()
}

// PreviousPage moves to the previous page, or stays on the first page.
func (h *Handle[R]) PreviousPage() (*Handle[R], error) {
	return h, h.cursor.PreviousPage()
}

// FirstPage moves to the first page.
func (h *Handle[R]) FirstPage() (*Handle[R], error) {
	return h, h.cursor.FirstPage()
}

// LastPage moves to the last page. This reads the row count.
func (h *Handle[R]) LastPage(ctx context.Context) (*Handle[R], error) {
	return h, h.cursor.LastPage(ctx, h.countRows)
}

// HasNextPage reports whether there is a page after the current one. This
// reads the row count.
func (h *Handle[R]) HasNextPage(ctx context.Context) (bool, error) {
	return h.cursor.HasNextPage(ctx, h.countRows)
}

// HasPreviousPage reports whether there is a page before the current one.
func (h *Handle[R]) HasPreviousPage() (bool, error) {
	return h.cursor.HasPreviousPage()
}

// PageCount returns the number of pages of the current size. This reads the
// row count.
func (h *Handle[R]) PageCount(ctx context.Context) (int, error) {
	return h.cursor.PageCount(ctx, h.countRows)
}

// Range switches to the fixed rows startIndex through lastIndex, both
// inclusive. Page navigation is rejected until a page is set again.
func (h *Handle[R]) Range(startIndex, lastIndex int) (*Handle[R], error) {
	return h, h.cursor.SetRange(startIndex, lastIndex)
}

// WithLock sets the lock mode.
func (h *Handle[R]) WithLock(mode LockMode) *Handle[R] {
	h.cursor.SetLock(mode)
	return h
}

// WithHint sets a hint forwarded to the planner.
func (h *Handle[R]) WithHint(name string, value any) *Handle[R] {
	h.cursor.SetHint(name, value)
	return h
}

// Count returns the number of rows matched by the predicate, regardless of
// the window. The value is read once and cached for the life of the handle.
func (h *Handle[R]) Count(ctx context.Context) (int64, error) {
	if h.cursor.Counted() {
		h.session.log.Trace().Str("table", h.criteria.table).Msg("count cache hit")
	}
	return h.cursor.Count(ctx, h.countRows)
}

func (h *Handle[R]) countRows(ctx context.Context) (int64, error) {
	return h.session.count(ctx, Statement{
		Action:     ActionCount,
		Table:      h.criteria.table,
		Conditions: h.criteria.Conditions(),
		Hints:      h.cursor.Hints(),
	})
}

// statement builds the select statement for the given window bounds.
func (h *Handle[R]) statement(offset, limit int) Statement {
	return Statement{
		Action:     ActionSelect,
		Table:      h.criteria.table,
		Columns:    h.mapper.Columns(),
		Conditions: h.criteria.Conditions(),
		OrderBy:    h.criteria.Orders(),
		Limit:      limit,
		Offset:     offset,
		Lock:       h.cursor.Lock(),
		Hints:      h.cursor.Hints(),
	}
}
