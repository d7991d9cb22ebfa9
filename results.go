package query

import "context"

// Optional holds a value that may be absent.
type Optional[R any] struct {
	value R
	ok    bool
}

// Some returns a present Optional.
func Some[R any](v R) Optional[R] {
	return Optional[R]{value: v, ok: true}
}

// None returns an empty Optional.
func None[R any]() Optional[R] {
	return Optional[R]{}
}

// Get returns the value and whether it is present.
func (o Optional[R]) Get() (R, bool) { return o.value, o.ok }

// IsPresent reports whether the value is present.
func (o Optional[R]) IsPresent() bool { return o.ok }

// OrElse returns the value if present, otherwise v.
func (o Optional[R]) OrElse(v R) R {
	if o.ok {
		return o.value
	}
	return v
}

// List returns the rows of the current window.
func (h *Handle[R]) List(ctx context.Context) ([]R, error) {
	offset, limit := h.Window().bounds()
	return h.fetch(ctx, offset, limit)
}

// FirstResult returns the first row of the current window, ignoring the
// window size. It returns the zero value when no row matches.
func (h *Handle[R]) FirstResult(ctx context.Context) (R, error) {
	opt, err := h.FirstResultOptional(ctx)
	v, _ := opt.Get()
	return v, err
}

// FirstResultOptional returns the first row of the current window, ignoring
// the window size.
func (h *Handle[R]) FirstResultOptional(ctx context.Context) (Optional[R], error) {
	offset, _ := h.Window().bounds()
	rows, err := h.fetch(ctx, offset, 1)
	if err != nil || len(rows) == 0 {
		return None[R](), err
	}
	return Some(rows[0]), nil
}

// SingleResult returns the only row of the current window. It fails with
// ErrNoResult when no row matches and ErrNonUniqueResult when several do.
func (h *Handle[R]) SingleResult(ctx context.Context) (R, error) {
	opt, err := h.SingleResultOptional(ctx)
	if err != nil {
		var zero R
		return zero, err
	}
	v, ok := opt.Get()
	if !ok {
		return v, ErrNoResult
	}
	return v, nil
}

// SingleResultOptional returns the only row of the current window, or an
// empty Optional when no row matches. It fails with ErrNonUniqueResult when
// several rows match.
func (h *Handle[R]) SingleResultOptional(ctx context.Context) (Optional[R], error) {
	offset, limit := h.Window().bounds()
	// Two rows are enough to tell a unique result from a non-unique one.
	if limit == 0 || limit > 2 {
		limit = 2
	}
	rows, err := h.fetch(ctx, offset, limit)
	switch {
	case err != nil:
		return None[R](), err
	case len(rows) > 1:
		return None[R](), ErrNonUniqueResult
	case len(rows) == 0:
		return None[R](), nil
	}
	return Some(rows[0]), nil
}

func (h *Handle[R]) fetch(ctx context.Context, offset, limit int) ([]R, error) {
	rows, err := h.session.query(ctx, h.statement(offset, limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []R
	for rows.Next() {
		v, err := h.mapper.Scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, rows.Err()
}
