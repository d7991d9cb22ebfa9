package query

import (
	"context"
	"iter"
)

// Stream is a lazy, forward-only cursor over the rows of a window. It holds
// the underlying rows until it is exhausted, closed, or its context ends.
// A Stream cannot be restarted.
type Stream[R any] struct {
	rows   Rows
	mapper Mapper[R]
	value  R
	err    error
	closed bool
}

// Stream opens the rows of the current window without reading them.
func (h *Handle[R]) Stream(ctx context.Context) (*Stream[R], error) {
	offset, limit := h.Window().bounds()
	rows, err := h.session.query(ctx, h.statement(offset, limit))
	if err != nil {
		return nil, err
	}
	return &Stream[R]{rows: rows, mapper: h.mapper}, nil
}

// Next reads the next row. It returns false and releases the rows once the
// stream is exhausted or a row fails to scan.
func (s *Stream[R]) Next() bool {
	if s.closed {
		return false
	}
	if !s.rows.Next() {
		s.err = s.rows.Err()
		s.close()
		return false
	}
	v, err := s.mapper.Scan(s.rows)
	if err != nil {
		s.err = err
		s.close()
		return false
	}
	s.value = v
	return true
}

// Value returns the row read by the last call to Next.
func (s *Stream[R]) Value() R {
	return s.value
}

// Err returns the error that stopped the stream, if any.
func (s *Stream[R]) Err() error {
	return s.err
}

// Close releases the rows. It is safe to call more than once.
func (s *Stream[R]) Close() error {
	if s.closed {
		return nil
	}
	return s.close()
}

func (s *Stream[R]) close() error {
	s.closed = true
	err := s.rows.Close()
	if err != nil && s.err == nil {
		s.err = err
	}
	return err
}

// All iterates the remaining rows, releasing them when the loop ends or
// breaks. Iterating an already closed stream yields ErrStreamClosed.
func (s *Stream[R]) All() iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		if s.closed {
			var zero R
			yield(zero, ErrStreamClosed)
			return
		}
		defer s.Close()
		for s.Next() {
			if !yield(s.value, nil) {
				return
			}
		}
		if s.err != nil {
			var zero R
			yield(zero, s.err)
		}
	}
}
