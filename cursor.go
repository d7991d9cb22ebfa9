package query

import (
	"context"
	"fmt"
	"maps"
	"math"

	"github.com/ccoveille/go-safecast/v2"
)

// CountFunc computes the number of rows matched by a query predicate.
type CountFunc func(ctx context.Context) (int64, error)

// Cursor is the mutable read state of a Handle: its window, lock mode, hints
// and the cached row count. A Cursor is not safe for concurrent use.
type Cursor struct {
	window Window
	lock   LockMode
	hints  map[string]any
	count  *int64
}

// NewCursor returns an unpaged cursor with no lock and no hints. The zero
// Cursor is equivalent.
func NewCursor() *Cursor {
	return &Cursor{
		window: Unpaged{},
		hints:  make(map[string]any),
	}
}

// Window returns the current window.
func (c *Cursor) Window() Window {
	if c.window == nil {
		return Unpaged{}
	}
	return c.window
}

// SetPage switches the cursor to the given page. It is legal from any window.
func (c *Cursor) SetPage(p Page) error {
	if err := p.validate(); err != nil {
		return err
	}
	c.window = Paged{Page: p}
	return nil
}

// SetRange switches the cursor to a fixed row range. Page navigation is
// rejected until a page is set again.
func (c *Cursor) SetRange(start, last int) error {
	if start < 0 || last < start {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, start, last)
	}
	if last-start == math.MaxInt {
		return fmt.Errorf("%w: [%d, %d] holds more than %d rows", ErrInvalidRange, start, last, math.MaxInt)
	}
	c.window = Ranged{Start: start, Last: last}
	return nil
}

// paged returns the current page, or a NavigationError for op when the cursor is not paged.
func (c *Cursor) paged(op string) (Page, error) {
	w, ok := c.window.(Paged)
	if !ok {
		return Page{}, &NavigationError{Op: op, Window: c.Window()}
	}
	return w.Page, nil
}

// Page returns the current page.
func (c *Cursor) Page() (Page, error) {
	return c.paged("page")
}

// NextPage moves to the following page. It does not check the row count.
func (c *Cursor) NextPage() error {
	p, err := c.paged("next page")
	if err != nil {
		return err
	}
	if p.Index == math.MaxInt {
		return fmt.Errorf("%w: no page follows %d", ErrInvalidPageIndex, p.Index)
	}
	next := p.Next()
	if err := next.validate(); err != nil {
		return err
	}
	c.window = Paged{Page: next}
	return nil
}

// PreviousPage moves to the preceding page, staying on the first page.
func (c *Cursor) PreviousPage() error {
	p, err := c.paged("previous page")
	if err != nil {
		return err
	}
	c.window = Paged{Page: p.Previous()}
	return nil
}

// FirstPage moves to the first page.
func (c *Cursor) FirstPage() error {
	p, err := c.paged("first page")
	if err != nil {
		return err
	}
	c.window = Paged{Page: p.First()}
	return nil
}

// LastPage moves to the last page. This reads the row count.
func (c *Cursor) LastPage(ctx context.Context, count CountFunc) error {
	p, err := c.paged("last page")
	if err != nil {
		return err
	}
	pages, err := c.pageCount(ctx, p, count)
	if err != nil {
		return err
	}
	p.Index = max(0, pages-1)
	if err := p.validate(); err != nil {
		return err
	}
	c.window = Paged{Page: p}
	return nil
}

// HasNextPage reports whether a page follows the current one. This reads the row count.
func (c *Cursor) HasNextPage(ctx context.Context, count CountFunc) (bool, error) {
	p, err := c.paged("has next page")
	if err != nil {
		return false, err
	}
	n, err := c.Count(ctx, count)
	if err != nil {
		return false, err
	}
	return n-int64(p.Offset()) > int64(p.Size), nil
}

// HasPreviousPage reports whether a page precedes the current one.
func (c *Cursor) HasPreviousPage() (bool, error) {
	p, err := c.paged("has previous page")
	if err != nil {
		return false, err
	}
	return p.Index > 0, nil
}

// PageCount returns the number of pages of the current size. This reads the row count.
func (c *Cursor) PageCount(ctx context.Context, count CountFunc) (int, error) {
	p, err := c.paged("page count")
	if err != nil {
		return 0, err
	}
	return c.pageCount(ctx, p, count)
}

func (c *Cursor) pageCount(ctx context.Context, p Page, count CountFunc) (int, error) {
	n, err := c.Count(ctx, count)
	if err != nil {
		return 0, err
	}
	size := int64(p.Size)
	pages := n / size
	if n%size != 0 {
		pages++
	}
	return safecast.Convert[int](pages)
}

// Count returns the cached row count, computing it with count on first use.
// Window changes never invalidate it.
func (c *Cursor) Count(ctx context.Context, count CountFunc) (int64, error) {
	if c.count != nil {
		return *c.count, nil
	}
	n, err := count(ctx)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative row count %d", ErrValidation, n)
	}
	c.count = &n
	return n, nil
}

// Counted reports whether the row count has been computed.
func (c *Cursor) Counted() bool {
	return c.count != nil
}

// Lock returns the lock mode.
func (c *Cursor) Lock() LockMode {
	return c.lock
}

// SetLock sets the lock mode.
func (c *Cursor) SetLock(mode LockMode) {
	c.lock = mode
}

// Hints returns a copy of the hints.
func (c *Cursor) Hints() map[string]any {
	return maps.Clone(c.hints)
}

// SetHint sets or replaces a hint.
func (c *Cursor) SetHint(name string, value any) {
	if c.hints == nil {
		c.hints = make(map[string]any)
	}
	c.hints[name] = value
}

// Clone copies the window, lock mode and hints into a new cursor. The row
// count is not copied.
func (c *Cursor) Clone() *Cursor {
	clone := NewCursor()
	clone.window = c.Window()
	clone.lock = c.lock
	maps.Copy(clone.hints, c.hints)
	return clone
}
