package query

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func fixedCount(n int64, calls *int) CountFunc {
	return func(context.Context) (int64, error) {
		*calls++
		return n, nil
	}
}

func TestCursorZeroValue(t *testing.T) {
	var c Cursor
	require.Equal(t, Unpaged{}, c.Window())
	require.Empty(t, c.Hints())

	c.SetHint("a", 1)
	require.Equal(t, map[string]any{"a": 1}, c.Hints())
}

func TestCursorNavigationRequiresPage(t *testing.T) {
	ctx := context.Background()
	var calls int
	count := fixedCount(10, &calls)

	ranged := NewCursor()
	require.NoError(t, ranged.SetRange(2, 5))

	for name, c := range map[string]*Cursor{"unpaged": NewCursor(), "ranged": ranged} {
		t.Run(name, func(t *testing.T) {
			before := c.Window()
			ops := map[string]func() error{
				"page":              func() error { _, err := c.Page(); return err },
				"next page":         c.NextPage,
				"previous page":     c.PreviousPage,
				"first page":        c.FirstPage,
				"last page":         func() error { return c.LastPage(ctx, count) },
				"has next page":     func() error { _, err := c.HasNextPage(ctx, count); return err },
				"has previous page": func() error { _, err := c.HasPreviousPage(); return err },
				"page count":        func() error { _, err := c.PageCount(ctx, count); return err },
			}
			for op, fn := range ops {
				err := fn()
				require.ErrorIs(t, err, ErrUnsupportedNavigation, op)

				var navErr *NavigationError
				require.True(t, errors.As(err, &navErr), op)
				require.Equal(t, op, navErr.Op)
				require.Equal(t, before, navErr.Window)
			}
			require.Equal(t, before, c.Window())
		})
	}
	require.Zero(t, calls)
}

func TestCursorSetPageFromAnyWindow(t *testing.T) {
	c := NewCursor()
	require.NoError(t, c.SetRange(0, 9))
	require.NoError(t, c.SetPage(Page{Index: 1, Size: 5}))

	p, err := c.Page()
	require.NoError(t, err)
	require.Equal(t, Page{Index: 1, Size: 5}, p)

	require.ErrorIs(t, c.SetPage(Page{Index: 0, Size: 0}), ErrInvalidPageSize)
	require.ErrorIs(t, c.SetPage(Page{Index: -1, Size: 3}), ErrInvalidPageIndex)
	require.Equal(t, Paged{Page: p}, c.Window())
}

func TestCursorSetRange(t *testing.T) {
	c := NewCursor()
	require.ErrorIs(t, c.SetRange(-1, 3), ErrInvalidRange)
	require.ErrorIs(t, c.SetRange(5, 4), ErrInvalidRange)
	require.Equal(t, Unpaged{}, c.Window())

	require.NoError(t, c.SetRange(3, 3))
	require.Equal(t, Ranged{Start: 3, Last: 3}, c.Window())
}

func TestCursorNinetyFiveRows(t *testing.T) {
	ctx := context.Background()
	var calls int
	count := fixedCount(95, &calls)

	c := NewCursor()
	require.NoError(t, c.SetPage(Page{Index: 0, Size: 10}))

	pages, err := c.PageCount(ctx, count)
	require.NoError(t, err)
	require.Equal(t, 10, pages)

	require.NoError(t, c.LastPage(ctx, count))
	p, err := c.Page()
	require.NoError(t, err)
	require.Equal(t, Page{Index: 9, Size: 10}, p)

	more, err := c.HasNextPage(ctx, count)
	require.NoError(t, err)
	require.False(t, more)

	require.NoError(t, c.PreviousPage())
	more, err = c.HasNextPage(ctx, count)
	require.NoError(t, err)
	require.True(t, more)

	back, err := c.HasPreviousPage()
	require.NoError(t, err)
	require.True(t, back)

	require.NoError(t, c.FirstPage())
	back, err = c.HasPreviousPage()
	require.NoError(t, err)
	require.False(t, back)

	require.Equal(t, 1, calls)
}

func TestCursorEmptyResult(t *testing.T) {
	ctx := context.Background()
	var calls int
	count := fixedCount(0, &calls)

	c := NewCursor()
	require.NoError(t, c.SetPage(Page{Index: 4, Size: 10}))

	pages, err := c.PageCount(ctx, count)
	require.NoError(t, err)
	require.Zero(t, pages)

	require.NoError(t, c.LastPage(ctx, count))
	p, err := c.Page()
	require.NoError(t, err)
	require.Equal(t, Page{Index: 0, Size: 10}, p)
}

func TestCursorNextPageIgnoresCount(t *testing.T) {
	c := NewCursor()
	require.NoError(t, c.SetPage(Page{Index: 0, Size: 10}))
	for range 50 {
		require.NoError(t, c.NextPage())
	}
	p, err := c.Page()
	require.NoError(t, err)
	require.Equal(t, 50, p.Index)
	require.False(t, c.Counted())
}

func TestCursorCountIsCached(t *testing.T) {
	ctx := context.Background()
	var calls int
	count := fixedCount(42, &calls)

	c := NewCursor()
	n, err := c.Count(ctx, count)
	require.NoError(t, err)
	require.EqualValues(t, 42, n)
	require.True(t, c.Counted())

	require.NoError(t, c.SetPage(Page{Index: 0, Size: 7}))
	require.NoError(t, c.SetRange(1, 2))
	require.NoError(t, c.SetPage(Page{Index: 3, Size: 2}))

	n, err = c.Count(ctx, count)
	require.NoError(t, err)
	require.EqualValues(t, 42, n)
	require.Equal(t, 1, calls)
}

func TestCursorCountErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	c := NewCursor()
	_, err := c.Count(ctx, func(context.Context) (int64, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	require.False(t, c.Counted())

	_, err = c.Count(ctx, func(context.Context) (int64, error) { return -1, nil })
	require.ErrorIs(t, err, ErrValidation)
	require.False(t, c.Counted())
}

func TestCursorClone(t *testing.T) {
	ctx := context.Background()
	var calls int

	c := NewCursor()
	require.NoError(t, c.SetPage(Page{Index: 2, Size: 5}))
	c.SetLock(LockPessimisticWrite)
	c.SetHint("k", "v")
	_, err := c.Count(ctx, fixedCount(11, &calls))
	require.NoError(t, err)

	clone := c.Clone()
	require.Equal(t, c.Window(), clone.Window())
	require.Equal(t, LockPessimisticWrite, clone.Lock())
	require.Equal(t, c.Hints(), clone.Hints())
	require.False(t, clone.Counted())

	clone.SetHint("k", "other")
	require.NoError(t, clone.NextPage())
	require.Equal(t, "v", c.Hints()["k"])
	require.Equal(t, Paged{Page: Page{Index: 2, Size: 5}}, c.Window())
}

func TestCursorHintsAreCopied(t *testing.T) {
	c := NewCursor()
	c.SetHint("a", 1)
	hints := c.Hints()
	hints["a"] = 2
	require.Equal(t, 1, c.Hints()["a"])
}

func TestCursorPageArithmetic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		n := rapid.Int64Range(0, 5000).Draw(t, "count")
		size := rapid.IntRange(1, 200).Draw(t, "size")
		index := rapid.IntRange(0, 300).Draw(t, "index")

		var calls int
		count := fixedCount(n, &calls)

		c := NewCursor()
		require.NoError(t, c.SetPage(Page{Index: index, Size: size}))

		pages, err := c.PageCount(ctx, count)
		require.NoError(t, err)
		require.EqualValues(t, (n+int64(size)-1)/int64(size), pages)
		require.GreaterOrEqual(t, int64(pages)*int64(size), n)

		more, err := c.HasNextPage(ctx, count)
		require.NoError(t, err)
		require.Equal(t, int64(index+1)*int64(size) < n, more)

		require.NoError(t, c.LastPage(ctx, count))
		p, err := c.Page()
		require.NoError(t, err)
		require.Equal(t, max(0, pages-1), p.Index)
		require.Equal(t, size, p.Size)

		more, err = c.HasNextPage(ctx, count)
		require.NoError(t, err)
		require.False(t, more)

		require.Equal(t, 1, calls)
	})
}

func TestCursorNextThenPrevious(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		index := rapid.IntRange(0, 1000).Draw(t, "index")
		size := rapid.IntRange(1, 100).Draw(t, "size")

		c := NewCursor()
		require.NoError(t, c.SetPage(Page{Index: index, Size: size}))
		require.NoError(t, c.NextPage())
		require.NoError(t, c.PreviousPage())

		p, err := c.Page()
		require.NoError(t, err)
		require.Equal(t, Page{Index: index, Size: size}, p)
	})
}

func TestCursorOverflow(t *testing.T) {
	ctx := context.Background()
	var calls int

	c := NewCursor()
	require.ErrorIs(t, c.SetPage(Page{Index: math.MaxInt/10 + 1, Size: 10}), ErrInvalidPageIndex)
	require.Equal(t, Unpaged{}, c.Window())

	require.NoError(t, c.SetPage(Page{Index: math.MaxInt, Size: 1}))
	require.ErrorIs(t, c.NextPage(), ErrInvalidPageIndex)
	require.Equal(t, Paged{Page: Page{Index: math.MaxInt, Size: 1}}, c.Window())

	require.NoError(t, c.SetPage(Page{Index: math.MaxInt / 10, Size: 10}))
	require.ErrorIs(t, c.NextPage(), ErrInvalidPageIndex)

	more, err := c.HasNextPage(ctx, fixedCount(math.MaxInt64, &calls))
	require.NoError(t, err)
	require.False(t, more)

	pages, err := c.PageCount(ctx, fixedCount(math.MaxInt64, &calls))
	require.NoError(t, err)
	require.EqualValues(t, math.MaxInt64/10+1, pages)

	require.ErrorIs(t, c.SetRange(0, math.MaxInt), ErrInvalidRange)
	require.NoError(t, c.SetRange(1, math.MaxInt))
	offset, limit := c.Window().bounds()
	require.Equal(t, 1, offset)
	require.Equal(t, math.MaxInt, limit)
}
