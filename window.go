package query

import "fmt"

// Window is the row window a cursor reads. It is one of Unpaged, Paged or Ranged.
type Window interface {
	fmt.Stringer

	// bounds returns the offset and limit of the window. A zero limit is unbounded.
	bounds() (offset, limit int)
}

// Unpaged reads every matching row.
type Unpaged struct{}

// Paged reads a single page.
type Paged struct {
	Page Page
}

// Ranged reads the rows from Start to Last, both inclusive. A ranged cursor
// has no page size, so page navigation is rejected.
type Ranged struct {
	Start int
	Last  int
}

var (
	_ Window = Unpaged{}
	_ Window = Paged{}
	_ Window = Ranged{}
)

func (Unpaged) bounds() (int, int) { return 0, 0 }

func (w Paged) bounds() (int, int) { return w.Page.Offset(), w.Page.Size }

func (w Ranged) bounds() (int, int) { return w.Start, w.Last - w.Start + 1 }

func (Unpaged) String() string { return "unpaged" }

func (w Paged) String() string { return w.Page.String() }

func (w Ranged) String() string { return fmt.Sprintf("range [%d, %d]", w.Start, w.Last) }
