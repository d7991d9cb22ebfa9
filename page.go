package query

import (
	"fmt"
	"math"
)

// Page is a zero-based page index paired with the number of rows per page.
type Page struct {
	Index int `json:"index"`
	Size  int `json:"size"`
}

// NewPage returns a validated Page.
func NewPage(index, size int) (Page, error) {
	p := Page{Index: index, Size: size}
	if err := p.validate(); err != nil {
		return Page{}, err
	}
	return p, nil
}

// OfSize returns the first page of the given size.
func OfSize(size int) (Page, error) {
	return NewPage(0, size)
}

// Next returns the page after p. It does not check that the result is valid.
func (p Page) Next() Page {
	return Page{Index: p.Index + 1, Size: p.Size}
}

// Previous returns the page before p, or the first page if p is the first page.
func (p Page) Previous() Page {
	if p.Index == 0 {
		return p
	}
	return Page{Index: p.Index - 1, Size: p.Size}
}

// First returns the first page with the size of p.
func (p Page) First() Page {
	return Page{Index: 0, Size: p.Size}
}

// Offset is the number of rows preceding p.
func (p Page) Offset() int {
	return p.Index * p.Size
}

func (p Page) String() string {
	return fmt.Sprintf("page %d (size %d)", p.Index, p.Size)
}

func (p Page) validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.Size)
	}
	if p.Index < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPageIndex, p.Index)
	}
	if p.Index > math.MaxInt/p.Size {
		return fmt.Errorf("%w: offset of page %d with size %d overflows", ErrInvalidPageIndex, p.Index, p.Size)
	}
	return nil
}
