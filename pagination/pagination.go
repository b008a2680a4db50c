// Package pagination windows an ordered sequence into fixed-size pages
// addressed by the "page" query parameter. The parameter is forgiving: a
// missing, malformed or out-of-range value selects the last page, so a
// stale link never fails the request.
package pagination

import "strconv"

// Page is one window of at most Size items from an ordered sequence.
type Page[T any] struct {
	// Items holds the window's slice of the sequence.
	Items []T
	// Number is the 1-based index of this page.
	Number int
	// NumPages is the total number of pages. An empty sequence still has
	// one (empty) page.
	NumPages int
	// Count is the length of the full sequence.
	Count int
}

// Paginate slices items into pages of the given size and returns the page
// addressed by param, the raw "page" query parameter.
func Paginate[T any](items []T, param string, size int) Page[T] {
	count := len(items)
	numPages := (count + size - 1) / size
	if numPages < 1 {
		numPages = 1
	}

	number, err := strconv.Atoi(param)
	if err != nil || number < 1 || number > numPages {
		number = numPages
	}

	lo := (number - 1) * size
	hi := lo + size
	if lo > count {
		lo = count
	}
	if hi > count {
		hi = count
	}

	return Page[T]{
		Items:    items[lo:hi],
		Number:   number,
		NumPages: numPages,
		Count:    count,
	}
}

// HasPrevious reports whether a page precedes this one.
func (p Page[T]) HasPrevious() bool { return p.Number > 1 }

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool { return p.Number < p.NumPages }

// PreviousPageNumber returns the index of the preceding page.
func (p Page[T]) PreviousPageNumber() int { return p.Number - 1 }

// NextPageNumber returns the index of the following page.
func (p Page[T]) NextPageNumber() int { return p.Number + 1 }
