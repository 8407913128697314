// Package pagination implements fixed-size paging with an elided page
// range for the listing UI: edge pages and a window around the current
// page are shown, the rest collapses into an ellipsis.
package pagination

import (
	"errors"
	"strconv"
)

// Ellipsis is the gap marker emitted by ElidedRange.
const Ellipsis = "…"

// ErrInvalidPage is returned for page numbers outside 1..NumPages.
// The handlers turn it into a not-found response.
var ErrInvalidPage = errors.New("invalid page")

// Page describes one page of a result set.
type Page struct {
	Number   int
	PerPage  int
	Total    int64
	NumPages int
}

// New validates the requested page number against the total count.
// An empty result set still has one (empty) page.
func New(number, perPage int, total int64) (Page, error) {
	if perPage < 1 {
		perPage = 1
	}
	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages == 0 {
		numPages = 1
	}
	if number < 1 || number > numPages {
		return Page{}, ErrInvalidPage
	}
	return Page{Number: number, PerPage: perPage, Total: total, NumPages: numPages}, nil
}

func (p Page) Offset() int { return (p.Number - 1) * p.PerPage }

func (p Page) HasPrevious() bool { return p.Number > 1 }
func (p Page) HasNext() bool     { return p.Number < p.NumPages }
func (p Page) Previous() int     { return p.Number - 1 }
func (p Page) Next() int         { return p.Number + 1 }

// ElidedRange returns page numbers (as strings) with long stretches
// replaced by a single Ellipsis entry: the first onEnds pages, the
// current page with onEachSide neighbors, and the last onEnds pages.
// Ranges short enough to show whole are returned without elision.
func (p Page) ElidedRange(onEachSide, onEnds int) []string {
	var out []string
	if p.NumPages <= (onEachSide+onEnds)*2 {
		for i := 1; i <= p.NumPages; i++ {
			out = append(out, strconv.Itoa(i))
		}
		return out
	}

	if p.Number > (1+onEachSide+onEnds)+1 {
		for i := 1; i <= onEnds; i++ {
			out = append(out, strconv.Itoa(i))
		}
		out = append(out, Ellipsis)
		for i := p.Number - onEachSide; i <= p.Number; i++ {
			out = append(out, strconv.Itoa(i))
		}
	} else {
		for i := 1; i <= p.Number; i++ {
			out = append(out, strconv.Itoa(i))
		}
	}

	if p.Number < (p.NumPages-onEachSide-onEnds)-1 {
		for i := p.Number + 1; i <= p.Number+onEachSide; i++ {
			out = append(out, strconv.Itoa(i))
		}
		out = append(out, Ellipsis)
		for i := p.NumPages - onEnds + 1; i <= p.NumPages; i++ {
			out = append(out, strconv.Itoa(i))
		}
	} else {
		for i := p.Number + 1; i <= p.NumPages; i++ {
			out = append(out, strconv.Itoa(i))
		}
	}
	return out
}

// Elided applies the defaults used by the article listing.
func (p Page) Elided() []string { return p.ElidedRange(3, 2) }
