// Package pagination slices list responses by optional limit/offset query
// parameters. Lists are returned whole unless the caller asks for a page.
package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	TotalCountHeader = "X-Total-Count"
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Limit  int
	Offset int
}

// FromContext reads "limit" and "offset". ok is false when neither is
// present, meaning the caller wants the full list.
func FromContext(c echo.Context) (p Params, ok bool) {
	rawLimit, rawOffset := c.QueryParam("limit"), c.QueryParam("offset")
	if rawLimit == "" && rawOffset == "" {
		return Params{}, false
	}

	limit, _ := strconv.Atoi(rawLimit)
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, _ := strconv.Atoi(rawOffset)
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}, true
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// Page returns the window of items selected by p.
func Page[T any](items []T, p Params) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end]
}

// Apply pages items when the request carries limit/offset and always reports
// the unpaged total in X-Total-Count.
func Apply[T any](c echo.Context, items []T) []T {
	c.Response().Header().Set(TotalCountHeader, strconv.Itoa(len(items)))
	p, ok := FromContext(c)
	if !ok {
		return items
	}
	return Page(items, p)
}
