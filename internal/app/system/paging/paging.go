// internal/app/system/paging/paging.go
package paging

import (
	"math"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPageSize is used when the caller does not ask for a page size
// and no configured value is supplied.
const DefaultPageSize = 6

// MaxPageSize caps page_size from clients.
const MaxPageSize = 50

// Page is a normalized 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps page to >= 1 and size to [1, max]. A non-positive size
// becomes def.
func Normalize(page, size, def, max int) Page {
	if def < 1 {
		def = DefaultPageSize
	}
	if max < 1 {
		max = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = def
	}
	if size > max {
		size = max
	}
	// Keep (page-1)*size inside int64 so Skip never goes negative.
	if limit := math.MaxInt64 / int64(size); int64(page) > limit {
		page = int(limit)
	}
	return Page{Number: page, Size: size}
}

// Skip is the number of rows before this page, as Mongo expects it.
func (p Page) Skip() int64 { return int64(p.Number-1) * int64(p.Size) }

// Limit is the page size as int64 for Find().SetLimit().
func (p Page) Limit() int64 { return int64(p.Size) }

// TotalPages returns ceil(total/size), or 0 when total is 0.
func TotalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// FromRequest reads "page" and "page_size" from the query string.
// Missing or malformed values fall back to defaults.
func FromRequest(r *http.Request, def, max int) Page {
	return Normalize(atoi(query.Get(r, "page")), atoi(query.Get(r, "page_size")), def, max)
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
