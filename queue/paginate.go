package queue

import "recondeck/store"

// Paginate returns the requested contiguous page. The page number is
// clamped to [1, ceil(len/pageSize)] so a stale page request never
// lands on an empty slice. A pageSize <= 0 yields an empty page.
func Paginate(vehicles []store.Vehicle, pageSize, page int) []store.Vehicle {
	if pageSize <= 0 || len(vehicles) == 0 {
		return nil
	}
	total := TotalPages(len(vehicles), pageSize)
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(vehicles) {
		end = len(vehicles)
	}
	return vehicles[start:end]
}

// TotalPages returns ceil(n/pageSize), at least 1.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// View tracks pagination state across requests. Changing the page size
// or replacing the upstream filtered set resets to page 1 so the user
// never lands on a page that no longer exists.
type View struct {
	pageSize int
	page     int
}

// NewView creates a pagination view.
func NewView(pageSize int) *View {
	if pageSize <= 0 {
		pageSize = 15
	}
	return &View{pageSize: pageSize, page: 1}
}

// PageSize returns the current page size.
func (v *View) PageSize() int { return v.pageSize }

// PageNumber returns the current page number.
func (v *View) PageNumber() int { return v.page }

// SetPage moves to the given page.
func (v *View) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	v.page = n
}

// SetPageSize changes the page size and resets to page 1.
func (v *View) SetPageSize(n int) {
	if n <= 0 || n == v.pageSize {
		return
	}
	v.pageSize = n
	v.page = 1
}

// Reset returns to page 1. Callers invoke it whenever the upstream
// filtered set changes.
func (v *View) Reset() {
	v.page = 1
}

// Page slices the current page out of the given set.
func (v *View) Page(vehicles []store.Vehicle) []store.Vehicle {
	return Paginate(vehicles, v.pageSize, v.page)
}
