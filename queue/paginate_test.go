package queue

import (
	"fmt"
	"testing"

	"recondeck/store"
)

func numbered(n int) []store.Vehicle {
	out := make([]store.Vehicle, n)
	for i := range out {
		out[i] = store.Vehicle{ID: fmt.Sprintf("v%02d", i)}
	}
	return out
}

func TestPaginateBounds(t *testing.T) {
	vehicles := numbered(23)

	for page := 1; page <= 5; page++ {
		got := Paginate(vehicles, 10, page)
		if len(got) > 10 {
			t.Fatalf("page %d: %d items exceeds page size", page, len(got))
		}
	}
}

func TestPaginateConcatenationReproducesSet(t *testing.T) {
	vehicles := numbered(23)
	pageSize := 10

	var all []store.Vehicle
	for page := 1; page <= TotalPages(len(vehicles), pageSize); page++ {
		all = append(all, Paginate(vehicles, pageSize, page)...)
	}
	if len(all) != len(vehicles) {
		t.Fatalf("concatenated %d items, want %d", len(all), len(vehicles))
	}
	for i := range all {
		if all[i].ID != vehicles[i].ID {
			t.Fatalf("position %d: %s != %s", i, all[i].ID, vehicles[i].ID)
		}
	}
}

func TestPaginateClampsPage(t *testing.T) {
	vehicles := numbered(5)

	// Past the end clamps to the last page.
	got := Paginate(vehicles, 2, 99)
	if len(got) != 1 || got[0].ID != "v04" {
		t.Fatalf("expected last page [v04], got %v", ids(got))
	}

	// Below the start clamps to page 1.
	got = Paginate(vehicles, 2, 0)
	if len(got) != 2 || got[0].ID != "v00" {
		t.Fatalf("expected first page, got %v", ids(got))
	}
}

func TestPaginateEmptyAndZeroSize(t *testing.T) {
	if got := Paginate(nil, 10, 1); len(got) != 0 {
		t.Fatalf("expected empty page for empty set")
	}
	if got := Paginate(numbered(3), 0, 1); len(got) != 0 {
		t.Fatalf("expected empty page for zero page size")
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct{ n, size, want int }{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{23, 10, 3},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.n, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.n, tt.size, got, tt.want)
		}
	}
}

func TestViewResetRules(t *testing.T) {
	v := NewView(10)
	v.SetPage(3)

	// Changing page size resets to page 1.
	v.SetPageSize(20)
	if v.PageNumber() != 1 {
		t.Fatalf("expected page reset on size change, got %d", v.PageNumber())
	}

	// Same size is a no-op and keeps the page.
	v.SetPage(2)
	v.SetPageSize(20)
	if v.PageNumber() != 2 {
		t.Fatalf("expected no reset for unchanged size, got %d", v.PageNumber())
	}

	// Upstream set change resets via Reset.
	v.Reset()
	if v.PageNumber() != 1 {
		t.Fatalf("expected page 1 after Reset, got %d", v.PageNumber())
	}
}
