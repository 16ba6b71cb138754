package queue

import (
	"strings"
	"time"

	"recondeck/store"
)

// Category partitions the working set into the dashboard tabs. All
// partitions except CategoryAll are mutually exclusive.
type Category string

const (
	CategoryAll          Category = "all"
	CategoryCar          Category = "car"
	CategoryMotorcycle   Category = "motorcycle"
	CategoryNotValidated Category = "not_validated"
	CategoryFinished     Category = "finished"
)

// ValidCategory reports whether c names a known tab.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryAll, CategoryCar, CategoryMotorcycle, CategoryNotValidated, CategoryFinished:
		return true
	}
	return false
}

// DateRange is an inclusive sale-date window. Nil bounds are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether the range has no bounds.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

func (r DateRange) contains(t *time.Time) bool {
	if t == nil {
		return r.IsZero()
	}
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// Filter applies category, free-text and date-range predicates in that
// fixed order. Each stage is optional: CategoryAll, an empty query and
// a zero range all pass everything through, so Filter with all three
// absent returns the input set unchanged.
func Filter(vehicles []store.Vehicle, category Category, query string, dates DateRange) []store.Vehicle {
	out := vehicles
	if category != "" && category != CategoryAll {
		out = filterBy(out, categoryPredicate(category))
	}
	if q := strings.TrimSpace(query); q != "" {
		q = strings.ToLower(q)
		out = filterBy(out, func(v *store.Vehicle) bool { return matchesQuery(v, q) })
	}
	if !dates.IsZero() {
		out = filterBy(out, func(v *store.Vehicle) bool { return dates.contains(v.SaleDate) })
	}
	return out
}

func filterBy(vehicles []store.Vehicle, keep func(*store.Vehicle) bool) []store.Vehicle {
	out := make([]store.Vehicle, 0, len(vehicles))
	for i := range vehicles {
		if keep(&vehicles[i]) {
			out = append(out, vehicles[i])
		}
	}
	return out
}

func categoryPredicate(c Category) func(*store.Vehicle) bool {
	switch c {
	case CategoryCar:
		return func(v *store.Vehicle) bool { return !v.IsMotorcycle() && !v.Finished() }
	case CategoryMotorcycle:
		return func(v *store.Vehicle) bool { return v.IsMotorcycle() && !v.Finished() }
	case CategoryNotValidated:
		return func(v *store.Vehicle) bool { return !v.Validated }
	case CategoryFinished:
		return func(v *store.Vehicle) bool { return v.Finished() }
	}
	return func(*store.Vehicle) bool { return true }
}

// matchesQuery is a case-insensitive substring match OR-combined across
// the fields operators actually search on.
func matchesQuery(v *store.Vehicle, q string) bool {
	fields := []string{
		v.LicensePlate,
		v.Model,
		v.Advisor,
		v.AdvisorName,
		v.DeliveryCenter,
		v.DocumentType,
		v.Brand,
		v.DealershipCode,
		v.Bank,
		v.ClientDocID,
		v.ORValue,
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Counts holds per-tab totals for the dashboard header.
type Counts struct {
	All          int `json:"all"`
	Car          int `json:"car"`
	Motorcycle   int `json:"motorcycle"`
	NotValidated int `json:"not_validated"`
	Finished     int `json:"finished"`
}

// CountByCategory tallies every tab in one pass.
func CountByCategory(vehicles []store.Vehicle) Counts {
	var c Counts
	c.All = len(vehicles)
	for i := range vehicles {
		v := &vehicles[i]
		switch {
		case v.Finished():
			c.Finished++
		case v.IsMotorcycle():
			c.Motorcycle++
		default:
			c.Car++
		}
		if !v.Validated {
			c.NotValidated++
		}
	}
	return c
}
