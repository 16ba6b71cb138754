package queue

import (
	"testing"
	"time"

	"recondeck/status"
	"recondeck/store"
)

func sampleVehicles() []store.Vehicle {
	sold := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	return []store.Vehicle{
		{ID: "car1", LicensePlate: "1234ABC", Model: "320d", VehicleType: "Coche", Advisor: "jgarcia", SaleDate: &sold},
		{ID: "moto1", LicensePlate: "5678DEF", Model: "R1250GS", VehicleType: "Moto", Bank: "BMW Bank"},
		{ID: "done1", LicensePlate: "9999ZZZ", VehicleType: "Coche",
			BodyStatus: status.StatusDone, Photo360Status: status.StatusDone, Validated: true},
		{ID: "car2", LicensePlate: "4321CBA", VehicleType: "Coche", Validated: true, Brand: "MINI"},
	}
}

func TestFilterIdentityLaw(t *testing.T) {
	vehicles := sampleVehicles()
	got := Filter(vehicles, CategoryAll, "", DateRange{})
	if len(got) != len(vehicles) {
		t.Fatalf("identity law broken: got %d of %d", len(got), len(vehicles))
	}
	for i := range got {
		if got[i].ID != vehicles[i].ID {
			t.Fatalf("identity law broken at %d: %s != %s", i, got[i].ID, vehicles[i].ID)
		}
	}
}

func TestFilterCategories(t *testing.T) {
	vehicles := sampleVehicles()

	tests := []struct {
		category Category
		want     []string
	}{
		{CategoryCar, []string{"car1", "car2"}},
		{CategoryMotorcycle, []string{"moto1"}},
		{CategoryNotValidated, []string{"car1", "moto1"}},
		{CategoryFinished, []string{"done1"}},
		{CategoryAll, []string{"car1", "moto1", "done1", "car2"}},
	}
	for _, tt := range tests {
		got := ids(Filter(vehicles, tt.category, "", DateRange{}))
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %v, want %v", tt.category, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: got %v, want %v", tt.category, got, tt.want)
				break
			}
		}
	}
}

func TestFilterFreeText(t *testing.T) {
	vehicles := sampleVehicles()

	tests := []struct {
		query string
		want  int
	}{
		{"1234abc", 1}, // plate, case-insensitive
		{"320", 1},     // model substring
		{"garcia", 1},  // advisor alias
		{"bmw bank", 1},
		{"mini", 1},
		{"nothing-matches", 0},
		{"  ", 4}, // blank query passes through
	}
	for _, tt := range tests {
		got := Filter(vehicles, CategoryAll, tt.query, DateRange{})
		if len(got) != tt.want {
			t.Errorf("query %q: got %d matches, want %d", tt.query, len(got), tt.want)
		}
	}
}

func TestFilterDateRange(t *testing.T) {
	vehicles := sampleVehicles()
	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC)

	got := Filter(vehicles, CategoryAll, "", DateRange{From: &from, To: &to})
	if len(got) != 1 || got[0].ID != "car1" {
		t.Fatalf("expected only car1 in May window, got %v", ids(got))
	}

	// Inclusive bounds: a sale exactly on the edge stays in.
	edge := vehicles[0].SaleDate
	got = Filter(vehicles, CategoryAll, "", DateRange{From: edge, To: edge})
	if len(got) != 1 {
		t.Fatalf("expected inclusive bound to match, got %v", ids(got))
	}
}

func TestFilterStagesCompose(t *testing.T) {
	vehicles := sampleVehicles()
	// Category AND text: car tab + MINI brand leaves only car2.
	got := Filter(vehicles, CategoryCar, "mini", DateRange{})
	if len(got) != 1 || got[0].ID != "car2" {
		t.Fatalf("expected [car2], got %v", ids(got))
	}
}

func TestCountByCategory(t *testing.T) {
	c := CountByCategory(sampleVehicles())
	if c.All != 4 || c.Car != 2 || c.Motorcycle != 1 || c.NotValidated != 2 || c.Finished != 1 {
		t.Fatalf("unexpected counts: %+v", c)
	}
}
