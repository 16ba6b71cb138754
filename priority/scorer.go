// Package priority computes the urgency score that orders the
// reconditioning queue. Scoring is pure: a score is a projection of the
// vehicle's current fields and is recomputed after every mutation that
// touches them, never cached.
package priority

import (
	"strings"
	"time"

	"recondeck/store"
)

// Score tiers and per-term caps. Validated vehicles start at
// ValidatedBase, which guarantees they outrank any unvalidated vehicle
// (capped at UnvalidatedCap).
const (
	ValidatedBase       = 1000
	UnvalidatedCap      = 100
	ValidationAgeCap    = 200
	ValidatedSaleCap    = 150
	UnvalidatedPerDay   = 2
	ValidationPerDay    = 5
	ValidatedSalePerDay = 3
)

// Payment bonuses for validated vehicles.
const (
	BonusPaidFinanced   = 100
	BonusPaidCash       = 80
	BonusApproved       = 60
	BonusUnderReview    = 40
	BonusFinancedUnpaid = 30
	BonusCashUnpaid     = 20
)

// Scorer computes priority scores. Now is injectable for tests; when
// nil, time.Now is used.
type Scorer struct {
	Now func() time.Time
}

func (s Scorer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Score returns the urgency score for a vehicle. Always non-negative;
// every term is capped independently before summation so a record that
// sat for years cannot dominate the queue.
func (s Scorer) Score(v *store.Vehicle) int {
	now := s.now()

	if !v.Validated {
		return capped(daysSince(v.SaleDate, now)*UnvalidatedPerDay, UnvalidatedCap)
	}

	score := ValidatedBase
	score += capped(daysSince(v.ValidationDate, now)*ValidationPerDay, ValidationAgeCap)
	score += capped(daysSince(v.SaleDate, now)*ValidatedSalePerDay, ValidatedSaleCap)
	score += PaymentBonus(v.PaymentStatus, v.PaymentMethod)
	return score
}

// Annotate recomputes the score of every vehicle in place.
func (s Scorer) Annotate(vehicles []store.Vehicle) {
	for i := range vehicles {
		vehicles[i].PriorityScore = s.Score(&vehicles[i])
	}
}

// PaymentBonus returns the fixed bonus for a payment status/method pair.
func PaymentBonus(paymentStatus, paymentMethod string) int {
	switch paymentStatus {
	case store.PaymentStatusPaid:
		if isFinanced(paymentMethod) {
			return BonusPaidFinanced
		}
		return BonusPaidCash
	case store.PaymentStatusApproved:
		return BonusApproved
	case store.PaymentStatusUnderReview:
		return BonusUnderReview
	}
	if isFinanced(paymentMethod) {
		return BonusFinancedUnpaid
	}
	return BonusCashUnpaid
}

// isFinanced matches the feed's free-form method values ("financiado",
// "Financiación BMW Bank", ...).
func isFinanced(method string) bool {
	return strings.Contains(strings.ToLower(method), "financ")
}

// daysSince returns whole days between t and now, floor-divided. A
// missing timestamp contributes zero, as does one in the future.
func daysSince(t *time.Time, now time.Time) int {
	if t == nil {
		return 0
	}
	d := now.Sub(*t)
	if d < 0 {
		return 0
	}
	return int(d.Hours()) / 24
}

func capped(n, limit int) int {
	if n > limit {
		return limit
	}
	return n
}
