package bill

import (
	"math"
	"time"
)

// Status is a display-only value computed from shares and payments at read
// time. It is never persisted.
type Status string

const (
	StatusPaid          Status = "Paid"
	StatusPartiallyPaid Status = "Partially Paid"
	StatusPending       Status = "Pending"
	StatusOverdue       Status = "Overdue"
)

// Summary holds the derived payment state of a bill.
type Summary struct {
	Status            Status  `json:"status"`
	PerPerson         float64 `json:"per_person"`
	PaymentPercentage float64 `json:"payment_percentage"`
	Progress          int     `json:"progress"`
}

// Derive computes a bill's display status and payment progress.
//
// An unshared bill (totalShares == 0) is a personal bill: it is Overdue once
// its due date has passed and Pending otherwise, and the per-person amount is
// the full bill amount. A shared bill is Paid when payments cover the amount,
// Partially Paid when some but not all of it is covered, and otherwise falls
// back to the due-date check.
//
// The due-date comparison is by calendar date: a bill due today is not yet
// overdue. This is intentionally different from the 24-hour grace window used
// for tasks; the two policies must not be unified.
func Derive(amount float64, totalShares int, totalPaid float64, dueDate, today time.Time) Summary {
	s := Summary{
		PerPerson:         amount,
		PaymentPercentage: percentage(amount, totalPaid),
		Progress:          progress(amount, totalPaid),
	}

	if totalShares == 0 {
		if pastDue(dueDate, today) {
			s.Status = StatusOverdue
		} else {
			s.Status = StatusPending
		}
		return s
	}

	s.PerPerson = amount / float64(totalShares)

	switch pct := s.PaymentPercentage; {
	case pct >= 1.0:
		s.Status = StatusPaid
	case pct > 0:
		s.Status = StatusPartiallyPaid
	case pastDue(dueDate, today):
		s.Status = StatusOverdue
	default:
		s.Status = StatusPending
	}
	return s
}

func percentage(amount, totalPaid float64) float64 {
	if amount == 0 {
		return 0
	}
	return totalPaid / amount
}

// progress is the rounded display percentage, clamped to [0, 100] so an
// overpaid bill renders as full rather than overflowing the progress bar.
// The raw percentage remains available unclamped.
func progress(amount, totalPaid float64) int {
	if amount == 0 {
		return 0
	}
	p := int(math.Round(totalPaid / amount * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func pastDue(dueDate, today time.Time) bool {
	return startOfDay(dueDate).Before(startOfDay(today))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
