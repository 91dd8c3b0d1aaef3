package bill

import (
	"testing"
	"time"
)

var today = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func TestSharedUnpaidOverdue(t *testing.T) {
	due := today.AddDate(0, 0, -1)

	s := Derive(100, 2, 0, due, today)
	if s.Status != StatusOverdue {
		t.Errorf("status = %q, want %q", s.Status, StatusOverdue)
	}
	if s.PerPerson != 50.0 {
		t.Errorf("per person = %v, want 50", s.PerPerson)
	}
	if s.Progress != 0 {
		t.Errorf("progress = %d, want 0", s.Progress)
	}
}

func TestSharedFullyPaid(t *testing.T) {
	due := today.AddDate(0, 0, -1)

	s := Derive(100, 2, 100, due, today)
	if s.Status != StatusPaid {
		t.Errorf("status = %q, want %q", s.Status, StatusPaid)
	}
	if s.Progress != 100 {
		t.Errorf("progress = %d, want 100", s.Progress)
	}
}

func TestSharedPartiallyPaid(t *testing.T) {
	due := today.AddDate(0, 0, 5)

	s := Derive(100, 2, 50, due, today)
	if s.Status != StatusPartiallyPaid {
		t.Errorf("status = %q, want %q", s.Status, StatusPartiallyPaid)
	}
	if s.Progress != 50 {
		t.Errorf("progress = %d, want 50", s.Progress)
	}
	if s.PaymentPercentage != 0.5 {
		t.Errorf("percentage = %v, want 0.5", s.PaymentPercentage)
	}
}

func TestSharedUnpaidNotYetDue(t *testing.T) {
	due := today.AddDate(0, 0, 3)

	s := Derive(100, 4, 0, due, today)
	if s.Status != StatusPending {
		t.Errorf("status = %q, want %q", s.Status, StatusPending)
	}
	if s.PerPerson != 25.0 {
		t.Errorf("per person = %v, want 25", s.PerPerson)
	}
}

func TestDueTodayIsNotOverdue(t *testing.T) {
	// Due at midnight today, evaluated mid-afternoon: same calendar date.
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	s := Derive(60, 3, 0, due, today)
	if s.Status != StatusPending {
		t.Errorf("status = %q, want %q", s.Status, StatusPending)
	}
}

func TestPersonalBillPending(t *testing.T) {
	due := today.AddDate(0, 0, 1)

	s := Derive(80, 0, 0, due, today)
	if s.Status != StatusPending {
		t.Errorf("status = %q, want %q", s.Status, StatusPending)
	}
	if s.PerPerson != 80.0 {
		t.Errorf("per person = %v, want full amount 80", s.PerPerson)
	}
}

func TestPersonalBillOverdue(t *testing.T) {
	due := today.AddDate(0, 0, -2)

	s := Derive(80, 0, 0, due, today)
	if s.Status != StatusOverdue {
		t.Errorf("status = %q, want %q", s.Status, StatusOverdue)
	}
}

func TestZeroAmountBill(t *testing.T) {
	due := today.AddDate(0, 0, -1)

	s := Derive(0, 2, 0, due, today)
	if s.PaymentPercentage != 0 {
		t.Errorf("percentage = %v, want 0", s.PaymentPercentage)
	}
	if s.Progress != 0 {
		t.Errorf("progress = %d, want 0", s.Progress)
	}
	if s.Status != StatusOverdue {
		t.Errorf("status = %q, want %q", s.Status, StatusOverdue)
	}
}

func TestOverpaidBillClampsProgress(t *testing.T) {
	due := today.AddDate(0, 0, 5)

	s := Derive(100, 2, 130, due, today)
	if s.Status != StatusPaid {
		t.Errorf("status = %q, want %q", s.Status, StatusPaid)
	}
	if s.Progress != 100 {
		t.Errorf("progress = %d, want clamped 100", s.Progress)
	}
	if s.PaymentPercentage != 1.3 {
		t.Errorf("raw percentage = %v, want unclamped 1.3", s.PaymentPercentage)
	}
}

func TestProgressRounds(t *testing.T) {
	due := today.AddDate(0, 0, 5)

	s := Derive(90, 3, 30, due, today)
	if s.Progress != 33 {
		t.Errorf("progress = %d, want 33", s.Progress)
	}
}
