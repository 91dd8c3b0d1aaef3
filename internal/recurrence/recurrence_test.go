package recurrence

import (
	"testing"
	"time"

	"github.com/harroway/housemate/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func event(id int64, scheduledDate, recurrence string) *model.ScheduleEvent {
	return &model.ScheduleEvent{ID: id, ScheduledDate: scheduledDate, Recurrence: recurrence}
}

func TestExpandNonRecurring(t *testing.T) {
	ev := event(1, "2026-09-10", model.RecurrenceNone)

	got := Expand(ev, date("2026-09-01"), date("2026-09-30"))
	if len(got) != 1 || got[0].Date != "2026-09-10" {
		t.Fatalf("got %v, want single occurrence on 2026-09-10", got)
	}

	if got := Expand(ev, date("2026-10-01"), date("2026-10-31")); len(got) != 0 {
		t.Errorf("outside window: got %v, want none", got)
	}
}

func TestExpandWeekly(t *testing.T) {
	ev := event(1, "2026-09-07", model.RecurrenceWeekly)

	got := Expand(ev, date("2026-09-01"), date("2026-09-30"))
	want := []string{"2026-09-07", "2026-09-14", "2026-09-21", "2026-09-28"}
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Date != w {
			t.Errorf("occurrence %d = %s, want %s", i, got[i].Date, w)
		}
	}
}

func TestExpandDailyStartsInsideWindow(t *testing.T) {
	// series started before the window; only in-window dates are returned
	ev := event(1, "2026-08-28", model.RecurrenceDaily)

	got := Expand(ev, date("2026-09-01"), date("2026-09-03"))
	want := []string{"2026-09-01", "2026-09-02", "2026-09-03"}
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Date != w {
			t.Errorf("occurrence %d = %s, want %s", i, got[i].Date, w)
		}
	}
}

func TestExpandMonthlySkipsShortMonths(t *testing.T) {
	ev := event(1, "2026-01-31", model.RecurrenceMonthly)

	got := Expand(ev, date("2026-01-01"), date("2026-05-31"))
	want := []string{"2026-01-31", "2026-03-31", "2026-05-31"}
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Date != w {
			t.Errorf("occurrence %d = %s, want %s", i, got[i].Date, w)
		}
	}
}

func TestExpandBadDate(t *testing.T) {
	ev := event(1, "next tuesday", model.RecurrenceDaily)
	if got := Expand(ev, date("2026-09-01"), date("2026-09-30")); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestExpandAllOrdered(t *testing.T) {
	events := []model.ScheduleEvent{
		*event(2, "2026-09-08", model.RecurrenceNone),
		*event(1, "2026-09-07", model.RecurrenceWeekly),
	}

	got := ExpandAll(events, date("2026-09-01"), date("2026-09-15"))
	want := []Occurrence{
		{EventID: 1, Date: "2026-09-07"},
		{EventID: 2, Date: "2026-09-08"},
		{EventID: 1, Date: "2026-09-14"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("occurrence %d = %v, want %v", i, got[i], want[i])
		}
	}
}
