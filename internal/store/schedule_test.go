package store

import (
	"testing"

	"github.com/harroway/housemate/internal/database"
	"github.com/harroway/housemate/internal/model"
)

func setupScheduleTestDB(t *testing.T) (*ScheduleStore, int64, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := NewUserStore(db)
	u, err := users.Create("Alice", "", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	houses := NewHouseStore(db)
	house, err := houses.Create("Elm Street", "", "", u.ID)
	if err != nil {
		t.Fatalf("create house: %v", err)
	}
	return NewScheduleStore(db), house.ID, u.ID
}

func TestScheduleEventCRUD(t *testing.T) {
	ss, houseID, userID := setupScheduleTestDB(t)

	event, err := ss.Create(houseID, "House meeting", "Monthly sync", "2026-09-07", "19:00", model.RecurrenceMonthly, userID)
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if event.ScheduledDate != "2026-09-07" {
		t.Errorf("scheduled_date = %q, want %q", event.ScheduledDate, "2026-09-07")
	}
	if event.Recurrence != model.RecurrenceMonthly {
		t.Errorf("recurrence = %q, want %q", event.Recurrence, model.RecurrenceMonthly)
	}

	updated, err := ss.Update(event.ID, "House meeting", "Monthly sync", "2026-09-08", "20:00", model.RecurrenceMonthly)
	if err != nil {
		t.Fatalf("update event: %v", err)
	}
	if updated.ScheduledTime != "20:00" {
		t.Errorf("scheduled_time = %q, want %q", updated.ScheduledTime, "20:00")
	}

	if err := ss.Delete(event.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	got, err := ss.GetByID(event.ID)
	if err != nil {
		t.Fatalf("get deleted event: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted event")
	}
}

func TestScheduleListOrdering(t *testing.T) {
	ss, houseID, userID := setupScheduleTestDB(t)

	if _, err := ss.Create(houseID, "Later", "", "2026-09-10", "18:00", model.RecurrenceNone, userID); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := ss.Create(houseID, "Earlier", "", "2026-09-05", "09:00", model.RecurrenceNone, userID); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if _, err := ss.Create(houseID, "Same day morning", "", "2026-09-10", "08:00", model.RecurrenceNone, userID); err != nil {
		t.Fatalf("create event: %v", err)
	}

	events, err := ss.ListByHouse(houseID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	want := []string{"Earlier", "Same day morning", "Later"}
	for i, title := range want {
		if events[i].Title != title {
			t.Errorf("events[%d].Title = %q, want %q", i, events[i].Title, title)
		}
	}
}
