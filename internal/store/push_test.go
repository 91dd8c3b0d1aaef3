package store

import (
	"testing"
	"time"

	"github.com/harroway/housemate/internal/database"
	"github.com/harroway/housemate/internal/model"
)

func setupPushTestDB(t *testing.T) (*PushStore, int64, int64) {
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
	if err := users.SetHouse(u.ID, &house.ID); err != nil {
		t.Fatalf("set house: %v", err)
	}

	return NewPushStore(db), house.ID, u.ID
}

func TestCreateSubscription(t *testing.T) {
	ps, hid, uid := setupPushTestDB(t)

	sub, err := ps.CreateSubscription(uid, hid, "https://push.example.com/sub1", "p256dh_key1", "auth_key1", "Chrome Desktop")
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if sub.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if sub.Endpoint != "https://push.example.com/sub1" {
		t.Errorf("endpoint = %q, want %q", sub.Endpoint, "https://push.example.com/sub1")
	}
	if sub.DeviceName != "Chrome Desktop" {
		t.Errorf("device_name = %q, want %q", sub.DeviceName, "Chrome Desktop")
	}
}

func TestCreateSubscriptionUpsert(t *testing.T) {
	ps, hid, uid := setupPushTestDB(t)

	first, err := ps.CreateSubscription(uid, hid, "https://push.example.com/sub1", "key1", "auth1", "Chrome")
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	// same endpoint again: keys update in place, no new row
	second, err := ps.CreateSubscription(uid, hid, "https://push.example.com/sub1", "key2", "auth2", "Chrome")
	if err != nil {
		t.Fatalf("upsert subscription: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created new row: id %d != %d", second.ID, first.ID)
	}
	if second.P256dhKey != "key2" {
		t.Errorf("p256dh_key = %q, want %q", second.P256dhKey, "key2")
	}

	subs, err := ps.ListByUser(uid)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("subscriptions = %d, want 1", len(subs))
	}
}

func TestDeleteByEndpoint(t *testing.T) {
	ps, hid, uid := setupPushTestDB(t)

	if _, err := ps.CreateSubscription(uid, hid, "https://push.example.com/gone", "k", "a", ""); err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if err := ps.DeleteByEndpoint("https://push.example.com/gone"); err != nil {
		t.Fatalf("delete by endpoint: %v", err)
	}

	subs, err := ps.ListByHouse(hid)
	if err != nil {
		t.Fatalf("list by house: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("subscriptions = %d, want 0", len(subs))
	}
}

func TestSentDedup(t *testing.T) {
	ps, hid, _ := setupPushTestDB(t)

	sent, err := ps.WasSent(hid, model.NotifTypeTaskDue, "task-1")
	if err != nil {
		t.Fatalf("was sent: %v", err)
	}
	if sent {
		t.Error("expected not sent before recording")
	}

	if err := ps.RecordSent(hid, model.NotifTypeTaskDue, "task-1"); err != nil {
		t.Fatalf("record sent: %v", err)
	}
	// duplicate record is a no-op, not an error
	if err := ps.RecordSent(hid, model.NotifTypeTaskDue, "task-1"); err != nil {
		t.Fatalf("record sent again: %v", err)
	}

	sent, err = ps.WasSent(hid, model.NotifTypeTaskDue, "task-1")
	if err != nil {
		t.Fatalf("was sent: %v", err)
	}
	if !sent {
		t.Error("expected sent after recording")
	}

	if err := ps.CleanupSent(time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("cleanup sent: %v", err)
	}
	sent, err = ps.WasSent(hid, model.NotifTypeTaskDue, "task-1")
	if err != nil {
		t.Fatalf("was sent: %v", err)
	}
	if sent {
		t.Error("expected cleared after cleanup")
	}
}
