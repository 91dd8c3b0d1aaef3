package store

import (
	"testing"
	"time"

	"github.com/harroway/housemate/internal/database"
	"github.com/harroway/housemate/internal/model"
)

func setupUserTestDB(t *testing.T) (*UserStore, *HouseStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db), NewHouseStore(db)
}

func TestUserCreateAndGet(t *testing.T) {
	us, _ := setupUserTestDB(t)

	u, err := us.Create("Alice", "Kim", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Role != model.RoleStandard {
		t.Errorf("role = %q, want %q", u.Role, model.RoleStandard)
	}
	if u.HouseID != nil {
		t.Errorf("house_id = %v, want nil", u.HouseID)
	}
	if u.PreferredContact != model.ContactEmail {
		t.Errorf("preferred_contact = %q, want %q", u.PreferredContact, model.ContactEmail)
	}
	if !u.ShowContactInfo {
		t.Error("show_contact_info = false, want true by default")
	}

	byEmail, err := us.GetByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != u.ID {
		t.Errorf("get by email returned %v, want id %d", byEmail, u.ID)
	}
}

func TestUserEmailUnique(t *testing.T) {
	us, _ := setupUserTestDB(t)

	if _, err := us.Create("Alice", "", "dup@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("Bob", "", "dup@example.com", "hash"); err == nil {
		t.Error("expected error for duplicate email")
	}

	exists, err := us.EmailExists("dup@example.com")
	if err != nil {
		t.Fatalf("email exists: %v", err)
	}
	if !exists {
		t.Error("expected email to exist")
	}
}

func TestUserUpdateField(t *testing.T) {
	us, _ := setupUserTestDB(t)

	u, err := us.Create("Alice", "", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	updated, err := us.UpdateField(u.ID, "bio", "I water the plants")
	if err != nil {
		t.Fatalf("update bio: %v", err)
	}
	if updated.Bio != "I water the plants" {
		t.Errorf("bio = %q, want %q", updated.Bio, "I water the plants")
	}

	updated, err = us.UpdateField(u.ID, "show_contact_info", 0)
	if err != nil {
		t.Fatalf("update privacy: %v", err)
	}
	if updated.ShowContactInfo {
		t.Error("show_contact_info = true, want false")
	}

	if _, err := us.UpdateField(u.ID, "password_hash", "sneaky"); err == nil {
		t.Error("expected error for disallowed column")
	}
}

func TestUserSetHouseAndHousemates(t *testing.T) {
	us, hs := setupUserTestDB(t)

	alice, _ := us.Create("Alice", "", "alice@example.com", "hash")
	bob, _ := us.Create("Bob", "", "bob@example.com", "hash")

	house, err := hs.Create("Elm Street", "", "", alice.ID)
	if err != nil {
		t.Fatalf("create house: %v", err)
	}

	if err := us.SetHouse(alice.ID, &house.ID); err != nil {
		t.Fatalf("set house: %v", err)
	}
	if err := us.SetHouse(bob.ID, &house.ID); err != nil {
		t.Fatalf("set house: %v", err)
	}

	mates, err := us.ListByHouse(house.ID)
	if err != nil {
		t.Fatalf("list housemates: %v", err)
	}
	if len(mates) != 2 {
		t.Fatalf("housemates = %d, want 2", len(mates))
	}

	// leaving the house clears membership
	if err := us.SetHouse(bob.ID, nil); err != nil {
		t.Fatalf("clear house: %v", err)
	}
	mates, err = us.ListByHouse(house.ID)
	if err != nil {
		t.Fatalf("list housemates: %v", err)
	}
	if len(mates) != 1 {
		t.Fatalf("housemates = %d, want 1", len(mates))
	}
}

func TestHousematesIncludeCreatorWithoutMembership(t *testing.T) {
	us, hs := setupUserTestDB(t)

	alice, _ := us.Create("Alice", "", "alice@example.com", "hash")
	house, err := hs.Create("Elm Street", "", "", alice.ID)
	if err != nil {
		t.Fatalf("create house: %v", err)
	}

	// alice never joined her own house; she still shows up as a housemate
	mates, err := us.ListByHouse(house.ID)
	if err != nil {
		t.Fatalf("list housemates: %v", err)
	}
	if len(mates) != 1 || mates[0].ID != alice.ID {
		t.Fatalf("housemates = %v, want just the creator", mates)
	}
}

func TestUserRecordLogin(t *testing.T) {
	us, _ := setupUserTestDB(t)

	u, _ := us.Create("Alice", "", "alice@example.com", "hash")
	if u.LastLogin != nil {
		t.Errorf("last_login = %v, want nil", u.LastLogin)
	}

	at := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	if err := us.RecordLogin(u.ID, at); err != nil {
		t.Fatalf("record login: %v", err)
	}

	got, err := us.GetByID(u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.LastLogin == nil || !got.LastLogin.Equal(at) {
		t.Errorf("last_login = %v, want %v", got.LastLogin, at)
	}
}

func TestHouseCRUD(t *testing.T) {
	us, hs := setupUserTestDB(t)

	alice, _ := us.Create("Alice", "", "alice@example.com", "hash")

	house, err := hs.Create("Elm Street", "12 Elm St", "No loud music after 10", alice.ID)
	if err != nil {
		t.Fatalf("create house: %v", err)
	}
	if house.CreatedBy != alice.ID {
		t.Errorf("created_by = %d, want %d", house.CreatedBy, alice.ID)
	}

	updated, err := hs.Update(house.ID, "Elm Street", "14 Elm St", house.HouseRules, "")
	if err != nil {
		t.Fatalf("update house: %v", err)
	}
	if updated.Address != "14 Elm St" {
		t.Errorf("address = %q, want %q", updated.Address, "14 Elm St")
	}

	if err := hs.Delete(house.ID); err != nil {
		t.Fatalf("delete house: %v", err)
	}
	got, err := hs.GetByID(house.ID)
	if err != nil {
		t.Fatalf("get deleted house: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted house")
	}
}
