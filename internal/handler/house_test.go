package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/harroway/housemate/internal/email"
)

func newHouseHandler(env *testEnv, mailer *email.Client) *HouseHandler {
	return NewHouseHandler(env.houses, env.users, env.tasks, mailer, nil, env.logger)
}

func TestHouseCreateBackfillsMembership(t *testing.T) {
	env := newTestEnv(t)
	h := newHouseHandler(env, nil)

	founder, err := env.users.Create("Merry", "Brandybuck", "merry@example.com", "x")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/houses", strings.NewReader(`{"name": "Crickhollow"}`))
	r = env.authed(r, founder)
	rec := httptest.NewRecorder()
	h.Create(rec, r)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID      int64 `json:"id"`
		IsAdmin bool  `json:"is_admin"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.IsAdmin {
		t.Error("creator should be admin")
	}

	u, err := env.users.GetByID(founder.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if u.HouseID == nil || *u.HouseID != resp.ID {
		t.Errorf("house_id = %v, want %d", u.HouseID, resp.ID)
	}
	// admin capability is computed from created_by, the stored role is
	// untouched
	if u.Role != "standard" {
		t.Errorf("role = %q, want standard", u.Role)
	}
}

func TestHouseUpdateRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	h := newHouseHandler(env, nil)

	member, err := env.users.Create("Pippin", "Took", "pippin@example.com", "x")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := env.users.SetHouse(member.ID, &env.house.ID); err != nil {
		t.Fatalf("set house: %v", err)
	}
	member, err = env.users.GetByID(member.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}

	body := `{"name": "Renamed"}`
	r := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/houses/%d", env.house.ID), strings.NewReader(body))
	r = env.authed(r, member)
	r.SetPathValue("id", fmt.Sprint(env.house.ID))
	rec := httptest.NewRecorder()
	h.Update(rec, r)

	if rec.Code != http.StatusForbidden {
		t.Errorf("member update: status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	// the creator can, without holding the admin role
	r = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/houses/%d", env.house.ID), strings.NewReader(body))
	r = env.authed(r, env.caller(t))
	r.SetPathValue("id", fmt.Sprint(env.house.ID))
	rec = httptest.NewRecorder()
	h.Update(rec, r)

	if rec.Code != http.StatusOK {
		t.Errorf("creator update: status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestHouseUsersHidesPrivateContactInfo(t *testing.T) {
	env := newTestEnv(t)
	h := newHouseHandler(env, nil)

	private, err := env.users.Create("Lobelia", "Sackville-Baggins", "lobelia@example.com", "x")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := env.users.SetHouse(private.ID, &env.house.ID); err != nil {
		t.Fatalf("set house: %v", err)
	}
	if _, err := env.users.UpdateField(private.ID, "phone", "555-0199"); err != nil {
		t.Fatalf("set phone: %v", err)
	}
	if _, err := env.users.UpdateField(private.ID, "show_contact_info", 0); err != nil {
		t.Fatalf("set privacy: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/houses/%d/users", env.house.ID), nil)
	r = env.authed(r, env.caller(t))
	r.SetPathValue("id", fmt.Sprint(env.house.ID))
	rec := httptest.NewRecorder()
	h.Users(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var users []struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	for _, u := range users {
		if u.ID == private.ID {
			if u.Email != "" || u.Phone != "" {
				t.Errorf("contact info leaked: email=%q phone=%q", u.Email, u.Phone)
			}
		}
		if u.ID == env.user.ID && u.Email == "" {
			t.Error("caller's own contact info should be visible")
		}
	}
}

func TestHouseInvite(t *testing.T) {
	env := newTestEnv(t)

	var sent struct {
		To      string `json:"To"`
		Subject string `json:"Subject"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Errorf("decode email payload: %v", err)
		}
		w.Write([]byte(`{"ErrorCode": 0}`))
	}))
	defer srv.Close()

	mailer := email.NewClient("token", "noreply@example.com", "http://app.local", email.WithEndpoint(srv.URL))
	h := newHouseHandler(env, mailer)

	r := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/houses/%d/invite", env.house.ID), strings.NewReader(`{"email": "gandalf@example.com"}`))
	r = env.authed(r, env.caller(t))
	r.SetPathValue("id", fmt.Sprint(env.house.ID))
	rec := httptest.NewRecorder()
	h.Invite(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if sent.To != "gandalf@example.com" {
		t.Errorf("invite sent to %q", sent.To)
	}
}

func TestHouseInviteRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	h := newHouseHandler(env, nil)

	member, err := env.users.Create("Pippin", "Took", "pippin@example.com", "x")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := env.users.SetHouse(member.ID, &env.house.ID); err != nil {
		t.Fatalf("set house: %v", err)
	}
	member, err = env.users.GetByID(member.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/houses/%d/invite", env.house.ID), strings.NewReader(`{"email": "gandalf@example.com"}`))
	r = env.authed(r, member)
	r.SetPathValue("id", fmt.Sprint(env.house.ID))
	rec := httptest.NewRecorder()
	h.Invite(rec, r)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
