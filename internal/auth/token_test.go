package auth

import (
	"testing"
	"time"

	"github.com/harroway/housemate/internal/model"
)

func testUser() *model.User {
	houseID := int64(3)
	return &model.User{
		ID:      7,
		Email:   "ana@example.com",
		Role:    model.RoleStandard,
		HouseID: &houseID,
	}
}

func TestIssueAndValidate(t *testing.T) {
	ti := NewTokenIssuer("test-secret")

	token, err := ti.Issue(testUser(), time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := ti.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("user_id = %d, want 7", claims.UserID)
	}
	if claims.HouseID != 3 {
		t.Errorf("house_id = %d, want 3", claims.HouseID)
	}
	if claims.Role != model.RoleStandard {
		t.Errorf("role = %q, want %q", claims.Role, model.RoleStandard)
	}
}

func TestIssueWithoutHouse(t *testing.T) {
	ti := NewTokenIssuer("test-secret")
	u := testUser()
	u.HouseID = nil

	token, err := ti.Issue(u, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := ti.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.HouseID != 0 {
		t.Errorf("house_id = %d, want 0 for houseless user", claims.HouseID)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a").Issue(testUser(), time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewTokenIssuer("secret-b").Validate(token); err == nil {
		t.Error("expected validation to fail with wrong secret")
	}
}

func TestValidateExpired(t *testing.T) {
	ti := NewTokenIssuer("test-secret")

	token, err := ti.Issue(testUser(), time.Now().Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := ti.Validate(token); err == nil {
		t.Error("expected validation to fail for expired token")
	}
}

func TestValidateGarbage(t *testing.T) {
	ti := NewTokenIssuer("test-secret")
	if _, err := ti.Validate("not.a.token"); err == nil {
		t.Error("expected validation to fail for malformed token")
	}
}
