package auth

import (
	"context"
	"testing"

	"github.com/harroway/housemate/internal/model"
)

func TestWithAuthRoundTrip(t *testing.T) {
	ac := AuthContext{UserID: 5, HouseID: 2, Role: model.RoleStandard}
	ctx := WithAuth(context.Background(), ac)

	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected auth context to be present")
	}
	if got != ac {
		t.Errorf("got %+v, want %+v", got, ac)
	}
}

func TestFromContextEmpty(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected no auth context on empty context")
	}
}

func TestAccessorsEmpty(t *testing.T) {
	ctx := context.Background()
	if UserID(ctx) != 0 {
		t.Error("expected zero user id")
	}
	if HouseID(ctx) != 0 {
		t.Error("expected zero house id")
	}
}

func TestIsHouseAdminForCreator(t *testing.T) {
	house := &model.House{ID: 1, CreatedBy: 5}
	ctx := WithAuth(context.Background(), AuthContext{UserID: 5, HouseID: 1, Role: model.RoleReadOnly})

	if !IsHouseAdmin(ctx, house) {
		t.Error("house creator should be admin regardless of stored role")
	}
}

func TestIsHouseAdminForAdminRole(t *testing.T) {
	house := &model.House{ID: 1, CreatedBy: 9}
	ctx := WithAuth(context.Background(), AuthContext{UserID: 5, HouseID: 1, Role: model.RoleAdmin})

	if !IsHouseAdmin(ctx, house) {
		t.Error("admin role should grant admin capability")
	}
}

func TestIsHouseAdminDeniedForStandardMember(t *testing.T) {
	house := &model.House{ID: 1, CreatedBy: 9}
	ctx := WithAuth(context.Background(), AuthContext{UserID: 5, HouseID: 1, Role: model.RoleStandard})

	if IsHouseAdmin(ctx, house) {
		t.Error("standard member should not be admin")
	}
}

func TestIsHouseAdminNoAuth(t *testing.T) {
	house := &model.House{ID: 1, CreatedBy: 5}
	if IsHouseAdmin(context.Background(), house) {
		t.Error("unauthenticated context should never be admin")
	}
}
