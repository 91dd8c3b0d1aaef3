package auth

import (
	"context"

	"github.com/harroway/housemate/internal/model"
)

type contextKey struct{}

type AuthContext struct {
	UserID  int64
	HouseID int64
	Role    string
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}

func HouseID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.HouseID
}

// IsHouseAdmin reports whether the authenticated user administers the given
// house. The house creator always counts as admin, whatever role the users
// table holds; the stored role is never mutated to reflect this.
func IsHouseAdmin(ctx context.Context, house *model.House) bool {
	ac, ok := FromContext(ctx)
	if !ok {
		return false
	}
	if house != nil && ac.UserID == house.CreatedBy {
		return true
	}
	return ac.Role == model.RoleAdmin
}
