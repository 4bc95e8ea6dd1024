package auth

import (
	"context"

	"github.com/dukerupert/starcoin/internal/model"
)

type contextKey struct{}

// AuthContext identifies the member making a request.
type AuthContext struct {
	MemberID string
	FamilyID string
	Role     model.Role
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func FamilyID(ctx context.Context) string {
	ac, _ := FromContext(ctx)
	return ac.FamilyID
}

func MemberID(ctx context.Context) string {
	ac, _ := FromContext(ctx)
	return ac.MemberID
}

func IsParent(ctx context.Context) bool {
	ac, ok := FromContext(ctx)
	return ok && ac.Role == model.RoleParent
}

// CanActFor reports whether the caller may read or act on childID's data:
// parents for anyone in their family, children only for themselves.
func CanActFor(ctx context.Context, childID string) bool {
	ac, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return ac.Role == model.RoleParent || ac.MemberID == childID
}
