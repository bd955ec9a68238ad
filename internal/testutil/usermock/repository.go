package usermock

import (
	"context"
	"slices"

	"loanapp-backend/internal/domain/auth"
	"loanapp-backend/internal/domain/user"
)

var _ user.Repository = (*Repo)(nil)

// Repo serves Users from memory unless a func field overrides it.
type Repo struct {
	GetByUserIDsFn func(ctx context.Context, userIDs []string) ([]user.User, error)
	ListByRolesFn  func(ctx context.Context, roles ...auth.Role) ([]user.User, error)

	Users []user.User
}

func (m *Repo) GetByUserIDs(ctx context.Context, userIDs []string) ([]user.User, error) {
	if m.GetByUserIDsFn != nil {
		return m.GetByUserIDsFn(ctx, userIDs)
	}
	var out []user.User
	for _, u := range m.Users {
		if slices.Contains(userIDs, u.UserID) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *Repo) ListByRoles(ctx context.Context, roles ...auth.Role) ([]user.User, error) {
	if m.ListByRolesFn != nil {
		return m.ListByRolesFn(ctx, roles...)
	}
	var out []user.User
	for _, u := range m.Users {
		if slices.Contains(roles, u.Role) {
			out = append(out, u)
		}
	}
	return out, nil
}
