package user

import (
	"context"

	"loanapp-backend/internal/domain/auth"
)

// User is the read-only view of an account; registration lives elsewhere.
type User struct {
	ID       uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID   string    `gorm:"column:user_id;size:32;not null;uniqueIndex:ux_users_user_id" json:"id"`
	Username string    `gorm:"column:username;size:100;not null" json:"username"`
	FullName string    `gorm:"column:full_name;size:200" json:"fullName"`
	Email    string    `gorm:"column:email;size:200" json:"email"`
	Role     auth.Role `gorm:"column:role;size:16;not null;index:idx_users_role" json:"role"`
}

func (User) TableName() string { return "users" }

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

type Repository interface {
	GetByUserIDs(ctx context.Context, userIDs []string) ([]User, error)
	ListByRoles(ctx context.Context, roles ...auth.Role) ([]User, error)
}
