package mysql

import (
	"context"

	"loanapp-backend/internal/domain/auth"
	userDomain "loanapp-backend/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) GetByUserIDs(ctx context.Context, userIDs []string) ([]userDomain.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var out []userDomain.User
	res := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&out)
	return out, res.Error
}

func (r *UserRepository) ListByRoles(ctx context.Context, roles ...auth.Role) ([]userDomain.User, error) {
	var out []userDomain.User
	res := r.db.WithContext(ctx).Where("role IN ?", roles).Order("id ASC").Find(&out)
	return out, res.Error
}
