package mysql

import (
	"context"

	reviewDomain "loanapp-backend/internal/domain/review"

	"gorm.io/gorm"
)

type ReviewRepository struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) *ReviewRepository { return &ReviewRepository{db: db} }

func (r *ReviewRepository) Append(ctx context.Context, e *reviewDomain.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ReviewRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]reviewDomain.Event, error) {
	var out []reviewDomain.Event
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("id ASC").Find(&out)
	return out, res.Error
}
