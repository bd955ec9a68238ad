package mysql

import (
	"context"
	"time"

	repaymentDomain "loanapp-backend/internal/domain/repayment"

	"gorm.io/gorm"
)

const repaymentBatchSize = 100

type RepaymentRepository struct{ db *gorm.DB }

func NewRepaymentRepository(db *gorm.DB) *RepaymentRepository {
	return &RepaymentRepository{db: db}
}

func (r *RepaymentRepository) CreateBatch(ctx context.Context, rows []repaymentDomain.Repayment) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, repaymentBatchSize).Error
}

func (r *RepaymentRepository) DeleteByLoanID(ctx context.Context, loanID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Delete(&repaymentDomain.Repayment{})
	return res.RowsAffected, res.Error
}

func (r *RepaymentRepository) GetByRepaymentID(ctx context.Context, repaymentID string) (*repaymentDomain.Repayment, error) {
	var out repaymentDomain.Repayment
	res := r.db.WithContext(ctx).Where("repayment_id = ?", repaymentID).First(&out)
	return &out, res.Error
}

func (r *RepaymentRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]repaymentDomain.Repayment, error) {
	var out []repaymentDomain.Repayment
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("due_date ASC, number ASC").Find(&out)
	return out, res.Error
}

// MarkPaid is a conditional update; RowsAffected is the gate against paying twice.
func (r *RepaymentRepository) MarkPaid(ctx context.Context, id uint64, at time.Time, by string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&repaymentDomain.Repayment{}).
		Where("id = ? AND status = ?", id, repaymentDomain.StatusPending).
		Updates(map[string]any{
			"status":    repaymentDomain.StatusPaid,
			"paid_date": at.UTC(),
			"paid_by":   by,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *RepaymentRepository) NextPending(ctx context.Context, loanID uint64) (*repaymentDomain.Repayment, error) {
	var out repaymentDomain.Repayment
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND status = ?", loanID, repaymentDomain.StatusPending).
		Order("due_date ASC, number ASC").
		First(&out)
	return &out, res.Error
}

// PaidSince buckets in Go so the query stays portable across MySQL and SQLite.
func (r *RepaymentRepository) PaidSince(ctx context.Context, since time.Time, ownerID string) ([]repaymentDomain.MonthlyTotal, error) {
	var rows []repaymentDomain.Repayment
	q := r.db.WithContext(ctx).
		Select("repayments.paid_date", "repayments.amount").
		Where("repayments.status = ? AND repayments.paid_date >= ?", repaymentDomain.StatusPaid, since.UTC())
	if ownerID != "" {
		q = q.Joins("JOIN loans ON loans.id = repayments.loan_id").Where("loans.user_id = ?", ownerID)
	}
	if err := q.Order("repayments.paid_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := []repaymentDomain.MonthlyTotal{}
	for _, p := range rows {
		if p.PaidDate == nil {
			continue
		}
		d := p.PaidDate.UTC()
		n := len(out)
		if n == 0 || out[n-1].Year != d.Year() || out[n-1].Month != int(d.Month()) {
			out = append(out, repaymentDomain.MonthlyTotal{Year: d.Year(), Month: int(d.Month())})
			n++
		}
		out[n-1].Amount = out[n-1].Amount.Add(p.Amount)
		out[n-1].Count++
	}
	return out, nil
}
