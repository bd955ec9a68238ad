package repayment

import (
	"context"
	"time"
)

type Repository interface {
	CreateBatch(ctx context.Context, rows []Repayment) error
	DeleteByLoanID(ctx context.Context, loanID uint64) (int64, error)

	GetByRepaymentID(ctx context.Context, repaymentID string) (*Repayment, error)
	// ListByLoanID returns installments ordered by due date ascending.
	ListByLoanID(ctx context.Context, loanID uint64) ([]Repayment, error)

	// MarkPaid flips a pending row to paid. It reports false when the row
	// was no longer pending, leaving it untouched.
	MarkPaid(ctx context.Context, id uint64, at time.Time, by string) (bool, error)
	// NextPending returns the earliest pending installment, or
	// gorm.ErrRecordNotFound when none remain.
	NextPending(ctx context.Context, loanID uint64) (*Repayment, error)

	// PaidSince buckets paid installments by calendar month of paidDate.
	// An empty ownerID covers every loan.
	PaidSince(ctx context.Context, since time.Time, ownerID string) ([]MonthlyTotal, error)
}
