package repaymentmock

import (
	"context"
	"errors"
	"time"

	"loanapp-backend/internal/domain/repayment"
)

var _ repayment.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("repaymentmock: method not implemented")

type Repo struct {
	CreateBatchFn      func(ctx context.Context, rows []repayment.Repayment) error
	DeleteByLoanIDFn   func(ctx context.Context, loanID uint64) (int64, error)
	GetByRepaymentIDFn func(ctx context.Context, repaymentID string) (*repayment.Repayment, error)
	ListByLoanIDFn     func(ctx context.Context, loanID uint64) ([]repayment.Repayment, error)
	MarkPaidFn         func(ctx context.Context, id uint64, at time.Time, by string) (bool, error)
	NextPendingFn      func(ctx context.Context, loanID uint64) (*repayment.Repayment, error)
	PaidSinceFn        func(ctx context.Context, since time.Time, ownerID string) ([]repayment.MonthlyTotal, error)
}

func (m *Repo) CreateBatch(ctx context.Context, rows []repayment.Repayment) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, rows)
	}
	return nil
}

func (m *Repo) DeleteByLoanID(ctx context.Context, loanID uint64) (int64, error) {
	if m.DeleteByLoanIDFn != nil {
		return m.DeleteByLoanIDFn(ctx, loanID)
	}
	return 0, nil
}

func (m *Repo) GetByRepaymentID(ctx context.Context, repaymentID string) (*repayment.Repayment, error) {
	if m.GetByRepaymentIDFn != nil {
		return m.GetByRepaymentIDFn(ctx, repaymentID)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]repayment.Repayment, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, errUnimplemented
}

func (m *Repo) MarkPaid(ctx context.Context, id uint64, at time.Time, by string) (bool, error) {
	if m.MarkPaidFn != nil {
		return m.MarkPaidFn(ctx, id, at, by)
	}
	return false, errUnimplemented
}

func (m *Repo) NextPending(ctx context.Context, loanID uint64) (*repayment.Repayment, error) {
	if m.NextPendingFn != nil {
		return m.NextPendingFn(ctx, loanID)
	}
	return nil, errUnimplemented
}

func (m *Repo) PaidSince(ctx context.Context, since time.Time, ownerID string) ([]repayment.MonthlyTotal, error) {
	if m.PaidSinceFn != nil {
		return m.PaidSinceFn(ctx, since, ownerID)
	}
	return nil, errUnimplemented
}
