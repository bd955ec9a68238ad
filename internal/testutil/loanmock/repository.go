package loanmock

import (
	"context"
	"errors"

	domain "loanapp-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("loanmock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
// Writers default to a nil error; readers default to errUnimplemented.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByIDForUpdateFn     func(ctx context.Context, id uint64) (*domain.Loan, error)
	ListByStatusesFn       func(ctx context.Context, statuses []domain.ApplicationStatus, ownerID string) ([]domain.Loan, error)
	TotalsFn               func(ctx context.Context, ownerID string) (domain.Totals, error)
	SearchFn               func(ctx context.Context, f domain.SearchFilter) ([]domain.Loan, int64, error)
	StatusCountsFn         func(ctx context.Context) ([]domain.StatusCount, error)
	AddDocumentFn          func(ctx context.Context, d *domain.Document) error
	SaveDocumentFn         func(ctx context.Context, d *domain.Document) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, errUnimplemented
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByStatuses(ctx context.Context, statuses []domain.ApplicationStatus, ownerID string) ([]domain.Loan, error) {
	if m.ListByStatusesFn != nil {
		return m.ListByStatusesFn(ctx, statuses, ownerID)
	}
	return nil, errUnimplemented
}

func (m *Repo) Totals(ctx context.Context, ownerID string) (domain.Totals, error) {
	if m.TotalsFn != nil {
		return m.TotalsFn(ctx, ownerID)
	}
	return domain.Totals{}, errUnimplemented
}

func (m *Repo) Search(ctx context.Context, f domain.SearchFilter) ([]domain.Loan, int64, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, f)
	}
	return nil, 0, errUnimplemented
}

func (m *Repo) StatusCounts(ctx context.Context) ([]domain.StatusCount, error) {
	if m.StatusCountsFn != nil {
		return m.StatusCountsFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Repo) AddDocument(ctx context.Context, d *domain.Document) error {
	if m.AddDocumentFn != nil {
		return m.AddDocumentFn(ctx, d)
	}
	return nil
}

func (m *Repo) SaveDocument(ctx context.Context, d *domain.Document) error {
	if m.SaveDocumentFn != nil {
		return m.SaveDocumentFn(ctx, d)
	}
	return nil
}
