package reviewmock

import (
	"context"

	"loanapp-backend/internal/domain/review"
)

var _ review.Repository = (*Repo)(nil)

// Repo records appended events when AppendFn is unset.
type Repo struct {
	AppendFn       func(ctx context.Context, e *review.Event) error
	ListByLoanIDFn func(ctx context.Context, loanID uint64) ([]review.Event, error)

	Appended []review.Event
}

func (m *Repo) Append(ctx context.Context, e *review.Event) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	m.Appended = append(m.Appended, *e)
	return nil
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]review.Event, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	var out []review.Event
	for _, e := range m.Appended {
		if e.LoanID == loanID {
			out = append(out, e)
		}
	}
	return out, nil
}
