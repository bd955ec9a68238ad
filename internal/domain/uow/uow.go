package uow

import (
	"context"

	"loanapp-backend/internal/domain/audit"
	"loanapp-backend/internal/domain/loan"
	"loanapp-backend/internal/domain/repayment"
	"loanapp-backend/internal/domain/review"
)

// Repos are bound to the transaction of the enclosing unit of work.
type Repos struct {
	Loans      loan.Repository
	Reviews    review.Repository
	Repayments repayment.Repository
	Audits     audit.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
