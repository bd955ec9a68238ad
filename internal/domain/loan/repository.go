package loan

import "context"

// SearchFilter: Search matches fullName case-insensitively; empty fields do
// not filter. Page is 1-based.
type SearchFilter struct {
	OwnerID string
	Search  string
	Status  ApplicationStatus
	Page    int
	Limit   int
}

func (f SearchFilter) Offset() int { return (f.Page - 1) * f.Limit }

type Repository interface {
	// Create inserts l together with any Documents and ReviewHistory it carries.
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error

	// Row-locking reads, only meaningful inside a unit of work.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)

	// ListByStatuses returns loans in any of statuses, newest first.
	// An empty ownerID lists every owner.
	ListByStatuses(ctx context.Context, statuses []ApplicationStatus, ownerID string) ([]Loan, error)
	Totals(ctx context.Context, ownerID string) (Totals, error)

	// Search pages through applications newest first and reports the total
	// number of matches.
	Search(ctx context.Context, f SearchFilter) ([]Loan, int64, error)
	// StatusCounts groups every application by ApplicationStatus.
	StatusCounts(ctx context.Context) ([]StatusCount, error)

	AddDocument(ctx context.Context, d *Document) error
	SaveDocument(ctx context.Context, d *Document) error
}
