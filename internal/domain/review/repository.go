package review

import "context"

type Repository interface {
	// Append inserts e; existing events are never modified.
	Append(ctx context.Context, e *Event) error

	// ListByLoanID returns the log oldest first.
	ListByLoanID(ctx context.Context, loanID uint64) ([]Event, error)
}
