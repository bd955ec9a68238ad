package auditmock

import (
	"context"
	"errors"

	"loanapp-backend/internal/domain/audit"
)

var _ audit.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("auditmock: method not implemented")

// Repo records created entries in Entries unless CreateFn overrides it.
type Repo struct {
	CreateFn  func(ctx context.Context, e *audit.Entry) error
	ListFn    func(ctx context.Context, f audit.Filter) ([]audit.Entry, int64, error)
	GetByIDFn func(ctx context.Context, id uint64) (*audit.Entry, error)

	Entries []audit.Entry
}

func (m *Repo) Create(ctx context.Context, e *audit.Entry) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	m.Entries = append(m.Entries, *e)
	return nil
}

func (m *Repo) List(ctx context.Context, f audit.Filter) ([]audit.Entry, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, errUnimplemented
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*audit.Entry, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}
