// Package audit exposes the audit trail written by the other usecases.
package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "loanapp-backend/internal/domain/audit"
	"loanapp-backend/internal/domain/auth"
	"loanapp-backend/internal/domain/loan"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListInput mirrors the audit-logs query string. UserID is honoured only
// for staff; From and To are RFC 3339 or YYYY-MM-DD.
type ListInput struct {
	Page       int
	Limit      int
	Collection string
	UserID     string
	Action     string
	From       string
	To         string
}

type Page struct {
	Logs       []domain.Entry `json:"logs"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	TotalPages int64          `json:"totalPages"`
}

type Usecase struct{ repo domain.Repository }

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r} }

// List returns audit entries newest first. Customers only see entries
// they caused.
func (u *Usecase) List(ctx context.Context, actor auth.Actor, in ListInput) (*Page, error) {
	if err := actor.RequireKnown(); err != nil {
		return nil, err
	}
	if in.Page < 0 || in.Limit < 0 {
		return nil, fmt.Errorf("%w: page and limit must be positive", loan.ErrInvalidInput)
	}
	f := domain.Filter{
		EntityType: strings.TrimSpace(in.Collection),
		Action:     domain.Action(strings.ToUpper(strings.TrimSpace(in.Action))),
		Page:       max(in.Page, 1),
		Limit:      in.Limit,
	}
	if f.Limit == 0 {
		f.Limit = DefaultPageSize
	}
	f.Limit = min(f.Limit, MaxPageSize)
	if f.Action != "" && !f.Action.Valid() {
		return nil, fmt.Errorf("%w: unknown action %q", loan.ErrInvalidInput, in.Action)
	}
	if actor.IsStaff() {
		f.ActorID = strings.TrimSpace(in.UserID)
	} else {
		f.ActorID = actor.ID
	}
	var err error
	if f.From, err = parseBound(in.From, false); err != nil {
		return nil, err
	}
	if f.To, err = parseBound(in.To, true); err != nil {
		return nil, err
	}

	logs, total, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.Entry{}
	}
	return &Page{
		Logs:       logs,
		Total:      total,
		Page:       f.Page,
		TotalPages: (total + int64(f.Limit) - 1) / int64(f.Limit),
	}, nil
}

// Get returns one entry. A customer asking for someone else's entry is denied.
func (u *Usecase) Get(ctx context.Context, actor auth.Actor, id uint64) (*domain.Entry, error) {
	if err := actor.RequireKnown(); err != nil {
		return nil, err
	}
	e, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !actor.CanRead(e.ActorID) {
		return nil, auth.ErrAccessDenied
	}
	return e, nil
}

// parseBound accepts a timestamp or a bare date. A bare upper bound covers
// the whole day.
func parseBound(raw string, upper bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a date", loan.ErrInvalidInput, raw)
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
