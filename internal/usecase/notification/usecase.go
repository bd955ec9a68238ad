// Package notification serves a user's in-app inbox.
package notification

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"loanapp-backend/internal/domain/auth"
	domain "loanapp-backend/internal/domain/notification"
)

// DefaultLimit caps how many notifications one listing returns.
const DefaultLimit = 50

type Usecase struct{ repo domain.Repository }

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r} }

// List returns the caller's notifications, newest first.
func (u *Usecase) List(ctx context.Context, actor auth.Actor) ([]domain.Notification, error) {
	if err := actor.RequireKnown(); err != nil {
		return nil, err
	}
	out, err := u.repo.ListByRecipient(ctx, actor.ID, DefaultLimit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Notification{}
	}
	return out, nil
}

// MarkRead flags one of the caller's notifications as read. Someone else's
// notification is reported as not found.
func (u *Usecase) MarkRead(ctx context.Context, actor auth.Actor, notificationID string) error {
	if err := actor.RequireKnown(); err != nil {
		return err
	}
	if strings.TrimSpace(notificationID) == "" {
		return domain.ErrNotFound
	}
	if err := u.repo.MarkRead(ctx, actor.ID, notificationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// MarkAllRead returns how many notifications changed.
func (u *Usecase) MarkAllRead(ctx context.Context, actor auth.Actor) (int64, error) {
	if err := actor.RequireKnown(); err != nil {
		return 0, err
	}
	return u.repo.MarkAllRead(ctx, actor.ID)
}
