package notificationmock

import (
	"context"
	"sync"

	"loanapp-backend/internal/domain/notification"
)

var (
	_ notification.Notifier   = (*Notifier)(nil)
	_ notification.Repository = (*Repo)(nil)
)

type Sent struct {
	UserID  string
	Payload notification.Payload
}

// Notifier records every delivery; Err, when set, is returned after recording.
type Notifier struct {
	mu   sync.Mutex
	Sent []Sent
	Err  error
}

func (n *Notifier) Notify(_ context.Context, userID string, p notification.Payload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, Sent{UserID: userID, Payload: p})
	return n.Err
}

func (n *Notifier) Recipients() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.Sent))
	for _, s := range n.Sent {
		out = append(out, s.UserID)
	}
	return out
}

type Repo struct {
	CreateFn          func(ctx context.Context, n *notification.Notification) error
	ListByRecipientFn func(ctx context.Context, userID string, limit int) ([]notification.Notification, error)
	MarkReadFn        func(ctx context.Context, userID, notificationID string) error
	MarkAllReadFn     func(ctx context.Context, userID string) (int64, error)
}

func (m *Repo) Create(ctx context.Context, n *notification.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}
	return nil
}

func (m *Repo) ListByRecipient(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	if m.ListByRecipientFn != nil {
		return m.ListByRecipientFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *Repo) MarkRead(ctx context.Context, userID, notificationID string) error {
	if m.MarkReadFn != nil {
		return m.MarkReadFn(ctx, userID, notificationID)
	}
	return nil
}

func (m *Repo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if m.MarkAllReadFn != nil {
		return m.MarkAllReadFn(ctx, userID)
	}
	return 0, nil
}
