// Package notify delivers in-app notifications: one stored row per
// recipient, then a publish on the recipient's Redis channel for whatever
// process holds that user's live connection.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"loanapp-backend/internal/domain/notification"
	"loanapp-backend/pkg/id"
)

// Channel is the pub/sub channel of one user.
func Channel(userID string) string { return "notifications:" + userID }

type Notifier struct {
	repo notification.Repository
	rdb  *redis.Client
	now  func() time.Time
}

var _ notification.Notifier = (*Notifier)(nil)

// NewNotifier: rdb may be nil, in which case rows are stored but not pushed.
func NewNotifier(repo notification.Repository, rdb *redis.Client) *Notifier {
	return &Notifier{repo: repo, rdb: rdb, now: func() time.Time { return time.Now().UTC() }}
}

func (n *Notifier) Notify(ctx context.Context, userID string, p notification.Payload) error {
	row := &notification.Notification{
		NotificationID: id.NewID32(),
		RecipientID:    userID,
		Title:          p.Title,
		Message:        p.Message,
		Link:           p.Link,
		CreatedAt:      n.now(),
	}
	if err := n.repo.Create(ctx, row); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	if n.rdb == nil {
		return nil
	}
	msg, err := json.Marshal(row)
	if err != nil {
		return err
	}
	if err := n.rdb.Publish(ctx, Channel(userID), msg).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
