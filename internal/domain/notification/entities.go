package notification

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

type Notification struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	NotificationID string    `gorm:"column:notification_id;size:32;not null;uniqueIndex:ux_notifications_notification_id" json:"id"`
	RecipientID    string    `gorm:"column:recipient_id;size:32;not null;index:idx_notifications_recipient" json:"userId"`
	Title          string    `gorm:"column:title;size:200;not null" json:"title"`
	Message        string    `gorm:"column:message;type:text;not null" json:"message"`
	Link           string    `gorm:"column:link;size:255" json:"link,omitempty"`
	IsRead         bool      `gorm:"column:is_read;not null;default:false" json:"isRead"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }

type Payload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}

// Notifier delivers a payload to one user. Implementations persist and push;
// callers treat failures as non-fatal.
type Notifier interface {
	Notify(ctx context.Context, userID string, p Payload) error
}

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	// ListByRecipient returns newest first, at most limit rows.
	ListByRecipient(ctx context.Context, userID string, limit int) ([]Notification, error)
	// MarkRead reports gorm.ErrRecordNotFound when the id does not belong to userID.
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// ApplicationLink is the in-app route of one loan application.
func ApplicationLink(loanID string) string { return "/loan-application-list?id=" + loanID }
