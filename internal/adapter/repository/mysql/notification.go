package mysql

import (
	"context"

	notificationDomain "loanapp-backend/internal/domain/notification"

	"gorm.io/gorm"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notificationDomain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, userID string, limit int) ([]notificationDomain.Notification, error) {
	var out []notificationDomain.Notification
	res := r.db.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	res := r.db.WithContext(ctx).Model(&notificationDomain.Notification{}).
		Where("notification_id = ? AND recipient_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// already-read rows still count as found
		var n int64
		if err := r.db.WithContext(ctx).Model(&notificationDomain.Notification{}).
			Where("notification_id = ? AND recipient_id = ?", notificationID, userID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&notificationDomain.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
