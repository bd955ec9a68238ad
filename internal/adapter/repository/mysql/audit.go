package mysql

import (
	"context"

	auditDomain "loanapp-backend/internal/domain/audit"

	"gorm.io/gorm"
)

type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Create(ctx context.Context, e *auditDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *AuditRepository) List(ctx context.Context, f auditDomain.Filter) ([]auditDomain.Entry, int64, error) {
	q := r.db.WithContext(ctx).Model(&auditDomain.Entry{})
	if f.ActorID != "" {
		q = q.Where("actor_id = ?", f.ActorID)
	}
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.From != nil {
		q = q.Where("timestamp >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("timestamp <= ?", f.To.UTC())
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []auditDomain.Entry{}
	res := q.Order("timestamp DESC, id DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&out)
	return out, total, res.Error
}

func (r *AuditRepository) GetByID(ctx context.Context, id uint64) (*auditDomain.Entry, error) {
	var out auditDomain.Entry
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}
