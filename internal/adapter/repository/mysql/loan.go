package mysql

import (
	"context"
	"strings"

	loanDomain "loanapp-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

// withChildren preloads documents in upload order and the review log oldest first.
func withChildren(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("ReviewHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// Save writes the loan row only; documents and events have their own writers.
func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := withChildren(r.db.WithContext(ctx)).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := withChildren(r.db.WithContext(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListByStatuses(ctx context.Context, statuses []loanDomain.ApplicationStatus, ownerID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	q := r.db.WithContext(ctx).Where("application_status IN ?", statuses)
	if ownerID != "" {
		q = q.Where("user_id = ?", ownerID)
	}
	res := q.Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}

func (r *LoanRepository) Totals(ctx context.Context, ownerID string) (loanDomain.Totals, error) {
	var out loanDomain.Totals
	q := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).Select(
		"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS total_active_loans, "+
			"COALESCE(SUM(outstanding_balance), 0) AS total_outstanding, "+
			"COALESCE(SUM(total_paid), 0) AS total_paid",
		loanDomain.LedgerActive,
	)
	if ownerID != "" {
		q = q.Where("user_id = ?", ownerID)
	}
	res := q.Scan(&out)
	return out, res.Error
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (r *LoanRepository) Search(ctx context.Context, f loanDomain.SearchFilter) ([]loanDomain.Loan, int64, error) {
	q := r.db.WithContext(ctx).Model(&loanDomain.Loan{})
	if f.OwnerID != "" {
		q = q.Where("user_id = ?", f.OwnerID)
	}
	if f.Status != "" {
		q = q.Where("application_status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(full_name) LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(s))+"%")
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []loanDomain.Loan{}
	res := q.Order("created_at DESC, id DESC").Offset(f.Offset()).Limit(f.Limit).Find(&out)
	return out, total, res.Error
}

func (r *LoanRepository) StatusCounts(ctx context.Context) ([]loanDomain.StatusCount, error) {
	out := []loanDomain.StatusCount{}
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Select("application_status AS status, COUNT(*) AS count, COALESCE(SUM(approved_amount), 0) AS approved_amount").
		Group("application_status").
		Order("application_status").
		Scan(&out)
	return out, res.Error
}

// AddDocument appends d at the next position of its loan.
func (r *LoanRepository) AddDocument(ctx context.Context, d *loanDomain.Document) error {
	var next int
	err := r.db.WithContext(ctx).Model(&loanDomain.Document{}).
		Select("COALESCE(MAX(position) + 1, 0)").
		Where("loan_id = ?", d.LoanID).
		Scan(&next).Error
	if err != nil {
		return err
	}
	d.Position = next
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *LoanRepository) SaveDocument(ctx context.Context, d *loanDomain.Document) error {
	return r.db.WithContext(ctx).Save(d).Error
}
