package mysql

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"loanapp-backend/internal/domain/loan"
	"loanapp-backend/pkg/id"
)

// openTestDB is an in-memory sqlite DB with the full schema. One connection
// keeps every query on the same in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(Models()...); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func dp(v float64) *decimal.Decimal { x := decimal.NewFromFloat(v); return &x }

func ip(v int) *int { return &v }

func tp(t time.Time) *time.Time { return &t }

func makeLoan(owner string) *loan.Loan {
	return &loan.Loan{
		LoanID:            id.NewID32(),
		UserID:            owner,
		FullName:          "Asha Rao",
		Email:             "asha@example.com",
		MobileNumber:      "+919812345678",
		PanCard:           "ABCDE1234F",
		ApplicationStatus: loan.StatusPending,
	}
}
