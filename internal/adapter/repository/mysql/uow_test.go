package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"loanapp-backend/internal/domain/audit"
	"loanapp-backend/internal/domain/loan"
	"loanapp-backend/internal/domain/review"
	"loanapp-backend/internal/domain/uow"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	l := makeLoan("cust1")
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		e := review.NewEvent(l.ID, "cust1", review.ActionSubmitted, "", time.Now())
		if err := r.Reviews.Append(ctx, &e); err != nil {
			return err
		}
		return r.Audits.Create(ctx, audit.NewEntry("cust1", audit.ActionCreate, "loan", l.LoanID, l, time.Now()))
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	got, err := NewLoanRepository(db).GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
	if len(got.ReviewHistory) != 1 {
		t.Fatalf("event not visible after commit")
	}
	var n int64
	db.Model(&audit.Entry{}).Where("entity_id = ?", l.LoanID).Count(&n)
	if n != 1 {
		t.Fatalf("audit rows = %d", n)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	sentinel := errors.New("boom")

	l := makeLoan("cust1")
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		return sentinel // force rollback
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v", err)
	}
	if _, err := NewLoanRepository(db).GetByLoanID(ctx, l.LoanID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected loan not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinLoanTx(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	loans := NewLoanRepository(db)

	l := makeLoan("cust1")
	if err := loans.Create(ctx, l); err != nil {
		t.Fatal(err)
	}

	err := guow.WithinLoanTx(ctx, l.LoanID, func(r uow.Repos, locked *loan.Loan) error {
		if locked.ID != l.ID {
			t.Fatalf("locked wrong loan: %d", locked.ID)
		}
		locked.ApprovalRemarks = "ok"
		return r.Loans.Save(ctx, locked)
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}
	got, _ := loans.GetByLoanID(ctx, l.LoanID)
	if got.ApprovalRemarks != "ok" {
		t.Fatalf("update not committed: %+v", got)
	}

	called := false
	err = guow.WithinLoanTx(ctx, "ffffffffffffffffffffffffffffffff", func(uow.Repos, *loan.Loan) error {
		called = true
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) || called {
		t.Fatalf("missing loan: err=%v called=%v", err, called)
	}
}
