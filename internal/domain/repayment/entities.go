package repayment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"loanapp-backend/pkg/amortization"
	"loanapp-backend/pkg/id"
)

var (
	ErrNotFound    = errors.New("repayment not found")
	ErrAlreadyPaid = errors.New("repayment already paid")
	ErrLedgerBusy  = errors.New("loan ledger is busy, retry shortly")
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Repayment is one scheduled installment. Amount and the principal/interest
// split are fixed at generation; only the payment fields change afterwards.
type Repayment struct {
	ID            uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RepaymentID   string          `gorm:"column:repayment_id;size:32;not null;uniqueIndex:ux_repayments_repayment_id" json:"id"`
	LoanID        uint64          `gorm:"column:loan_id;not null;index:idx_repayments_loan_due" json:"-"`
	LoanRef       string          `gorm:"column:loan_ref;size:32;not null" json:"loanId"`
	Number        int             `gorm:"column:number;not null" json:"number"`
	DueDate       time.Time       `gorm:"column:due_date;not null;index:idx_repayments_loan_due" json:"dueDate"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	PrincipalPaid decimal.Decimal `gorm:"column:principal_paid;type:decimal(18,2);not null" json:"principalPaid"`
	InterestPaid  decimal.Decimal `gorm:"column:interest_paid;type:decimal(18,2);not null" json:"interestPaid"`
	Status        Status          `gorm:"column:status;size:16;not null;default:pending" json:"status"`
	PaidDate      *time.Time      `gorm:"column:paid_date" json:"paidDate"`
	PaidBy        string          `gorm:"column:paid_by;size:32" json:"paidBy,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Repayment) TableName() string { return "repayments" }

// FromSchedule maps computed installments to pending repayment rows of one loan.
func FromSchedule(loanID uint64, loanRef string, s amortization.Schedule) []Repayment {
	out := make([]Repayment, 0, len(s.Installments))
	for _, in := range s.Installments {
		out = append(out, Repayment{
			RepaymentID:   id.NewID32(),
			LoanID:        loanID,
			LoanRef:       loanRef,
			Number:        in.Number,
			DueDate:       in.DueDate.UTC(),
			Amount:        in.Amount,
			PrincipalPaid: in.PrincipalPaid,
			InterestPaid:  in.InterestPaid,
			Status:        StatusPending,
		})
	}
	return out
}

// MonthlyTotal is the amount collected in one calendar month.
type MonthlyTotal struct {
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
	Count  int64           `json:"count"`
}
