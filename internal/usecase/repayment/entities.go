package repayment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"loanapp-backend/internal/domain/loan"
	domain "loanapp-backend/internal/domain/repayment"
)

// TermsInput carries optional overrides; nil keeps the stored term.
type TermsInput struct {
	ApprovedAmount *decimal.Decimal `json:"approvedAmount"`
	InterestRate   *decimal.Decimal `json:"interestRate"`
	TenureMonths   *int             `json:"tenureMonths"`
	DisbursedDate  *time.Time       `json:"disbursedDate"`
}

func (in TermsInput) override() loan.TermsOverride {
	return loan.TermsOverride{
		ApprovedAmount: in.ApprovedAmount,
		InterestRate:   in.InterestRate,
		TenureMonths:   in.TenureMonths,
		DisbursedDate:  in.DisbursedDate,
	}
}

type LoanSummary struct {
	LoanID             string                 `json:"id"`
	ApplicationStatus  loan.ApplicationStatus `json:"applicationStatus"`
	Status             loan.LedgerStatus      `json:"status"`
	ApprovedAmount     *decimal.Decimal       `json:"approvedAmount"`
	InterestRate       *decimal.Decimal       `json:"interestRate"`
	TenureMonths       *int                   `json:"tenureMonths"`
	DisbursedDate      *time.Time             `json:"disbursedDate"`
	EMI                decimal.Decimal        `json:"emi"`
	OutstandingBalance decimal.Decimal        `json:"outstandingBalance"`
	TotalPaid          decimal.Decimal        `json:"totalPaid"`
	NextDueDate        *time.Time             `json:"nextDueDate"`
	Requester          loan.Requester         `json:"user"`
	CreatedAt          time.Time              `json:"createdAt"`
}

func toSummary(l *loan.Loan, requester loan.Requester) LoanSummary {
	return LoanSummary{
		LoanID:             l.LoanID,
		ApplicationStatus:  l.ApplicationStatus,
		Status:             l.Status,
		ApprovedAmount:     l.ApprovedAmount,
		InterestRate:       l.InterestRate,
		TenureMonths:       l.TenureMonths,
		DisbursedDate:      l.DisbursedDate,
		EMI:                l.EMI,
		OutstandingBalance: l.OutstandingBalance,
		TotalPaid:          l.TotalPaid,
		NextDueDate:        l.NextDueDate,
		Requester:          requester,
		CreatedAt:          l.CreatedAt,
	}
}

type ScheduleView struct {
	Loan       LoanSummary        `json:"loan"`
	Repayments []domain.Repayment `json:"repayments"`
}

type Export struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Locker serialises ledger mutations of one loan across instances.
// Lock returns domain.ErrLedgerBusy when another holder has the key.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Exporter renders a schedule as a downloadable document.
type Exporter interface {
	ScheduleWorkbook(v *ScheduleView) (*Export, error)
}
