package approval

import (
	"github.com/shopspring/decimal"

	"loanapp-backend/internal/domain/loan"
)

type ApproveInput struct {
	Remarks        *string          `json:"remarks"`
	ApprovedAmount *decimal.Decimal `json:"approvedAmount"`
	InterestRate   *decimal.Decimal `json:"interestRate"`
	TenureMonths   *int             `json:"tenureMonths"`
}

func (in ApproveInput) override() loan.TermsOverride {
	return loan.TermsOverride{
		ApprovedAmount: in.ApprovedAmount,
		InterestRate:   in.InterestRate,
		TenureMonths:   in.TenureMonths,
	}
}

type RejectInput struct {
	Reason *string `json:"reason"`
}

type RevisionInput struct {
	Comment string `json:"comment"`
}

// orDefault returns *p, or def when p is nil or empty.
func orDefault(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}
