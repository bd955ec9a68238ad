// Package amortization computes reducing-balance EMI schedules.
package amortization

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidTerms = errors.New("invalid loan terms")

// Terms are the inputs of an EMI schedule. AnnualRatePercent is e.g. 10.5 for 10.5% p.a.
type Terms struct {
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	TenureMonths      int
}

type Installment struct {
	Number        int             `json:"number"`
	DueDate       time.Time       `json:"dueDate"`
	Amount        decimal.Decimal `json:"amount"`
	PrincipalPaid decimal.Decimal `json:"principalPaid"`
	InterestPaid  decimal.Decimal `json:"interestPaid"`
}

type Schedule struct {
	// EMI is rounded to whole currency units; every installment Amount equals it.
	EMI          decimal.Decimal `json:"emi"`
	Installments []Installment   `json:"installments"`
	// ClosingBalance is the unrounded balance left after the last installment.
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// MonthlyRate converts an annual percentage into a monthly fraction (10.5 -> 0.00875).
func MonthlyRate(annualRatePercent float64) float64 { return annualRatePercent / 1200 }

func (t Terms) validate() (principal, annual float64, err error) {
	principal = t.Principal.InexactFloat64()
	annual = t.AnnualRatePercent.InexactFloat64()
	switch {
	case t.TenureMonths <= 0:
		return 0, 0, fmt.Errorf("%w: tenure must be positive, got %d", ErrInvalidTerms, t.TenureMonths)
	case !(principal > 0) || math.IsInf(principal, 0):
		return 0, 0, fmt.Errorf("%w: principal must be positive, got %s", ErrInvalidTerms, t.Principal)
	case annual < 0 || math.IsNaN(annual) || math.IsInf(annual, 0):
		return 0, 0, fmt.Errorf("%w: rate must be a non-negative finite number, got %s", ErrInvalidTerms, t.AnnualRatePercent)
	}
	return principal, annual, nil
}

// emi returns the unrounded equated monthly installment.
func emi(principal, monthlyRate float64, n int) float64 {
	if monthlyRate == 0 {
		return principal / float64(n)
	}
	growth := math.Pow(1+monthlyRate, float64(n))
	return principal * monthlyRate * growth / (growth - 1)
}

// round rounds to whole currency units, half away from zero.
func round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(0)
}

// ComputeSchedule builds the installment list for t, with installment i due
// i calendar months after start. Each entry is rounded independently, so the
// rounded principal portions may not add up to the principal exactly.
func ComputeSchedule(t Terms, start time.Time) (Schedule, error) {
	principal, annual, err := t.validate()
	if err != nil {
		return Schedule{}, err
	}
	r := MonthlyRate(annual)
	e := emi(principal, r, t.TenureMonths)

	out := Schedule{
		EMI:          round(e),
		Installments: make([]Installment, 0, t.TenureMonths),
	}
	balance := principal
	for i := 1; i <= t.TenureMonths; i++ {
		interest := balance * r
		principalPortion := e - interest
		balance -= principalPortion
		out.Installments = append(out.Installments, Installment{
			Number:        i,
			DueDate:       start.AddDate(0, i, 0),
			Amount:        round(e),
			PrincipalPaid: round(principalPortion),
			InterestPaid:  round(interest),
		})
	}
	out.ClosingBalance = decimal.NewFromFloat(balance)
	return out, nil
}

type Quote struct {
	EMI                decimal.Decimal `json:"emi"`
	TotalInterest      decimal.Decimal `json:"totalInterest"`
	TotalPayment       decimal.Decimal `json:"totalPayment"`
	MonthlyRatePercent decimal.Decimal `json:"monthlyRate"`
	TenureMonths       int             `json:"tenureMonths"`
}

// QuoteTerms summarises t without building the schedule.
func QuoteTerms(t Terms) (Quote, error) {
	principal, annual, err := t.validate()
	if err != nil {
		return Quote{}, err
	}
	r := MonthlyRate(annual)
	e := emi(principal, r, t.TenureMonths)
	total := e * float64(t.TenureMonths)
	return Quote{
		EMI:                round(e),
		TotalInterest:      round(total - principal),
		TotalPayment:       round(total),
		MonthlyRatePercent: decimal.NewFromFloat(r * 100),
		TenureMonths:       t.TenureMonths,
	}, nil
}

// MaxPrincipal is the inverse annuity: the largest principal an installment
// of monthlyEMI can amortize over tenureMonths. Non-positive EMI yields zero.
func MaxPrincipal(monthlyEMI float64, annualRatePercent float64, tenureMonths int) float64 {
	if monthlyEMI <= 0 || tenureMonths <= 0 {
		return 0
	}
	r := MonthlyRate(annualRatePercent)
	if r == 0 {
		return monthlyEMI * float64(tenureMonths)
	}
	growth := math.Pow(1+r, float64(tenureMonths))
	return monthlyEMI * (growth - 1) / (r * growth)
}
