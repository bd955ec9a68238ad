package loan

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"loanapp-backend/internal/domain/review"
	"loanapp-backend/pkg/amortization"
)

// Apply folds one review event into the loan's current-state fields and
// appends it to ReviewHistory. It is the only writer of the review projection.
func (l *Loan) Apply(e review.Event) {
	switch e.Action {
	case review.ActionSubmitted:
		l.ApplicationStatus = StatusPending
	case review.ActionApproved:
		at := e.Date
		l.ApplicationStatus = StatusApproved
		l.ReviewedBy = e.ReviewerID
		l.ReviewedAt = &at
		l.ApprovalRemarks = e.Comment
	case review.ActionRejected:
		at := e.Date
		l.ApplicationStatus = StatusRejected
		l.ReviewedBy = e.ReviewerID
		l.ReviewedAt = &at
		l.RejectionReason = e.Comment
	}
	l.ReviewHistory = append(l.ReviewHistory, e)
}

// Projection is the review state derived from an event log.
type Projection struct {
	ApplicationStatus ApplicationStatus
	ReviewedBy        string
	ReviewedAt        *time.Time
	ApprovalRemarks   string
	RejectionReason   string
}

// Replay rebuilds the projection from events, oldest first.
func Replay(events []review.Event) Projection {
	l := &Loan{ApplicationStatus: StatusPending}
	for _, e := range events {
		l.Apply(e)
	}
	return l.Projection()
}

func (l *Loan) Projection() Projection {
	return Projection{
		ApplicationStatus: l.ApplicationStatus,
		ReviewedBy:        l.ReviewedBy,
		ReviewedAt:        l.ReviewedAt,
		ApprovalRemarks:   l.ApprovalRemarks,
		RejectionReason:   l.RejectionReason,
	}
}

// TermsOverride carries optional term updates; nil fields keep the stored value.
type TermsOverride struct {
	ApprovedAmount *decimal.Decimal
	InterestRate   *decimal.Decimal
	TenureMonths   *int
	DisbursedDate  *time.Time
}

func (o TermsOverride) Empty() bool {
	return o.ApprovedAmount == nil && o.InterestRate == nil && o.TenureMonths == nil && o.DisbursedDate == nil
}

// Validate rejects supplied values that can never form a schedule.
func (o TermsOverride) Validate() error {
	if o.ApprovedAmount != nil && !o.ApprovedAmount.IsPositive() {
		return fmt.Errorf("%w: approvedAmount must be positive", ErrInvalidTerms)
	}
	if o.InterestRate != nil && o.InterestRate.IsNegative() {
		return fmt.Errorf("%w: interestRate must not be negative", ErrInvalidTerms)
	}
	if o.TenureMonths != nil && *o.TenureMonths <= 0 {
		return fmt.Errorf("%w: tenureMonths must be positive", ErrInvalidTerms)
	}
	return nil
}

// MergeTerms copies every supplied field of o onto the loan.
func (l *Loan) MergeTerms(o TermsOverride) {
	if o.ApprovedAmount != nil {
		v := *o.ApprovedAmount
		l.ApprovedAmount = &v
	}
	if o.InterestRate != nil {
		v := *o.InterestRate
		l.InterestRate = &v
	}
	if o.TenureMonths != nil {
		v := *o.TenureMonths
		l.TenureMonths = &v
	}
	if o.DisbursedDate != nil {
		v := o.DisbursedDate.UTC()
		l.DisbursedDate = &v
	}
}

// ScheduleTerms returns the amortization inputs, or ErrIncompleteTerms when
// amount, rate or tenure is still unset.
func (l *Loan) ScheduleTerms() (amortization.Terms, error) {
	if l.ApprovedAmount == nil || l.InterestRate == nil || l.TenureMonths == nil {
		return amortization.Terms{}, ErrIncompleteTerms
	}
	return amortization.Terms{
		Principal:         *l.ApprovedAmount,
		AnnualRatePercent: *l.InterestRate,
		TenureMonths:      *l.TenureMonths,
	}, nil
}

// ScheduleStart is the anchor for due dates: the disbursal date, else now.
func (l *Loan) ScheduleStart(now time.Time) time.Time {
	if l.DisbursedDate != nil {
		return *l.DisbursedDate
	}
	return now
}

// Activate resets the ledger summary for a freshly generated schedule.
// Payment history recorded against a previous schedule is discarded, and
// TotalPaid is reset on purpose: payments booked against the replaced rows
// no longer exist, so carrying their sum would make TotalPaid disagree with the paid installments.
func (l *Loan) Activate(s amortization.Schedule) {
	l.EMI = s.EMI
	l.OutstandingBalance = *l.ApprovedAmount
	l.TotalPaid = decimal.Zero
	l.NextDueDate = nil
	if len(s.Installments) > 0 {
		due := s.Installments[0].DueDate
		l.NextDueDate = &due
	}
	l.Status = LedgerActive
}

// ApplyPayment books one paid installment. next is the due date of the
// earliest remaining pending installment, nil when none remain.
func (l *Loan) ApplyPayment(principalPaid, amount decimal.Decimal, next *time.Time) {
	l.OutstandingBalance = l.OutstandingBalance.Sub(principalPaid)
	if l.OutstandingBalance.IsNegative() {
		l.OutstandingBalance = decimal.Zero
	}
	l.TotalPaid = l.TotalPaid.Add(amount)
	l.NextDueDate = next
	if next == nil {
		l.Status = LedgerClosed
	}
}

// DocumentAt returns the document at the zero-based upload position.
func (l *Loan) DocumentAt(index int) (*Document, error) {
	if index < 0 || index >= len(l.Documents) {
		return nil, ErrDocumentNotFound
	}
	return &l.Documents[index], nil
}
