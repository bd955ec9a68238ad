package loan

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"loanapp-backend/internal/domain/review"
	"loanapp-backend/pkg/amortization"
)

func decPtr(v float64) *decimal.Decimal { d := decimal.NewFromFloat(v); return &d }

func intPtr(v int) *int { return &v }

func TestApply_ProjectionMatchesReplay(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []review.Event{
		review.NewEvent(1, "cust", review.ActionSubmitted, "Application submitted", t0),
		review.NewEvent(1, "bank1", review.ActionDocVerified, "Document verified", t0.Add(time.Hour)),
		review.NewEvent(1, "bank1", review.ActionRejected, "Low score", t0.Add(2*time.Hour)),
		review.NewEvent(1, "admin", review.ActionRevisionRequested, "Upload payslip", t0.Add(3*time.Hour)),
		review.NewEvent(1, "admin", review.ActionApproved, "Approved", t0.Add(4*time.Hour)),
	}

	l := &Loan{ID: 1, ApplicationStatus: StatusPending}
	for _, e := range events {
		l.Apply(e)
	}
	got := l.Projection()
	want := Replay(events)

	if got.ApplicationStatus != StatusApproved || want.ApplicationStatus != StatusApproved {
		t.Fatalf("status = %s / %s, want approved", got.ApplicationStatus, want.ApplicationStatus)
	}
	if got.ReviewedBy != "admin" || want.ReviewedBy != "admin" {
		t.Fatalf("reviewedBy = %q / %q", got.ReviewedBy, want.ReviewedBy)
	}
	if !got.ReviewedAt.Equal(*want.ReviewedAt) || !got.ReviewedAt.Equal(t0.Add(4*time.Hour)) {
		t.Fatalf("reviewedAt = %v / %v", got.ReviewedAt, want.ReviewedAt)
	}
	if got.ApprovalRemarks != "Approved" || got.RejectionReason != "Low score" {
		t.Fatalf("projection = %+v", got)
	}
	if len(l.ReviewHistory) != len(events) {
		t.Fatalf("history len = %d", len(l.ReviewHistory))
	}
}

func TestApply_NonDecisionEventsKeepStatus(t *testing.T) {
	for _, a := range []review.Action{review.ActionDocVerified, review.ActionRevisionRequested} {
		l := &Loan{ApplicationStatus: StatusApproved, ReviewedBy: "x"}
		l.Apply(review.NewEvent(1, "y", a, "", time.Now()))
		if l.ApplicationStatus != StatusApproved || l.ReviewedBy != "x" {
			t.Fatalf("%s changed projection: %+v", a, l.Projection())
		}
	}
}

func TestTermsOverride_MergeAndValidate(t *testing.T) {
	l := &Loan{ApprovedAmount: decPtr(100000), InterestRate: decPtr(12)}
	if _, err := l.ScheduleTerms(); !errors.Is(err, ErrIncompleteTerms) {
		t.Fatalf("want ErrIncompleteTerms, got %v", err)
	}

	o := TermsOverride{TenureMonths: intPtr(24), InterestRate: decPtr(9)}
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	l.MergeTerms(o)
	terms, err := l.ScheduleTerms()
	if err != nil {
		t.Fatal(err)
	}
	if !terms.Principal.Equal(decimal.NewFromInt(100000)) || !terms.AnnualRatePercent.Equal(decimal.NewFromInt(9)) || terms.TenureMonths != 24 {
		t.Fatalf("terms = %+v", terms)
	}

	bad := []TermsOverride{
		{ApprovedAmount: decPtr(0)},
		{ApprovedAmount: decPtr(-1)},
		{InterestRate: decPtr(-0.5)},
		{TenureMonths: intPtr(0)},
	}
	for _, o := range bad {
		if err := o.Validate(); !errors.Is(err, ErrInvalidTerms) {
			t.Fatalf("%+v: want ErrInvalidTerms, got %v", o, err)
		}
	}
	if !(TermsOverride{}).Empty() {
		t.Fatal("zero override should be empty")
	}
}

func TestLedgerSummary_ActivateAndPay(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	l := &Loan{ApprovedAmount: decPtr(1000), InterestRate: decPtr(0), TenureMonths: intPtr(2), TotalPaid: decimal.NewFromInt(77)}
	terms, _ := l.ScheduleTerms()
	s, err := amortization.ComputeSchedule(terms, l.ScheduleStart(start))
	if err != nil {
		t.Fatal(err)
	}
	l.Activate(s)
	if l.Status != LedgerActive || !l.OutstandingBalance.Equal(decimal.NewFromInt(1000)) || !l.TotalPaid.IsZero() {
		t.Fatalf("after activate: %+v", l)
	}
	if !l.NextDueDate.Equal(start.AddDate(0, 1, 0)) {
		t.Fatalf("next due = %v", l.NextDueDate)
	}

	second := s.Installments[1].DueDate
	l.ApplyPayment(decimal.NewFromInt(500), decimal.NewFromInt(500), &second)
	if !l.OutstandingBalance.Equal(decimal.NewFromInt(500)) || l.Status != LedgerActive {
		t.Fatalf("after first payment: %+v", l)
	}
	l.ApplyPayment(decimal.NewFromInt(600), decimal.NewFromInt(500), nil)
	if !l.OutstandingBalance.IsZero() {
		t.Fatalf("outstanding should floor at zero, got %s", l.OutstandingBalance)
	}
	if l.Status != LedgerClosed || l.NextDueDate != nil || !l.TotalPaid.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("after last payment: %+v", l)
	}
}

func TestDocumentAt(t *testing.T) {
	l := &Loan{Documents: []Document{{FileName: "a.pdf"}, {FileName: "b.pdf"}}}
	if d, err := l.DocumentAt(1); err != nil || d.FileName != "b.pdf" {
		t.Fatalf("DocumentAt(1) = %v, %v", d, err)
	}
	for _, i := range []int{-1, 2, 99} {
		if _, err := l.DocumentAt(i); !errors.Is(err, ErrDocumentNotFound) {
			t.Fatalf("DocumentAt(%d) err = %v", i, err)
		}
	}
}
