// Package loan handles intake of loan applications and the pre-application
// calculators.
package loan

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"loanapp-backend/internal/domain/audit"
	"loanapp-backend/internal/domain/auth"
	domain "loanapp-backend/internal/domain/loan"
	"loanapp-backend/internal/domain/notification"
	"loanapp-backend/internal/domain/review"
	"loanapp-backend/internal/domain/uow"
	"loanapp-backend/internal/domain/user"
	"loanapp-backend/pkg/amortization"
	"loanapp-backend/pkg/id"
)

var tracer = otel.Tracer("loanapp-backend/internal/usecase/loan")

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
	recentCount     = 5

	eligibilityRatePercent = 10.5
	maxIncomeShare         = 0.5
	minEligibleShare       = 0.8
)

type Usecase struct {
	repo     domain.Repository
	users    user.Repository
	uow      uow.UnitOfWork
	notifier notification.Notifier
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewUsecase(r domain.Repository, users user.Repository, tx uow.UnitOfWork, n notification.Notifier) *Usecase {
	return &Usecase{
		repo:     r,
		users:    users,
		uow:      tx,
		notifier: n,
		log:      logrus.StandardLogger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithLogger(l logrus.FieldLogger) *Usecase {
	u.log = l
	return u
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Submit files a new pending application owned by the caller and tells
// every banker and admin about it.
func (u *Usecase) Submit(ctx context.Context, actor auth.Actor, in SubmitInput) (*domain.Loan, error) {
	ctx, span := tracer.Start(ctx, "loan.Submit")
	defer span.End()

	if err := actor.RequireKnown(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.MobileNumber) == "" || strings.TrimSpace(in.PanCard) == "" {
		return nil, fmt.Errorf("%w: fullName, email, mobileNumber and panCard are required", domain.ErrInvalidInput)
	}
	if in.RequestedAmount != nil && !in.RequestedAmount.IsPositive() {
		return nil, fmt.Errorf("%w: requestedAmount must be positive", domain.ErrInvalidInput)
	}

	at := u.now()
	l := &domain.Loan{
		LoanID:            id.NewID32(),
		UserID:            actor.ID,
		FullName:          strings.TrimSpace(in.FullName),
		Email:             strings.TrimSpace(in.Email),
		MobileNumber:      strings.TrimSpace(in.MobileNumber),
		PanCard:           strings.ToUpper(strings.TrimSpace(in.PanCard)),
		Salary:            in.Salary,
		EmploymentStatus:  in.EmploymentStatus,
		CreditScore:       in.CreditScore,
		Assets:            in.Assets,
		Address:           in.Address,
		City:              in.City,
		State:             in.State,
		ZipCode:           in.ZipCode,
		RequestedAmount:   in.RequestedAmount,
		ApplicationStatus: domain.StatusPending,
		Documents:         []domain.Document{},
	}
	if in.DateOfBirth != "" {
		dob, err := time.Parse(time.DateOnly, in.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("%w: dateOfBirth must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		l.DateOfBirth = &dob
	}
	l.Apply(review.NewEvent(0, actor.ID, review.ActionSubmitted, "Application submitted", at))

	if u.uow == nil {
		return nil, errors.New("loan: unit of work not configured")
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		return r.Audits.Create(ctx, audit.NewEntry(actor.ID, audit.ActionCreate, "loan", l.LoanID, l, at))
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	u.notifyStaff(ctx, l)
	return l, nil
}

// Get returns the application with documents and review history.
// Customers only see their own.
func (u *Usecase) Get(ctx context.Context, actor auth.Actor, loanID string) (*domain.Loan, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !actor.CanRead(l.UserID) {
		return nil, auth.ErrAccessDenied
	}
	return l, nil
}

// AddDocument records an uploaded file against the application. The file
// itself lives in external storage; only its metadata is kept here.
func (u *Usecase) AddDocument(ctx context.Context, actor auth.Actor, loanID string, in DocumentInput) (*domain.Document, error) {
	if strings.TrimSpace(in.FileName) == "" || strings.TrimSpace(in.FilePath) == "" {
		return nil, fmt.Errorf("%w: fileName and filePath are required", domain.ErrInvalidInput)
	}
	l, err := u.Get(ctx, actor, loanID)
	if err != nil {
		return nil, err
	}
	d := &domain.Document{
		LoanID:     l.ID,
		FileName:   in.FileName,
		FilePath:   in.FilePath,
		UploadedAt: u.now(),
	}
	if err := u.repo.AddDocument(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ListApplications pages through applications for the review screens.
// Staff see every application; customers only their own.
func (u *Usecase) ListApplications(ctx context.Context, actor auth.Actor, in ListInput) (*ApplicationPage, error) {
	if err := actor.RequireKnown(); err != nil {
		return nil, err
	}
	status := domain.ApplicationStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, in.Status)
	}
	if in.Page < 0 || in.Limit < 0 {
		return nil, fmt.Errorf("%w: page and limit must be positive", domain.ErrInvalidInput)
	}
	f := domain.SearchFilter{Search: in.Search, Status: status, Page: in.Page, Limit: in.Limit}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = DefaultPageSize
	}
	f.Limit = min(f.Limit, MaxPageSize)
	if !actor.IsStaff() {
		f.OwnerID = actor.ID
	}

	loans, total, err := u.repo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	if loans == nil {
		loans = []domain.Loan{}
	}
	return &ApplicationPage{
		Loans:       loans,
		TotalItems:  total,
		TotalPages:  (total + int64(f.Limit) - 1) / int64(f.Limit),
		CurrentPage: f.Page,
	}, nil
}

// Dashboard summarises the application pipeline for staff.
func (u *Usecase) Dashboard(ctx context.Context, actor auth.Actor) (*Dashboard, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	counts, err := u.repo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := &Dashboard{StatusCounts: counts, TotalApproved: decimal.Zero}
	for _, c := range counts {
		if c.Status == domain.StatusApproved {
			out.TotalApproved = c.ApprovedAmount
		}
	}
	recent, _, err := u.repo.Search(ctx, domain.SearchFilter{Page: 1, Limit: recentCount})
	if err != nil {
		return nil, err
	}
	out.Recent = recent
	if out.StatusCounts == nil {
		out.StatusCounts = []domain.StatusCount{}
	}
	if out.Recent == nil {
		out.Recent = []domain.Loan{}
	}
	return out, nil
}

// QuoteEMI prices a prospective loan without storing anything.
func (u *Usecase) QuoteEMI(in QuoteInput) (*amortization.Quote, error) {
	months := in.Tenure
	switch strings.ToLower(in.TenureType) {
	case "", "months":
	case "years":
		months *= 12
	default:
		return nil, fmt.Errorf("%w: tenureType must be months or years", domain.ErrInvalidInput)
	}
	if in.Amount <= 0 || months <= 0 {
		return nil, fmt.Errorf("%w: amount and tenure are required", domain.ErrInvalidInput)
	}
	q, err := amortization.QuoteTerms(amortization.Terms{
		Principal:         decimal.NewFromFloat(in.Amount),
		AnnualRatePercent: decimal.NewFromFloat(in.Rate),
		TenureMonths:      months,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidTerms, err)
	}
	return &q, nil
}

// CheckEligibility sizes the largest loan half the applicant's income can
// service at the house rate, scaled by credit score.
func (u *Usecase) CheckEligibility(in EligibilityInput) (*EligibilityResult, error) {
	if in.MonthlyIncome <= 0 || in.RequestedAmount <= 0 || in.TenureMonths <= 0 || in.ExistingEMI < 0 {
		return nil, fmt.Errorf("%w: monthlyIncome, requestedAmount and tenureMonths are required", domain.ErrInvalidInput)
	}
	maxEMI := in.MonthlyIncome*maxIncomeShare - in.ExistingEMI
	maxLoan := amortization.MaxPrincipal(maxEMI, eligibilityRatePercent, in.TenureMonths)
	eligible := math.Min(in.RequestedAmount, maxLoan*creditMultiplier(in.CreditScore))
	ok := eligible >= minEligibleShare*in.RequestedAmount

	msg := "Loan amount may be reduced"
	if ok {
		msg = "You are eligible for this loan"
	}
	return &EligibilityResult{
		EligibleAmount:  decimal.NewFromFloat(eligible).Round(0),
		MaxEMI:          decimal.NewFromFloat(maxEMI).Round(0),
		SuggestedTenure: in.TenureMonths,
		IsEligible:      ok,
		Message:         msg,
	}, nil
}

func creditMultiplier(score int) float64 {
	switch {
	case score >= 750:
		return 1.2
	case score >= 650:
		return 1
	case score >= 550:
		return 0.7
	default:
		return 0.4
	}
}

// notifyStaff is best effort: the application is already stored.
func (u *Usecase) notifyStaff(ctx context.Context, l *domain.Loan) {
	if u.notifier == nil || u.users == nil {
		return
	}
	staff, err := u.users.ListByRoles(ctx, auth.RoleBanker, auth.RoleAdmin)
	if err != nil {
		u.log.WithError(err).WithField("module", "loan").Warn("listing staff for notification failed")
		return
	}
	p := notification.Payload{
		Title:   "New Loan Application",
		Message: fmt.Sprintf("%s submitted a loan application", l.FullName),
		Link:    notification.ApplicationLink(l.LoanID),
	}
	for _, s := range staff {
		if err := u.notifier.Notify(ctx, s.UserID, p); err != nil {
			u.log.WithError(err).WithFields(logrus.Fields{
				"module": "loan",
				"userId": s.UserID,
			}).Warn("notification failed")
		}
	}
}
