// Package repayment is the repayment ledger: schedule generation, payment
// recording and the read models built on them.
package repayment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"loanapp-backend/internal/domain/audit"
	"loanapp-backend/internal/domain/auth"
	"loanapp-backend/internal/domain/loan"
	domain "loanapp-backend/internal/domain/repayment"
	"loanapp-backend/internal/domain/uow"
	"loanapp-backend/internal/domain/user"
	"loanapp-backend/pkg/amortization"
)

const (
	defaultCollectionMonths = 6
	maxCollectionMonths     = 24
)

var tracer = otel.Tracer("loanapp-backend/internal/usecase/repayment")

type Usecase struct {
	loans      loan.Repository
	repayments domain.Repository
	users      user.Repository
	uow        uow.UnitOfWork

	locker   Locker
	exporter Exporter
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewUsecase(loans loan.Repository, repayments domain.Repository, users user.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{
		loans:      loans,
		repayments: repayments,
		users:      users,
		uow:        tx,
		log:        logrus.StandardLogger(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithLocker(l Locker) *Usecase {
	u.locker = l
	return u
}

func (u *Usecase) WithExporter(e Exporter) *Usecase {
	u.exporter = e
	return u
}

func (u *Usecase) WithLogger(l logrus.FieldLogger) *Usecase {
	u.log = l
	return u
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) lock(ctx context.Context, loanRef string) (func(), error) {
	if u.locker == nil {
		return func() {}, nil
	}
	return u.locker.Lock(ctx, "ledger:"+loanRef)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// GenerateSchedule replaces the loan's installments with a fresh schedule
// built from its stored terms merged with in. Repeated calls regenerate.
func (u *Usecase) GenerateSchedule(ctx context.Context, actor auth.Actor, loanID string, in TermsInput) (count int, err error) {
	ctx, span := tracer.Start(ctx, "repayment.GenerateSchedule", trace.WithAttributes(attribute.String("loan.id", loanID)))
	defer func() { endSpan(span, err) }()

	if err := actor.RequireStaff(); err != nil {
		return 0, err
	}
	o := in.override()
	if err := o.Validate(); err != nil {
		return 0, err
	}

	unlock, err := u.lock(ctx, loanID)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var removed int64
	err = u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		l.MergeTerms(o)
		terms, err := l.ScheduleTerms()
		if err != nil {
			return err
		}
		sched, err := amortization.ComputeSchedule(terms, l.ScheduleStart(u.now()))
		if err != nil {
			if errors.Is(err, amortization.ErrInvalidTerms) {
				return fmt.Errorf("%w: %v", loan.ErrInvalidTerms, err)
			}
			return err
		}

		if removed, err = r.Repayments.DeleteByLoanID(ctx, l.ID); err != nil {
			return err
		}
		rows := domain.FromSchedule(l.ID, l.LoanID, sched)
		if err := r.Repayments.CreateBatch(ctx, rows); err != nil {
			return err
		}

		l.Activate(sched)
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		count = len(rows)

		return r.Audits.Create(ctx, audit.NewEntry(actor.ID, audit.ActionUpdate, "loan", l.LoanID, map[string]any{
			"event":              "schedule_generated",
			"approvedAmount":     l.ApprovedAmount,
			"interestRate":       l.InterestRate,
			"tenureMonths":       l.TenureMonths,
			"emi":                l.EMI,
			"installments":       count,
			"replacedRepayments": removed,
		}, u.now()))
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, loan.ErrNotFound
		}
		return 0, err
	}

	u.log.WithFields(logrus.Fields{
		"module":   "repayment",
		"loanId":   loanID,
		"count":    count,
		"replaced": removed,
		"actor":    actor.ID,
	}).Info("schedule generated")
	return count, nil
}

// RecordPayment marks one pending installment paid and books it against
// the loan summary. A repayment can be paid only once.
func (u *Usecase) RecordPayment(ctx context.Context, actor auth.Actor, repaymentID string) (out *domain.Repayment, err error) {
	ctx, span := tracer.Start(ctx, "repayment.RecordPayment", trace.WithAttributes(attribute.String("repayment.id", repaymentID)))
	defer func() { endSpan(span, err) }()

	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	rp, err := u.repayments.GetByRepaymentID(ctx, repaymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if rp.Status == domain.StatusPaid {
		return nil, domain.ErrAlreadyPaid
	}

	unlock, err := u.lock(ctx, rp.LoanRef)
	if err != nil {
		return nil, err
	}
	defer unlock()

	paidAt := u.now()
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// loan row first, so concurrent payments on one loan queue here
		l, err := r.Loans.GetByIDForUpdate(ctx, rp.LoanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loan.ErrNotFound
			}
			return err
		}

		ok, err := r.Repayments.MarkPaid(ctx, rp.ID, paidAt, actor.ID)
		if err != nil {
			return err
		}
		if !ok {
			// a regeneration may have replaced the row since it was read
			if _, err := r.Repayments.GetByRepaymentID(ctx, rp.RepaymentID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrNotFound
				}
				return err
			}
			return domain.ErrAlreadyPaid
		}

		var nextDue *time.Time
		next, err := r.Repayments.NextPending(ctx, l.ID)
		switch {
		case err == nil:
			due := next.DueDate
			nextDue = &due
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		l.ApplyPayment(rp.PrincipalPaid, rp.Amount, nextDue)
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		return r.Audits.Create(ctx, audit.NewEntry(actor.ID, audit.ActionUpdate, "repayment", rp.RepaymentID, map[string]any{
			"status":             domain.StatusPaid,
			"loanId":             l.LoanID,
			"amount":             rp.Amount,
			"outstandingBalance": l.OutstandingBalance,
			"ledgerStatus":       l.Status,
		}, paidAt))
	})
	if err != nil {
		return nil, err
	}

	rp.Status = domain.StatusPaid
	rp.PaidDate = &paidAt
	rp.PaidBy = actor.ID
	u.log.WithFields(logrus.Fields{
		"module":      "repayment",
		"repaymentId": rp.RepaymentID,
		"loanId":      rp.LoanRef,
		"actor":       actor.ID,
	}).Info("payment recorded")
	return rp, nil
}

// ownerScope is the owner filter for list queries: customers see only their own.
func ownerScope(actor auth.Actor) string {
	if actor.IsStaff() {
		return ""
	}
	return actor.ID
}

func (u *Usecase) requesters(ctx context.Context, loans []loan.Loan) map[string]loan.Requester {
	out := make(map[string]loan.Requester, len(loans))
	ids := make([]string, 0, len(loans))
	for _, l := range loans {
		if _, ok := out[l.UserID]; !ok {
			out[l.UserID] = loan.Requester{UserID: l.UserID, FullName: l.FullName, Email: l.Email}
			ids = append(ids, l.UserID)
		}
	}
	if u.users == nil || len(ids) == 0 {
		return out
	}
	users, err := u.users.GetByUserIDs(ctx, ids)
	if err != nil {
		// the application's own name is a usable fallback
		u.log.WithError(err).WithField("module", "repayment").Warn("requester lookup failed")
		return out
	}
	for _, usr := range users {
		out[usr.UserID] = loan.Requester{UserID: usr.UserID, FullName: usr.DisplayName(), Email: usr.Email}
	}
	return out
}

// LoansForUser lists loans on the repayment screens, i.e. approved or disbursed.
func (u *Usecase) LoansForUser(ctx context.Context, actor auth.Actor) ([]LoanSummary, error) {
	if err := actor.RequireKnown(); err != nil {
		return nil, err
	}
	loans, err := u.loans.ListByStatuses(ctx, loan.RepaymentVisible, ownerScope(actor))
	if err != nil {
		return nil, err
	}
	names := u.requesters(ctx, loans)
	out := make([]LoanSummary, 0, len(loans))
	for i := range loans {
		out = append(out, toSummary(&loans[i], names[loans[i].UserID]))
	}
	return out, nil
}

func (u *Usecase) Schedule(ctx context.Context, actor auth.Actor, loanID string) (*ScheduleView, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	if !actor.CanRead(l.UserID) {
		return nil, auth.ErrAccessDenied
	}
	rows, err := u.repayments.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.Repayment{}
	}
	names := u.requesters(ctx, []loan.Loan{*l})
	return &ScheduleView{Loan: toSummary(l, names[l.UserID]), Repayments: rows}, nil
}

func (u *Usecase) Summary(ctx context.Context, actor auth.Actor) (loan.Totals, error) {
	if err := actor.RequireKnown(); err != nil {
		return loan.Totals{}, err
	}
	return u.loans.Totals(ctx, ownerScope(actor))
}

// MonthlyCollections returns paid amounts per calendar month, covering the
// current month and the months-1 before it. months outside 1..24 uses 6.
func (u *Usecase) MonthlyCollections(ctx context.Context, actor auth.Actor, months int) ([]domain.MonthlyTotal, error) {
	if err := actor.RequireKnown(); err != nil {
		return nil, err
	}
	if months <= 0 || months > maxCollectionMonths {
		months = defaultCollectionMonths
	}
	now := u.now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	return u.repayments.PaidSince(ctx, since, ownerScope(actor))
}

var errNoExporter = errors.New("schedule export is not configured")

func (u *Usecase) ExportSchedule(ctx context.Context, actor auth.Actor, loanID string) (*Export, error) {
	if u.exporter == nil {
		return nil, errNoExporter
	}
	v, err := u.Schedule(ctx, actor, loanID)
	if err != nil {
		return nil, err
	}
	return u.exporter.ScheduleWorkbook(v)
}
