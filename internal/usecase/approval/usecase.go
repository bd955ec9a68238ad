// Package approval drives the review workflow of loan applications.
package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"loanapp-backend/internal/domain/audit"
	"loanapp-backend/internal/domain/auth"
	domainLoan "loanapp-backend/internal/domain/loan"
	"loanapp-backend/internal/domain/notification"
	"loanapp-backend/internal/domain/review"
	"loanapp-backend/internal/domain/uow"
)

var tracer = otel.Tracer("loanapp-backend/internal/usecase/approval")

type Usecase struct {
	loanRepo   domainLoan.Repository
	reviewRepo review.Repository
	uow        uow.UnitOfWork
	notifier   notification.Notifier
	log        logrus.FieldLogger
	now        func() time.Time
}

// NewUsecase: notifier may be nil, in which case applicants are not notified.
func NewUsecase(loans domainLoan.Repository, reviews review.Repository, tx uow.UnitOfWork, n notification.Notifier) *Usecase {
	return &Usecase{
		loanRepo:   loans,
		reviewRepo: reviews,
		uow:        tx,
		notifier:   n,
		log:        logrus.StandardLogger(),
		now:        func() time.Time { return time.Now().UTC() },
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

// decide appends one review event to the locked loan, folds it into the
// projection and persists both, with an audit entry.
func (u *Usecase) decide(ctx context.Context, actor auth.Actor, loanID string, action review.Action, comment string, mutate func(r uow.Repos, l *domainLoan.Loan) error) (*domainLoan.Loan, error) {
	ctx, span := tracer.Start(ctx, "approval."+string(action), trace.WithAttributes(attribute.String("loan.id", loanID)))
	defer span.End()

	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	if u.uow == nil {
		return nil, errors.New("approval: unit of work not configured")
	}

	var out *domainLoan.Loan
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		prev := l.Projection()
		if mutate != nil {
			if err := mutate(r, l); err != nil {
				return err
			}
		}
		e := review.NewEvent(l.ID, actor.ID, action, comment, u.now())
		if err := r.Reviews.Append(ctx, &e); err != nil {
			return err
		}
		l.Apply(e)
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Audits.Create(ctx, audit.NewEntry(actor.ID, audit.ActionUpdate, "loan", l.LoanID, map[string]any{
			"action":            action,
			"comment":           comment,
			"previousStatus":    prev.ApplicationStatus,
			"applicationStatus": l.ApplicationStatus,
		}, e.Date)); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

// Approve marks the application approved and stores any supplied terms.
// It never generates a repayment schedule. Approving an already decided
// application overwrites the decision and appends a new event.
func (u *Usecase) Approve(ctx context.Context, actor auth.Actor, loanID string, in ApproveInput) (*domainLoan.Loan, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}
	o := in.override()
	if err := o.Validate(); err != nil {
		return nil, err
	}
	l, err := u.decide(ctx, actor, loanID, review.ActionApproved, orDefault(in.Remarks, "Approved"), func(_ uow.Repos, l *domainLoan.Loan) error {
		l.MergeTerms(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.notify(ctx, l.UserID, notification.Payload{
		Title:   "Application Approved",
		Message: "Your loan application has been approved.",
		Link:    notification.ApplicationLink(l.LoanID),
	})
	return l, nil
}

func (u *Usecase) Reject(ctx context.Context, actor auth.Actor, loanID string, in RejectInput) (*domainLoan.Loan, error) {
	l, err := u.decide(ctx, actor, loanID, review.ActionRejected, orDefault(in.Reason, "Rejected"), nil)
	if err != nil {
		return nil, err
	}
	u.notify(ctx, l.UserID, notification.Payload{
		Title:   "Application Rejected",
		Message: "Your loan application was rejected.",
		Link:    notification.ApplicationLink(l.LoanID),
	})
	return l, nil
}

// RequestRevision asks the applicant for changes without moving the status.
func (u *Usecase) RequestRevision(ctx context.Context, actor auth.Actor, loanID string, in RevisionInput) (*domainLoan.Loan, error) {
	comment := orDefault(&in.Comment, "Revision requested")
	l, err := u.decide(ctx, actor, loanID, review.ActionRevisionRequested, comment, nil)
	if err != nil {
		return nil, err
	}
	u.notify(ctx, l.UserID, notification.Payload{
		Title:   "Revision Requested",
		Message: "Your loan application needs changes: " + comment,
		Link:    notification.ApplicationLink(l.LoanID),
	})
	return l, nil
}

// VerifyDocument marks the document at docIndex (zero-based, upload order) verified.
func (u *Usecase) VerifyDocument(ctx context.Context, actor auth.Actor, loanID string, docIndex int) (*domainLoan.Document, error) {
	var doc *domainLoan.Document
	l, err := u.decide(ctx, actor, loanID, review.ActionDocVerified, "Document verified", func(r uow.Repos, l *domainLoan.Loan) error {
		d, err := l.DocumentAt(docIndex)
		if err != nil {
			return err
		}
		at := u.now()
		d.IsVerified = true
		d.VerifiedBy = actor.ID
		d.VerifiedAt = &at
		doc = d
		return r.Loans.SaveDocument(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	u.notify(ctx, l.UserID, notification.Payload{
		Title:   "Document Verified",
		Message: fmt.Sprintf("Your document %q has been verified", doc.FileName),
		Link:    notification.ApplicationLink(l.LoanID),
	})
	return doc, nil
}

// ReviewHistory returns the application's review log, oldest first.
func (u *Usecase) ReviewHistory(ctx context.Context, actor auth.Actor, loanID string) ([]review.Event, error) {
	l, err := u.loanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	if !actor.CanRead(l.UserID) {
		return nil, auth.ErrAccessDenied
	}
	events, err := u.reviewRepo.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []review.Event{}
	}
	return events, nil
}

// notify is best effort: the review decision is already committed.
func (u *Usecase) notify(ctx context.Context, userID string, p notification.Payload) {
	if u.notifier == nil || userID == "" {
		return
	}
	if err := u.notifier.Notify(ctx, userID, p); err != nil {
		u.log.WithError(err).WithFields(logrus.Fields{
			"module": "approval",
			"userId": userID,
			"title":  p.Title,
		}).Warn("notification failed")
	}
}
