package mysql

import (
	"loanapp-backend/internal/domain/audit"
	"loanapp-backend/internal/domain/loan"
	"loanapp-backend/internal/domain/notification"
	"loanapp-backend/internal/domain/repayment"
	"loanapp-backend/internal/domain/review"
	"loanapp-backend/internal/domain/user"
)

// Models lists every table this adapter reads or writes, for AutoMigrate.
func Models() []any {
	return []any{
		&user.User{},
		&loan.Loan{},
		&loan.Document{},
		&review.Event{},
		&repayment.Repayment{},
		&notification.Notification{},
		&audit.Entry{},
	}
}
