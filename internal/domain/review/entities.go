package review

import "time"

type Action string

const (
	ActionSubmitted         Action = "submitted"
	ActionDocVerified       Action = "doc_verified"
	ActionApproved          Action = "approved"
	ActionRejected          Action = "rejected"
	ActionRevisionRequested Action = "revision_requested"
)

// Event is one entry of a loan's append-only review log.
// Rows are inserted once and never updated.
type Event struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID     uint64    `gorm:"column:loan_id;not null;index" json:"-"`
	ReviewerID string    `gorm:"column:reviewer_id;size:32;not null" json:"reviewer"`
	Action     Action    `gorm:"column:action;size:24;not null" json:"action"`
	Comment    string    `gorm:"column:comment;type:text" json:"comment"`
	Date       time.Time `gorm:"column:date;not null" json:"date"`
}

func (Event) TableName() string { return "loan_review_events" }

func NewEvent(loanID uint64, reviewerID string, action Action, comment string, at time.Time) Event {
	return Event{LoanID: loanID, ReviewerID: reviewerID, Action: action, Comment: comment, Date: at.UTC()}
}
