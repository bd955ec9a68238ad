package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"loanapp-backend/internal/domain/review"
)

var (
	ErrNotFound         = errors.New("loan not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrIncompleteTerms  = errors.New("loan terms not set: approvedAmount, interestRate and tenureMonths are required")
	ErrInvalidTerms     = errors.New("invalid loan terms")
	ErrInvalidInput     = errors.New("invalid input")
)

// ApplicationStatus is the approval-workflow dimension of a loan.
type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "pending"
	StatusApproved  ApplicationStatus = "approved"
	StatusRejected  ApplicationStatus = "rejected"
	StatusDisbursed ApplicationStatus = "disbursed"
	StatusClosed    ApplicationStatus = "closed"
	StatusDefaulted ApplicationStatus = "defaulted"
)

// LedgerStatus is the repayment dimension. It is tracked independently of
// ApplicationStatus: approval never activates the ledger, only schedule
// generation does. The zero value means no schedule has been generated yet.
type LedgerStatus string

const (
	LedgerNone      LedgerStatus = ""
	LedgerActive    LedgerStatus = "active"
	LedgerClosed    LedgerStatus = "closed"
	LedgerDefaulted LedgerStatus = "defaulted"
)

// Valid reports whether s is one of the known application states.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusDisbursed, StatusClosed, StatusDefaulted:
		return true
	}
	return false
}

// RepaymentVisible are the application states listed on repayment screens.
var RepaymentVisible = []ApplicationStatus{StatusApproved, StatusDisbursed}

type Loan struct {
	ID     uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID string `gorm:"column:loan_id;size:32;not null;uniqueIndex:ux_loans_loan_id" json:"id"`
	UserID string `gorm:"column:user_id;size:32;not null;index:idx_loans_user" json:"userId"`

	// applicant profile
	FullName         string           `gorm:"column:full_name;size:200;not null" json:"fullName"`
	Email            string           `gorm:"column:email;size:200;not null" json:"email"`
	MobileNumber     string           `gorm:"column:mobile_number;size:32;not null" json:"mobileNumber"`
	DateOfBirth      *time.Time       `gorm:"column:date_of_birth;type:date" json:"dateOfBirth,omitempty"`
	PanCard          string           `gorm:"column:pan_card;size:16;not null" json:"panCard"`
	Salary           *decimal.Decimal `gorm:"column:salary;type:decimal(18,2)" json:"salary,omitempty"`
	EmploymentStatus string           `gorm:"column:employment_status;size:64" json:"employmentStatus,omitempty"`
	CreditScore      *int             `gorm:"column:credit_score" json:"creditScore,omitempty"`
	Assets           string           `gorm:"column:assets;type:text" json:"assets,omitempty"`
	Address          string           `gorm:"column:address;type:text" json:"address,omitempty"`
	City             string           `gorm:"column:city;size:100" json:"city,omitempty"`
	State            string           `gorm:"column:state;size:100" json:"state,omitempty"`
	ZipCode          string           `gorm:"column:zip_code;size:16" json:"zipCode,omitempty"`
	RequestedAmount  *decimal.Decimal `gorm:"column:requested_amount;type:decimal(18,2)" json:"requestedAmount,omitempty"`

	ApplicationStatus ApplicationStatus `gorm:"column:application_status;size:16;not null;default:pending;index:idx_loans_app_status" json:"applicationStatus"`

	// terms; nil means not set yet
	ApprovedAmount *decimal.Decimal `gorm:"column:approved_amount;type:decimal(18,2)" json:"approvedAmount,omitempty"`
	InterestRate   *decimal.Decimal `gorm:"column:interest_rate;type:decimal(7,4)" json:"interestRate,omitempty"`
	TenureMonths   *int             `gorm:"column:tenure_months" json:"tenureMonths,omitempty"`
	DisbursedDate  *time.Time       `gorm:"column:disbursed_date" json:"disbursedDate,omitempty"`

	// ledger summary, written only by the repayment ledger
	EMI                decimal.Decimal `gorm:"column:emi;type:decimal(18,2);not null;default:0" json:"emi"`
	OutstandingBalance decimal.Decimal `gorm:"column:outstanding_balance;type:decimal(18,2);not null;default:0" json:"outstandingBalance"`
	TotalPaid          decimal.Decimal `gorm:"column:total_paid;type:decimal(18,2);not null;default:0" json:"totalPaid"`
	NextDueDate        *time.Time      `gorm:"column:next_due_date" json:"nextDueDate"`
	Status             LedgerStatus    `gorm:"column:status;size:16;not null" json:"status"`

	// review projection, derived from ReviewHistory via Apply
	ReviewedBy      string     `gorm:"column:reviewed_by;size:32" json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at" json:"reviewedAt,omitempty"`
	ApprovalRemarks string     `gorm:"column:approval_remarks;type:text" json:"approvalRemarks,omitempty"`
	RejectionReason string     `gorm:"column:rejection_reason;type:text" json:"rejectionReason,omitempty"`

	Documents     []Document     `gorm:"foreignKey:LoanID;references:ID" json:"documents"`
	ReviewHistory []review.Event `gorm:"foreignKey:LoanID;references:ID" json:"reviewHistory"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Loan) TableName() string { return "loans" }

// Document is an uploaded file record; verification is tracked per document.
type Document struct {
	ID         uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID     uint64     `gorm:"column:loan_id;not null;uniqueIndex:ux_loan_documents_position" json:"-"`
	Position   int        `gorm:"column:position;not null;uniqueIndex:ux_loan_documents_position" json:"index"`
	FileName   string     `gorm:"column:file_name;size:255;not null" json:"fileName"`
	FilePath   string     `gorm:"column:file_path;type:text;not null" json:"filePath"`
	UploadedAt time.Time  `gorm:"column:uploaded_at;not null" json:"uploadedAt"`
	IsVerified bool       `gorm:"column:is_verified;not null;default:false" json:"isVerified"`
	VerifiedBy string     `gorm:"column:verified_by;size:32" json:"verifiedBy,omitempty"`
	VerifiedAt *time.Time `gorm:"column:verified_at" json:"verifiedAt,omitempty"`
}

func (Document) TableName() string { return "loan_documents" }

// Requester is the loan owner's display data attached to listings.
type Requester struct {
	UserID   string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// StatusCount is one bucket of the staff dashboard. ApprovedAmount sums the
// approved amounts of the bucket's loans.
type StatusCount struct {
	Status         ApplicationStatus `json:"status"`
	Count          int64             `json:"count"`
	ApprovedAmount decimal.Decimal   `json:"approvedAmount"`
}

// Totals is the aggregate shown on repayment dashboards.
type Totals struct {
	TotalActiveLoans int64           `json:"totalActiveLoans"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
}
