package loan

import (
	"github.com/shopspring/decimal"

	domain "loanapp-backend/internal/domain/loan"
)

// SubmitInput is the applicant profile of a new application.
type SubmitInput struct {
	FullName         string           `json:"fullName" validate:"required,max=200"`
	Email            string           `json:"email" validate:"required,email"`
	MobileNumber     string           `json:"mobileNumber" validate:"required,phone"`
	DateOfBirth      string           `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	PanCard          string           `json:"panCard" validate:"required,len=10,alphanum"`
	Salary           *decimal.Decimal `json:"salary"`
	EmploymentStatus string           `json:"employmentStatus" validate:"max=64"`
	CreditScore      *int             `json:"creditScore" validate:"omitempty,gte=300,lte=900"`
	Assets           string           `json:"assets"`
	Address          string           `json:"address"`
	City             string           `json:"city" validate:"max=100"`
	State            string           `json:"state" validate:"max=100"`
	ZipCode          string           `json:"zipCode" validate:"max=16"`
	RequestedAmount  *decimal.Decimal `json:"requestedAmount"`
}

type DocumentInput struct {
	FileName string `json:"fileName" validate:"required,max=255"`
	FilePath string `json:"filePath" validate:"required"`
}

// QuoteInput: TenureType is "months" (default) or "years".
type QuoteInput struct {
	Amount     float64 `json:"amount" validate:"gte=0,dec2"`
	Rate       float64 `json:"rate" validate:"gte=0"`
	Tenure     int     `json:"tenure" validate:"gte=0"`
	TenureType string  `json:"tenureType" validate:"omitempty,tenure"`
}

type EligibilityInput struct {
	MonthlyIncome   float64 `json:"monthlyIncome" validate:"gt=0"`
	ExistingEMI     float64 `json:"existingEmi" validate:"gte=0"`
	CreditScore     int     `json:"creditScore" validate:"gte=0,lte=900"`
	RequestedAmount float64 `json:"requestedAmount" validate:"gt=0"`
	TenureMonths    int     `json:"tenureMonths" validate:"gt=0"`
}

type EligibilityResult struct {
	EligibleAmount  decimal.Decimal `json:"eligibleAmount"`
	MaxEMI          decimal.Decimal `json:"maxEmi"`
	SuggestedTenure int             `json:"suggestedTenure"`
	IsEligible      bool            `json:"isEligible"`
	Message         string          `json:"message"`
}

// ListInput mirrors the get-loans query string. Zero Page/Limit take defaults.
type ListInput struct {
	Page   int
	Limit  int
	Search string
	Status string
}

type ApplicationPage struct {
	Loans       []domain.Loan `json:"loans"`
	TotalItems  int64         `json:"totalItems"`
	TotalPages  int64         `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
}

type Dashboard struct {
	StatusCounts  []domain.StatusCount `json:"statusCounts"`
	TotalApproved decimal.Decimal      `json:"totalApproved"`
	Recent        []domain.Loan        `json:"recentApplications"`
}
