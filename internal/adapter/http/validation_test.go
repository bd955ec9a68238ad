package http

import (
	"errors"
	"strings"
	"testing"

	"loanapp-backend/internal/usecase/loan"
)

func TestHex32Validation(t *testing.T) {
	type P struct {
		LoanID string `json:"loanId" validate:"hex32"`
	}
	cv := NewValidator("IN")

	if err := cv.Validate(P{LoanID: strings.Repeat("a", 32)}); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}
	for _, s := range []string{
		"",
		strings.Repeat("A", 32),
		"deadbeef",
		strings.Repeat("g", 32),
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x",
	} {
		err := cv.Validate(P{LoanID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "loanId", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestIntLikeAndDec2Validation(t *testing.T) {
	type P struct {
		Amount float64 `json:"amount" validate:"intlike"`
		Rate   float64 `json:"rate" validate:"dec2"`
	}
	cv := NewValidator("IN")

	for _, p := range []P{{5_000_000, 1.29}, {0, 2.00}, {123, 0.9}} {
		if err := cv.Validate(p); err != nil {
			t.Fatalf("expected OK for %+v, got %v", p, err)
		}
	}
	err := cv.Validate(P{Amount: 1.1, Rate: 1.234})
	if err == nil {
		t.Fatal("expected errors")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "amount", "integer value") || !containsFieldMsg(fe, "rate", "at most 2 decimal places") {
		t.Fatalf("details = %+v", fe)
	}
}

func TestPhoneValidation(t *testing.T) {
	type P struct {
		Mobile string `json:"mobileNumber" validate:"phone"`
	}
	cv := NewValidator("IN")

	for _, s := range []string{"+919812345678", "9812345678", "+14155552671"} {
		if err := cv.Validate(P{Mobile: s}); err != nil {
			t.Fatalf("expected %q valid, got %v", s, err)
		}
	}
	for _, s := range []string{"", "12345", "not a number", "+91 00000"} {
		err := cv.Validate(P{Mobile: s})
		if err == nil {
			t.Fatalf("expected %q invalid", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "mobileNumber", "valid phone number") {
			t.Fatalf("details = %+v", fe)
		}
	}
}

func TestTenureValidation(t *testing.T) {
	cv := NewValidator("IN")
	for _, tt := range []string{"", "months", "years", "Years"} {
		if err := cv.Validate(loan.QuoteInput{Amount: 1000, Rate: 10, Tenure: 12, TenureType: tt}); err != nil {
			t.Fatalf("tenureType %q: %v", tt, err)
		}
	}
	err := cv.Validate(loan.QuoteInput{Amount: 1000, Rate: 10, Tenure: 12, TenureType: "weeks"})
	if fe := ToFieldErrors(err); err == nil || !containsFieldMsg(fe, "tenureType", "months or years") {
		t.Fatalf("weeks: %v %+v", err, fe)
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name string  `json:"name" validate:"required"`
		Min  int     `json:"min" validate:"gte=10"`
		Max  int     `json:"max" validate:"lte=5"`
		Pos  float64 `json:"pos" validate:"gt=0"`
		Mail string  `json:"mail" validate:"email"`
		Day  string  `json:"day" validate:"datetime=2006-01-02"`
		Raw  int     `validate:"lte=1"`
	}
	err := NewValidator("IN").Validate(P{Min: 9, Max: 6, Mail: "nope", Day: "06/09/2025", Raw: 2})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	fe := ToFieldErrors(err)
	for _, want := range []struct{ field, msg string }{
		{"name", "is required"},
		{"min", "greater than or equal to 10"},
		{"max", "less than or equal to 5"},
		{"pos", "greater than 0"},
		{"mail", "valid email"},
		{"day", "must match 2006-01-02"},
		{"Raw", "less than or equal to 1"},
	} {
		if !containsFieldMsg(fe, want.field, want.msg) {
			t.Fatalf("missing %q for %s: %+v", want.msg, want.field, fe)
		}
	}
}

func TestSubmitInputValidation(t *testing.T) {
	cv := NewValidator("IN")
	ok := loan.SubmitInput{FullName: "Cara", Email: "cara@example.com", MobileNumber: "9812345678", PanCard: "ABCDE1234F"}
	if err := cv.Validate(ok); err != nil {
		t.Fatalf("valid input: %v", err)
	}
	bad := ok
	bad.PanCard = "SHORT"
	bad.DateOfBirth = "1990/05/10"
	fe := ToFieldErrors(cv.Validate(bad))
	if !containsFieldMsg(fe, "panCard", "len validation failed") || !containsFieldMsg(fe, "dateOfBirth", "must match") {
		t.Fatalf("details = %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe)
	}
}
