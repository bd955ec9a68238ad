package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"loanapp-backend/internal/domain/audit"
	"loanapp-backend/internal/domain/auth"
	"loanapp-backend/internal/domain/loan"
	"loanapp-backend/internal/domain/notification"
	"loanapp-backend/internal/domain/repayment"
)

// StatusOf maps a usecase error to its HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, loan.ErrIncompleteTerms),
		errors.Is(err, loan.ErrInvalidTerms),
		errors.Is(err, loan.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, loan.ErrNotFound),
		errors.Is(err, loan.ErrDocumentNotFound),
		errors.Is(err, repayment.ErrNotFound),
		errors.Is(err, notification.ErrNotFound),
		errors.Is(err, audit.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repayment.ErrAlreadyPaid),
		errors.Is(err, repayment.ErrLedgerBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type base struct{ log logrus.FieldLogger }

func newBase(log logrus.FieldLogger) base {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return base{log: log}
}

// fail writes err as a JSON failure; unexpected errors are logged and hidden.
func (b base) fail(c echo.Context, err error) error {
	code := StatusOf(err)
	if code == http.StatusInternalServerError {
		b.log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).Error("request failed")
		return c.JSON(code, ErrorResponse{Message: "Internal server error"})
	}
	return c.JSON(code, ErrorResponse{Message: err.Error()})
}

func (b base) badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Message: msg})
}

// bind decodes and validates the body into req. It writes the failure
// response itself and reports false when the handler should stop.
func (b base) bind(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, b.badRequest(c, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
