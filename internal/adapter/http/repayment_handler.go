package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"loanapp-backend/internal/usecase/repayment"
)

type RepaymentHandler struct {
	base
	uc *repayment.Usecase
}

func NewRepaymentHandler(uc *repayment.Usecase, log logrus.FieldLogger) *RepaymentHandler {
	return &RepaymentHandler{base: newBase(log), uc: uc}
}

// Generate accepts an empty body; supplied terms override the stored ones.
func (h *RepaymentHandler) Generate(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	if err := a.RequireStaff(); err != nil {
		return h.fail(c, err)
	}
	var req repayment.TermsInput
	if c.Request().ContentLength != 0 {
		if ok, err := h.bind(c, &req); !ok {
			return err
		}
	}
	n, err := h.uc.GenerateSchedule(c.Request().Context(), a, pathID(c, "loanId"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Repayment schedule generated", "count": n})
}

func (h *RepaymentHandler) Pay(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	r, err := h.uc.RecordPayment(c.Request().Context(), a, pathID(c, "repaymentId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Payment recorded", "repayment": r})
}

func (h *RepaymentHandler) Schedule(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	v, err := h.uc.Schedule(c.Request().Context(), a, pathID(c, "loanId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *RepaymentHandler) Export(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.ExportSchedule(c.Request().Context(), a, pathID(c, "loanId"))
	if err != nil {
		return h.fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", out.FileName))
	return c.Blob(http.StatusOK, out.ContentType, out.Content)
}

func (h *RepaymentHandler) Loans(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.LoansForUser(c.Request().Context(), a)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RepaymentHandler) Summary(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	t, err := h.uc.Summary(c.Request().Context(), a)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *RepaymentHandler) Collections(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	months := 0
	if raw := c.QueryParam("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return h.badRequest(c, "months must be an integer")
		}
		months = n
	}
	out, err := h.uc.MonthlyCollections(c.Request().Context(), a, months)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
