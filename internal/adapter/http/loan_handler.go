package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"loanapp-backend/internal/usecase/loan"
)

type LoanHandler struct {
	base
	uc *loan.Usecase
}

func NewLoanHandler(uc *loan.Usecase, log logrus.FieldLogger) *LoanHandler {
	return &LoanHandler{base: newBase(log), uc: uc}
}

func (h *LoanHandler) SaveLoan(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var req loan.SubmitInput
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	l, err := h.uc.Submit(c.Request().Context(), a, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Application submitted successfully!",
		"data":    l,
	})
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id := pathID(c, "id")
	if id == "" {
		return h.badRequest(c, "missing id path param")
	}
	l, err := h.uc.Get(c.Request().Context(), a, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) UploadDoc(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id := pathID(c, "id")
	if id == "" {
		return h.badRequest(c, "missing id path param")
	}
	var req loan.DocumentInput
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	d, err := h.uc.AddDocument(c.Request().Context(), a, id, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Document uploaded", "doc": d})
}

func (h *LoanHandler) CalculateEMI(c echo.Context) error {
	var req loan.QuoteInput
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	q, err := h.uc.QuoteEMI(req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

func (h *LoanHandler) CheckEligibility(c echo.Context) error {
	var req loan.EligibilityInput
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	r, err := h.uc.CheckEligibility(req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	in := loan.ListInput{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
	}
	if name, ok := queryInts(c, map[string]*int{"page": &in.Page, "limit": &in.Limit}); !ok {
		return h.badRequest(c, name+" must be an integer")
	}
	out, err := h.uc.ListApplications(c.Request().Context(), a, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) Dashboard(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.Dashboard(c.Request().Context(), a)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
