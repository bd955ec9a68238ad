package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"loanapp-backend/internal/usecase/approval"
)

type ApprovalHandler struct {
	base
	uc *approval.Usecase
}

func NewApprovalHandler(uc *approval.Usecase, log logrus.FieldLogger) *ApprovalHandler {
	return &ApprovalHandler{base: newBase(log), uc: uc}
}

func (h *ApprovalHandler) Approve(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	// role is checked before the body so customers always get 403
	if err := a.RequireStaff(); err != nil {
		return h.fail(c, err)
	}
	var req approval.ApproveInput
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	l, err := h.uc.Approve(c.Request().Context(), a, pathID(c, "id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Application approved", "application": l})
}

func (h *ApprovalHandler) Reject(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	if err := a.RequireStaff(); err != nil {
		return h.fail(c, err)
	}
	var req approval.RejectInput
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	l, err := h.uc.Reject(c.Request().Context(), a, pathID(c, "id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Application rejected", "application": l})
}

func (h *ApprovalHandler) RequestRevision(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	if err := a.RequireStaff(); err != nil {
		return h.fail(c, err)
	}
	var req approval.RevisionInput
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	l, err := h.uc.RequestRevision(c.Request().Context(), a, pathID(c, "id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Revision requested", "application": l})
}

func (h *ApprovalHandler) VerifyDocument(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	if err := a.RequireStaff(); err != nil {
		return h.fail(c, err)
	}
	idx, err := strconv.Atoi(pathID(c, "docIndex"))
	if err != nil {
		return h.badRequest(c, "docIndex must be an integer")
	}
	d, err := h.uc.VerifyDocument(c.Request().Context(), a, pathID(c, "loanId"), idx)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Document verified", "document": d})
}

func (h *ApprovalHandler) ReviewHistory(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	events, err := h.uc.ReviewHistory(c.Request().Context(), a, pathID(c, "id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, events)
}
