package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"loanapp-backend/internal/usecase/audit"
)

type AuditHandler struct {
	base
	uc *audit.Usecase
}

func NewAuditHandler(uc *audit.Usecase, log logrus.FieldLogger) *AuditHandler {
	return &AuditHandler{base: newBase(log), uc: uc}
}

func (h *AuditHandler) List(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	in := audit.ListInput{
		Collection: c.QueryParam("collection"),
		UserID:     c.QueryParam("userId"),
		Action:     c.QueryParam("action"),
		From:       c.QueryParam("startDate"),
		To:         c.QueryParam("endDate"),
	}
	if name, ok := queryInts(c, map[string]*int{"page": &in.Page, "limit": &in.Limit}); !ok {
		return h.badRequest(c, name+" must be an integer")
	}
	out, err := h.uc.List(c.Request().Context(), a, in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuditHandler) Get(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := strconv.ParseUint(pathID(c, "id"), 10, 64)
	if err != nil {
		return h.badRequest(c, "id must be an integer")
	}
	e, err := h.uc.Get(c.Request().Context(), a, id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, e)
}
