package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"loanapp-backend/internal/usecase/notification"
)

type NotificationHandler struct {
	base
	uc *notification.Usecase
}

func NewNotificationHandler(uc *notification.Usecase, log logrus.FieldLogger) *NotificationHandler {
	return &NotificationHandler{base: newBase(log), uc: uc}
}

func (h *NotificationHandler) List(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.List(c.Request().Context(), a)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.MarkRead(c.Request().Context(), a, pathID(c, "id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	n, err := h.uc.MarkAllRead(c.Request().Context(), a)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "All notifications marked as read", "updated": n})
}
