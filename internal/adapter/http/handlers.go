package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	mw "loanapp-backend/internal/adapter/middleware"
	"loanapp-backend/internal/domain/auth"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "No token provided"})
}

// actor is the caller stored by mw.Auth; routes without it answer 401.
func actor(c echo.Context) (auth.Actor, bool) {
	return mw.ActorFrom(c)
}

func pathID(c echo.Context, name string) string {
	return strings.TrimSpace(c.Param(name))
}

// queryInts reads the named integer query params; absent ones stay zero.
// It returns the first name that is not an integer.
func queryInts(c echo.Context, dst map[string]*int) (string, bool) {
	for name, p := range dst {
		raw := strings.TrimSpace(c.QueryParam(name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return name, false
		}
		*p = n
	}
	return "", true
}
