package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	mw "loanapp-backend/internal/adapter/middleware"
	"loanapp-backend/internal/domain/auth"
)

var (
	customer = auth.Actor{ID: "cust1", Role: auth.RoleCustomer}
	banker   = auth.Actor{ID: "bank1", Role: auth.RoleBanker}
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator("IN")
	return e
}

func mustJSON(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// call runs h directly with path params and an optional authenticated actor.
func call(t *testing.T, e *echo.Echo, h echo.HandlerFunc, method, target string, body io.Reader, a *auth.Actor, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) > 0 {
		var names, values []string
		for k, v := range params {
			names = append(names, k)
			values = append(values, v)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if a != nil {
		mw.WithActor(c, *a)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("bad json %q: %v", rec.Body.String(), err)
	}
}
