package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"loanapp-backend/internal/domain/auth"
)

var secret = []byte("test-secret")

func setupAuthEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(Auth(secret))
	e.GET("/me", func(c echo.Context) error {
		a, ok := ActorFrom(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, a)
	})
	return e
}

func TestAuth(t *testing.T) {
	good, err := IssueToken(secret, auth.Actor{ID: "bank1", Role: auth.RoleBanker}, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	expired, _ := IssueToken(secret, auth.Actor{ID: "bank1", Role: auth.RoleBanker}, -time.Minute)
	foreign, _ := IssueToken([]byte("other-secret"), auth.Actor{ID: "bank1", Role: auth.RoleBanker}, time.Hour)
	noRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ID: "x"}).SignedString(secret)
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{ID: "x", Role: auth.RoleAdmin}).SignedString(secret)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{name: "valid", header: "Bearer " + good, wantCode: http.StatusOK, wantBody: `"role":"Banker"`},
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized, wantBody: "No token provided"},
		{name: "wrong scheme", header: "Basic abc", wantCode: http.StatusUnauthorized, wantBody: "No token provided"},
		{name: "empty bearer", header: "Bearer  ", wantCode: http.StatusUnauthorized, wantBody: "No token provided"},
		{name: "garbage", header: "Bearer not.a.jwt", wantCode: http.StatusUnauthorized, wantBody: "Invalid token"},
		{name: "expired", header: "Bearer " + expired, wantCode: http.StatusUnauthorized, wantBody: "Invalid token"},
		{name: "wrong secret", header: "Bearer " + foreign, wantCode: http.StatusUnauthorized, wantBody: "Invalid token"},
		{name: "no role claim", header: "Bearer " + noRole, wantCode: http.StatusUnauthorized, wantBody: "Invalid token"},
		{name: "other algorithm", header: "Bearer " + hs512, wantCode: http.StatusUnauthorized, wantBody: "Invalid token"},
	}
	e := setupAuthEcho()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("body = %s, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestActorFrom_Unset(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, ok := ActorFrom(c); ok {
		t.Fatal("ActorFrom on bare context should be false")
	}
	WithActor(c, auth.Actor{ID: "a", Role: auth.RoleAdmin})
	if a, ok := ActorFrom(c); !ok || a.ID != "a" {
		t.Fatalf("ActorFrom = %+v, %v", a, ok)
	}
}
