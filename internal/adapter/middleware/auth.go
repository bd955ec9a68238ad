package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"loanapp-backend/internal/domain/auth"
)

const actorKey = "actor"

// Claims is the bearer token payload: the user id and role.
type Claims struct {
	ID   string    `json:"id"`
	Role auth.Role `json:"role"`
	jwt.RegisteredClaims
}

// Auth verifies an HS256 bearer token and stores the caller as an auth.Actor.
func Auth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(echo.HeaderAuthorization)
			tok, found := strings.CutPrefix(raw, "Bearer ")
			tok = strings.TrimSpace(tok)
			if !found || tok == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "No token provided"})
			}
			actor, err := ParseToken(secret, tok)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid token"})
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

var errMissingIdentity = errors.New("token carries no id or role")

func ParseToken(secret []byte, tok string) (auth.Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return auth.Actor{}, err
	}
	if claims.ID == "" || claims.Role == "" {
		return auth.Actor{}, errMissingIdentity
	}
	return auth.Actor{ID: claims.ID, Role: claims.Role}, nil
}

// IssueToken signs a token for actor; a zero ttl means no expiry.
func IssueToken(secret []byte, actor auth.Actor, ttl time.Duration) (string, error) {
	claims := Claims{ID: actor.ID, Role: actor.Role}
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	if ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ActorFrom returns the caller stored by Auth.
func ActorFrom(c echo.Context) (auth.Actor, bool) {
	a, ok := c.Get(actorKey).(auth.Actor)
	return a, ok
}

// WithActor stores actor on c as Auth would; handy in handler tests.
func WithActor(c echo.Context, actor auth.Actor) {
	c.Set(actorKey, actor)
}
