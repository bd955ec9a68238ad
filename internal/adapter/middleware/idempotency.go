package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestAt      = "X-Request-At"

	// how long a reservation survives if the handler never finishes
	provisionalLockTTL = 60 * time.Second
	maxClockSkew       = 10 * time.Minute
	storeTimeout       = 2 * time.Second
)

type recorder struct {
	http.ResponseWriter
	buf  bytes.Buffer
	code int
}

func (r *recorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *recorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Idempotency replays the stored response of a repeated mutating request.
// Requests are keyed by method, route, caller and Idempotency-Key; reusing a
// key with a different body is a conflict. Server errors are not stored so
// the client can retry with the same key. Run it after Auth.
func Idempotency(rdb *redis.Client, ttl time.Duration, log logrus.FieldLogger) echo.MiddlewareFunc {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			idemKey := strings.TrimSpace(req.Header.Get(HeaderIdempotencyKey))
			if idemKey == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"message": "missing " + HeaderIdempotencyKey})
			}
			if !validKey(idemKey) {
				return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid " + HeaderIdempotencyKey + " format"})
			}
			reqAt, err := parseRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
			}
			now := nowUTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return c.JSON(http.StatusBadRequest, map[string]string{"message": HeaderRequestAt + " too skewed"})
			}

			actorID := "anonymous"
			if a, ok := ActorFrom(c); ok {
				actorID = a.ID
			}

			var body []byte
			if req.Body != nil {
				body, err = io.ReadAll(req.Body)
				if err != nil {
					return c.JSON(http.StatusBadRequest, map[string]string{"message": "unreadable body"})
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			hash := bodyHash(body)

			key := buildKey(req.Method, c.Path(), actorID, idemKey)
			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			ok, err := reserve(ctx, rdb, key, entry{InProgress: true, BodySHA256: hash, RequestAtMS: reqAt.UnixMilli(), CreatedAt: now})
			if err != nil {
				log.WithError(err).WithField("key", key).Error("idempotency reserve failed")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"message": "idempotency store unavailable"})
			}
			if !ok {
				cur, err := load(ctx, rdb, key)
				if err != nil {
					log.WithError(err).WithField("key", key).Warn("idempotency load failed")
				}
				if cur.BodySHA256 != "" && cur.BodySHA256 != hash {
					return c.JSON(http.StatusConflict, map[string]string{"message": HeaderIdempotencyKey + " reused with different body"})
				}
				if !cur.InProgress && cur.Code != 0 {
					ct := cur.ContentType
					if ct == "" {
						ct = echo.MIMEApplicationJSONCharsetUTF8
					}
					c.Response().Header().Set("Idempotent-Replayed", "true")
					return c.Blob(cur.Code, ct, cur.Body)
				}
				return c.JSON(http.StatusConflict, map[string]string{"message": "request is already in progress"})
			}

			rec := &recorder{ResponseWriter: c.Response().Writer, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			if rec.code >= http.StatusInternalServerError {
				if err := release(context.Background(), rdb, key); err != nil {
					log.WithError(err).WithField("key", key).Warn("idempotency release failed")
				}
				return nil
			}
			final := entry{
				Code:        rec.code,
				Body:        rec.buf.Bytes(),
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				BodySHA256:  hash,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}
			if err := complete(context.Background(), rdb, key, final, ttl); err != nil {
				log.WithError(err).WithField("key", key).Warn("idempotency store failed")
			}
			return nil
		}
	}
}
