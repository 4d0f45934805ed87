package handler

import (
	"context"
	"github.com/google/uuid"
	"github.com/rookgm/foodorder/internal/logger"
	"github.com/rookgm/foodorder/internal/models"
	"github.com/rookgm/foodorder/internal/service"
	"go.uber.org/zap"
	"net"
	"net/http"
	"strings"
)

type contextKey string

const (
	authPayloadKey contextKey = "auth_payload"
)

// AuthMiddleware gets the session token from the cookie or the bearer header,
// verifies it and passes its payload to the context
func AuthMiddleware(ts service.TokenService, cookieName string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				cookie, err := r.Cookie(cookieName)
				if err != nil {
					writeError(w, models.ErrUnauthorized)
					return
				}
				token = cookie.Value
			}

			payload, err := ts.VerifyToken(token)
			if err != nil {
				writeError(w, models.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authPayloadKey, payload)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Limiter decides whether a request of key may proceed
type Limiter interface {
	Allow(key string) bool
}

// RateLimitMiddleware limits requests per endpoint path and client ip
func RateLimitMiddleware(l Limiter) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.URL.Path + "|" + clientIP(r)
			if !l.Allow(key) {
				logger.Log.Info("rate limited", zap.String("key", key))
				writeError(w, models.ErrRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getAuthPayload extracts authorization token payload from context
func getAuthPayload(ctx context.Context, key contextKey) (*models.TokenPayload, bool) {
	payload, ok := ctx.Value(key).(*models.TokenPayload)
	if !ok || payload == nil || payload.UserID == uuid.Nil {
		return nil, false
	}
	return payload, true
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// clientIP returns host part of RemoteAddr, chi RealIP puts the forwarded address there
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
