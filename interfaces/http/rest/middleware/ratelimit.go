package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"photoshare/pkg/auth"
	pkgerrors "photoshare/pkg/errors"

	"go.uber.org/zap"
)

// RateLimitConfig describes a per client IP limit
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// RateLimit rejects clients that exceed cfg with 429. Limiter errors fail open.
func RateLimit(limiter auth.RateLimiter, cfg RateLimitConfig, errs *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	ipLimiter := auth.NewIPRateLimiter(limiter)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			allowed, err := ipLimiter.Allow(r.Context(), ip)
			if err != nil {
				logger.Warn("Rate limiter unavailable", zap.String("ip", ip), zap.Error(err))
			}
			if !allowed && err == nil {
				w.Header().Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
				errs.Handle(w, r, pkgerrors.NewRateLimitError(cfg.Limit, cfg.Window.String()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP expects chi's RealIP to have run, so RemoteAddr is the client
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
