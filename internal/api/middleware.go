/**
 * @description
 * This file contains credential extraction helpers and the rate-limiting
 * middleware. Rate limits are keyed on the caller's remote address, the way
 * the service has always budgeted per-route traffic.
 */

package api

import (
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/app"
	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
)

// apiKeyFromRequest pulls the API key from the X-Api-Key header.
func apiKeyFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Api-Key"))
}

// bearerTokenFromRequest pulls the bearer token from the Authorization
// header, accepting both "Bearer <token>" and a bare token.
func bearerTokenFromRequest(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// credentialFromRequest picks the extraction matching the credential family.
func credentialFromRequest(r *http.Request, scheme domain.CredentialScheme) string {
	if scheme == domain.SchemeAPIKey {
		return apiKeyFromRequest(r)
	}
	return bearerTokenFromRequest(r)
}

// remoteAddress strips the port from RemoteAddr so one caller maps to one
// rate-limit subject.
func remoteAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit enforces a per-minute budget for one route scope. A nil limiter
// passes everything through.
func RateLimit(limiter *app.RedisRateLimiter, scope string, perMinute int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || perMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			count, retryAfter, err := limiter.ConsumeRateLimit(r.Context(), scope, remoteAddress(r), perMinute, time.Minute)
			if err != nil {
				// Redis trouble must not take the API down.
				log.Printf("level=warn component=ratelimit msg=\"limiter unavailable; allowing request\" scope=%s err=%v", scope, err)
				next.ServeHTTP(w, r)
				return
			}
			if count > perMinute {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
