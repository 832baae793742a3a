package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// LoginRateLimit returns an HTTP middleware that limits login attempts per
// client IP to the specified number per minute, damping credential-stuffing
// and brute-force runs. Uses a sliding window.
func LoginRateLimit(attemptsPerMinute int) func(http.Handler) http.Handler {
	return httprate.LimitByIP(attemptsPerMinute, time.Minute)
}

// RateLimit returns a general per-IP request limit for the whole API.
func RateLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.LimitByIP(requestsPerMinute, time.Minute)
}
