package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"courselibrary/api/web"
	"courselibrary/api/weberr"
	"courselibrary/rate"
)

// RateLimit rejects requests from clients exceeding their token bucket.
// Clients are keyed by remote IP.
func RateLimit(lim *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !lim.Check(ip) {
				err := errors.New("rate limit exceeded")
				return weberr.NewError(err, err.Error(), http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
