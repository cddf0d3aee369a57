package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"courselibrary/api/web"
)

// Panics converts a panic in the handler chain into an error so it flows
// through the Errors middleware like any other failure.
func Panics() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {

			defer func() {
				if rec := recover(); rec != nil {
					trace := debug.Stack()
					err = fmt.Errorf("PANIC [%v] TRACE[%s]", rec, string(trace))
				}
			}()

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
