package middleware

import (
	"net/http"
	"sync/atomic"
)

// CountRequests returns middleware that increments requests on every call
// and errors on responses with a 4xx or 5xx status. The counters are shared
// with the metrics endpoint.
func CountRequests(requests, errors *atomic.Int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			if rw.statusCode >= 400 {
				errors.Add(1)
			}
		})
	}
}
