package middleware

import (
	"net/http"

	"github.com/cloo-solutions/geomed/internal/api"
)

// LimitBody caps request bodies at limit bytes. A declared Content-Length over the
// limit is refused before the handler runs; a streamed body fails on read and the
// handler reports it via api.BodyTooLarge.
func LimitBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Body == nil || r.Body == http.NoBody:
			case r.ContentLength > limit:
				api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			default:
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
