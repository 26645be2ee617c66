package restapi

import (
	"fmt"
	"net/http"
)

// CacheControlMiddleware sets the response caching policy. Every payload
// carries per-tenant operator data, so positive durations permit only
// private caching; zero or negative disables caching outright.
func CacheControlMiddleware(durationSeconds int, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if durationSeconds > 0 {
			w.Header().Set("Cache-Control", fmt.Sprintf("private, max-age=%d", durationSeconds))
		} else {
			w.Header().Set("Cache-Control", "no-store")
		}

		next.ServeHTTP(w, r)
	})
}
