package middleware

import (
	"net/http"
)

// DefaultBodyLimit applies when the configured limit is not positive.
const DefaultBodyLimit = 1 << 20

// BodyLimit caps request bodies of writes at limit bytes. Reads past the cap
// fail with *http.MaxBytesError, which the JSON decoder surfaces as a 413
// only after the request has passed the auth checks.
func BodyLimit(limit int64) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = DefaultBodyLimit
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if carriesBody(r) {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func carriesBody(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
