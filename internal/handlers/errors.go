package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// apiError is one terminal failure of the request checks. Each kind has its
// own code so a CSRF 403 can be told apart from an ownership 403.
type apiError struct {
	Status  int
	Code    string
	Message string
}

var (
	errMethodNotAllowed = apiError{http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed"}
	errCSRFRejected     = apiError{http.StatusForbidden, "csrf_rejected", "csrf token missing or invalid"}
	errUnauthenticated  = apiError{http.StatusUnauthorized, "unauthenticated", "authentication required"}
	errNotFound         = apiError{http.StatusNotFound, "not_found", "not found"}
	errForbidden        = apiError{http.StatusForbidden, "forbidden", "only the author may modify this resource"}
	errBadCredentials   = apiError{http.StatusUnauthorized, "unauthenticated", "invalid credentials"}
	errUsernameTaken    = apiError{http.StatusConflict, "conflict", "username already taken"}
)

// JSONError sends a JSON error response with "error" and a "code" derived from status.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeAPIError(w, apiError{Status: status, Code: codeFor(status), Message: message})
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusRequestEntityTooLarge:
		return "too_large"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]interface{}{"error": message, "code": "bad_request"}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}

// NotFound answers paths no route matches.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeAPIError(w, errNotFound)
}

// MethodNotAllowed answers router-level 405s, such as POST /health. The
// Allow header lists the methods the mux would route for the same path.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.Routes != nil {
		path := rctx.RoutePath
		if path == "" {
			path = r.URL.Path
		}
		var allowed []string
		for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
			if rctx.Routes.Match(chi.NewRouteContext(), m, path) {
				allowed = append(allowed, m)
			}
		}
		if len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}
	}
	writeAPIError(w, errMethodNotAllowed)
}

func writeAPIError(w http.ResponseWriter, e apiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	json.NewEncoder(w).Encode(map[string]string{"error": e.Message, "code": e.Code})
}

// internalError logs err with the request id and sends a bare 500.
func internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg,
		"request_id", chimw.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err)
	JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
}
