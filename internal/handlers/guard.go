package handlers

import (
	"net/http"
	"strings"

	"github.com/crucial707/blog-api/internal/csrf"
	"github.com/crucial707/blog-api/internal/metrics"
	"github.com/crucial707/blog-api/internal/session"
)

// CallerHandlerFunc is a handler that runs only for a signed-in caller.
type CallerHandlerFunc func(w http.ResponseWriter, r *http.Request, caller session.Caller)

// Guard runs the checks every endpoint shares, in this order:
//
//  1. method allowed, else 405
//  2. CSRF token valid for unsafe methods, else 403 csrf_rejected
//  3. session present (Protect only), else 401
//
// Existence (404) and ownership (403) are checked by the handlers after
// that, and nothing is written to a store before all checks pass.
type Guard struct {
	CSRF     *csrf.Issuer
	Sessions *session.Manager
}

// Open wraps fn with the method and CSRF checks.
func (g *Guard) Open(fn http.HandlerFunc, methods ...string) http.HandlerFunc {
	allowed := allowSet(methods)
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.precheck(w, r, allowed) {
			return
		}
		fn(w, r)
	}
}

// Protect wraps fn with the method, CSRF and session checks and hands it
// the resolved caller.
func (g *Guard) Protect(fn CallerHandlerFunc, methods ...string) http.HandlerFunc {
	allowed := allowSet(methods)
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.precheck(w, r, allowed) {
			return
		}
		caller, ok, err := g.Sessions.Resolve(r.Context(), r)
		if err != nil {
			internalError(w, r, "resolve session", err)
			return
		}
		if !ok {
			reject(w, errUnauthenticated)
			return
		}
		fn(w, r, caller)
	}
}

type methodSet struct {
	methods map[string]bool
	header  string
}

func allowSet(methods []string) methodSet {
	m := make(map[string]bool, len(methods))
	for _, method := range methods {
		m[method] = true
	}
	return methodSet{methods: m, header: strings.Join(methods, ", ")}
}

func (g *Guard) precheck(w http.ResponseWriter, r *http.Request, allowed methodSet) bool {
	if !allowed.methods[r.Method] {
		w.Header().Set("Allow", allowed.header)
		reject(w, errMethodNotAllowed)
		return false
	}
	if !csrf.IsSafeMethod(r.Method) {
		if err := g.CSRF.Validate(r); err != nil {
			metrics.IncAuthRejection("csrf_" + csrf.Reason(err))
			writeAPIError(w, errCSRFRejected)
			return false
		}
	}
	return true
}

// reject writes e and counts it.
func reject(w http.ResponseWriter, e apiError) {
	metrics.IncAuthRejection(e.Code)
	writeAPIError(w, e)
}
