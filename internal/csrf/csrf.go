// Package csrf issues and checks double-submit CSRF tokens. A token is an
// HS256-signed JWT handed out in a cookie; unsafe requests must echo the same
// value in a header, and the value must still verify.
package csrf

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "csrftoken"
	HeaderName = "X-CSRFToken"

	// DefaultTTL matches a one-year cookie.
	DefaultTTL = 365 * 24 * time.Hour
)

var (
	ErrMissingCookie = errors.New("csrf cookie missing")
	ErrMissingHeader = errors.New("csrf header missing")
	ErrMismatch      = errors.New("csrf header does not match cookie")
	ErrInvalid       = errors.New("csrf token invalid")
)

// Reason maps a validation error to a short label for logs and metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingCookie):
		return "missing_cookie"
	case errors.Is(err, ErrMissingHeader):
		return "missing_header"
	case errors.Is(err, ErrMismatch):
		return "mismatch"
	default:
		return "invalid"
	}
}

// Issuer signs and verifies tokens with a shared secret.
type Issuer struct {
	secret []byte
	TTL    time.Duration
	Secure bool

	Now func() time.Time
}

// NewIssuer returns an Issuer. The secret must not be empty.
func NewIssuer(secret []byte) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("csrf: empty secret")
	}
	return &Issuer{secret: secret, TTL: DefaultTTL, Now: time.Now}, nil
}

func (i *Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

// Issue mints a token, sets it as a cookie readable by scripts and echoes it
// in the response header for non-browser clients.
func (i *Issuer) Issue(w http.ResponseWriter) (string, error) {
	now := i.now()
	ttl := i.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign csrf token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		Secure:   i.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(HeaderName, token)
	return token, nil
}

// Validate checks the request's cookie and header tokens.
func (i *Issuer) Validate(r *http.Request) error {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return ErrMissingCookie
	}
	header := r.Header.Get(HeaderName)
	if header == "" {
		return ErrMissingHeader
	}
	if subtle.ConstantTimeCompare([]byte(c.Value), []byte(header)) != 1 {
		return ErrMismatch
	}

	_, err = jwt.ParseWithClaims(header, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// IsSafeMethod reports whether method is exempt from CSRF checks.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
