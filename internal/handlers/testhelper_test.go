package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crucial707/blog-api/internal/auth"
	"github.com/crucial707/blog-api/internal/csrf"
	"github.com/crucial707/blog-api/internal/memstore"
	"github.com/crucial707/blog-api/internal/session"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// testEnv is the full endpoint set over an in-memory store.
type testEnv struct {
	t      *testing.T
	db     *memstore.DB
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := memstore.New()
	issuer, err := csrf.NewIssuer([]byte("test-secret"))
	if err != nil {
		t.Fatalf("csrf.NewIssuer: %v", err)
	}
	sessions := session.NewManager(db.Sessions())

	g := &Guard{CSRF: issuer, Sessions: sessions}
	a := &AuthHandler{
		Directory: auth.NewDirectory(db.Users(), bcrypt.MinCost),
		Sessions:  sessions,
		CSRF:      issuer,
	}
	r := chi.NewRouter()
	RegisterRoutes(r, g, a,
		&ArticleHandler{Articles: db.Articles(), Comments: db.Comments()},
		&CommentHandler{Comments: db.Comments()},
	)
	return &testEnv{t: t, db: db, router: r}
}

// testClient is one browser: it keeps cookies between requests and echoes
// the CSRF cookie in the header like a well-behaved front end.
type testClient struct {
	env     *testEnv
	cookies map[string]*http.Cookie
	noCSRF  bool
}

func (e *testEnv) client() *testClient {
	return &testClient{env: e, cookies: map[string]*http.Cookie{}}
}

func (c *testClient) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				c.env.t.Fatalf("encode body: %v", err)
			}
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	if tok, ok := c.cookies[csrf.CookieName]; ok && !c.noCSRF {
		req.Header.Set(csrf.HeaderName, tok.Value)
	}

	rr := httptest.NewRecorder()
	c.env.router.ServeHTTP(rr, req)

	for _, ck := range rr.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rr
}

func (c *testClient) token() {
	c.env.t.Helper()
	if rr := c.do("GET", "/token", nil); rr.Code != http.StatusNoContent {
		c.env.t.Fatalf("GET /token: got %d, want 204", rr.Code)
	}
}

// signedIn returns a client that has signed up and signed in as username,
// plus the new user's id.
func (e *testEnv) signedIn(username string) (*testClient, int) {
	e.t.Helper()
	c := e.client()
	c.token()

	creds := map[string]string{"username": username, "password": "pw-" + username}
	rr := c.do("POST", "/signup", creds)
	if rr.Code != http.StatusCreated {
		e.t.Fatalf("signup %s: got %d: %s", username, rr.Code, rr.Body.String())
	}
	var out struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		e.t.Fatalf("decode signup: %v", err)
	}

	if rr := c.do("POST", "/signin", creds); rr.Code != http.StatusNoContent {
		e.t.Fatalf("signin %s: got %d", username, rr.Code)
	}
	return c, out.ID
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var out map[string]interface{}
	decodeBody(t, rr, &out)
	code, _ := out["code"].(string)
	return code
}

// requestWithChiURLParams returns a request with chi route context and URL params set.
func requestWithChiURLParams(method, path string, body []byte, params map[string]string) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	return r
}
