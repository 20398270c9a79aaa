package handlers

import (
	"net/http"
	"testing"
)

func TestCSRF(t *testing.T) {
	env := newTestEnv(t)
	c := env.client()

	rr := c.do("POST", "/signup", map[string]string{"username": "chris", "password": "chris"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("signup without csrf token: got %d, want 403", rr.Code)
	}
	if code := errorCode(t, rr); code != "csrf_rejected" {
		t.Errorf("code: got %q, want csrf_rejected", code)
	}

	c.token()
	if rr := c.do("POST", "/signup", map[string]string{"username": "chris", "password": "chris"}); rr.Code != http.StatusCreated {
		t.Errorf("signup with csrf token: got %d, want 201", rr.Code)
	}
}

func TestCSRF_HeaderMustMatchCookie(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.signedIn("user")

	c.noCSRF = true
	rr := c.do("POST", "/article", map[string]string{"title": "t", "content": "c"})
	if rr.Code != http.StatusForbidden || errorCode(t, rr) != "csrf_rejected" {
		t.Errorf("post without header: got %d", rr.Code)
	}

	list, _ := env.db.Articles().List(t.Context())
	if len(list) != 0 {
		t.Errorf("rejected request created %d articles", len(list))
	}
}

func TestCSRF_CheckedBeforeAuthentication(t *testing.T) {
	env := newTestEnv(t)
	anon := env.client()

	if rr := anon.do("POST", "/article", map[string]string{"title": "t", "content": "c"}); rr.Code != http.StatusForbidden {
		t.Errorf("anonymous POST without token: got %d, want 403", rr.Code)
	}
	anon.token()
	if rr := anon.do("POST", "/article", map[string]string{"title": "t", "content": "c"}); rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous POST with token: got %d, want 401", rr.Code)
	}
}

func TestMethodNotAllowed_EveryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.signedIn("owner")
	a := createArticle(t, owner, "t", "c")
	cm := createComment(t, owner, a, "x")

	tests := []struct {
		path    string
		methods []string
	}{
		{"/signup", []string{"GET", "PUT", "DELETE"}},
		{"/signin", []string{"GET", "PUT", "DELETE"}},
		{"/signout", []string{"POST", "PUT", "DELETE"}},
		{"/token", []string{"POST", "PUT", "DELETE"}},
		{"/article", []string{"PUT", "DELETE", "PATCH"}},
		{pathf("/article/%d", a), []string{"POST", "PATCH"}},
		{pathf("/article/%d/comment", a), []string{"PUT", "DELETE"}},
		{pathf("/comment/%d", cm), []string{"POST", "PATCH"}},
	}
	for _, tt := range tests {
		for _, m := range tt.methods {
			// no token and no session: 405 must still win
			anon := env.client()
			if rr := anon.do(m, tt.path, map[string]string{"title": "x", "content": "x"}); rr.Code != http.StatusMethodNotAllowed {
				t.Errorf("%s %s: got %d, want 405", m, tt.path, rr.Code)
			}
		}
	}

	got, err := env.db.Articles().GetByID(t.Context(), a)
	if err != nil || got.Title != "t" {
		t.Errorf("article changed by rejected requests: %+v, %v", got, err)
	}
}

func TestUnauthenticatedBeforeNotFound(t *testing.T) {
	env := newTestEnv(t)
	anon := env.client()
	anon.token()

	tests := []struct{ method, path string }{
		{"GET", "/article"},
		{"POST", "/article"},
		{"GET", "/article/999"},
		{"PUT", "/article/999"},
		{"DELETE", "/article/999"},
		{"GET", "/article/999/comment"},
		{"POST", "/article/999/comment"},
		{"GET", "/comment/999"},
		{"PUT", "/comment/999"},
		{"DELETE", "/comment/999"},
	}
	for _, tt := range tests {
		rr := anon.do(tt.method, tt.path, map[string]string{"title": "t", "content": "c"})
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: got %d, want 401", tt.method, tt.path, rr.Code)
		}
	}
}
