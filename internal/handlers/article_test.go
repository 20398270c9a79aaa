package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/blog-api/internal/memstore"
	"github.com/crucial707/blog-api/internal/models"
	"github.com/crucial707/blog-api/internal/repo"
	"github.com/crucial707/blog-api/internal/session"
)

func pathf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

func createArticle(t *testing.T, c *testClient, title, content string) int {
	t.Helper()
	rr := c.do("POST", "/article", map[string]string{"title": title, "content": content})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create article: got %d: %s", rr.Code, rr.Body.String())
	}
	var a models.Article
	decodeBody(t, rr, &a)
	return a.ID
}

func createComment(t *testing.T, c *testClient, articleID int, content string) int {
	t.Helper()
	rr := c.do("POST", pathf("/article/%d/comment", articleID), map[string]string{"content": content})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create comment: got %d: %s", rr.Code, rr.Body.String())
	}
	var cm models.Comment
	decodeBody(t, rr, &cm)
	return cm.ID
}

// Walks the article lifecycle across an owner and a second user.
func TestArticle_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceID := env.signedIn("alice")
	bob, _ := env.signedIn("bob")

	rr := alice.do("POST", "/article", map[string]string{"title": "t", "content": "c"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d, want 201", rr.Code)
	}
	var created models.Article
	decodeBody(t, rr, &created)
	if created.ID == 0 || created.Title != "t" || created.Content != "c" {
		t.Fatalf("unexpected created article: %+v", created)
	}
	path := pathf("/article/%d", created.ID)

	rr = alice.do("GET", path, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get: got %d, want 200", rr.Code)
	}
	var got models.Article
	decodeBody(t, rr, &got)
	if got.Title != "t" || got.Content != "c" || got.AuthorID != aliceID {
		t.Errorf("unexpected article: %+v (alice=%d)", got, aliceID)
	}

	if rr := bob.do("GET", path, nil); rr.Code != http.StatusOK {
		t.Errorf("non-owner get: got %d, want 200", rr.Code)
	}
	rr = bob.do("PUT", path, map[string]string{"title": "hacked", "content": "hacked"})
	if rr.Code != http.StatusForbidden {
		t.Errorf("non-owner put: got %d, want 403", rr.Code)
	}
	if code := errorCode(t, rr); code != "forbidden" {
		t.Errorf("non-owner put code: got %q, want forbidden", code)
	}
	if rr := bob.do("DELETE", path, nil); rr.Code != http.StatusForbidden {
		t.Errorf("non-owner delete: got %d, want 403", rr.Code)
	}

	rr = alice.do("PUT", path, map[string]string{"title": "t2", "content": "c2"})
	if rr.Code != http.StatusOK {
		t.Fatalf("owner put: got %d, want 200", rr.Code)
	}
	var updated models.Article
	decodeBody(t, rr, &updated)
	if updated.ID != created.ID || updated.Title != "t2" || updated.Content != "c2" || updated.AuthorID != aliceID {
		t.Errorf("unexpected updated article: %+v", updated)
	}

	if rr := alice.do("DELETE", path, nil); rr.Code != http.StatusOK {
		t.Errorf("owner delete: got %d, want 200", rr.Code)
	}
	if rr := alice.do("GET", path, nil); rr.Code != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want 404", rr.Code)
	}
}

func TestArticle_List(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceID := env.signedIn("alice")
	bob, bobID := env.signedIn("bob")

	createArticle(t, alice, "a", "1")
	createArticle(t, bob, "b", "2")

	rr := alice.do("GET", "/article", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: got %d, want 200", rr.Code)
	}
	var list []map[string]interface{}
	decodeBody(t, rr, &list)
	if len(list) != 2 {
		t.Fatalf("list length: got %d, want 2", len(list))
	}
	authors := map[float64]bool{}
	for _, a := range list {
		for _, k := range []string{"id", "title", "content", "author"} {
			if _, ok := a[k]; !ok {
				t.Errorf("article missing %q: %v", k, a)
			}
		}
		authors[a["author"].(float64)] = true
	}
	if !authors[float64(aliceID)] || !authors[float64(bobID)] {
		t.Errorf("authors: %v", authors)
	}
}

func TestArticle_EmptyListIsArray(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.signedIn("alice")

	rr := c.do("GET", "/article", nil)
	if body := rr.Body.String(); body != "[]\n" {
		t.Errorf("empty list body: got %q, want []", body)
	}
}

func TestArticle_NotFound(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.signedIn("alice")

	for _, m := range []string{"GET", "PUT", "DELETE"} {
		if rr := c.do(m, "/article/404", map[string]string{"title": "t", "content": "c"}); rr.Code != http.StatusNotFound {
			t.Errorf("%s missing article: got %d, want 404", m, rr.Code)
		}
	}
	rr := c.do("GET", "/article/abc", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("non-numeric id: got %d, want 404", rr.Code)
	} else if code := errorCode(t, rr); code != "not_found" {
		t.Errorf("non-numeric id code: got %q, want not_found", code)
	}
	if rr := c.do("GET", "/article/99999999999999999999999", nil); rr.Code != http.StatusNotFound {
		t.Errorf("overflowing id: got %d, want 404", rr.Code)
	}
}

func TestArticle_CreateRequiresFields(t *testing.T) {
	env := newTestEnv(t)
	c, _ := env.signedIn("alice")

	if rr := c.do("POST", "/article", map[string]string{"title": "only title"}); rr.Code != http.StatusBadRequest {
		t.Errorf("missing content: got %d, want 400", rr.Code)
	}
	if rr := c.do("POST", "/article", map[string]string{"title": "", "content": ""}); rr.Code != http.StatusCreated {
		t.Errorf("empty strings are present values: got %d, want 201", rr.Code)
	}
}

func TestArticle_OwnershipCheckedBeforeBody(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.signedIn("alice")
	bob, _ := env.signedIn("bob")
	id := createArticle(t, alice, "t", "c")

	if rr := bob.do("PUT", pathf("/article/%d", id), "{broken"); rr.Code != http.StatusForbidden {
		t.Errorf("non-owner with bad body: got %d, want 403", rr.Code)
	}
	if rr := alice.do("PUT", pathf("/article/%d", id), "{broken"); rr.Code != http.StatusBadRequest {
		t.Errorf("owner with bad body: got %d, want 400", rr.Code)
	}
}

func TestArticle_DeleteCascadesComments(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.signedIn("alice")
	bob, _ := env.signedIn("bob")

	id := createArticle(t, alice, "t", "c")
	other := createArticle(t, alice, "o", "o")
	c1 := createComment(t, bob, id, "first")
	c2 := createComment(t, alice, id, "second")
	kept := createComment(t, bob, other, "elsewhere")

	if rr := alice.do("DELETE", pathf("/article/%d", id), nil); rr.Code != http.StatusOK {
		t.Fatalf("delete: got %d, want 200", rr.Code)
	}
	for _, cid := range []int{c1, c2} {
		if rr := bob.do("GET", pathf("/comment/%d", cid), nil); rr.Code != http.StatusNotFound {
			t.Errorf("comment %d after article delete: got %d, want 404", cid, rr.Code)
		}
	}
	if rr := bob.do("GET", pathf("/comment/%d", kept), nil); rr.Code != http.StatusOK {
		t.Errorf("unrelated comment: got %d, want 200", rr.Code)
	}
	if rr := bob.do("GET", pathf("/article/%d/comment", id), nil); rr.Code != http.StatusNotFound {
		t.Errorf("comments of deleted article: got %d, want 404", rr.Code)
	}
}

func TestArticle_CommentCollection(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceID := env.signedIn("alice")
	bob, bobID := env.signedIn("bob")

	id := createArticle(t, alice, "t", "c")
	other := createArticle(t, alice, "o", "o")
	createComment(t, alice, id, "from alice")
	createComment(t, bob, id, "from bob")
	createComment(t, bob, other, "not listed")

	rr := bob.do("GET", pathf("/article/%d/comment", id), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list comments: got %d, want 200", rr.Code)
	}
	var list []models.Comment
	decodeBody(t, rr, &list)
	if len(list) != 2 {
		t.Fatalf("comments: got %d, want 2", len(list))
	}
	if list[0].ArticleID != id || list[0].AuthorID != aliceID || list[1].AuthorID != bobID {
		t.Errorf("unexpected comments: %+v", list)
	}

	if rr := bob.do("POST", "/article/999/comment", map[string]string{"content": "x"}); rr.Code != http.StatusNotFound {
		t.Errorf("comment on missing article: got %d, want 404", rr.Code)
	}
	if rr := bob.do("POST", pathf("/article/%d/comment", id), map[string]string{}); rr.Code != http.StatusBadRequest {
		t.Errorf("comment without content: got %d, want 400", rr.Code)
	}
}

func TestArticleHandler_Item_Direct(t *testing.T) {
	db := memstore.New()
	a, _ := db.Articles().Create(t.Context(), 1, "t", "c")
	h := &ArticleHandler{Articles: db.Articles(), Comments: db.Comments()}

	req := requestWithChiURLParams("GET", "/article/1", nil, map[string]string{"id": "1"})
	rr := httptest.NewRecorder()
	h.Item(rr, req, session.Caller{UserID: 2})

	if rr.Code != http.StatusOK {
		t.Fatalf("Item status: got %d, want 200", rr.Code)
	}
	var got models.Article
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got != *a {
		t.Errorf("unexpected article: %+v", got)
	}

	body, _ := json.Marshal(map[string]string{"title": "x", "content": "y"})
	req = requestWithChiURLParams("DELETE", "/article/1", body, map[string]string{"id": "1"})
	rr = httptest.NewRecorder()
	h.Item(rr, req, session.Caller{UserID: 2})
	if rr.Code != http.StatusForbidden {
		t.Errorf("non-owner delete: got %d, want 403", rr.Code)
	}
}

func TestHandlers_IDPastIntegerKeyIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	articles := &ArticleHandler{Articles: repo.NewArticleRepo(db), Comments: repo.NewCommentRepo(db)}
	comments := &CommentHandler{Comments: repo.NewCommentRepo(db)}
	caller := session.Caller{UserID: 1}

	tests := []struct {
		name   string
		path   string
		handle func(http.ResponseWriter, *http.Request, session.Caller)
	}{
		{"article", "/article/2147483648", articles.Item},
		{"article comments", "/article/2147483648/comment", articles.CommentCollection},
		{"comment", "/comment/2147483648", comments.Item},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := requestWithChiURLParams("GET", tc.path, nil, map[string]string{"id": "2147483648"})
			rr := httptest.NewRecorder()
			tc.handle(rr, req, caller)
			if rr.Code != http.StatusNotFound {
				t.Fatalf("status: got %d, want 404 (%s)", rr.Code, rr.Body.String())
			}
			if code := errorCode(t, rr); code != "not_found" {
				t.Errorf("code: got %q, want not_found", code)
			}
		})
	}

	// No query may reach the database with an out-of-range key.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
