package handlers

import (
	"errors"
	"net/http"

	"github.com/crucial707/blog-api/internal/models"
	"github.com/crucial707/blog-api/internal/repo"
	"github.com/crucial707/blog-api/internal/session"
)

type ArticleHandler struct {
	Articles repo.ArticleStore
	Comments repo.CommentStore
}

type articleInput struct {
	Title   *string `json:"title" validate:"required"`
	Content *string `json:"content" validate:"required"`
}

type commentInput struct {
	Content *string `json:"content" validate:"required"`
}

//
// ==========================
// /article (GET list, POST create)
// ==========================
//

func (h *ArticleHandler) Collection(w http.ResponseWriter, r *http.Request, caller session.Caller) {
	switch r.Method {
	case http.MethodGet:
		articles, err := h.Articles.List(r.Context())
		if err != nil {
			internalError(w, r, "list articles", err)
			return
		}
		writeJSON(w, r, http.StatusOK, articles)

	case http.MethodPost:
		var input articleInput
		if !decodeInput(w, r, &input) {
			return
		}
		article, err := h.Articles.Create(r.Context(), caller.UserID, *input.Title, *input.Content)
		if err != nil {
			internalError(w, r, "create article", err)
			return
		}
		writeJSON(w, r, http.StatusCreated, article)
	}
}

//
// ==========================
// /article/{id} (GET, PUT, DELETE)
// ==========================
//

func (h *ArticleHandler) Item(w http.ResponseWriter, r *http.Request, caller session.Caller) {
	article, ok := h.load(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		writeJSON(w, r, http.StatusOK, article)
		return
	}

	if article.AuthorID != caller.UserID {
		reject(w, errForbidden)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var input articleInput
		if !decodeInput(w, r, &input) {
			return
		}
		updated, err := h.Articles.Update(r.Context(), article.ID, *input.Title, *input.Content)
		if errors.Is(err, repo.ErrNotFound) {
			reject(w, errNotFound)
			return
		}
		if err != nil {
			internalError(w, r, "update article", err)
			return
		}
		writeJSON(w, r, http.StatusOK, updated)

	case http.MethodDelete:
		err := h.Articles.Delete(r.Context(), article.ID)
		if errors.Is(err, repo.ErrNotFound) {
			reject(w, errNotFound)
			return
		}
		if err != nil {
			internalError(w, r, "delete article", err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

//
// ==========================
// /article/{id}/comment (GET list, POST create)
// ==========================
//

func (h *ArticleHandler) CommentCollection(w http.ResponseWriter, r *http.Request, caller session.Caller) {
	article, ok := h.load(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		comments, err := h.Comments.ListByArticle(r.Context(), article.ID)
		if err != nil {
			internalError(w, r, "list comments", err)
			return
		}
		writeJSON(w, r, http.StatusOK, comments)

	case http.MethodPost:
		var input commentInput
		if !decodeInput(w, r, &input) {
			return
		}
		comment, err := h.Comments.Create(r.Context(), article.ID, caller.UserID, *input.Content)
		if errors.Is(err, repo.ErrNotFound) {
			reject(w, errNotFound)
			return
		}
		if err != nil {
			internalError(w, r, "create comment", err)
			return
		}
		writeJSON(w, r, http.StatusCreated, comment)
	}
}

// load fetches the article named by {id}, writing 404 when it is missing.
func (h *ArticleHandler) load(w http.ResponseWriter, r *http.Request) (*models.Article, bool) {
	id, ok := pathID(r)
	if !ok {
		reject(w, errNotFound)
		return nil, false
	}
	article, err := h.Articles.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		reject(w, errNotFound)
		return nil, false
	}
	if err != nil {
		internalError(w, r, "get article", err)
		return nil, false
	}
	return article, true
}
