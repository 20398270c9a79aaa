package handlers

import (
	"errors"
	"net/http"

	"github.com/crucial707/blog-api/internal/repo"
	"github.com/crucial707/blog-api/internal/session"
)

type CommentHandler struct {
	Comments repo.CommentStore
}

//
// ==========================
// /comment/{id} (GET, PUT, DELETE)
// ==========================
//

func (h *CommentHandler) Item(w http.ResponseWriter, r *http.Request, caller session.Caller) {
	id, ok := pathID(r)
	if !ok {
		reject(w, errNotFound)
		return
	}
	comment, err := h.Comments.GetByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		reject(w, errNotFound)
		return
	}
	if err != nil {
		internalError(w, r, "get comment", err)
		return
	}

	if r.Method == http.MethodGet {
		writeJSON(w, r, http.StatusOK, comment)
		return
	}

	if comment.AuthorID != caller.UserID {
		reject(w, errForbidden)
		return
	}

	switch r.Method {
	case http.MethodPut:
		var input commentInput
		if !decodeInput(w, r, &input) {
			return
		}
		updated, err := h.Comments.Update(r.Context(), comment.ID, *input.Content)
		if errors.Is(err, repo.ErrNotFound) {
			reject(w, errNotFound)
			return
		}
		if err != nil {
			internalError(w, r, "update comment", err)
			return
		}
		writeJSON(w, r, http.StatusOK, updated)

	case http.MethodDelete:
		err := h.Comments.Delete(r.Context(), comment.ID)
		if errors.Is(err, repo.ErrNotFound) {
			reject(w, errNotFound)
			return
		}
		if err != nil {
			internalError(w, r, "delete comment", err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
