package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"immofolio/models"
)

func (a *API) handleCommentCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := a.store.CommentCounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count comments")
		return
	}

	// uuid keys serialize fine as strings.
	out := make(map[string]int, len(counts))
	for id, n := range counts {
		out[id.String()] = n
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := annonceID(w, r)
	if !ok {
		return
	}

	comments, err := a.store.ListComments(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list comments")
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

type createCommentRequest struct {
	Content string `json:"content"`
}

func (a *API) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := annonceID(w, r)
	if !ok {
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	user := userFrom(r.Context())
	comment := &models.Comment{
		AnnonceID: id,
		UserID:    user.UserID,
		Username:  user.Username,
		Content:   req.Content,
	}
	if err := a.store.CreateComment(r.Context(), comment); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// handleDeleteComment only lets the author remove their own comment.
func (a *API) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	comment, err := a.store.GetComment(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load comment")
		return
	}
	if comment == nil {
		writeError(w, http.StatusNotFound, "comment not found")
		return
	}

	user := userFrom(r.Context())
	if comment.UserID != user.UserID {
		writeError(w, http.StatusForbidden, "not your comment")
		return
	}

	if err := a.store.DeleteComment(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete comment")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
