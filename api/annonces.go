package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"immofolio/models"
	"immofolio/services"
)

func (a *API) handleListAnnonces(w http.ResponseWriter, r *http.Request) {
	annonces, err := a.store.ListAnnonces(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list annonces")
		return
	}
	writeJSON(w, http.StatusOK, annonces)
}

type createFromURLRequest struct {
	URL string `json:"url"`
}

func (a *API) handleCreateFromURL(w http.ResponseWriter, r *http.Request) {
	var req createFromURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	annonce, err := a.annonces.CreateFromURL(r.Context(), req.URL)
	if errors.Is(err, services.ErrDuplicateAnnonce) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   "annonce already exists",
			"annonce": annonce,
		})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create annonce")
		return
	}
	writeJSON(w, http.StatusCreated, annonce)
}

func (a *API) handleCreateAnnonce(w http.ResponseWriter, r *http.Request) {
	var annonce models.Annonce
	if err := json.NewDecoder(r.Body).Decode(&annonce); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if annonce.ExternalURL == "" {
		writeError(w, http.StatusBadRequest, "external_url is required")
		return
	}

	created, err := a.annonces.CreateManual(r.Context(), &annonce)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create annonce")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleUpdateAnnonce(w http.ResponseWriter, r *http.Request) {
	id, ok := annonceID(w, r)
	if !ok {
		return
	}

	var update models.AnnonceUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	annonce, err := a.store.UpdateAnnonce(r.Context(), id, &update)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update annonce")
		return
	}
	if annonce == nil {
		writeError(w, http.StatusNotFound, "annonce not found")
		return
	}
	writeJSON(w, http.StatusOK, annonce)
}

func (a *API) handleDismissAnnonce(w http.ResponseWriter, r *http.Request) {
	id, ok := annonceID(w, r)
	if !ok {
		return
	}

	annonce, err := a.store.DismissAnnonce(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to dismiss annonce")
		return
	}
	if annonce == nil {
		writeError(w, http.StatusNotFound, "annonce not found")
		return
	}
	writeJSON(w, http.StatusOK, annonce)
}

func (a *API) handleDeleteAnnonce(w http.ResponseWriter, r *http.Request) {
	id, ok := annonceID(w, r)
	if !ok {
		return
	}

	deleted, err := a.store.DeleteAnnonce(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete annonce")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "annonce not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func annonceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid annonce id")
		return uuid.Nil, false
	}
	return id, true
}
