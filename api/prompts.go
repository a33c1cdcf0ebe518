package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (a *API) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	prompts, err := a.store.ListSearchPrompts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list search prompts")
		return
	}
	writeJSON(w, http.StatusOK, prompts)
}

type createPromptRequest struct {
	Prompt string `json:"prompt"`
}

func (a *API) handleCreatePrompt(w http.ResponseWriter, r *http.Request) {
	var req createPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	prompt, err := a.store.CreateSearchPrompt(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create search prompt")
		return
	}
	writeJSON(w, http.StatusCreated, prompt)
}

type togglePromptRequest struct {
	Active bool `json:"active"`
}

func (a *API) handleTogglePrompt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid prompt id")
		return
	}

	var req togglePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := a.store.SetSearchPromptActive(r.Context(), id, req.Active)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update search prompt")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "search prompt not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"active": req.Active})
}

func (a *API) handleDeletePrompt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid prompt id")
		return
	}

	deleted, err := a.store.DeleteSearchPrompt(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete search prompt")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "search prompt not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
