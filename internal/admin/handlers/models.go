package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pysugar/gato-admin/internal/admin/monitor"
	"github.com/pysugar/gato-admin/internal/db"
	"github.com/pysugar/gato-admin/internal/db/models"
	"github.com/pysugar/gato-admin/internal/form"
)

// maxBodyBytes bounds request bodies of the models API.
const maxBodyBytes = 1 << 20

type updateRequest struct {
	ID uint `json:"id"`
	form.Input
}

type deleteRequest struct {
	ID uint `json:"id"`
}

// ListModelsHandler returns all model configs
func ListModelsHandler(store *db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListModels(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if list == nil {
			list = []models.ModelConfig{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GetModelHandler returns one model config
func GetModelHandler(store *db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid model config ID")
			return
		}
		m, err := store.GetModel(r.Context(), uint(id))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

// CreateModelHandler validates and creates a model config
func CreateModelHandler(store *db.Store, validator *form.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in form.Input
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		candidate, err := validator.Validate(in)
		if err != nil {
			monitor.Annotate(r.Context(), 0, in.Alias, err)
			writeStoreError(w, err)
			return
		}

		created, err := store.CreateModel(r.Context(), candidate)
		monitor.Annotate(r.Context(), idOf(created), candidate.Alias, err)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// UpdateModelHandler validates and replaces the model config named by the body id
func UpdateModelHandler(store *db.Store, validator *form.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.ID == 0 {
			writeError(w, http.StatusBadRequest, "id is required")
			return
		}

		candidate, err := validator.Validate(req.Input)
		if err != nil {
			monitor.Annotate(r.Context(), req.ID, req.Alias, err)
			writeStoreError(w, err)
			return
		}
		candidate.ID = req.ID

		updated, err := store.UpdateModel(r.Context(), candidate)
		monitor.Annotate(r.Context(), req.ID, candidate.Alias, err)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// DeleteModelHandler deletes the model config named by the body id
func DeleteModelHandler(store *db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil || req.ID == 0 {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		deleted, err := store.DeleteModel(r.Context(), req.ID)
		if err != nil {
			monitor.Annotate(r.Context(), req.ID, "", err)
			writeStoreError(w, err)
			return
		}
		monitor.Annotate(r.Context(), deleted.ID, deleted.Alias, nil)
		writeJSON(w, http.StatusOK, deleted)
	}
}

func idOf(m *models.ModelConfig) uint {
	if m == nil {
		return 0
	}
	return m.ID
}
