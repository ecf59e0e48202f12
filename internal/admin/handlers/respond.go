// Package handlers serves the admin REST API and dashboard.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/pysugar/gato-admin/internal/client"
	"github.com/pysugar/gato-admin/internal/db"
	"github.com/pysugar/gato-admin/internal/form"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Errors []form.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps store and validation failures to status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	var ve *form.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: ve.Error(), Errors: ve.Errors})
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, db.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: client.CodeConflict})
	case errors.Is(err, db.ErrDuplicateAlias):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: client.CodeDuplicateAlias})
	default:
		log.Printf("[API] Store failure: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
