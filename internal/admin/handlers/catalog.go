package handlers

import (
	"net/http"

	"github.com/pysugar/gato-admin/internal/catalog"
	"github.com/pysugar/gato-admin/internal/client"
)

// CatalogHandler returns the selectable models, routing modes and strategies
func CatalogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, client.CatalogResponse{
			Models:       catalog.Models(),
			RoutingModes: catalog.RoutingModes(),
			Strategies:   catalog.Strategies(),
		})
	}
}
