package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/pysugar/gato-admin/internal/admin/monitor"
	"github.com/pysugar/gato-admin/internal/db"
	"github.com/pysugar/gato-admin/internal/form"
)

// RegisterAPI mounts the JSON API on r; callers add auth and CORS around it.
func RegisterAPI(r chi.Router, store *db.Store, validator *form.Validator, am *monitor.ActivityMonitor) {
	r.Route("/models", func(r chi.Router) {
		r.Use(am.Middleware)
		r.Get("/", ListModelsHandler(store))
		r.Post("/", CreateModelHandler(store, validator))
		r.Put("/", UpdateModelHandler(store, validator))
		r.Delete("/", DeleteModelHandler(store))
		r.Get("/{id}", GetModelHandler(store))
	})

	r.Get("/catalog", CatalogHandler())

	r.Get("/activity", ActivityHandler(am))
	r.Get("/activity/stats", ActivityStatsHandler(am))
	r.Delete("/activity", ClearActivityHandler(am))
}

// RegisterDashboard mounts the HTML dashboard and its form actions on r.
func RegisterDashboard(r chi.Router, d *Dashboard) {
	r.Get("/", d.Page)
	r.Post("/ui/models", d.Create)
	r.Post("/ui/models/{id}", d.Update)
	r.Post("/ui/models/{id}/delete", d.Delete)
}
