package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pysugar/gato-admin/internal/catalog"
	"github.com/pysugar/gato-admin/internal/console"
	"github.com/pysugar/gato-admin/internal/db"
	"github.com/pysugar/gato-admin/internal/form"
	"github.com/pysugar/gato-admin/internal/version"
)

var dashboardTemplate = template.Must(template.New("dashboard").Parse(dashboardHTML))

type dashboardData struct {
	Snap         console.Snapshot
	Models       []catalog.Option
	RoutingModes []catalog.Option
	Strategies   []catalog.Option
	Version      string
}

// Dashboard serves the server-rendered admin page. Every action posts a form and is
// answered with a redirect back to the page, which refetches the list.
type Dashboard struct {
	store     *db.Store
	validator *form.Validator
}

// NewDashboard creates the dashboard handlers.
func NewDashboard(store *db.Store, validator *form.Validator) *Dashboard {
	return &Dashboard{store: store, validator: validator}
}

// Page handles GET /. Query parameters: edit=<id>, new=1, notice=<text>&level=<level>.
func (d *Dashboard) Page(w http.ResponseWriter, r *http.Request) {
	v := console.NewView(d.store, d.validator)
	v.Load(r.Context())

	q := r.URL.Query()
	if id, err := strconv.ParseUint(q.Get("edit"), 10, 32); err == nil {
		if _, err := v.Toggle(uint(id)); err != nil {
			v.Notify(console.LevelError, "Model not found")
		}
	} else if q.Get("new") != "" {
		v.OpenNew()
	}
	if msg := q.Get("notice"); msg != "" {
		level := console.LevelSuccess
		if q.Get("level") == string(console.LevelError) {
			level = console.LevelError
		}
		v.Notify(level, msg)
	}

	d.render(w, http.StatusOK, v)
}

// Create handles POST /ui/models.
func (d *Dashboard) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectNotice(w, r, console.LevelError, "Invalid form submission")
		return
	}
	v := console.NewView(d.store, d.validator)
	v.Load(r.Context())
	v.OpenNew()
	applyForm(v, r.PostForm)
	d.finish(w, r, v, v.Submit(r.Context()))
}

// Update handles POST /ui/models/{id}.
func (d *Dashboard) Update(w http.ResponseWriter, r *http.Request) {
	v, ok := d.openRecord(w, r)
	if !ok {
		return
	}
	applyForm(v, r.PostForm)
	d.finish(w, r, v, v.Submit(r.Context()))
}

// Delete handles POST /ui/models/{id}/delete.
func (d *Dashboard) Delete(w http.ResponseWriter, r *http.Request) {
	v, ok := d.openRecord(w, r)
	if !ok {
		return
	}
	d.finish(w, r, v, v.Delete(r.Context()))
}

func (d *Dashboard) openRecord(w http.ResponseWriter, r *http.Request) (*console.View, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		redirectNotice(w, r, console.LevelError, "Invalid model config ID")
		return nil, false
	}
	if err := r.ParseForm(); err != nil {
		redirectNotice(w, r, console.LevelError, "Invalid form submission")
		return nil, false
	}

	v := console.NewView(d.store, d.validator)
	if err := v.Load(r.Context()); err != nil {
		redirectNotice(w, r, console.LevelError, "Failed to load models: "+err.Error())
		return nil, false
	}
	if _, err := v.Toggle(uint(id)); err != nil {
		redirectNotice(w, r, console.LevelError, "Model not found")
		return nil, false
	}
	return v, true
}

// finish re-renders the open editor on a validation failure and redirects otherwise.
func (d *Dashboard) finish(w http.ResponseWriter, r *http.Request, v *console.View, err error) {
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		d.render(w, http.StatusUnprocessableEntity, v)
		return
	}

	snap := v.Snapshot()
	if len(snap.Notices) == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	last := snap.Notices[len(snap.Notices)-1]
	redirectNotice(w, r, last.Level, last.Message)
}

func (d *Dashboard) render(w http.ResponseWriter, status int, v *console.View) {
	data := dashboardData{
		Snap:         v.Snapshot(),
		Models:       catalog.Models(),
		RoutingModes: catalog.RoutingModes(),
		Strategies:   catalog.Strategies(),
		Version:      version.Version,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := dashboardTemplate.Execute(w, data); err != nil {
		log.Printf("[Dashboard] Failed to render: %v", err)
	}
}

// applyForm feeds posted values through the editor reducer, strategy first so that
// fields owned by the other strategy are cleared and ignored.
func applyForm(v *console.View, values url.Values) {
	if _, ok := values[string(form.FieldStrategy)]; ok {
		v.Dispatch(form.SetStrategy{Strategy: values.Get(string(form.FieldStrategy))})
	}
	for _, f := range []form.Field{form.FieldAlias, form.FieldModel, form.FieldRouting, form.FieldEndpoint, form.FieldAPIKey} {
		if _, ok := values[string(f)]; ok {
			v.Dispatch(form.SetField{Field: f, Value: values.Get(string(f))})
		}
	}
}

func redirectNotice(w http.ResponseWriter, r *http.Request, level console.Level, msg string) {
	q := url.Values{}
	q.Set("notice", msg)
	q.Set("level", string(level))
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}
