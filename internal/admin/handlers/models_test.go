package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/pysugar/gato-admin/internal/admin/monitor"
	"github.com/pysugar/gato-admin/internal/db"
	"github.com/pysugar/gato-admin/internal/db/models"
	"github.com/pysugar/gato-admin/internal/form"
	"github.com/pysugar/gato-admin/internal/lock"
)

type testServer struct {
	router  chi.Router
	store   *db.Store
	locker  *lock.Local
	monitor *monitor.ActivityMonitor
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := db.InitDB(db.Options{Path: "file:" + name + "?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})

	locker := lock.NewLocal()
	store := db.NewStore(database, nil, locker)
	validator := &form.Validator{KnownModel: func(m string) bool {
		return m == "Voyage" || m == "Llama 4 Scout"
	}}
	am := monitor.NewActivityMonitor(database)
	t.Cleanup(am.Wait)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		RegisterAPI(r, store, validator, am)
	})
	RegisterDashboard(router, NewDashboard(store, validator))

	return &testServer{router: router, store: store, locker: locker, monitor: am}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestCreateModelHandler_CreatesAndLists(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/models", `{"alias":"a1","model":"Voyage","strategy":"auto","routing":"Cheapest"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	created := decodeBody[models.ModelConfig](t, rec)
	if created.ID == 0 || created.CreatedAt.IsZero() {
		t.Fatalf("expected id and createdAt, got %+v", created)
	}
	if strings.Contains(rec.Body.String(), `"endpoint"`) || strings.Contains(rec.Body.String(), `"apiKey"`) {
		t.Fatalf("absent optional fields must be omitted: %s", rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/api/models", "")
	list := decodeBody[[]models.ModelConfig](t, rec)
	if len(list) != 1 || list[0].Alias != "a1" {
		t.Fatalf("unexpected list: %+v", list)
	}

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/models/%d", created.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestListModelsHandler_EmptyIsArray(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/models", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestCreateModelHandler_RejectsInvalidCandidate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/models", `{"alias":"","model":"Voyage","strategy":"auto"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody[errorResponse](t, rec)
	if len(body.Errors) != 2 || body.Errors[0].Kind != form.MissingAlias || body.Errors[1].Kind != form.MissingRouting {
		t.Fatalf("unexpected errors: %+v", body.Errors)
	}

	list, _ := s.store.ListModels(context.Background())
	if len(list) != 0 {
		t.Fatalf("invalid candidate must not be stored: %+v", list)
	}
}

func TestCreateModelHandler_RejectsMalformedJSON(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/models", `{"alias":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateModelHandler_DuplicateAlias(t *testing.T) {
	s := newTestServer(t)
	body := `{"alias":"dup","model":"Voyage","strategy":"auto","routing":"Premium"}`
	s.do(t, http.MethodPost, "/api/models", body)

	rec := s.do(t, http.MethodPost, "/api/models", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := decodeBody[errorResponse](t, rec).Code; got != "duplicate_alias" {
		t.Fatalf("expected duplicate_alias code, got %q", got)
	}
}

func TestUpdateModelHandler(t *testing.T) {
	s := newTestServer(t)
	created := decodeBody[models.ModelConfig](t, s.do(t, http.MethodPost, "/api/models",
		`{"alias":"a1","model":"Voyage","strategy":"auto","routing":"Cheapest"}`))

	rec := s.do(t, http.MethodPut, "/api/models", fmt.Sprintf(
		`{"id":%d,"alias":"a1","model":"Voyage","strategy":"custom","endpoint":"https://x.test","apiKey":"k"}`, created.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[models.ModelConfig](t, rec)
	if updated.Routing != nil || models.Deref(updated.Endpoint) != "https://x.test" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	rec = s.do(t, http.MethodPut, "/api/models", `{"id":999,"alias":"x","model":"Voyage","strategy":"auto","routing":"Cheapest"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing id, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPut, "/api/models", `{"alias":"x","model":"Voyage","strategy":"auto","routing":"Cheapest"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without id, got %d", rec.Code)
	}
}

func TestDeleteModelHandler(t *testing.T) {
	s := newTestServer(t)
	created := decodeBody[models.ModelConfig](t, s.do(t, http.MethodPost, "/api/models",
		`{"alias":"gone","model":"Voyage","strategy":"auto","routing":"Cheapest"}`))

	body := fmt.Sprintf(`{"id":%d}`, created.ID)
	rec := s.do(t, http.MethodDelete, "/api/models", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if deleted := decodeBody[models.ModelConfig](t, rec); deleted.Alias != "gone" {
		t.Fatalf("expected prior state, got %+v", deleted)
	}

	if rec := s.do(t, http.MethodDelete, "/api/models", body); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestDeleteModelHandler_LockHeld(t *testing.T) {
	s := newTestServer(t)
	created := decodeBody[models.ModelConfig](t, s.do(t, http.MethodPost, "/api/models",
		`{"alias":"busy","model":"Voyage","strategy":"auto","routing":"Cheapest"}`))

	unlock, err := s.locker.TryLock(context.Background(), fmt.Sprintf("model:%d", created.ID))
	if err != nil {
		t.Fatalf("hold lock: %v", err)
	}
	defer unlock()

	rec := s.do(t, http.MethodDelete, "/api/models", fmt.Sprintf(`{"id":%d}`, created.ID))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := decodeBody[errorResponse](t, rec).Code; got != "conflict" {
		t.Fatalf("expected conflict code, got %q", got)
	}
}

func TestActivityRecordsMutations(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/models", `{"alias":"a1","model":"Voyage","strategy":"auto","routing":"Cheapest"}`)
	s.do(t, http.MethodPost, "/api/models", `{"alias":""}`)
	s.do(t, http.MethodGet, "/api/models", "")
	s.monitor.Wait()

	rec := s.do(t, http.MethodGet, "/api/activity?limit=10", "")
	var body struct {
		Logs  []models.RequestLog `json:"logs"`
		Count int                 `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 2 {
		t.Fatalf("expected 2 recorded mutations, got %d: %+v", body.Count, body.Logs)
	}

	stats := decodeBody[models.RequestStats](t, s.do(t, http.MethodGet, "/api/activity/stats", ""))
	if stats.TotalRequests != 2 || stats.SuccessCount != 1 || stats.ErrorCount != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if rec := s.do(t, http.MethodDelete, "/api/activity", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on clear, got %d", rec.Code)
	}
}

func TestCatalogAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/catalog", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"routingModes"`) {
		t.Fatalf("unexpected catalog response %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	HealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health response: %s", rec.Body.String())
	}
}
