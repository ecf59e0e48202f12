package console

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pysugar/gato-admin/internal/db/models"
	"github.com/pysugar/gato-admin/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu      sync.Mutex
	records []models.ModelConfig
	nextID  uint
	calls   int
	listErr error
	mutErr  error
	block   chan struct{}
}

func (f *fakeAPI) ListModels(ctx context.Context) ([]models.ModelConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.ModelConfig(nil), f.records...), nil
}

func (f *fakeAPI) CreateModel(ctx context.Context, c models.ModelConfig) (*models.ModelConfig, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	f.records = append(f.records, c)
	return &c, nil
}

func (f *fakeAPI) UpdateModel(ctx context.Context, c models.ModelConfig) (*models.ModelConfig, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	for i := range f.records {
		if f.records[i].ID == c.ID {
			c.CreatedAt = f.records[i].CreatedAt
			f.records[i] = c
			return &c, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeAPI) DeleteModel(ctx context.Context, id uint) (*models.ModelConfig, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return &r, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeAPI) wait() {
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testView(api API) *View {
	return NewView(api, &form.Validator{KnownModel: func(s string) bool { return s == "Voyage" }})
}

func fill(v *View, in form.Input) {
	v.Dispatch(form.SetStrategy{Strategy: in.Strategy})
	for _, f := range []form.Field{form.FieldAlias, form.FieldModel, form.FieldRouting, form.FieldEndpoint, form.FieldAPIKey} {
		v.Dispatch(form.SetField{Field: f, Value: in.Get(f)})
	}
}

func TestView_EndToEndScenario(t *testing.T) {
	api := &fakeAPI{}
	v := testView(api)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	v.OpenNew()
	fill(v, form.Input{Alias: "a1", Model: "Voyage", Strategy: models.StrategyAuto, Routing: "Cheapest"})
	require.NoError(t, v.Submit(ctx))

	snap := v.Snapshot()
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "gato/main/a1", snap.Rows[0].Path)
	assert.Equal(t, "Voyage", snap.Rows[0].Model)
	assert.Equal(t, "Cheapest", snap.Rows[0].Summary)
	assert.False(t, snap.EditorOpen, "editor closes after success")

	v.OpenNew()
	fill(v, form.Input{Alias: "a2", Model: "Voyage", Strategy: models.StrategyCustom, Endpoint: "https://x.test", APIKey: "k"})
	require.NoError(t, v.Submit(ctx))

	snap = v.Snapshot()
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "gato/main/a2", snap.Rows[1].Path)
	assert.Equal(t, "Custom", snap.Rows[1].Summary)

	before := api.callCount()
	v.OpenNew()
	fill(v, form.Input{Alias: "", Model: "Voyage", Strategy: models.StrategyAuto})
	err := v.Submit(ctx)

	var ve *form.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []form.Kind{form.MissingAlias, form.MissingRouting}, ve.Kinds())
	assert.Equal(t, before, api.callCount(), "invalid submit must not reach the API")

	snap = v.Snapshot()
	assert.True(t, snap.EditorOpen, "editor stays open on validation failure")
	assert.NotEmpty(t, snap.Editor.ErrorsFor(form.FieldAlias))
	assert.NotEmpty(t, snap.Editor.ErrorsFor(form.FieldRouting))
}

func TestView_ToggleSingleExpanded(t *testing.T) {
	api := &fakeAPI{records: []models.ModelConfig{
		{ID: 1, Alias: "a", Model: "Voyage", Strategy: models.StrategyAuto, Routing: models.StringPtr("Premium")},
		{ID: 2, Alias: "b", Model: "Voyage", Strategy: models.StrategyAuto, Routing: models.StringPtr("Cheapest")},
	}}
	v := testView(api)
	require.NoError(t, v.Load(context.Background()))

	open, err := v.Toggle(1)
	require.NoError(t, err)
	assert.True(t, open)

	open, err = v.Toggle(2)
	require.NoError(t, err)
	assert.True(t, open)

	snap := v.Snapshot()
	assert.False(t, snap.Rows[0].Expanded)
	assert.True(t, snap.Rows[1].Expanded)
	assert.Equal(t, "b", snap.Editor.Input().Alias)

	open, err = v.Toggle(2)
	require.NoError(t, err)
	assert.False(t, open)
	assert.False(t, v.Snapshot().EditorOpen)

	_, err = v.Toggle(99)
	assert.ErrorIs(t, err, ErrUnknownRecord)

	v.Toggle(1)
	v.OpenNew()
	snap = v.Snapshot()
	assert.True(t, snap.Adding)
	assert.False(t, snap.Rows[0].Expanded, "opening the add editor collapses rows")

	v.Cancel()
	assert.False(t, v.Snapshot().EditorOpen)
}

func TestView_UpdateClearsOtherStrategy(t *testing.T) {
	api := &fakeAPI{records: []models.ModelConfig{
		{ID: 1, Alias: "a", Model: "Voyage", Strategy: models.StrategyAuto, Routing: models.StringPtr("Premium")},
	}, nextID: 1}
	v := testView(api)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	v.Toggle(1)
	v.Dispatch(form.SetStrategy{Strategy: models.StrategyCustom})
	v.Dispatch(form.SetField{Field: form.FieldEndpoint, Value: "https://x.test"})
	v.Dispatch(form.SetField{Field: form.FieldAPIKey, Value: "k"})
	require.NoError(t, v.Submit(ctx))

	row := v.Snapshot().Rows[0]
	assert.Nil(t, row.Record.Routing)
	assert.Equal(t, "Custom", row.Summary)
	assert.Equal(t, "https://x.test", models.Deref(row.Record.Endpoint))
}

func TestView_DeleteRefetches(t *testing.T) {
	api := &fakeAPI{records: []models.ModelConfig{
		{ID: 1, Alias: "a", Model: "Voyage", Strategy: models.StrategyAuto, Routing: models.StringPtr("Premium")},
	}}
	v := testView(api)
	ctx := context.Background()
	require.NoError(t, v.Load(ctx))

	assert.ErrorIs(t, v.Delete(ctx), ErrNoEditor)

	v.Toggle(1)
	require.NoError(t, v.Delete(ctx))

	snap := v.Snapshot()
	assert.Empty(t, snap.Rows)
	require.Len(t, snap.Notices, 1)
	assert.Equal(t, LevelSuccess, snap.Notices[0].Level)
	assert.Contains(t, snap.Notices[0].Message, "deleted")
}

func TestView_FailureNotifiesAndKeepsEditor(t *testing.T) {
	api := &fakeAPI{mutErr: errors.New("store down")}
	v := testView(api)
	ctx := context.Background()

	v.OpenNew()
	fill(v, form.Input{Alias: "a1", Model: "Voyage", Strategy: models.StrategyAuto, Routing: "Cheapest"})
	err := v.Submit(ctx)
	require.Error(t, err)

	snap := v.Snapshot()
	assert.True(t, snap.EditorOpen)
	assert.False(t, snap.Busy)
	require.Len(t, snap.Notices, 1)
	assert.Equal(t, LevelError, snap.Notices[0].Level)
	assert.Contains(t, snap.Notices[0].Message, "Failed to add model")

	v.Dismiss(snap.Notices[0].ID)
	assert.Empty(t, v.Snapshot().Notices)
}

func TestView_ServerValidationErrorsReachEditor(t *testing.T) {
	api := &fakeAPI{mutErr: &form.ValidationError{Errors: []form.FieldError{
		{Kind: form.InvalidModel, Field: form.FieldModel, Message: "Model must be one of the configured models"},
	}}}
	v := testView(api)

	v.OpenNew()
	fill(v, form.Input{Alias: "a1", Model: "Voyage", Strategy: models.StrategyAuto, Routing: "Cheapest"})
	require.Error(t, v.Submit(context.Background()))

	assert.Equal(t, []string{"Model must be one of the configured models"}, v.Snapshot().Editor.ErrorsFor(form.FieldModel))
}

func TestView_BusyRejectsSecondMutation(t *testing.T) {
	api := &fakeAPI{block: make(chan struct{})}
	v := testView(api)
	ctx := context.Background()

	v.OpenNew()
	fill(v, form.Input{Alias: "a1", Model: "Voyage", Strategy: models.StrategyAuto, Routing: "Cheapest"})

	done := make(chan error, 1)
	go func() { done <- v.Submit(ctx) }()

	require.Eventually(t, func() bool { return v.Snapshot().Busy }, time.Second, time.Millisecond)
	assert.ErrorIs(t, v.Submit(ctx), ErrBusy)

	close(api.block)
	require.NoError(t, <-done)
	assert.False(t, v.Snapshot().Busy)
}

func TestView_LoadError(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("connection refused")}
	v := testView(api)

	require.Error(t, v.Load(context.Background()))
	snap := v.Snapshot()
	assert.Equal(t, "connection refused", snap.LoadError)
	assert.False(t, snap.Loading)
}
