// Package console holds the list/edit view of model configurations. The dashboard
// renders it server-side and gatoctl drives it from the command line.
package console

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/pysugar/gato-admin/internal/db/models"
	"github.com/pysugar/gato-admin/internal/form"
)

// API is the record store as seen by the view. *db.Store and *client.Client both
// satisfy it.
type API interface {
	ListModels(ctx context.Context) ([]models.ModelConfig, error)
	CreateModel(ctx context.Context, candidate models.ModelConfig) (*models.ModelConfig, error)
	UpdateModel(ctx context.Context, candidate models.ModelConfig) (*models.ModelConfig, error)
	DeleteModel(ctx context.Context, id uint) (*models.ModelConfig, error)
}

var successMessages = map[string]string{
	"add":    "Model added successfully",
	"update": "Model updated successfully",
	"delete": "Model deleted successfully",
}

var (
	// ErrBusy is returned when a mutation is requested while another is in flight.
	ErrBusy = errors.New("another change is still in progress")

	// ErrNoEditor is returned by Submit and Delete when no editor is open.
	ErrNoEditor = errors.New("no model config is being edited")

	// ErrUnknownRecord is returned by Toggle for an id that is not in the list.
	ErrUnknownRecord = errors.New("model config is not in the list")
)

// View is the state of one admin session. Methods are safe for concurrent use; the
// lock is never held across API calls.
type View struct {
	api       API
	validator *form.Validator

	mu         sync.Mutex
	records    []models.ModelConfig
	loading    bool
	loadErr    error
	expanded   uint
	adding     bool
	editor     form.State
	busy       bool
	notices    []Notice
	nextNotice int
}

// NewView creates an empty view. Call Load to fetch records.
func NewView(api API, validator *form.Validator) *View {
	if validator == nil {
		validator = form.NewValidator()
	}
	return &View{api: api, validator: validator, editor: form.NewState()}
}

// Load fetches every record. A failure is kept as the load error and returned.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	v.loading = true
	v.mu.Unlock()

	records, err := v.api.ListModels(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		v.loadErr = err
		return err
	}
	v.loadErr = nil
	v.records = records
	if v.expanded != 0 && v.find(v.expanded) < 0 {
		v.closeEditor()
	}
	return nil
}

// Toggle expands the editor of record id, collapsing any other editor, or collapses
// it when it is already expanded. It reports whether id is expanded afterwards.
func (v *View) Toggle(id uint) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.expanded == id {
		v.closeEditor()
		return false, nil
	}
	i := v.find(id)
	if i < 0 {
		return false, fmt.Errorf("%w: id %d", ErrUnknownRecord, id)
	}
	v.adding = false
	v.expanded = id
	v.editor = form.EditState(v.records[i])
	return true, nil
}

// OpenNew opens the editor for a new record.
func (v *View) OpenNew() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.expanded = 0
	v.adding = true
	v.editor = form.NewState()
}

// Cancel closes whichever editor is open.
func (v *View) Cancel() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closeEditor()
}

// Dispatch applies an editor action and returns the new editor state.
func (v *View) Dispatch(a form.Action) form.State {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.editorOpen() {
		v.editor = form.Reduce(v.editor, a)
	}
	return v.editor
}

// Submit validates the open editor and creates or updates the record. A local
// validation failure is returned as *form.ValidationError without calling the API.
func (v *View) Submit(ctx context.Context) error {
	v.mu.Lock()
	if !v.editorOpen() {
		v.mu.Unlock()
		return ErrNoEditor
	}
	if v.busy {
		v.mu.Unlock()
		return ErrBusy
	}
	candidate, err := v.validator.Validate(v.editor.Input())
	if err != nil {
		v.applyValidation(err)
		v.push(LevelError, "Form validation failed")
		v.mu.Unlock()
		return err
	}
	action := "add"
	if !v.editor.IsNew() {
		action = "update"
		candidate.ID = v.editor.RecordID()
	}
	v.busy = true
	v.mu.Unlock()

	var saved *models.ModelConfig
	if action == "add" {
		saved, err = v.api.CreateModel(ctx, candidate)
	} else {
		saved, err = v.api.UpdateModel(ctx, candidate)
	}
	if err != nil {
		v.fail(action, err)
		return err
	}
	v.succeed(action, saved)
	return v.refetch(ctx)
}

// Delete removes the record of the expanded editor.
func (v *View) Delete(ctx context.Context) error {
	v.mu.Lock()
	if v.expanded == 0 {
		v.mu.Unlock()
		return ErrNoEditor
	}
	if v.busy {
		v.mu.Unlock()
		return ErrBusy
	}
	id := v.expanded
	v.busy = true
	v.mu.Unlock()

	deleted, err := v.api.DeleteModel(ctx, id)
	if err != nil {
		v.fail("delete", err)
		return err
	}
	v.succeed("delete", deleted)
	return v.refetch(ctx)
}

// Dismiss removes a notice.
func (v *View) Dismiss(id int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, n := range v.notices {
		if n.ID == id {
			v.notices = append(v.notices[:i:i], v.notices[i+1:]...)
			return
		}
	}
}

func (v *View) fail(action string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = false
	v.applyValidation(err)
	v.push(LevelError, fmt.Sprintf("Failed to %s model: %v", action, err))
	log.Printf("[Console] %s failed: %v", action, err)
}

func (v *View) succeed(action string, saved *models.ModelConfig) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = false
	v.closeEditor()
	msg := successMessages[action]
	if saved != nil {
		msg = fmt.Sprintf("%s: %s", msg, saved.Path())
	}
	v.push(LevelSuccess, msg)
}

// refetch reloads the list after a mutation. The mutation itself already succeeded, so
// a failed reload only surfaces as the load error.
func (v *View) refetch(ctx context.Context) error {
	if err := v.Load(ctx); err != nil {
		log.Printf("[Console] refetch failed: %v", err)
	}
	return nil
}

func (v *View) applyValidation(err error) {
	var ve *form.ValidationError
	if errors.As(err, &ve) && v.editorOpen() {
		v.editor = form.Reduce(v.editor, form.Validated{Errors: ve.Errors})
	}
}

func (v *View) editorOpen() bool {
	return v.adding || v.expanded != 0
}

func (v *View) closeEditor() {
	v.adding = false
	v.expanded = 0
	v.editor = form.NewState()
}

func (v *View) find(id uint) int {
	for i := range v.records {
		if v.records[i].ID == id {
			return i
		}
	}
	return -1
}
