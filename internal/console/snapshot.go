package console

import (
	"github.com/pysugar/gato-admin/internal/db/models"
	"github.com/pysugar/gato-admin/internal/form"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a dismissible notification.
type Notice struct {
	ID      int    `json:"id"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Row is one record as listed.
type Row struct {
	ID       uint               `json:"id"`
	Path     string             `json:"path"`
	Model    string             `json:"model"`
	Summary  string             `json:"summary"`
	Expanded bool               `json:"expanded"`
	Record   models.ModelConfig `json:"record"`
}

// Snapshot is an immutable copy of the view for rendering.
type Snapshot struct {
	Rows       []Row
	Adding     bool
	EditorOpen bool
	Editor     form.State
	Notices    []Notice
	Loading    bool
	Busy       bool
	LoadError  string
}

// Snapshot copies the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	rows := make([]Row, 0, len(v.records))
	for _, r := range v.records {
		rows = append(rows, Row{
			ID:       r.ID,
			Path:     r.Path(),
			Model:    r.Model,
			Summary:  r.Summary(),
			Expanded: r.ID == v.expanded,
			Record:   r,
		})
	}

	snap := Snapshot{
		Rows:       rows,
		Adding:     v.adding,
		EditorOpen: v.editorOpen(),
		Editor:     v.editor,
		Notices:    append([]Notice(nil), v.notices...),
		Loading:    v.loading,
		Busy:       v.busy,
	}
	if v.loadErr != nil {
		snap.LoadError = v.loadErr.Error()
	}
	return snap
}

// Notify adds a notice and returns its id.
func (v *View) Notify(level Level, msg string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.push(level, msg)
}

func (v *View) push(level Level, msg string) int {
	v.nextNotice++
	v.notices = append(v.notices, Notice{ID: v.nextNotice, Level: level, Message: msg})
	return v.nextNotice
}
