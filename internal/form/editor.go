package form

import (
	"github.com/pysugar/gato-admin/internal/db/models"
)

// State is the editor for one candidate record. It is an immutable value: every change
// goes through Reduce and yields a new State.
type State struct {
	recordID uint
	input    Input
	errors   []FieldError
}

// NewState returns an empty editor for a new record.
func NewState() State {
	return State{}
}

// EditState returns an editor initialized from a persisted record.
func EditState(m models.ModelConfig) State {
	return State{recordID: m.ID, input: InputFromRecord(m)}
}

// RecordID is the id of the edited record, 0 when adding.
func (s State) RecordID() uint { return s.recordID }

// IsNew reports whether the editor creates a record.
func (s State) IsNew() bool { return s.recordID == 0 }

// Input returns the current field values.
func (s State) Input() Input { return s.input }

// Errors returns the errors of the last validation pass.
func (s State) Errors() []FieldError {
	return append([]FieldError(nil), s.errors...)
}

// ErrorsFor returns the messages reported on f.
func (s State) ErrorsFor(f Field) []string {
	var msgs []string
	for _, e := range s.errors {
		if e.Field == f {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

// Enabled reports whether f accepts edits under the current strategy.
func (s State) Enabled(f Field) bool {
	switch f {
	case FieldRouting:
		return s.input.Strategy != models.StrategyCustom
	case FieldEndpoint, FieldAPIKey:
		return s.input.Strategy != models.StrategyAuto
	}
	return true
}

// Action is an editor transition.
type Action interface {
	isAction()
}

// SetField sets one field. Setting FieldStrategy behaves like SetStrategy.
type SetField struct {
	Field Field
	Value string
}

// SetStrategy selects a strategy and clears the fields the other strategy owns.
type SetStrategy struct {
	Strategy string
}

// Load replaces the editor contents with a record, or empties it when Record is nil.
type Load struct {
	Record *models.ModelConfig
}

// Validated stores the outcome of a validation pass.
type Validated struct {
	Errors []FieldError
}

func (SetField) isAction()    {}
func (SetStrategy) isAction() {}
func (Load) isAction()        {}
func (Validated) isAction()   {}

// Reduce applies a to s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetStrategy:
		return s.withStrategy(a.Strategy)
	case SetField:
		if a.Field == FieldStrategy {
			return s.withStrategy(a.Value)
		}
		if !s.Enabled(a.Field) {
			return s
		}
		next := s
		next.input = s.input.With(a.Field, a.Value)
		next.errors = withoutField(s.errors, a.Field)
		return next
	case Load:
		if a.Record == nil {
			return NewState()
		}
		return EditState(*a.Record)
	case Validated:
		next := s
		next.errors = append([]FieldError(nil), a.Errors...)
		return next
	}
	return s
}

// withStrategy is the strategy transition rule: auto owns routing, custom owns
// endpoint and apiKey, and selecting one empties the other's fields.
func (s State) withStrategy(strategy string) State {
	next := s
	next.input.Strategy = strategy
	switch strategy {
	case models.StrategyAuto:
		next.input.Endpoint = ""
		next.input.APIKey = ""
	case models.StrategyCustom:
		next.input.Routing = ""
	}
	next.errors = withoutField(s.errors, FieldStrategy)
	return next
}

func withoutField(errs []FieldError, f Field) []FieldError {
	var out []FieldError
	for _, e := range errs {
		if e.Field != f {
			out = append(out, e)
		}
	}
	return out
}
