package form

import (
	"testing"

	"github.com/pysugar/gato-admin/internal/db/models"
)

func TestReduce_StrategyToggleClearsCrossStrategyFields(t *testing.T) {
	s := NewState()
	s = Reduce(s, SetField{Field: FieldRouting, Value: "Cheapest"})
	s = Reduce(s, SetField{Field: FieldEndpoint, Value: "https://x.test"})
	s = Reduce(s, SetField{Field: FieldAPIKey, Value: "k"})

	s = Reduce(s, SetStrategy{Strategy: models.StrategyAuto})
	if in := s.Input(); in.Endpoint != "" || in.APIKey != "" || in.Routing != "Cheapest" {
		t.Fatalf("switching to auto must clear endpoint/apiKey only, got %+v", in)
	}

	s = Reduce(s, SetStrategy{Strategy: models.StrategyCustom})
	if in := s.Input(); in.Routing != "" {
		t.Fatalf("switching to custom must clear routing, got %+v", in)
	}
	s = Reduce(s, SetField{Field: FieldEndpoint, Value: "https://y.test"})
	s = Reduce(s, SetField{Field: FieldAPIKey, Value: "k2"})

	s = Reduce(s, SetField{Field: FieldStrategy, Value: models.StrategyAuto})
	in := s.Input()
	if in.Routing != "" || in.Endpoint != "" || in.APIKey != "" {
		t.Fatalf("two toggles must leave no cross-strategy values, got %+v", in)
	}
	if in.Strategy != models.StrategyAuto {
		t.Fatalf("strategy = %q", in.Strategy)
	}
}

func TestReduce_DisabledFieldsIgnoreEdits(t *testing.T) {
	s := Reduce(NewState(), SetStrategy{Strategy: models.StrategyCustom})
	s = Reduce(s, SetField{Field: FieldRouting, Value: "Premium"})
	if s.Input().Routing != "" {
		t.Fatal("routing is disabled under custom strategy")
	}

	s = Reduce(s, SetStrategy{Strategy: models.StrategyAuto})
	s = Reduce(s, SetField{Field: FieldAPIKey, Value: "k"})
	if s.Input().APIKey != "" {
		t.Fatal("apiKey is disabled under auto strategy")
	}
	if !s.Enabled(FieldRouting) || s.Enabled(FieldEndpoint) {
		t.Fatal("unexpected enabled state under auto strategy")
	}
}

func TestReduce_LoadAndValidated(t *testing.T) {
	endpoint, key := "https://x.test", "secret"
	rec := models.ModelConfig{ID: 7, Alias: "a2", Model: "Voyage", Strategy: models.StrategyCustom, Endpoint: &endpoint, APIKey: &key}

	s := Reduce(NewState(), Load{Record: &rec})
	if s.IsNew() || s.RecordID() != 7 {
		t.Fatalf("expected edit state for record 7, got id=%d", s.RecordID())
	}
	if in := s.Input(); in.Endpoint != endpoint || in.APIKey != key || in.Alias != "a2" {
		t.Fatalf("unexpected loaded input: %+v", in)
	}

	errs := []FieldError{newFieldError(MissingAlias), newFieldError(InvalidEndpoint)}
	s = Reduce(s, Validated{Errors: errs})
	errs[0].Message = "mutated"
	if got := s.ErrorsFor(FieldAlias); len(got) != 1 || got[0] != "Alias is required" {
		t.Fatalf("ErrorsFor(alias) = %v", got)
	}

	s = Reduce(s, SetField{Field: FieldAlias, Value: "a3"})
	if len(s.ErrorsFor(FieldAlias)) != 0 {
		t.Fatal("editing a field clears its errors")
	}
	if len(s.ErrorsFor(FieldEndpoint)) != 1 {
		t.Fatal("errors of other fields are kept")
	}

	s = Reduce(s, Load{})
	if !s.IsNew() || s.Input() != (Input{}) || len(s.Errors()) != 0 {
		t.Fatalf("Load{} must reset to an empty new editor, got %+v", s)
	}
}

func TestReduce_DoesNotMutatePreviousState(t *testing.T) {
	before := Reduce(NewState(), SetField{Field: FieldAlias, Value: "a1"})
	after := Reduce(before, SetField{Field: FieldAlias, Value: "a2"})
	if before.Input().Alias != "a1" || after.Input().Alias != "a2" {
		t.Fatalf("states share storage: before=%q after=%q", before.Input().Alias, after.Input().Alias)
	}
}
