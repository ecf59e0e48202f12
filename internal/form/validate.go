// Package form validates model configuration candidates and holds the editor state
// shared by the dashboard and the CLI. Nothing in this package performs I/O.
package form

import (
	"net/url"
	"strings"

	"github.com/pysugar/gato-admin/internal/catalog"
	"github.com/pysugar/gato-admin/internal/db/models"
)

// Field names, matching the JSON wire names.
type Field string

const (
	FieldAlias    Field = "alias"
	FieldModel    Field = "model"
	FieldStrategy Field = "strategy"
	FieldRouting  Field = "routing"
	FieldEndpoint Field = "endpoint"
	FieldAPIKey   Field = "apiKey"
)

// Input is the raw, untrusted set of form values.
type Input struct {
	Alias    string `json:"alias"`
	Model    string `json:"model"`
	Strategy string `json:"strategy"`
	Routing  string `json:"routing"`
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"apiKey"`
}

// InputFromRecord returns the form values of a persisted record.
func InputFromRecord(m models.ModelConfig) Input {
	return Input{
		Alias:    m.Alias,
		Model:    m.Model,
		Strategy: m.Strategy,
		Routing:  models.Deref(m.Routing),
		Endpoint: models.Deref(m.Endpoint),
		APIKey:   models.Deref(m.APIKey),
	}
}

// Get returns the value of f.
func (in Input) Get(f Field) string {
	switch f {
	case FieldAlias:
		return in.Alias
	case FieldModel:
		return in.Model
	case FieldStrategy:
		return in.Strategy
	case FieldRouting:
		return in.Routing
	case FieldEndpoint:
		return in.Endpoint
	case FieldAPIKey:
		return in.APIKey
	}
	return ""
}

// With returns a copy of in with f set to v.
func (in Input) With(f Field, v string) Input {
	switch f {
	case FieldAlias:
		in.Alias = v
	case FieldModel:
		in.Model = v
	case FieldStrategy:
		in.Strategy = v
	case FieldRouting:
		in.Routing = v
	case FieldEndpoint:
		in.Endpoint = v
	case FieldAPIKey:
		in.APIKey = v
	}
	return in
}

func (in Input) trimmed() Input {
	return Input{
		Alias:    strings.TrimSpace(in.Alias),
		Model:    strings.TrimSpace(in.Model),
		Strategy: strings.TrimSpace(in.Strategy),
		Routing:  strings.TrimSpace(in.Routing),
		Endpoint: strings.TrimSpace(in.Endpoint),
		APIKey:   strings.TrimSpace(in.APIKey),
	}
}

// Validator checks candidates against the configured model catalog.
type Validator struct {
	// KnownModel reports whether a model identifier is configured.
	KnownModel func(string) bool
}

// NewValidator returns a Validator backed by the process-wide model catalog.
func NewValidator() *Validator {
	return &Validator{KnownModel: catalog.IsKnownModel}
}

// Validate evaluates every rule against in and returns either the normalized candidate
// or a *ValidationError listing each violated rule in rule order.
func (v *Validator) Validate(in Input) (models.ModelConfig, error) {
	in = in.trimmed()
	var errs []FieldError

	if in.Alias == "" {
		errs = append(errs, newFieldError(MissingAlias))
	}
	if v.KnownModel == nil || !v.KnownModel(in.Model) {
		errs = append(errs, newFieldError(InvalidModel))
	}

	strategy := in.Strategy
	if !catalog.IsStrategy(strategy) {
		errs = append(errs, newFieldError(MissingStrategy))
		strategy = ""
	}

	hasRouting := in.Routing != ""
	hasCustom := in.Endpoint != "" || in.APIKey != ""

	if strategy == models.StrategyAuto && !catalog.IsRoutingMode(in.Routing) {
		errs = append(errs, newFieldError(MissingRouting))
	}
	if strategy == models.StrategyAuto && hasCustom {
		errs = append(errs, newFieldError(ConflictingCustomFields))
	}
	if strategy == models.StrategyCustom && (in.Endpoint == "" || in.APIKey == "") {
		errs = append(errs, newFieldError(MissingCustomFields))
	}
	if strategy == models.StrategyCustom && hasRouting {
		errs = append(errs, newFieldError(ConflictingRouting))
	}
	if in.Endpoint != "" && !isEndpointURL(in.Endpoint) {
		errs = append(errs, newFieldError(InvalidEndpoint))
	}

	if len(errs) > 0 {
		return models.ModelConfig{}, &ValidationError{Errors: errs}
	}

	candidate := models.ModelConfig{
		Alias:    in.Alias,
		Model:    in.Model,
		Strategy: strategy,
	}
	if strategy == models.StrategyAuto {
		candidate.Routing = models.StringPtr(in.Routing)
	} else {
		candidate.Endpoint = models.StringPtr(in.Endpoint)
		candidate.APIKey = models.StringPtr(in.APIKey)
	}
	return candidate, nil
}

func isEndpointURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != "" && u.Hostname() != ""
}
