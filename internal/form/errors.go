package form

import "strings"

// Kind identifies which validation rule was violated.
type Kind string

const (
	MissingAlias            Kind = "MissingAliasError"
	InvalidModel            Kind = "InvalidModelError"
	MissingStrategy         Kind = "MissingStrategyError"
	MissingRouting          Kind = "MissingRoutingError"
	ConflictingCustomFields Kind = "ConflictingCustomFieldsError"
	MissingCustomFields     Kind = "MissingCustomFieldsError"
	ConflictingRouting      Kind = "ConflictingRoutingError"
	InvalidEndpoint         Kind = "InvalidEndpointError"
)

var kindFields = map[Kind]Field{
	MissingAlias:            FieldAlias,
	InvalidModel:            FieldModel,
	MissingStrategy:         FieldStrategy,
	MissingRouting:          FieldRouting,
	ConflictingCustomFields: FieldEndpoint,
	MissingCustomFields:     FieldEndpoint,
	ConflictingRouting:      FieldRouting,
	InvalidEndpoint:         FieldEndpoint,
}

var kindMessages = map[Kind]string{
	MissingAlias:            "Alias is required",
	InvalidModel:            "Model must be one of the configured models",
	MissingStrategy:         "You must choose a strategy",
	MissingRouting:          "Routing is required when using automatic strategy",
	ConflictingCustomFields: "Endpoint and API Key must be empty when using automatic strategy",
	MissingCustomFields:     "Both Endpoint and API Key are required when using custom strategy",
	ConflictingRouting:      "Routing must be empty when using custom strategy",
	InvalidEndpoint:         "Must be a valid URL",
}

// FieldError is a single violated rule, attached to the field it is reported on.
type FieldError struct {
	Kind    Kind   `json:"kind"`
	Field   Field  `json:"field"`
	Message string `json:"message"`
}

func newFieldError(k Kind) FieldError {
	return FieldError{Kind: k, Field: kindFields[k], Message: kindMessages[k]}
}

func (e FieldError) Error() string {
	return string(e.Field) + ": " + e.Message
}

// ValidationError carries every violated rule of one validation pass, in rule order.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Kinds returns the violated rule kinds in order.
func (e *ValidationError) Kinds() []Kind {
	kinds := make([]Kind, 0, len(e.Errors))
	for _, fe := range e.Errors {
		kinds = append(kinds, fe.Kind)
	}
	return kinds
}

// Has reports whether kind was violated.
func (e *ValidationError) Has(kind Kind) bool {
	for _, fe := range e.Errors {
		if fe.Kind == kind {
			return true
		}
	}
	return false
}
