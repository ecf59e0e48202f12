package models

import (
	"time"
)

// Strategy values for ModelConfig.Strategy.
const (
	StrategyAuto   = "auto"
	StrategyCustom = "custom"
)

// ModelConfig is a routing entry for one model alias.
// Under StrategyAuto only Routing is set; under StrategyCustom only Endpoint and APIKey are set.
// - Alias: path segment clients use to address the entry (gato/main/<alias>)
// - Model: catalog model identifier (e.g., "Voyage Large 3")
// - Routing: tier selector for automatic routing ("Cheapest", "Premium")
type ModelConfig struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Alias     string    `gorm:"uniqueIndex;not null" json:"alias"`
	Model     string    `gorm:"not null" json:"model"`
	Strategy  string    `gorm:"not null" json:"strategy"`
	Routing   *string   `json:"routing,omitempty"`
	Endpoint  *string   `json:"endpoint,omitempty"`
	APIKey    *string   `gorm:"column:api_key" json:"apiKey,omitempty"` // sealed at rest
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Path returns the address clients use for this entry.
func (m ModelConfig) Path() string {
	return "gato/main/" + m.Alias
}

// Summary is the short routing description shown next to a row.
func (m ModelConfig) Summary() string {
	if m.Strategy == StrategyCustom {
		return "Custom"
	}
	return Deref(m.Routing)
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
