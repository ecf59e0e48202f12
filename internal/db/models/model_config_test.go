package models

import "testing"

func TestModelConfigSummary(t *testing.T) {
	cheapest := "Cheapest"
	tests := []struct {
		name string
		cfg  ModelConfig
		want string
	}{
		{name: "auto", cfg: ModelConfig{Strategy: StrategyAuto, Routing: &cheapest}, want: "Cheapest"},
		{name: "custom", cfg: ModelConfig{Strategy: StrategyCustom, Routing: &cheapest}, want: "Custom"},
		{name: "auto without routing", cfg: ModelConfig{Strategy: StrategyAuto}, want: ""},
	}
	for _, tc := range tests {
		if got := tc.cfg.Summary(); got != tc.want {
			t.Errorf("%s: Summary() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestModelConfigPath(t *testing.T) {
	cfg := ModelConfig{Alias: "embed-small"}
	if got := cfg.Path(); got != "gato/main/embed-small" {
		t.Fatalf("Path() = %q", got)
	}
}

func TestStringPtr(t *testing.T) {
	if StringPtr("") != nil {
		t.Fatal("expected nil for empty string")
	}
	if got := Deref(StringPtr("x")); got != "x" {
		t.Fatalf("Deref(StringPtr(x)) = %q", got)
	}
}
