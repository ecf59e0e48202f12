package util

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short", "short log", DefaultMaxLen, "short log"},
		{"exact", "12345678901234567890", 20, "12345678901234567890"},
		{"long", "1234567890abcdefghij", 10, "1234567890... [truncated, 20 bytes total]"},
		{"empty", "", 10, ""},
		{"no limit", "abc", 0, "abc"},
		{"multibyte boundary", "ab€cd", 3, "ab... [truncated, 7 bytes total]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}
