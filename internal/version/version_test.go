package version

import "testing"

func TestStringAndUserAgent(t *testing.T) {
	oldVersion, oldCommit, oldBuild := Version, Commit, BuildTime
	t.Cleanup(func() { Version, Commit, BuildTime = oldVersion, oldCommit, oldBuild })

	Version, Commit, BuildTime = "v1.2.3", "abc123", "2026-01-02"
	if got, want := String(), "v1.2.3 (abc123, built 2026-01-02)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := UserAgent("gatoctl"), "gatoctl/v1.2.3"; got != want {
		t.Errorf("UserAgent() = %q, want %q", got, want)
	}
}
