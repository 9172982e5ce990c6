package version

import "testing"

func TestDevBuild(t *testing.T) {
	if tag != "" || commit != "unknown" {
		t.Skip("built with ldflags")
	}
	if got := String(); got != "dev" {
		t.Errorf("String() = %q, want dev", got)
	}
	if got := Full(); got != "dev" {
		t.Errorf("Full() = %q, want dev", got)
	}
	if got := UserAgent("adminctl"); got != "adminctl/dev" {
		t.Errorf("UserAgent = %q", got)
	}
	if info := Get(); info.Version != "dev" || info.Commit != "unknown" {
		t.Errorf("Get() = %+v", info)
	}
}

func TestTaggedBuild(t *testing.T) {
	oldTag, oldCommit, oldDate := tag, commit, date
	t.Cleanup(func() { tag, commit, date = oldTag, oldCommit, oldDate })

	tag, commit, date = "v0.3.0", "abc1234", "2026-01-01"
	if got := Full(); got != "v0.3.0 (abc1234) built 2026-01-01" {
		t.Errorf("Full() = %q", got)
	}
	if got := String(); got != "v0.3.0" {
		t.Errorf("String() = %q", got)
	}
}
