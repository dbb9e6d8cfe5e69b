package version

import (
	"runtime"
	"strings"
	"testing"
)

func withBuild(t *testing.T, v, commit string) {
	t.Helper()
	oldV, oldC := Version, GitCommit
	Version, GitCommit = v, commit
	t.Cleanup(func() { Version, GitCommit = oldV, oldC })
}

func TestGet(t *testing.T) {
	withBuild(t, "v1.4.0", "0123456789abcdef")

	info := Get()
	if info.Version != "v1.4.0" {
		t.Errorf("unexpected version %q", info.Version)
	}
	if info.GitCommit != "0123456" {
		t.Errorf("commit should be shortened, got %q", info.GitCommit)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("unexpected go version %q", info.GoVersion)
	}
}

func TestInfoShort(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "v1.0.0", GitCommit: "abc1234"}, "v1.0.0-abc1234"},
		{Info{Version: "v1.0.0", GitCommit: "abc1234", Dirty: true}, "v1.0.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		if got := tt.info.Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}
}

func TestUserAgent(t *testing.T) {
	withBuild(t, "v2.0.0", "feedbee")

	ua := UserAgent("reddit-client")
	if !strings.HasPrefix(ua, "reddit-client/v2.0.0-feedbee") {
		t.Errorf("unexpected product token in %q", ua)
	}
	if !strings.Contains(ua, "("+runtime.GOOS+"; "+runtime.Version()+")") {
		t.Errorf("expected platform comment in %q", ua)
	}
	if !strings.HasPrefix(UserAgent(""), DefaultProduct+"/") {
		t.Errorf("empty product should use %s", DefaultProduct)
	}
}
