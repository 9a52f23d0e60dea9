package version

import (
	"runtime/debug"
	"testing"
)

func saveAndRestore() func() {
	v, c, b := Version, GitCommit, BuildTime
	return func() {
		Version, GitCommit, BuildTime = v, c, b
	}
}

func TestGet_Defaults(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit, BuildTime = "dev", "", ""

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.Release {
		t.Error("dev should not be a release")
	}
}

func TestGet_LinkTimeValuesWin(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit, BuildTime = "1.0.0", "abc1234", "2024-01-15T10:30:00Z"

	info := Get()
	if info.GitCommit != "abc1234" {
		t.Errorf("expected 'abc1234', got %q", info.GitCommit)
	}
	if info.BuildTime != "2024-01-15T10:30:00Z" {
		t.Errorf("unexpected build time %q", info.BuildTime)
	}
}

func TestFromBuildInfo(t *testing.T) {
	tests := []struct {
		name       string
		start      Info
		settings   []debug.BuildSetting
		wantCommit string
		wantTime   string
		wantDirty  bool
	}{
		{
			name: "fills empty fields",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2025-03-01T00:00:00Z"},
				{Key: "vcs.modified", Value: "true"},
			},
			wantCommit: "0123456",
			wantTime:   "2025-03-01T00:00:00Z",
			wantDirty:  true,
		},
		{
			name:  "keeps link-time values",
			start: Info{GitCommit: "feed", BuildTime: "yesterday"},
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2025-03-01T00:00:00Z"},
			},
			wantCommit: "feed",
			wantTime:   "yesterday",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := tt.start
			fromBuildInfo(&info, &debug.BuildInfo{GoVersion: "go1.24.0", Settings: tt.settings})
			if info.GitCommit != tt.wantCommit {
				t.Errorf("commit = %q, want %q", info.GitCommit, tt.wantCommit)
			}
			if info.BuildTime != tt.wantTime {
				t.Errorf("build time = %q, want %q", info.BuildTime, tt.wantTime)
			}
			if info.Modified != tt.wantDirty {
				t.Errorf("modified = %v, want %v", info.Modified, tt.wantDirty)
			}
			if info.GoVersion != "go1.24.0" {
				t.Errorf("go version = %q", info.GoVersion)
			}
		})
	}
}

func TestInfo_String(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.2.0", GitCommit: "abc1234"}, "1.2.0-abc1234"},
		{Info{Version: "1.2.0", GitCommit: "abc1234", Modified: true}, "1.2.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
