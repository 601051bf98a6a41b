package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, runtime.GOARCH, info.Arch)
	assert.NotEmpty(t, info.GoVersion)
}

func TestString(t *testing.T) {
	assert.Contains(t, String(), "catcrawler "+Version)
	assert.Equal(t, Version, Short())
}

func TestApplyVCS(t *testing.T) {
	tests := []struct {
		name       string
		info       BuildInfo
		wantCommit string
		wantDate   string
	}{
		{
			name:       "fills unknown fields",
			info:       BuildInfo{Commit: "unknown", Date: "unknown"},
			wantCommit: "0123456789ab",
			wantDate:   "2024-01-02T03:04:05Z",
		},
		{
			name:       "keeps ldflags values",
			info:       BuildInfo{Commit: "abc1234", Date: "2023-12-31"},
			wantCommit: "abc1234",
			wantDate:   "2023-12-31",
		},
	}

	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.time", Value: "2024-01-02T03:04:05Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := tt.info
			applyVCS(&info, settings)
			assert.Equal(t, tt.wantCommit, info.Commit)
			assert.Equal(t, tt.wantDate, info.Date)
		})
	}
}
