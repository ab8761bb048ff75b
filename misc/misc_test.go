package misc

import "testing"

func TestBuildInfo(t *testing.T) {
	if GetAppName() != "scopecss" {
		t.Errorf("GetAppName() = %q", GetAppName())
	}
	if len(GetVersion()) == 0 {
		t.Error("GetVersion() is empty")
	}
	if len(GetGitHash()) == 0 {
		t.Error("GetGitHash() is empty")
	}
}
