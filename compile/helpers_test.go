package compile

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"scopecss/config"
	"scopecss/state"
)

func testEnv(t *testing.T) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration error: %v", err)
	}
	return &state.LocalEnv{Cfg: cfg, Log: zaptest.NewLogger(t)}
}
