package state

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"scopecss/config"
)

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now()}
	time.Sleep(10 * time.Millisecond)
	if uptime := env.Uptime(); uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}
		for i := range 3 {
			env.RedirectStdLog()
			if env.restoreStdLog == nil {
				t.Errorf("Iteration %d: restoreStdLog not set", i)
			}
			env.RestoreStdLog()
		}
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})
}

func TestLocalEnv_Processors(t *testing.T) {
	t.Run("defaults without configuration", func(t *testing.T) {
		env := &LocalEnv{}
		sheet, err := env.NewParser().ParseString("a { b: c }")
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got := env.NewRenderer().RenderString(sheet, "x"); got != ".x a {\nb: c;\n}\n" {
			t.Errorf("RenderString = %q", got)
		}
	})

	t.Run("configured", func(t *testing.T) {
		cfg, err := config.LoadConfiguration("")
		if err != nil {
			t.Fatalf("LoadConfiguration error: %v", err)
		}
		cfg.Parser.MaxDepth = 1
		cfg.Render.Indent = 2
		cfg.Render.Values = map[string]string{"v": "red"}
		env := &LocalEnv{Cfg: cfg, Log: zaptest.NewLogger(t)}

		if _, err := env.NewParser().ParseString("a { b: f(x) }"); err == nil {
			t.Error("max depth from configuration is not honored")
		}
		sheet, err := env.NewParser().ParseString("b: ${v};")
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got := env.NewRenderer().RenderString(sheet, "x"); got != ".x {\n  b: red;\n}\n" {
			t.Errorf("RenderString = %q", got)
		}
	})
}
