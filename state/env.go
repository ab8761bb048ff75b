// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"scopecss/config"
	"scopecss/css"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// used by compile and check subcommands
	NoDirs    bool
	Overwrite bool
	CodePage  encoding.Encoding
	Format    config.OutputFmt
	ClassName string // fixed scoping class, takes precedence over template
	Global    bool   // render without scoping class

	start         time.Time
	restoreStdLog func()
}

func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// NewParser returns css parser set up according to configuration.
func (e *LocalEnv) NewParser() *css.Parser {
	var opts []css.Option
	if e.Cfg != nil {
		opts = e.Cfg.Parser.Options()
	}
	return css.NewParser(e.Log, opts...)
}

// NewRenderer returns css renderer set up according to configuration.
func (e *LocalEnv) NewRenderer() *css.Renderer {
	var opts []css.RenderOption
	if e.Cfg != nil {
		opts = e.Cfg.Render.Options()
	}
	return css.NewRenderer(opts...)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
