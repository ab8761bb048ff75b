package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"scopecss/config"
	"scopecss/css"
	"scopecss/state"
)

// job carries everything needed to process sources of a single command run.
type job struct {
	env      *state.LocalEnv
	log      *zap.Logger
	parser   *css.Parser
	renderer *css.Renderer
	out      sink      // nil when sources are only checked
	diag     io.Writer // receives parse error diagnostics when set

	processed, failed int
}

func newJob(env *state.LocalEnv, log *zap.Logger, out sink) *job {
	return &job{
		env:      env,
		log:      log,
		parser:   env.NewParser(),
		renderer: env.NewRenderer(),
		out:      out,
	}
}

func (j *job) fail(err error) error {
	j.processed++
	j.failed++
	return err
}

// result summarizes the run, single failure makes the whole run fail.
func (j *job) result() error {
	if j.processed == 0 {
		j.log.Warn("No stylesheets found")
		return nil
	}
	if j.failed > 0 {
		return fmt.Errorf("%d of %d stylesheet(s) failed", j.failed, j.processed)
	}
	return nil
}

// processStyle handles single stylesheet. "src" is the source path relative
// to processed directory or archive, for a file given directly it is just its
// base name.
func (j *job) processStyle(ctx context.Context, data []byte, src string) (rerr error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.processed++
	seq := j.processed

	var class, where string
	j.log.Debug("Processing starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			j.log.Error("Processing ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("from", src), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("processing panic: %v", r)
		}
		if rerr != nil {
			j.failed++
			return
		}
		j.log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)), zap.String("from", src), zap.String("to", where), zap.String("class", class))
	}(time.Now())

	j.env.Rpt.StoreData(fmt.Sprintf("input/%d/%s", seq, filepath.ToSlash(src)), data)

	text, enc, err := decodeStyle(data, j.env.Cfg.Parser.Charset)
	if err != nil {
		return fmt.Errorf("unable to decode stylesheet: %w", err)
	}
	j.log.Debug("Stylesheet decoded", zap.String("from", src), zap.String("charset", enc))

	sheet, err := j.parser.ParseString(text, filepath.ToSlash(src))
	if err != nil {
		var perr *css.ParseError
		if j.diag != nil && errors.As(err, &perr) {
			fmt.Fprint(j.diag, perr.Diagnostic())
		}
		return err
	}

	if j.out == nil {
		where = "-"
		return nil
	}

	if class, err = className(j.env, src, sheet); err != nil {
		return err
	}
	result, err := j.produce(sheet, class)
	if err != nil {
		return err
	}
	name := outputName(src, j.env.Format, j.env.NoDirs)
	if where, err = j.out.Write(name, result); err != nil {
		return err
	}
	j.env.Rpt.StoreData(fmt.Sprintf("output/%d/%s", seq, name), result)
	return nil
}

// styleDocument is structured form of compiled stylesheet.
type styleDocument struct {
	Class string     `yaml:"class,omitempty"`
	Key   string     `yaml:"key"`
	Sheet *css.Sheet `yaml:"sheet"`
}

func (j *job) produce(sheet *css.Sheet, class string) ([]byte, error) {
	switch j.env.Format {
	case config.OutputFmtAst:
		buf := new(bytes.Buffer)
		fmt.Fprintf(buf, "Class %q\n", class)
		buf.WriteString(sheet.Dump())
		return buf.Bytes(), nil
	case config.OutputFmtYaml:
		data, err := yaml.Marshal(styleDocument{Class: class, Key: sheet.Key().String(), Sheet: sheet})
		if err != nil {
			return nil, fmt.Errorf("unable to marshal stylesheet: %w", err)
		}
		return data, nil
	default:
		buf := new(bytes.Buffer)
		if err := j.renderer.Render(buf, sheet, class); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}
