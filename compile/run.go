// Package compile implements compile and check commands: it finds
// stylesheets in files, directories and zip archives, parses them and writes
// scoped results.
package compile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"scopecss/archive"
	"scopecss/config"
	"scopecss/state"
)

// Run is the action of compile command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("compile")

	src, err := sourceArg(cmd)
	if err != nil {
		return err
	}
	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst != stdStream {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	format, err := config.ParseOutputFmt(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown output format requested, switching to css", zap.Error(err))
		format = config.OutputFmtCss
	}

	env.ClassName, env.Global = cmd.String("class"), cmd.Bool("global")
	if len(env.ClassName) > 0 && env.Global {
		return errors.New("scoping class cannot be requested for global styles")
	}
	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")
	env.Format = format
	env.CodePage = codePage(cmd.String("force-zip-cp"), log)

	out, err := newSink(dst, env.Overwrite, os.Stdout)
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	j := newJob(env, log, out)
	err = j.process(ctx, src, os.Stdin)
	err = multierr.Append(err, out.Close())
	return multierr.Append(err, j.result())
}

// Check is the action of check command, sources are parsed and nothing is
// written.
func Check(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("check")

	src, err := sourceArg(cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	env.CodePage = codePage(cmd.String("force-zip-cp"), log)

	log.Info("Checking starting", zap.String("source", src))
	defer func(start time.Time) {
		log.Info("Checking completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	j := newJob(env, log, nil)
	j.diag = os.Stderr
	return multierr.Append(j.process(ctx, src, os.Stdin), j.result())
}

func sourceArg(cmd *cli.Command) (string, error) {
	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return "", errors.New("no input source has been specified")
	}
	if src == stdStream {
		return src, nil
	}
	return filepath.Abs(src)
}

// codePage returns encoding for non UTF-8 names in archives, zip "standard"
// does not define it so old archives may need it forced.
func codePage(name string, log *zap.Logger) encoding.Encoding {
	if len(name) == 0 {
		return nil
	}
	cp, err := ianaindex.IANA.Encoding(name)
	if err != nil || cp == nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", name), zap.Error(err))
		return nil
	}
	n, _ := ianaindex.IANA.Name(cp)
	log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
	return cp
}

// process determines the input type (standard input, directory, archive, path
// inside archive or single file) and processes it accordingly.
func (j *job) process(ctx context.Context, src string, stdin io.Reader) error {
	if src == stdStream {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("unable to read standard input: %w", err)
		}
		if err := j.processStyle(ctx, data, "stdin"+styleExt); err != nil {
			j.log.Error("Unable to process standard input", zap.Error(err))
		}
		return nil
	}

	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exist - probably path in archive
			continue
		}

		if fi.IsDir() {
			if len(tail) != 0 {
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := j.processDir(ctx, head); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			return nil
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := j.processArchive(ctx, head, filepath.ToSlash(tail), ""); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			return nil
		}

		if len(tail) != 0 {
			return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}
		if err := j.processFile(ctx, head, filepath.Base(head)); err != nil {
			j.log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
		}
		return nil
	}
	return fmt.Errorf("input source was not found (%s)", src)
}

// processDir finds stylesheets and archives under dir and processes them in
// natural order of their paths. Symbolic links are not followed.
func (j *job) processDir(ctx context.Context, dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			j.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Sort(natural.StringSlice(paths))

	count := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		isArchive, err := isArchiveFile(path)
		if err != nil {
			j.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			continue
		}
		if isArchive {
			count++
			if err := j.processArchive(ctx, path, "", filepath.ToSlash(filepath.Dir(rel))); err != nil {
				j.log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			continue
		}
		if !isStyleName(path) {
			j.log.Debug("Skipping file, not recognized as stylesheet or archive", zap.String("file", path))
			continue
		}
		count++
		if err := j.processFile(ctx, path, rel); err != nil {
			j.log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
	}
	if count == 0 {
		j.log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return nil
}

// processArchive processes stylesheets inside archive under pathIn. Results
// are named after archive entries placed under pathOut.
func (j *job) processArchive(ctx context.Context, path, pathIn, pathOut string) error {
	count := 0
	filter := archive.Filter{Prefix: pathIn, Ext: styleExt, CodePage: j.env.CodePage}
	err := archive.Walk(path, filter, func(arc string, e archive.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		ok, err := isStyleInArchive(e.File)
		if err != nil {
			j.log.Warn("Skipping file in archive", zap.String("archive", arc), zap.String("path", e.Name), zap.Error(err))
			return nil
		}
		if !ok {
			j.log.Debug("Skipping file, not recognized as stylesheet", zap.String("archive", arc), zap.String("file", e.Name))
			return nil
		}
		count++

		data, err := readEntry(e)
		if err != nil {
			err = j.fail(err)
		} else {
			err = j.processStyle(ctx, data, filepath.Join(filepath.FromSlash(pathOut), filepath.FromSlash(e.Name)))
		}
		if err != nil {
			j.log.Error("Unable to process file in archive", zap.String("archive", arc), zap.String("file", e.Name), zap.Error(err))
		}
		return nil
	})
	if err == nil && count == 0 {
		j.log.Debug("Nothing to process", zap.String("archive", path))
	}
	return err
}

func readEntry(e archive.Entry) ([]byte, error) {
	r, err := e.File.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (j *job) processFile(ctx context.Context, path, src string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return j.fail(err)
	}
	if err := checkStyleContent(data[:min(len(data), headerSize)]); err != nil {
		return j.fail(err)
	}
	return j.processStyle(ctx, data, src)
}
