package compile

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	fixzip "github.com/hidez8891/zip"
	"go.uber.org/multierr"

	"scopecss/config"
)

const stdStream = "-"

// sink receives produced results. Names are slash separated relative paths.
type sink interface {
	// Write stores data under name and returns its location for logging.
	Write(name string, data []byte) (string, error)
	Close() error
}

// newSink selects destination kind: "-" is standard output, path with .zip
// extension is an archive, anything else is a directory.
func newSink(dst string, overwrite bool, stdout io.Writer) (sink, error) {
	switch {
	case dst == stdStream:
		return &streamSink{w: stdout}, nil
	case strings.EqualFold(filepath.Ext(dst), ".zip"):
		return newZipSink(dst, overwrite)
	}
	if fi, err := os.Stat(dst); err == nil && !fi.IsDir() {
		return nil, fmt.Errorf("destination is not a directory: %s", dst)
	}
	return &dirSink{root: dst, overwrite: overwrite}, nil
}

// outputName derives result name from source path relative to processed
// directory or archive.
func outputName(src string, format config.OutputFmt, noDirs bool) string {
	dir, base := path.Split(filepath.ToSlash(src))
	base = config.CleanFileName(strings.TrimSuffix(base, path.Ext(base))) + format.Ext()
	if noDirs || len(dir) == 0 {
		return base
	}
	return path.Join(strings.TrimPrefix(path.Clean(dir), "/"), base)
}

type dirSink struct {
	root      string
	overwrite bool
}

func (s *dirSink) Write(name string, data []byte) (string, error) {
	out := filepath.Join(s.root, filepath.FromSlash(name))
	if _, err := os.Stat(out); err == nil {
		if !s.overwrite {
			return "", fmt.Errorf("output file already exists: %s", out)
		}
	} else if !os.IsNotExist(err) {
		return "", err
	} else if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", fmt.Errorf("unable to create output directory: %w", err)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return "", fmt.Errorf("unable to write output: %w", err)
	}
	return out, nil
}

func (s *dirSink) Close() error {
	return nil
}

type streamSink struct {
	w io.Writer
}

func (s *streamSink) Write(_ string, data []byte) (string, error) {
	if _, err := s.w.Write(data); err != nil {
		return "", fmt.Errorf("unable to write output: %w", err)
	}
	return "STDOUT", nil
}

func (s *streamSink) Close() error {
	return nil
}

type zipSink struct {
	name  string
	file  *os.File
	arc   *fixzip.Writer
	names map[string]bool
}

func newZipSink(dst string, overwrite bool) (*zipSink, error) {
	if _, err := os.Stat(dst); err == nil && !overwrite {
		return nil, fmt.Errorf("output file already exists: %s", dst)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("unable to create output archive: %w", err)
	}
	return &zipSink{name: dst, file: f, arc: fixzip.NewWriter(f), names: make(map[string]bool)}, nil
}

func (s *zipSink) Write(name string, data []byte) (string, error) {
	if s.names[name] {
		return "", fmt.Errorf("duplicate entry in output archive: %s", name)
	}
	w, err := s.arc.CreateHeader(&fixzip.FileHeader{Name: name, Method: fixzip.Deflate, Modified: time.Now()})
	if err != nil {
		return "", fmt.Errorf("unable to create archive entry: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("unable to write archive entry: %w", err)
	}
	s.names[name] = true
	return s.name + ":" + name, nil
}

func (s *zipSink) Close() (err error) {
	err = multierr.Append(err, s.arc.Close())
	err = multierr.Append(err, s.file.Close())
	if err != nil {
		return fmt.Errorf("unable to finalize output archive: %w", err)
	}
	return nil
}
