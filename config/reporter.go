package config

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	fixzip "github.com/hidez8891/zip"
	"github.com/maruel/natural"

	"scopecss/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates initialized empty reporter.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	r := &Report{entries: make(map[string]entry)}

	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	r.file = f
	return r, nil
}

type entry struct {
	source string // as requested by caller
	path   string // what will be archived, empty for in-memory data
	data   []byte
	stamp  time.Time
	tmpDir string // holds our own copy of path
}

// Report accumulates files and data for the debug archive which is written
// on Close. All methods are safe to call on nil Report, which means no report
// has been requested.
// NOTE: not to be used concurrently.
type Report struct {
	entries map[string]entry
	file    *os.File
}

// Close writes the archive and removes temporary copies.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	defer r.file.Close()
	defer r.cleanup()
	return r.finalize()
}

// Name returns name of underlying file.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store records file or directory to be archived as is at the time of Close.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if old, exists := r.entries[name]; exists && old.source != path {
		panic(fmt.Sprintf("attempt to overwrite report entry [%s]: was %s, now %s", name, old.source, path))
	}
	e := entry{source: path, path: path}
	if p, err := filepath.Abs(path); err == nil {
		e.path = p
	}
	r.entries[name] = e
}

// StoreData records data to be archived under requested name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	if _, exists := r.entries[name]; exists {
		panic(fmt.Sprintf("attempt to overwrite report data [%s]", name))
	}
	r.entries[name] = entry{data: bytes.Clone(data), stamp: time.Now()}
}

// StoreCopy copies file or directory as it is now, so later changes are not
// reflected in the report. Repeated names get a timestamp suffix.
func (r *Report) StoreCopy(name, path string) error {
	if r == nil {
		return nil
	}

	src, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	e := entry{source: path, stamp: time.Now()}
	if _, exists := r.entries[name]; exists {
		name = fmt.Sprintf("%s-%d", name, e.stamp.UnixNano())
	}

	dir, err := os.MkdirTemp("", misc.GetAppName()+"-r-")
	if err != nil {
		return err
	}
	e.tmpDir = dir
	switch {
	case info.Mode().IsRegular():
		e.path, err = copyFile(dir, src, info.ModTime())
	case info.IsDir():
		e.path, err = dir, copyDir(dir, src)
	default:
		err = fmt.Errorf("unsupported file type for report: %s", src)
	}
	if err != nil {
		os.RemoveAll(dir)
		return err
	}
	r.entries[name] = e
	return nil
}

func (r *Report) cleanup() {
	for _, e := range r.entries {
		if len(e.tmpDir) > 0 {
			os.RemoveAll(e.tmpDir)
		}
	}
}

func copyFile(dir, src string, modTime time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	dst := filepath.Join(dir, filepath.Base(src))

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return dst, os.Chtimes(dst, modTime, modTime)
}

func copyDir(dir, src string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		_, err = copyFile(filepath.Join(dir, filepath.Dir(rel)), path, info.ModTime())
		return err
	})
}

// sortedNames returns entry names in natural order, MANIFEST and archive
// follow it.
func (r *Report) sortedNames() []string {
	names := make([]string, 0, len(r.entries))
	for k := range r.entries {
		names = append(names, k)
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

func (r *Report) manifest(names []string, now time.Time) []byte {
	buf := new(bytes.Buffer)
	for _, name := range names {
		e := r.entries[name]
		stamp := e.stamp
		if stamp.IsZero() {
			stamp = now
		}
		source := e.source
		if len(source) == 0 {
			source = "<data>"
		}
		fmt.Fprintf(buf, "%s\t%s\t%s : %s\n", stamp.UTC().Format(time.UnixDate), name, source, e.path)
	}
	return buf.Bytes()
}

func (r *Report) finalize() error {
	arc := fixzip.NewWriter(r.file)

	now := time.Now()
	names := r.sortedNames()
	if err := saveFile(arc, "MANIFEST", now, bytes.NewReader(r.manifest(names, now))); err != nil {
		arc.Close()
		return err
	}

	for _, name := range names {
		e := r.entries[name]
		if e.data != nil {
			if err := saveFile(arc, name, e.stamp, bytes.NewReader(e.data)); err != nil {
				arc.Close()
				return err
			}
			continue
		}
		// files could be gone by now, this is not an error
		info, err := os.Stat(e.path)
		if err != nil {
			continue
		}
		if info.IsDir() {
			err = saveDir(arc, name, e.path)
		} else if info.Mode().IsRegular() {
			err = saveOne(arc, name, e.path, info.ModTime())
		}
		if err != nil {
			arc.Close()
			return err
		}
	}
	return arc.Close()
}

func saveFile(dst *fixzip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := dst.CreateHeader(&fixzip.FileHeader{Name: name, Method: fixzip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

func saveOne(dst *fixzip.Writer, name, path string, t time.Time) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return saveFile(dst, name, t, f)
}

func saveDir(dst *fixzip.Writer, name, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		return saveOne(dst, filepath.ToSlash(filepath.Join(name, rel)), path, info.ModTime())
	})
}
