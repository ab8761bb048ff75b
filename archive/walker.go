// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"golang.org/x/text/encoding"
)

// Filter selects archive entries visited by Walk.
type Filter struct {
	// Prefix of entry path, empty matches everything.
	Prefix string
	// Ext is case insensitive name suffix, empty matches everything.
	Ext string
	// CodePage decodes entry names not flagged as UTF-8, nil leaves them as is.
	CodePage encoding.Encoding
}

// Entry is a single file in archive.
type Entry struct {
	// Name is entry path decoded according to Filter.CodePage.
	Name string
	File *zip.File
}

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk. If an error is returned, processing stops.
type WalkFunc func(archive string, entry Entry) error

// Walk calls walkFn for every file in the archive which satisfies filter in
// natural order of their names. Archives with entries having absolute paths
// or ".." components are rejected.
func Walk(archive string, filter Filter, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	entries := make(map[string]*zip.File, len(r.File))
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		if !isSafePath(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		name := decodeName(f, filter.CodePage)
		if !filter.match(name) {
			continue
		}
		if _, dup := entries[name]; dup {
			return fmt.Errorf("zip entry %q: duplicate name", name)
		}
		entries[name] = f
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))

	for _, name := range names {
		if err := walkFn(archive, Entry{Name: name, File: entries[name]}); err != nil {
			return err
		}
	}
	return nil
}

func (f Filter) match(name string) bool {
	if !strings.HasPrefix(name, f.Prefix) {
		return false
	}
	return len(f.Ext) == 0 || strings.HasSuffix(strings.ToLower(name), strings.ToLower(f.Ext))
}

func decodeName(f *zip.File, cp encoding.Encoding) string {
	if cp == nil || !f.NonUTF8 {
		return f.Name
	}
	if n, err := cp.NewDecoder().String(f.Name); err == nil {
		return n
	}
	return f.Name
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
