package compile

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestIsArchiveFile(t *testing.T) {
	dir := t.TempDir()

	arc := filepath.Join(dir, "real.bin")
	writeZip(t, arc, map[string]string{"a.css": "a {}"})
	writeFiles(t, dir, map[string]string{
		"style.css":  "a { b: c }",
		"broken.zip": "PK\x03\x04 this is not an archive",
		"empty.zip":  "",
	})

	tests := []struct {
		name string
		want bool
	}{
		{"real.bin", true},
		{"style.css", false},
		{"broken.zip", false},
		{"empty.zip", false},
	}
	for _, tt := range tests {
		got, err := isArchiveFile(filepath.Join(dir, tt.name))
		if err != nil {
			t.Errorf("isArchiveFile(%s) error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("isArchiveFile(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if _, err := isArchiveFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestIsStyleName(t *testing.T) {
	for name, want := range map[string]bool{
		"a.css":       true,
		"dir/A.CSS":   true,
		"a.css.txt":   false,
		"css":         false,
		"styles.scss": false,
	} {
		if got := isStyleName(name); got != want {
			t.Errorf("isStyleName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestCheckStyleContent(t *testing.T) {
	tests := []struct {
		name    string
		head    []byte
		wantErr bool
	}{
		{"stylesheet", []byte("a { color: red }"), false},
		{"empty", nil, false},
		{"png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), true},
		{"gzip", []byte("\x1f\x8b\x08\x00\x00\x00\x00\x00"), true},
	}
	for _, tt := range tests {
		err := checkStyleContent(tt.head)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: checkStyleContent error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestIsStyleInArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.zip")
	writeZip(t, path, map[string]string{
		"a.css":    "a {}",
		"fake.css": "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR",
		"b.txt":    "a {}",
	})

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	want := map[string]bool{"a.css": true, "fake.css": false, "b.txt": false}
	for _, f := range r.File {
		got, err := isStyleInArchive(f)
		if err != nil {
			t.Fatalf("isStyleInArchive(%s) error: %v", f.Name, err)
		}
		if got != want[f.Name] {
			t.Errorf("isStyleInArchive(%s) = %v, want %v", f.Name, got, want[f.Name])
		}
	}
}

func TestReadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short")
	if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	head, err := readHeader(f)
	if err != nil || string(head) != "abc" {
		t.Errorf("readHeader = %q, %v", head, err)
	}
}
