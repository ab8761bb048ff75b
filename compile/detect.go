package compile

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// enough for filetype matchers
const headerSize = 262

const styleExt = ".css"

func readHeader(r io.Reader) ([]byte, error) {
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// isArchiveFile reports whether file is zip archive judging by its content.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head, err := readHeader(f)
	if err != nil {
		return false, err
	}
	if !filetype.Is(head, "zip") {
		return false, nil
	}
	// signature alone is not enough, make sure directory could be read
	fi, err := f.Stat()
	if err != nil {
		return false, err
	}
	_, err = zip.NewReader(f, fi.Size())
	return err == nil, nil
}

// isStyleName reports whether name looks like stylesheet.
func isStyleName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), styleExt)
}

// checkStyleContent rejects binary data which happens to have stylesheet
// name.
func checkStyleContent(head []byte) error {
	kind, err := filetype.Match(head)
	if err == nil && kind != filetype.Unknown {
		return fmt.Errorf("content looks like %s (%s), not a stylesheet", kind.MIME.Value, kind.Extension)
	}
	return nil
}

func isStyleInArchive(f *zip.File) (bool, error) {
	if !isStyleName(f.Name) {
		return false, nil
	}
	r, err := f.Open()
	if err != nil {
		return false, err
	}
	defer r.Close()

	head, err := readHeader(r)
	if err != nil {
		return false, err
	}
	return checkStyleContent(head) == nil, nil
}
