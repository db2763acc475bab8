// Package archive packages several output artifacts into one zip stream.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"
)

// MediaType of the bundle produced by Bundle
const MediaType = "application/zip"

// Entry is one named file in a bundle
type Entry struct {
	Name string
	Data []byte
}

// epoch is stamped on every entry so equal input yields equal output
var epoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Bundle writes entries into a zip archive in the given order
func Bundle(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the zip archive for entries to w
func Write(w io.Writer, entries []Entry) error {
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return fmt.Errorf("entry %d has no name", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate entry name %q", e.Name)
		}
		seen[e.Name] = true
	}

	zw := zip.NewWriter(w)
	for _, e := range entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: epoch,
		})
		if err != nil {
			return fmt.Errorf("failed to create entry %q: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("failed to write entry %q: %w", e.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

// PageName returns the conventional entry name for page n (1-based)
func PageName(n int, ext string) string {
	return fmt.Sprintf("page_%d.%s", n, ext)
}
