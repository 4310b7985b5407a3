package leave

import (
	"archive/zip"
	"fmt"
	"io"
	"time"
)

// ArchiveEntry is one file in an export archive. Name is slash separated.
type ArchiveEntry struct {
	Name     string
	Body     []byte
	Modified time.Time
}

// BuildArchive writes entries to w as a zip archive, in the order given.
func BuildArchive(w io.Writer, entries []ArchiveEntry) error {
	zw := zip.NewWriter(w)

	for _, entry := range entries {
		header := &zip.FileHeader{
			Name:     entry.Name,
			Method:   zip.Deflate,
			Modified: entry.Modified,
		}

		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("add %s: %w", entry.Name, err)
		}

		if _, err := fw.Write(entry.Body); err != nil {
			return fmt.Errorf("write %s: %w", entry.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}

	return nil
}
