package leave

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"qingjia/pkg/types"

	"github.com/sirupsen/logrus"
)

const (
	archiveFileName      = "export.zip"
	defaultPhotosDir     = "photos"
	defaultSpreadsheet   = "leave_records.xlsx"
	defaultArchiveName   = "leave_records.zip"
	archiveContentType   = "application/zip"
	spreadsheetAssembly  = "spreadsheet"
	archiveAssembly      = "archive"
	workspaceAcquisition = "workspace"
)

// ExportRequest is the raw date range of an export, both ends YYYY-MM-DD and
// inclusive.
type ExportRequest struct {
	StartDate string
	EndDate   string
}

type Exporter struct {
	logger  *logrus.Logger
	records RecordReader
	photos  PhotoStore
	config  types.ExportConfig
	now     func() time.Time
}

func NewExporter(logger *logrus.Logger, records RecordReader, photos PhotoStore, config types.ExportConfig) *Exporter {
	if config.PhotosDir == "" {
		config.PhotosDir = defaultPhotosDir
	}
	if config.SpreadsheetName == "" {
		config.SpreadsheetName = defaultSpreadsheet
	}
	if config.ArchiveName == "" {
		config.ArchiveName = defaultArchiveName
	}

	config.PhotosDir = filepath.Base(config.PhotosDir)
	config.SpreadsheetName = filepath.Base(config.SpreadsheetName)

	return &Exporter{
		logger:  logger,
		records: records,
		photos:  photos,
		config:  config,
		now:     time.Now,
	}
}

// Bundle is a finished export archive on disk. The caller streams it and must
// call Cleanup once the response has been sent.
type Bundle struct {
	// Filename is the download name offered to the client.
	Filename    string
	ContentType string
	Path        string
	Records     int
	Photos      int

	workspace *workspace
	logger    *logrus.Logger
	released  bool
}

// Open opens the archive for reading.
func (b *Bundle) Open() (*os.File, error) {
	return os.Open(b.Path)
}

// Cleanup removes the bundle's workspace. It is safe to call more than once
// and never fails; removal errors are logged.
func (b *Bundle) Cleanup() {
	if b == nil || b.released {
		return
	}
	b.released = true
	b.workspace.release(b.logger)
}

// Export gathers every record in the requested range into a zip holding a
// spreadsheet and whichever photos could be downloaded. A photo that cannot
// be fetched is logged and left out; the record still appears in the
// spreadsheet.
func (e *Exporter) Export(ctx context.Context, req ExportRequest) (*Bundle, error) {

	start, end, err := validateExportRequest(req)
	if err != nil {
		return nil, err
	}

	records, err := e.records.LeaveRecordsBetween(ctx, start, end)
	if err != nil {
		return nil, &types.QueryError{Err: err}
	}

	ws, err := acquireWorkspace(e.config.TempDir, e.config.PhotosDir)
	if err != nil {
		return nil, &types.AssemblyError{Step: workspaceAcquisition, Err: err}
	}

	delivered := false
	defer func() {
		if !delivered {
			ws.release(e.logger)
		}
	}()

	modified := e.now()

	photos := e.fetchPhotos(ctx, ws, records, modified)

	sheet, err := BuildSpreadsheet(records, e.config.SheetTitle, e.config.ProgramName)
	if err != nil {
		return nil, &types.AssemblyError{Step: spreadsheetAssembly, Err: err}
	}

	err = os.WriteFile(ws.path(e.config.SpreadsheetName), sheet, 0o644)
	if err != nil {
		return nil, &types.AssemblyError{Step: spreadsheetAssembly, Err: err}
	}

	entries := make([]ArchiveEntry, 0, len(photos)+1)
	entries = append(entries, ArchiveEntry{Name: e.config.SpreadsheetName, Body: sheet, Modified: modified})
	entries = append(entries, photos...)

	archivePath := ws.path(archiveFileName)
	err = writeArchiveFile(archivePath, entries)
	if err != nil {
		return nil, &types.AssemblyError{Step: archiveAssembly, Err: err}
	}

	e.logger.WithFields(logrus.Fields{
		"start_date": req.StartDate,
		"end_date":   req.EndDate,
		"records":    len(records),
		"photos":     len(photos),
		"workspace":  ws.root,
	}).Info("export bundle assembled")

	delivered = true

	return &Bundle{
		Filename:    e.config.ArchiveName,
		ContentType: archiveContentType,
		Path:        archivePath,
		Records:     len(records),
		Photos:      len(photos),
		workspace:   ws,
		logger:      e.logger,
	}, nil
}

// fetchPhotos downloads each record's photo into the workspace. Failures are
// isolated to the record they belong to.
func (e *Exporter) fetchPhotos(ctx context.Context, ws *workspace, records []*types.LeaveRecord, modified time.Time) []ArchiveEntry {

	byName := make(map[string]ArchiveEntry, len(records))

	for _, record := range records {
		entry := e.logger.WithFields(logrus.Fields{
			"record_id":  record.ID,
			"student_id": record.StudentID,
			"photo_url":  record.PhotoURL,
		})

		key, err := e.photos.KeyFromURL(record.PhotoURL)
		if err != nil {
			entry.WithError(err).Warn("skipping photo with unrecognised url")
			continue
		}

		data, err := e.photos.GetPhoto(ctx, key)
		if err != nil {
			entry.WithError(err).Warn("failed to download photo, skipping")
			continue
		}

		fileName := fmt.Sprintf("%s_%s", sanitizeFileName(record.StudentID), path.Base(key))

		err = os.WriteFile(filepath.Join(ws.photosDir, fileName), data, 0o644)
		if err != nil {
			entry.WithError(err).Warn("failed to write photo to workspace, skipping")
			continue
		}

		name := path.Join(e.config.PhotosDir, fileName)
		byName[name] = ArchiveEntry{Name: name, Body: data, Modified: modified}
	}

	photos := make([]ArchiveEntry, 0, len(byName))
	for _, p := range byName {
		photos = append(photos, p)
	}
	sort.Slice(photos, func(i, j int) bool { return photos[i].Name < photos[j].Name })

	return photos
}

func writeArchiveFile(archivePath string, entries []ArchiveEntry) error {
	f, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	if err := BuildArchive(f, entries); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

func validateExportRequest(req ExportRequest) (time.Time, time.Time, error) {
	start, startErr := parseDate(strings.TrimSpace(req.StartDate))
	end, endErr := parseDate(strings.TrimSpace(req.EndDate))
	if startErr != nil || endErr != nil {
		return time.Time{}, time.Time{}, types.NewValidationError("start and end dates are required (YYYY-MM-DD)")
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, types.NewValidationError("start date must not be after end date")
	}

	return start, end, nil
}

func sanitizeFileName(v string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(v)
}
