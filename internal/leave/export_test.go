package leave

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sort"
	"testing"

	"qingjia/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testExportConfig(t *testing.T) types.ExportConfig {
	return types.ExportConfig{
		ProgramName:     "软件工程ISEC",
		SheetTitle:      "请假记录",
		SpreadsheetName: "summary.xlsx",
		PhotosDir:       "photos",
		ArchiveName:     "bundle.zip",
		TempDir:         t.TempDir(),
	}
}

func newTestExporter(t *testing.T, records *fakeRecords, photos *fakePhotos) (*Exporter, *test.Hook, types.ExportConfig) {
	logger, hook := test.NewNullLogger()
	cfg := testExportConfig(t)
	return NewExporter(logger, records, photos, cfg), hook, cfg
}

// seedRecord stores a record and, unless missing, its photo.
func seedRecord(records *fakeRecords, photos *fakePhotos, studentID, name, date string) *types.LeaveRecord {
	key := "photos/" + studentID + "_" + name + "_20240301080000.jpg"
	photos.objects[key] = []byte("photo-of-" + studentID)
	r := &types.LeaveRecord{
		StudentID: studentID,
		Name:      name,
		Reason:    "reason " + studentID,
		LeaveDate: mustDate(date),
		PhotoURL:  photos.PublicURL(key),
	}
	_ = records.CreateLeaveRecord(context.Background(), r)
	return r
}

type unpacked struct {
	files map[string][]byte
	rows  [][]string
}

func unpack(t *testing.T, bundle *Bundle, cfg types.ExportConfig) unpacked {
	t.Helper()

	f, err := bundle.Open()
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := unpacked{files: map[string][]byte{}}
	for _, zf := range zr.File {
		rc, err := zf.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out.files[zf.Name] = body
	}

	sheet, ok := out.files[cfg.SpreadsheetName]
	require.True(t, ok, "spreadsheet missing from archive")

	wb, err := excelize.OpenReader(bytes.NewReader(sheet))
	require.NoError(t, err)
	defer wb.Close()

	out.rows, err = wb.GetRows(cfg.SheetTitle)
	require.NoError(t, err)

	return out
}

func photoNames(u unpacked, cfg types.ExportConfig) []string {
	names := make([]string, 0)
	for name := range u.files {
		if name != cfg.SpreadsheetName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func assertWorkspaceGone(t *testing.T, cfg types.ExportConfig) {
	t.Helper()
	entries, err := os.ReadDir(cfg.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "export workspace left behind")
}

var header = []string{"学号", "专业", "姓名", "请假日期", "请假原因"}

func TestExportValidation(t *testing.T) {
	cases := map[string]ExportRequest{
		"missing start":   {EndDate: "2024-03-01"},
		"missing end":     {StartDate: "2024-03-01"},
		"bad start":       {StartDate: "2024/03/01", EndDate: "2024-03-02"},
		"start after end": {StartDate: "2024-03-02", EndDate: "2024-03-01"},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			records := &fakeRecords{}
			exporter, _, cfg := newTestExporter(t, records, newFakePhotos())

			bundle, err := exporter.Export(context.Background(), req)

			var verr *types.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Nil(t, bundle)
			assert.Zero(t, records.queries)
			assertWorkspaceGone(t, cfg)
		})
	}
}

func TestExportSameDayRange(t *testing.T) {
	records, photos := &fakeRecords{}, newFakePhotos()
	seedRecord(records, photos, "2021001", "张三", "2024-03-01")
	exporter, _, cfg := newTestExporter(t, records, photos)

	bundle, err := exporter.Export(context.Background(), ExportRequest{StartDate: "2024-03-01", EndDate: "2024-03-01"})
	require.NoError(t, err)
	defer bundle.Cleanup()

	u := unpack(t, bundle, cfg)
	assert.Len(t, u.rows, 2)
}

func TestExportQueryError(t *testing.T) {
	records := &fakeRecords{queryErr: errors.New("database unreachable")}
	exporter, _, cfg := newTestExporter(t, records, newFakePhotos())

	_, err := exporter.Export(context.Background(), ExportRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})

	var qerr *types.QueryError
	require.ErrorAs(t, err, &qerr)
	assert.ErrorIs(t, err, records.queryErr)
	assertWorkspaceGone(t, cfg)
}

func TestExportEmptyRange(t *testing.T) {
	records, photos := &fakeRecords{}, newFakePhotos()
	seedRecord(records, photos, "2021001", "张三", "2024-01-15")
	exporter, _, cfg := newTestExporter(t, records, photos)

	bundle, err := exporter.Export(context.Background(), ExportRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	require.NoError(t, err)

	u := unpack(t, bundle, cfg)
	assert.Equal(t, [][]string{header}, u.rows)
	assert.Empty(t, photoNames(u, cfg))
	assert.Equal(t, 0, bundle.Records)
	assert.Equal(t, "bundle.zip", bundle.Filename)
	assert.Equal(t, "application/zip", bundle.ContentType)

	bundle.Cleanup()
	assertWorkspaceGone(t, cfg)
}

func TestExportRowsNewestFirst(t *testing.T) {
	records, photos := &fakeRecords{}, newFakePhotos()
	seedRecord(records, photos, "2021002", "李四", "2024-03-02")
	seedRecord(records, photos, "2021001", "张三", "2024-03-05")
	seedRecord(records, photos, "2021003", "王五", "2024-03-01")
	seedRecord(records, photos, "2021004", "赵六", "2024-04-01")
	exporter, _, cfg := newTestExporter(t, records, photos)

	bundle, err := exporter.Export(context.Background(), ExportRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	require.NoError(t, err)
	defer bundle.Cleanup()

	u := unpack(t, bundle, cfg)
	assert.Equal(t, [][]string{
		header,
		{"2021001", "软件工程ISEC", "张三", "2024-03-05", "reason 2021001"},
		{"2021002", "软件工程ISEC", "李四", "2024-03-02", "reason 2021002"},
		{"2021003", "软件工程ISEC", "王五", "2024-03-01", "reason 2021003"},
	}, u.rows)

	assert.Equal(t, []string{
		"photos/2021001_2021001_张三_20240301080000.jpg",
		"photos/2021002_2021002_李四_20240301080000.jpg",
		"photos/2021003_2021003_王五_20240301080000.jpg",
	}, photoNames(u, cfg))
	assert.Equal(t, []byte("photo-of-2021002"), u.files["photos/2021002_2021002_李四_20240301080000.jpg"])
}

func TestExportSkipsFailedPhoto(t *testing.T) {
	records, photos := &fakeRecords{}, newFakePhotos()
	seedRecord(records, photos, "2021001", "张三", "2024-03-03")
	broken := seedRecord(records, photos, "2021002", "李四", "2024-03-02")
	seedRecord(records, photos, "2021003", "王五", "2024-03-01")

	brokenKey, err := photos.KeyFromURL(broken.PhotoURL)
	require.NoError(t, err)
	photos.failKeys[brokenKey] = true

	exporter, hook, cfg := newTestExporter(t, records, photos)

	bundle, err := exporter.Export(context.Background(), ExportRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	require.NoError(t, err)

	u := unpack(t, bundle, cfg)
	assert.Len(t, u.rows, 4)
	assert.Len(t, photoNames(u, cfg), 2)
	assert.NotContains(t, u.files, "photos/2021002_2021002_李四_20240301080000.jpg")
	assert.Equal(t, 3, bundle.Records)
	assert.Equal(t, 2, bundle.Photos)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["student_id"] == "2021002" {
			warned = true
		}
	}
	assert.True(t, warned, "failed download was not logged")

	bundle.Cleanup()
	assertWorkspaceGone(t, cfg)
}

func TestExportSkipsForeignPhotoURL(t *testing.T) {
	records, photos := &fakeRecords{}, newFakePhotos()
	r := seedRecord(records, photos, "2021001", "张三", "2024-03-03")
	r.PhotoURL = "https://elsewhere.example.com/photos/x.jpg"
	exporter, _, cfg := newTestExporter(t, records, photos)

	bundle, err := exporter.Export(context.Background(), ExportRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	require.NoError(t, err)
	defer bundle.Cleanup()

	u := unpack(t, bundle, cfg)
	assert.Len(t, u.rows, 2)
	assert.Empty(t, photoNames(u, cfg))
}

func TestExportAssemblyFailureCleansUp(t *testing.T) {
	records, photos := &fakeRecords{}, newFakePhotos()
	seedRecord(records, photos, "2021001", "张三", "2024-03-03")

	logger, _ := test.NewNullLogger()
	cfg := testExportConfig(t)
	// The spreadsheet path collides with the photos directory.
	cfg.SpreadsheetName = cfg.PhotosDir
	exporter := NewExporter(logger, records, photos, cfg)

	bundle, err := exporter.Export(context.Background(), ExportRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})

	var aerr *types.AssemblyError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "spreadsheet", aerr.Step)
	assert.Nil(t, bundle)
	assertWorkspaceGone(t, cfg)
}

func TestBundleCleanupTwice(t *testing.T) {
	records, photos := &fakeRecords{}, newFakePhotos()
	exporter, _, cfg := newTestExporter(t, records, photos)

	bundle, err := exporter.Export(context.Background(), ExportRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	require.NoError(t, err)

	bundle.Cleanup()
	bundle.Cleanup()
	assertWorkspaceGone(t, cfg)

	var nilBundle *Bundle
	nilBundle.Cleanup()
}
