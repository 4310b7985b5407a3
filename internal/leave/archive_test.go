package leave

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArchive(t *testing.T) {
	modified := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []ArchiveEntry{
		{Name: "汇总表.xlsx", Body: []byte("sheet"), Modified: modified},
		{Name: "假条/2021001_a.png", Body: []byte("png"), Modified: modified},
	}

	var buf bytes.Buffer
	require.NoError(t, BuildArchive(&buf, entries))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	for i, zf := range zr.File {
		assert.Equal(t, entries[i].Name, zf.Name)
		assert.False(t, zf.NonUTF8)

		rc, err := zf.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		assert.Equal(t, entries[i].Body, body)
	}
}

func TestBuildArchiveEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, BuildArchive(&buf, nil))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Empty(t, zr.File)
}
