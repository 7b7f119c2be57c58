package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"seo_blog_publisher/selection"
)

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	rows := []selection.Result{
		{Ordinal: 1, Keyword: "cà phê sữa", Link: "https://blog.example/ca-phe-sua/"},
		{Ordinal: 2, Keyword: "marketing online", Link: "https://blog.example/marketing-online/"},
	}
	require.NoError(t, Write(path, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	got, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"STT", "Keyword", "Link đăng bài"}, got[0])
	assert.Equal(t, []string{"1", "cà phê sữa", "https://blog.example/ca-phe-sua/"}, got[1])
	assert.Equal(t, []string{"2", "marketing online", "https://blog.example/marketing-online/"}, got[2])
}

func TestWriteReportEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, Write(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, got, 1)
}
