package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"seo_blog_publisher/selection"
)

// Header of the batch report, kept in the operator's language.
var header = []string{"STT", "Keyword", "Link đăng bài"}

// Write emits the batch report: one ordinal-ordered row per published
// keyword. Keywords still awaiting a featured-image choice are simply
// absent until resolved.
func Write(path string, rows []selection.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}
	for i, row := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &[]interface{}{row.Ordinal, row.Keyword, row.Link}); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
