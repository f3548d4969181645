package export

import (
	"fmt"
	"io"

	"github.com/shanehull/shopfinder/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultFileName = "shop_finder_leads.xlsx"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	SheetName       = "Sheet1"
)

// Columns is the header row shared by every tabular export.
var Columns = []string{"name", "url", "snippet", "category", "location", "query"}

func row(l model.Lead) []string {
	return []string{l.Name, l.URL, l.Snippet, l.Category, l.Location, l.Query}
}

// WriteXLSX writes a single-sheet workbook with a header row and one row per lead.
func WriteXLSX(w io.Writer, leads []model.Lead) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := setRow(f, 1, Columns); err != nil {
		return err
	}
	for i, l := range leads {
		if err := setRow(f, i+2, row(l)); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
		return fmt.Errorf("set row %d: %w", n, err)
	}
	return nil
}
