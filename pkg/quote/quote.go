package quote

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Quote"

var headers = []string{"Product", "Unit Price", "Discount", "Quantity", "Line Total"}

// Line is one visible cart entry
type Line struct {
	ProductID string
	Name      string
	Price     int64
	Discount  int64
	Quantity  int
}

// Quote is a priced cart ready to export
type Quote struct {
	Lines         []Line
	Subtotal      int64
	TotalDiscount int64
	Shipping      int64
	Total         int64
	GeneratedAt   time.Time
}

// Build renders the quote as a single-sheet workbook
func Build(q Quote) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeRows(f, q); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeRows(f *excelize.File, q Quote) error {
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	for _, line := range q.Lines {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []interface{}{line.Name, line.Price, line.Discount, line.Quantity, line.Price * int64(line.Quantity)}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write line %s: %w", line.ProductID, err)
		}
		row++
	}

	row++ // blank spacer
	totals := []struct {
		label string
		value int64
	}{
		{"Subtotal", q.Subtotal},
		{"Discount", q.TotalDiscount},
		{"Shipping", q.Shipping},
		{"Total", q.Total},
	}
	for _, t := range totals {
		labelCell, _ := excelize.CoordinatesToCellName(4, row)
		valueCell, _ := excelize.CoordinatesToCellName(5, row)
		if err := f.SetCellValue(sheetName, labelCell, t.label); err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, valueCell, t.value); err != nil {
			return err
		}
		row++
	}

	if !q.GeneratedAt.IsZero() {
		cell, _ := excelize.CoordinatesToCellName(1, row+1)
		if err := f.SetCellValue(sheetName, cell, "Generated "+q.GeneratedAt.Format(time.RFC1123)); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheetName, "A", "A", 40)
}

// Write streams the workbook to w
func Write(w io.Writer, q Quote) error {
	f, err := Build(q)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
