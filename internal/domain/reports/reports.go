// Package reports renders dashboard tables as downloadable documents.
package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"deptportal/internal/domain/dashboard"
	"deptportal/internal/domain/department"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type column struct {
	Header string
	Width  float64
	Value  func(dashboard.Row) string
}

var columns = []column{
	{Header: "Full Name", Width: 40, Value: func(r dashboard.Row) string { return r.OwnerName }},
	{Header: "Employee ID", Width: 34, Value: func(r dashboard.Row) string { return r.EmployeeID }},
	{Header: "Department Name", Width: 34, Value: func(r dashboard.Row) string { return r.Name }},
	{Header: "Category", Width: 26, Value: func(r dashboard.Row) string { return r.Category }},
	{Header: "Location", Width: 26, Value: func(r dashboard.Row) string { return r.Location }},
	{Header: "Salary", Width: 22, Value: func(r dashboard.Row) string { return r.Salary }},
}

// Headers lists the exported column titles in order.
func Headers() []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		out = append(out, c.Header)
	}
	return out
}

// Filename builds a dated download name such as departments-2024-05-01.pdf.
func Filename(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", prefix, now.Format("2006-01-02"), ext)
}

// WritePDF renders rows as a landscape A4 table.
func WritePDF(w io.Writer, title string, rows []dashboard.Row, generated time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, "Generated "+generated.UTC().Format(time.RFC1123))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range columns {
		pdf.CellFormat(c.Width, 8, c.Header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(rows) == 0 {
		pdf.CellFormat(totalWidth(), 8, dashboard.MsgEmpty, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	for _, row := range rows {
		for _, c := range columns {
			pdf.CellFormat(c.Width, 8, c.Value(row), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func totalWidth() float64 {
	total := 0.0
	for _, c := range columns {
		total += c.Width
	}
	return total
}

// WriteXLSX writes rows to a single sheet with a bold header row. Salaries
// that parse as numbers are stored as numbers.
func WriteXLSX(w io.Writer, sheet string, rows []dashboard.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, c := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, c.Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, colName, colName, c.Width/2); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for r, row := range rows {
		for i, c := range columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			var value any = c.Value(row)
			if c.Header == "Salary" {
				if n, ok := department.Salary(row.Salary).Float(); ok {
					value = n
				}
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write row %d: %w", r+1, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("render xlsx: %w", err)
	}
	return nil
}
