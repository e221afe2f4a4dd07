// Package spreadsheet decodes uploaded batch files into ordered raw rows.
package spreadsheet

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/cloo-solutions/geomed/internal/intake"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Row is one non-blank data row. Number is the spreadsheet row number, header is row 1.
// Cells follow the sheet's column order.
type Row struct {
	Number int
	Cells  []intake.Cell
}

// Value returns the leftmost cell under header, or "".
func (r Row) Value(header string) string {
	for _, c := range r.Cells {
		if c.Header == header {
			return c.Value
		}
	}
	return ""
}

// Sheet is the decoded first worksheet of an upload.
type Sheet struct {
	Headers []string
	Rows    []Row
}

// SupportedExtension reports whether filename ends in .xlsx or .xls.
func SupportedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// Parse decodes an uploaded workbook and checks it carries the template columns.
// Any failure here is a FileFormatError: nothing has been processed yet.
func Parse(filename string, data []byte) (*Sheet, error) {
	if !SupportedExtension(filename) {
		return nil, domain.FileFormatError("Only Excel files (.xlsx, .xls) are supported", nil)
	}

	var (
		grid [][]string
		err  error
	)
	switch {
	case bytes.HasPrefix(data, zipMagic):
		grid, err = readXLSX(data)
	case bytes.HasPrefix(data, oleMagic):
		grid, err = readXLS(data)
	default:
		return nil, domain.FileFormatError("file is not a valid Excel workbook", nil)
	}
	if err != nil {
		return nil, domain.FileFormatError("failed to read spreadsheet", err)
	}

	return fromGrid(grid)
}

func fromGrid(grid [][]string) (*Sheet, error) {
	if len(grid) == 0 {
		return nil, domain.FileFormatError("spreadsheet has no header row", nil)
	}

	headers := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		headers[i] = strings.TrimSpace(h)
	}
	if missing := intake.MissingColumns(headers); len(missing) > 0 {
		return nil, domain.FileFormatError(fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")), nil)
	}

	sheet := &Sheet{Headers: headers}
	for i, cells := range grid[1:] {
		if isBlank(cells) {
			continue
		}
		row := Row{Number: i + 2, Cells: make([]intake.Cell, 0, len(headers))}
		for col, h := range headers {
			if h == "" {
				continue
			}
			var v string
			if col < len(cells) {
				v = cells[col]
			}
			row.Cells = append(row.Cells, intake.Cell{Header: h, Value: v})
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}
	return f.GetRows(sheets[0])
}

func readXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, fmt.Errorf("first worksheet is unreadable")
	}

	var grid [][]string
	for i := 0; i <= int(ws.MaxRow); i++ {
		r := ws.Row(i)
		if r == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, r.LastCol()+1)
		for c := r.FirstCol(); c < len(cells); c++ {
			cells[c] = r.Col(c)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}
