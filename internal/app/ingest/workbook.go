package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet flattened to trimmed string cells. All parsers in
// this package work on this representation, so the file format only
// matters here.
type Sheet struct {
	Name string
	Rows [][]string
}

// Workbook is the parsed spreadsheet file
type Workbook struct {
	Sheets []Sheet
}

// OpenWorkbook reads an .xlsx, .xls or .csv export into a Workbook. The
// format is chosen by file extension; a CSV becomes a single unnamed sheet.
func OpenWorkbook(r io.ReadSeeker, filename string) (*Workbook, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return openXLSX(r)
	case ".xls":
		return openXLS(r)
	case ".csv":
		return openCSV(r)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", filepath.Ext(filename))
	}
}

// FindSheet returns the first sheet whose name contains the given
// substring (case-insensitive), or nil.
func (w *Workbook) FindSheet(substr string) *Sheet {
	substr = strings.ToLower(substr)
	for i := range w.Sheets {
		if strings.Contains(strings.ToLower(w.Sheets[i].Name), substr) {
			return &w.Sheets[i]
		}
	}
	return nil
}

// FirstSheet returns the first sheet, or nil for an empty workbook.
func (w *Workbook) FirstSheet() *Sheet {
	if len(w.Sheets) == 0 {
		return nil
	}
	return &w.Sheets[0]
}

func openXLSX(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: trimRows(rows)})
	}
	return wb, nil
}

func openXLS(r io.ReadSeeker) (*Workbook, error) {
	f, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}

	wb := &Workbook{}
	for i := 0; i < f.NumSheets(); i++ {
		sheet := f.GetSheet(i)
		if sheet == nil {
			continue
		}
		var rows [][]string
		for ri := 0; ri <= int(sheet.MaxRow); ri++ {
			row := sheet.Row(ri)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for ci := 0; ci < row.LastCol(); ci++ {
				cells = append(cells, row.Col(ci))
			}
			rows = append(rows, cells)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: sheet.Name, Rows: trimRows(rows)})
	}
	return wb, nil
}

func openCSV(r io.Reader) (*Workbook, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // exports have ragged rows
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, record)
	}
	return &Workbook{Sheets: []Sheet{{Rows: trimRows(rows)}}}, nil
}

func trimRows(rows [][]string) [][]string {
	for _, row := range rows {
		for i, cell := range row {
			row[i] = strings.TrimSpace(cell)
		}
	}
	return rows
}
