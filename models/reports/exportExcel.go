package reports

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const defaultColumnWidth = 15

// wider columns for the long-text fields
var columnWidths = map[string]float64{
	"전시상품명": 20,
	"휴대폰번호": 18,
	"주문번호":  20,
	"옵션정보":  25,
	"결제일시":  18,
	"대기신청일": 18,
	"코칭진행일": 18,
}

// ExportKind selects which shaped row set an export streams.
type ExportKind string

const (
	ExportSettlement ExportKind = "settlement"
	ExportUnmatched  ExportKind = "unmatched"
	ExportSuspected  ExportKind = "suspected"
	ExportDuplicates ExportKind = "duplicates"
)

var exportSheetNames = map[ExportKind]string{
	ExportSettlement: "결산",
	ExportUnmatched:  "불일치데이터",
	ExportSuspected:  "동일인추측",
	ExportDuplicates: "중복코칭",
}

// ExportFilename builds the settlement-style filename, e.g.
// "2508_매물코칭_결산.xlsx".
func ExportFilename(year, month int, kind ExportKind) string {
	return fmt.Sprintf("%02d%02d_매물코칭_%s.xlsx", year%100, month, exportSheetNames[kind])
}

// SheetName returns the sheet title used for an export kind.
func SheetName(kind ExportKind) string {
	name, ok := exportSheetNames[kind]
	if !ok {
		return "Sheet1"
	}
	return name
}

// BuildWorkbook lays a shaped row set into a single-sheet workbook with the
// fixed column order and header row.
func BuildWorkbook(sheetName string, columns []string, rows []Row) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, err
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		width := columnWidths[col]
		if width == 0 {
			width = defaultColumnWidth
		}
		if err := f.SetColWidth(sheetName, colName, colName, width); err != nil {
			return nil, err
		}
	}

	for r, row := range rows {
		for c, col := range columns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, cellValue(row[col])); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

func cellValue(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case decimal.Decimal:
		f, _ := val.Float64()
		return f
	default:
		return val
	}
}

// StreamWorkbook writes the workbook to an HTTP response as an xlsx download.
func StreamWorkbook(w http.ResponseWriter, f *excelize.File, filename string) error {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return f.Write(w)
}
