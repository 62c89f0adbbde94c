package workbook

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/prathamesh1010/Paras-Wires/internal/domain"
)

// ExcelParser reads xlsx workbooks downloaded from Drive
type ExcelParser struct{}

// NewExcelParser creates a new workbook parser
func NewExcelParser() *ExcelParser {
	return &ExcelParser{}
}

// Parse returns every sheet of the workbook in tab order. A sheet whose rows
// cannot be read is returned with Err set and no rows.
func (p *ExcelParser) Parse(data []byte) ([]domain.RawSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedFormat, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]domain.RawSheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			sheets = append(sheets, domain.RawSheet{Title: name, Err: err})
			continue
		}
		sheets = append(sheets, domain.RawSheet{Title: name, Rows: rows})
	}
	return sheets, nil
}
