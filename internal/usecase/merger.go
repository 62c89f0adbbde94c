package usecase

import (
	"reflect"
	"strings"
	"time"

	"github.com/prathamesh1010/Paras-Wires/internal/domain"
)

// FieldMapping binds a report key to the datasheet row labels that fill it
type FieldMapping struct {
	ReportField string
	Labels      []string // tried in order
}

// fieldMappings is the fixed datasheet-label to report-field table
var fieldMappings = []FieldMapping{
	{ReportField: "itemDescription", Labels: []string{"Product Name", "Wire Name", "Cable Type", "Description", "Item Description"}},
	{ReportField: "conductor_type", Labels: []string{"Conductor Type", "Conductor Material", "Material"}},
	{ReportField: "insulation_type", Labels: []string{"Insulation Type", "Insulation Material", "Insulation"}},
	{ReportField: "voltage_rating", Labels: []string{"Voltage Rating", "Rated Voltage", "Voltage"}},
	{ReportField: "temperature_rating", Labels: []string{"Temperature Rating", "Operating Temperature", "Temp Rating"}},
	{ReportField: "referenceStandard", Labels: []string{"Standards", "Reference Standard", "Standard"}},
	{ReportField: "awg_size", Labels: []string{"AWG Size", "Conductor Size", "Size", "Gauge"}},
}

// FieldMappings returns a copy of the datasheet field mapping table
func FieldMappings() []FieldMapping {
	out := make([]FieldMapping, len(fieldMappings))
	for i, m := range fieldMappings {
		out[i] = FieldMapping{ReportField: m.ReportField, Labels: append([]string(nil), m.Labels...)}
	}
	return out
}

// Report keys written by the merger
const (
	reportKeyProductionDatasheet = "production_datasheet"
	reportKeyDatasheetSheets     = "datasheet_sheets"
	reportKeyDatasheetContent    = "datasheet_content"
)

// Merger writes datasheet values into reports
type Merger struct {
	previewChars int
	now          func() time.Time
}

// NewMerger creates a merger; previewChars bounds the document text preview
func NewMerger(previewChars int, now func() time.Time) *Merger {
	if previewChars <= 0 {
		previewChars = 1000
	}
	if now == nil {
		now = time.Now
	}
	return &Merger{previewChars: previewChars, now: now}
}

// MergeInto returns a copy of report enriched with the datasheet. Fields that
// already hold a value are never overwritten, and the first value found for a
// field wins across all sheets.
func (m *Merger) MergeInto(report domain.Report, ds *domain.Datasheet) domain.Report {
	enhanced := report.Clone()
	if ds == nil {
		return enhanced
	}

	enhanced[reportKeyProductionDatasheet] = map[string]interface{}{
		"source_file":     ds.File.Name,
		"source_url":      ds.File.URL(),
		"last_updated":    ds.File.ModifiedTime,
		"extraction_time": m.now().Format(time.RFC3339),
	}

	if len(ds.Sheets) > 0 {
		sheets := make(map[string]interface{}, len(ds.Sheets))
		for _, sheet := range ds.Sheets {
			sheets[sheet.Title] = sheetMetadata(sheet)
			if sheet.Err != "" || sheet.Table == nil {
				continue
			}
			mergeTable(enhanced, sheet.Table, sheet.Summary)
		}
		enhanced[reportKeyDatasheetSheets] = sheets
	}

	if ds.Document != nil {
		preview, _ := DocumentPreview(ds.Document.Text, m.previewChars)
		enhanced[reportKeyDatasheetContent] = map[string]interface{}{
			"text_content": preview,
			"full_length":  ds.Document.Length,
		}
	}

	return enhanced
}

// sheetMetadata is the per-sheet entry stored under datasheet_sheets
func sheetMetadata(sheet domain.SheetData) map[string]interface{} {
	if sheet.Err != "" || sheet.Table == nil {
		return map[string]interface{}{
			"summary":      domain.SheetSummary{KeyFields: []string{}, DataTypes: map[string]domain.ColumnType{}},
			"headers":      []string{},
			"row_count":    0,
			"column_count": 0,
			"error":        sheet.Err,
		}
	}
	return map[string]interface{}{
		"summary":      sheet.Summary,
		"headers":      sheet.Table.Header,
		"row_count":    len(sheet.Table.Rows),
		"column_count": len(sheet.Table.Header),
	}
}

// mergeTable fills empty report fields from a two-column key/value table
func mergeTable(report domain.Report, table *domain.SheetTable, summary domain.SheetSummary) {
	if len(table.Rows) == 0 || len(table.Header) == 0 {
		return
	}
	if summary.DataTypes[table.Header[0]] == domain.ColumnNumeric {
		return
	}

	for _, mapping := range fieldMappings {
		for _, label := range mapping.Labels {
			row := findRowByLabel(table, label)
			if row == nil {
				continue
			}

			value := ""
			if len(row) > 1 {
				value = strings.TrimSpace(row[1])
			}
			if value == "" {
				continue
			}

			if isEmptyValue(report[mapping.ReportField]) {
				report[mapping.ReportField] = value
			}
			break
		}
	}
}

// findRowByLabel returns the first row whose first cell contains label, ignoring case
func findRowByLabel(table *domain.SheetTable, label string) []string {
	for _, row := range table.Rows {
		if containsFold(row[0], label) {
			return row
		}
	}
	return nil
}

// isEmptyValue reports whether a report value counts as unset
func isEmptyValue(v interface{}) bool {
	if v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return val == ""
	case bool:
		return !val
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
