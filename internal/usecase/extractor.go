package usecase

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/prathamesh1010/Paras-Wires/internal/domain"
)

// specificationKeywords mark a column header as specification data
var specificationKeywords = []string{"spec", "parameter", "value", "unit", "requirement", "standard"}

// technicalSheetKeywords mark a sheet title as technical; those sheets are merged first
var technicalSheetKeywords = []string{"technical", "specification", "standard", "conductor", "insulation", "jacket"}

// typeSampleSize is how many non-empty values decide a column's type
const typeSampleSize = 10

// BuildTable treats the first raw row as the header and pads or truncates
// every following row to the header length.
func BuildTable(title string, raw [][]string) *domain.SheetTable {
	table := &domain.SheetTable{Title: title, Header: []string{}, Rows: [][]string{}}
	if len(raw) == 0 {
		return table
	}

	table.Header = append([]string(nil), raw[0]...)
	width := len(table.Header)

	for _, row := range raw[1:] {
		normalized := make([]string, width)
		copy(normalized, row)
		table.Rows = append(table.Rows, normalized)
	}

	return table
}

// Summarize reports the shape of a table and infers a type tag per column
func Summarize(table *domain.SheetTable) domain.SheetSummary {
	summary := domain.SheetSummary{
		RowCount:    len(table.Rows),
		ColumnCount: len(table.Header),
		KeyFields:   []string{},
		DataTypes:   map[string]domain.ColumnType{},
	}

	if summary.RowCount == 0 {
		return summary
	}

	for col, header := range table.Header {
		headerLower := strings.ToLower(header)
		for _, keyword := range specificationKeywords {
			if strings.Contains(headerLower, keyword) {
				summary.HasSpecifications = true
				summary.KeyFields = append(summary.KeyFields, header)
				break
			}
		}

		columnType, ok := inferColumnType(table, col)
		if !ok {
			continue
		}
		if _, dup := summary.DataTypes[header]; !dup {
			summary.DataTypes[header] = columnType
		}
		if columnType == domain.ColumnNumeric {
			summary.HasNumericData = true
			summary.NumericColumns = append(summary.NumericColumns, header)
		}
	}

	return summary
}

// inferColumnType tags a column numeric when its first non-empty values all
// parse as numbers. ok is false for a column without values.
func inferColumnType(table *domain.SheetTable, col int) (domain.ColumnType, bool) {
	sampled := 0
	for _, row := range table.Rows {
		value := strings.TrimSpace(row[col])
		if value == "" {
			continue
		}
		if !isNumeric(value) {
			return domain.ColumnText, true
		}
		sampled++
		if sampled == typeSampleSize {
			break
		}
	}
	if sampled == 0 {
		return "", false
	}
	return domain.ColumnNumeric, true
}

// isNumeric checks if a cell value parses as a number
func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// OrderSheets returns sheet titles with technical sheets first, otherwise
// keeping their original order.
func OrderSheets(titles []string) []string {
	type ranked struct {
		title    string
		priority int
	}

	items := make([]ranked, len(titles))
	for i, title := range titles {
		priority := 1
		if containsAny(title, technicalSheetKeywords) {
			priority = 0
		}
		items[i] = ranked{title: title, priority: priority}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].priority < items[j].priority
	})

	ordered := make([]string, len(items))
	for i, item := range items {
		ordered[i] = item.title
	}
	return ordered
}

// DocumentPreview returns at most limit runes of text, with "..." appended
// when the text was cut, and the full rune length.
func DocumentPreview(text string, limit int) (string, int) {
	length := utf8.RuneCountInString(text)
	if limit < 0 || length <= limit {
		return text, length
	}
	runes := []rune(text)
	return string(runes[:limit]) + "...", length
}
