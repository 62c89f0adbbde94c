package domain

import (
	"strings"
	"time"
)

// Drive mime types accepted as datasheet candidates
const (
	MimeTypeSpreadsheet       = "application/vnd.google-apps.spreadsheet"
	MimeTypeDocument          = "application/vnd.google-apps.document"
	MimeTypeXLSX              = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeTypeLegacySpreadsheet = "application/vnd.ms-excel"
)

// FileKind classifies a Drive file by how its content is read
type FileKind int

const (
	FileKindUnsupported FileKind = iota
	FileKindSpreadsheet
	FileKindDocument
	FileKindWorkbook // xlsx/xls stored as a plain Drive file
)

// FileDescriptor is the metadata of a single file in the datasheet folder
type FileDescriptor struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime"` // raw RFC 3339 from Drive, parsed only when scoring
}

// Kind returns how the file's content should be extracted
func (f FileDescriptor) Kind() FileKind {
	switch f.MimeType {
	case MimeTypeSpreadsheet:
		return FileKindSpreadsheet
	case MimeTypeDocument:
		return FileKindDocument
	case MimeTypeXLSX, MimeTypeLegacySpreadsheet:
		return FileKindWorkbook
	default:
		return FileKindUnsupported
	}
}

// URL returns the browser link for the file
func (f FileDescriptor) URL() string {
	if strings.Contains(f.MimeType, "spreadsheet") {
		return "https://docs.google.com/spreadsheets/d/" + f.ID
	}
	return "https://docs.google.com/document/d/" + f.ID
}

// SheetProperties identifies one tab of a spreadsheet
type SheetProperties struct {
	SheetID int64  `json:"sheet_id"`
	Title   string `json:"title"`
}

// RawSheet is an untyped grid of cells as returned by a workbook parser.
// Err is set when the sheet's rows could not be read.
type RawSheet struct {
	Title string
	Rows  [][]string
	Err   error
}

// ColumnType is the inferred type tag of a sheet column
type ColumnType string

const (
	ColumnNumeric ColumnType = "numeric"
	ColumnText    ColumnType = "text"
)

// SheetTable is a normalized sheet: every row has exactly len(Header) cells
type SheetTable struct {
	Title  string     `json:"title"`
	Header []string   `json:"headers"`
	Rows   [][]string `json:"rows"`
}

// SheetSummary describes the shape and content of a sheet
type SheetSummary struct {
	RowCount          int                   `json:"row_count"`
	ColumnCount       int                   `json:"column_count"`
	HasNumericData    bool                  `json:"has_numeric_data"`
	NumericColumns    []string              `json:"numeric_columns,omitempty"`
	HasSpecifications bool                  `json:"has_specifications"`
	KeyFields         []string              `json:"key_fields"`
	DataTypes         map[string]ColumnType `json:"data_types"`
}

// SheetData is one extracted sheet; Err is set when the sheet could not be read
type SheetData struct {
	Title   string
	Table   *SheetTable
	Summary SheetSummary
	Err     string
}

// DocumentContent is the plain text of a Docs document
type DocumentContent struct {
	Text   string
	Length int // in runes
}

// Datasheet is everything extracted from a single matched file
type Datasheet struct {
	File     FileDescriptor
	Sheets   []SheetData
	Document *DocumentContent
}

// Credential is an OAuth access token scoped to one request
type Credential struct {
	AccessToken string
	TokenType   string
	Expiry      time.Time
}

// Valid reports whether the token can still be used
func (c *Credential) Valid() bool {
	if c == nil || c.AccessToken == "" {
		return false
	}
	return c.Expiry.IsZero() || time.Now().Before(c.Expiry)
}

// AuthorizationHeader returns the value for the HTTP Authorization header
func (c *Credential) AuthorizationHeader() string {
	tokenType := c.TokenType
	if tokenType == "" || strings.EqualFold(tokenType, "bearer") {
		tokenType = "Bearer"
	}
	return tokenType + " " + c.AccessToken
}
