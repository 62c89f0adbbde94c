package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/prathamesh1010/Paras-Wires/internal/domain"
)

// MockCredentialProvider is a mock implementation of domain.CredentialProvider
type MockCredentialProvider struct {
	cred  *domain.Credential
	err   error
	calls int
}

func NewMockCredentialProvider() *MockCredentialProvider {
	return &MockCredentialProvider{cred: &domain.Credential{AccessToken: "test-token", TokenType: "Bearer"}}
}

func (m *MockCredentialProvider) Acquire(ctx context.Context) (*domain.Credential, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.cred, nil
}

// MockDocumentStore is a mock implementation of domain.DocumentStore
type MockDocumentStore struct {
	files      []domain.FileDescriptor
	listError  error
	fileByID   map[string]domain.FileDescriptor
	sheets     map[string][]domain.SheetProperties
	sheetError error
	ranges     map[string][][]string
	rangeError map[string]error
	documents  map[string]string
	docError   error
	downloads  map[string][]byte
	dlError    error

	readOrder []string
	seenCreds []*domain.Credential
}

func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		fileByID:   map[string]domain.FileDescriptor{},
		sheets:     map[string][]domain.SheetProperties{},
		ranges:     map[string][][]string{},
		rangeError: map[string]error{},
		documents:  map[string]string{},
		downloads:  map[string][]byte{},
	}
}

func (m *MockDocumentStore) ListFiles(ctx context.Context, cred *domain.Credential, folderID string) ([]domain.FileDescriptor, error) {
	m.seenCreds = append(m.seenCreds, cred)
	if m.listError != nil {
		return nil, m.listError
	}
	return m.files, nil
}

func (m *MockDocumentStore) GetFile(ctx context.Context, cred *domain.Credential, fileID string) (*domain.FileDescriptor, error) {
	m.seenCreds = append(m.seenCreds, cred)
	file, ok := m.fileByID[fileID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, fileID)
	}
	return &file, nil
}

func (m *MockDocumentStore) ListSheets(ctx context.Context, cred *domain.Credential, spreadsheetID string) ([]domain.SheetProperties, error) {
	m.seenCreds = append(m.seenCreds, cred)
	if m.sheetError != nil {
		return nil, m.sheetError
	}
	return m.sheets[spreadsheetID], nil
}

func (m *MockDocumentStore) ReadRange(ctx context.Context, cred *domain.Credential, spreadsheetID, rangeSpec string) ([][]string, error) {
	m.seenCreds = append(m.seenCreds, cred)
	m.readOrder = append(m.readOrder, rangeSpec)
	if err, ok := m.rangeError[rangeSpec]; ok {
		return nil, err
	}
	return m.ranges[rangeSpec], nil
}

func (m *MockDocumentStore) ReadDocumentText(ctx context.Context, cred *domain.Credential, documentID string) (string, error) {
	m.seenCreds = append(m.seenCreds, cred)
	if m.docError != nil {
		return "", m.docError
	}
	return m.documents[documentID], nil
}

func (m *MockDocumentStore) DownloadFile(ctx context.Context, cred *domain.Credential, fileID string) ([]byte, error) {
	m.seenCreds = append(m.seenCreds, cred)
	if m.dlError != nil {
		return nil, m.dlError
	}
	return m.downloads[fileID], nil
}

// MockWorkbookParser is a mock implementation of domain.WorkbookParser
type MockWorkbookParser struct {
	sheets   []domain.RawSheet
	err      error
	received []byte
}

func (m *MockWorkbookParser) Parse(data []byte) ([]domain.RawSheet, error) {
	m.received = data
	if m.err != nil {
		return nil, m.err
	}
	return m.sheets, nil
}

func newTestService(creds *MockCredentialProvider, store *MockDocumentStore, parser *MockWorkbookParser) *DatasheetService {
	var workbooks domain.WorkbookParser
	if parser != nil {
		workbooks = parser
	}
	return NewDatasheetService(creds, store, workbooks, DatasheetServiceConfig{
		FolderID:     "folder-1",
		Ranker:       DefaultRankerConfig(),
		PreviewChars: 1000,
		Now:          func() time.Time { return fixedNow },
	}, nil)
}

var productionSheet = domain.FileDescriptor{
	ID:           "ss-1",
	Name:         "12 AWG XLPE Production Datasheet",
	MimeType:     domain.MimeTypeSpreadsheet,
	ModifiedTime: "2026-10-13T09:00:00Z",
}

func seedSpreadsheet(store *MockDocumentStore) {
	store.files = []domain.FileDescriptor{
		{ID: "old", Name: "Unrelated Report", MimeType: domain.MimeTypeDocument, ModifiedTime: "2020-01-01T00:00:00Z"},
		productionSheet,
	}
	store.fileByID[productionSheet.ID] = productionSheet
	store.sheets[productionSheet.ID] = []domain.SheetProperties{
		{SheetID: 0, Title: "Summary"},
		{SheetID: 1, Title: "Technical Data"},
	}
	store.ranges["'Technical Data'!A:Z"] = [][]string{
		{"Property", "Value"},
		{"Conductor Material", "Copper"},
		{"Rated Voltage", "600V"},
		{"AWG Size", "12"},
	}
	store.ranges["'Summary'!A:Z"] = [][]string{
		{"Property", "Value"},
		{"Product Name", "12 AWG XLPE Hook-up Wire"},
		{"Rated Voltage", "1000V"},
	}
}

func TestNewDatasheetService(t *testing.T) {
	svc := NewDatasheetService(NewMockCredentialProvider(), NewMockDocumentStore(), nil, DatasheetServiceConfig{}, nil)

	require.NotNil(t, svc)
	assert.NotNil(t, svc.logger)
	assert.NotNil(t, svc.now)
	assert.Equal(t, 1000, svc.merger.previewChars)
}

func TestSearchDatasheets(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for blank wire name", func(t *testing.T) {
		creds := NewMockCredentialProvider()
		svc := newTestService(creds, NewMockDocumentStore(), nil)

		_, err := svc.SearchDatasheets(ctx, "   ")

		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Zero(t, creds.calls)
	})

	t.Run("wraps credential failures as authentication errors", func(t *testing.T) {
		creds := NewMockCredentialProvider()
		creds.err = errors.New("token file missing")
		svc := newTestService(creds, NewMockDocumentStore(), nil)

		_, err := svc.SearchDatasheets(ctx, "12 AWG")

		assert.ErrorIs(t, err, domain.ErrAuthentication)
		assert.Contains(t, err.Error(), "token file missing")
	})

	t.Run("rejects an invalid credential", func(t *testing.T) {
		creds := NewMockCredentialProvider()
		creds.cred = &domain.Credential{AccessToken: "expired", Expiry: time.Now().Add(-time.Hour)}
		svc := newTestService(creds, NewMockDocumentStore(), nil)

		_, err := svc.SearchDatasheets(ctx, "12 AWG")

		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})

	t.Run("propagates listing failures", func(t *testing.T) {
		store := NewMockDocumentStore()
		store.listError = fmt.Errorf("%w: status 500", domain.ErrStorageFailure)
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		_, err := svc.SearchDatasheets(ctx, "12 AWG")

		assert.ErrorIs(t, err, domain.ErrStorageFailure)
	})

	t.Run("ranks folder files with the acquired credential", func(t *testing.T) {
		creds := NewMockCredentialProvider()
		store := NewMockDocumentStore()
		seedSpreadsheet(store)
		svc := newTestService(creds, store, nil)

		results, err := svc.SearchDatasheets(ctx, "12 AWG XLPE Cable")

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "ss-1", results[0].File.ID)
		assert.Equal(t, 55, results[0].Score)
		assert.Equal(t, 1, creds.calls)
		require.Len(t, store.seenCreds, 1)
		assert.Same(t, creds.cred, store.seenCreds[0])
	})
}

func TestGetLatestDatasheet(t *testing.T) {
	ctx := context.Background()

	t.Run("returns not found when nothing matches", func(t *testing.T) {
		store := NewMockDocumentStore()
		store.files = []domain.FileDescriptor{
			{ID: "x", Name: "Invoice", MimeType: domain.MimeTypeDocument, ModifiedTime: "2019-01-01T00:00:00Z"},
		}
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		_, err := svc.GetLatestDatasheet(ctx, "12 AWG")

		assert.ErrorIs(t, err, domain.ErrDatasheetNotFound)
	})

	t.Run("extracts spreadsheet tabs with technical sheets first", func(t *testing.T) {
		creds := NewMockCredentialProvider()
		store := NewMockDocumentStore()
		seedSpreadsheet(store)
		svc := newTestService(creds, store, nil)

		ds, err := svc.GetLatestDatasheet(ctx, "12 AWG XLPE")

		require.NoError(t, err)
		assert.Equal(t, productionSheet, ds.File)
		assert.Equal(t, []string{"'Technical Data'!A:Z", "'Summary'!A:Z"}, store.readOrder)
		require.Len(t, ds.Sheets, 2)
		assert.Equal(t, "Technical Data", ds.Sheets[0].Title)
		assert.Equal(t, []string{"Property", "Value"}, ds.Sheets[0].Table.Header)
		assert.Equal(t, 3, ds.Sheets[0].Summary.RowCount)
		assert.Nil(t, ds.Document)

		assert.Equal(t, 1, creds.calls)
		for _, seen := range store.seenCreds {
			assert.Same(t, creds.cred, seen)
		}
	})

	t.Run("records a failing sheet and keeps reading the rest", func(t *testing.T) {
		store := NewMockDocumentStore()
		seedSpreadsheet(store)
		store.rangeError["'Technical Data'!A:Z"] = fmt.Errorf("%w: status 500", domain.ErrStorageFailure)
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		ds, err := svc.GetLatestDatasheet(ctx, "12 AWG XLPE")

		require.NoError(t, err)
		require.Len(t, ds.Sheets, 2)
		assert.Equal(t, "Technical Data", ds.Sheets[0].Title)
		assert.Nil(t, ds.Sheets[0].Table)
		assert.Contains(t, ds.Sheets[0].Err, "Technical Data")
		assert.Contains(t, ds.Sheets[0].Err, "status 500")
		assert.Equal(t, "Summary", ds.Sheets[1].Title)
		assert.NotNil(t, ds.Sheets[1].Table)
	})

	t.Run("authentication errors while reading abort extraction", func(t *testing.T) {
		store := NewMockDocumentStore()
		seedSpreadsheet(store)
		store.rangeError["'Technical Data'!A:Z"] = fmt.Errorf("%w: status 401", domain.ErrAuthentication)
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		_, err := svc.GetLatestDatasheet(ctx, "12 AWG XLPE")

		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})

	t.Run("skips empty tabs", func(t *testing.T) {
		store := NewMockDocumentStore()
		seedSpreadsheet(store)
		delete(store.ranges, "'Summary'!A:Z")
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		ds, err := svc.GetLatestDatasheet(ctx, "12 AWG XLPE")

		require.NoError(t, err)
		require.Len(t, ds.Sheets, 1)
		assert.Equal(t, "Technical Data", ds.Sheets[0].Title)
	})

	t.Run("quotes sheet titles containing apostrophes", func(t *testing.T) {
		store := NewMockDocumentStore()
		seedSpreadsheet(store)
		store.sheets[productionSheet.ID] = []domain.SheetProperties{{Title: "Tech's Notes"}}
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		_, err := svc.GetLatestDatasheet(ctx, "12 AWG XLPE")

		require.NoError(t, err)
		assert.Equal(t, []string{"'Tech''s Notes'!A:Z"}, store.readOrder)
	})

	t.Run("reads document text", func(t *testing.T) {
		store := NewMockDocumentStore()
		store.files = []domain.FileDescriptor{
			{ID: "doc-1", Name: "XLPE wire technical notes", MimeType: domain.MimeTypeDocument, ModifiedTime: "2026-10-12T00:00:00Z"},
		}
		store.documents["doc-1"] = "Conductor: Copper\nVoltage: 600V\n"
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		ds, err := svc.GetLatestDatasheet(ctx, "XLPE")

		require.NoError(t, err)
		require.NotNil(t, ds.Document)
		assert.Equal(t, "Conductor: Copper\nVoltage: 600V\n", ds.Document.Text)
		assert.Equal(t, 32, ds.Document.Length)
		assert.Empty(t, ds.Sheets)
	})

	t.Run("downloads and parses workbook files", func(t *testing.T) {
		store := NewMockDocumentStore()
		store.files = []domain.FileDescriptor{
			{ID: "wb-1", Name: "XLPE datasheet.xlsx", MimeType: domain.MimeTypeXLSX, ModifiedTime: "2026-10-12T00:00:00Z"},
		}
		store.downloads["wb-1"] = []byte("PK-fake")
		parser := &MockWorkbookParser{sheets: []domain.RawSheet{
			{Title: "Pricing", Rows: [][]string{{"Item", "Price"}, {"Reel", "12.5"}}},
			{Title: "Empty"},
			{Title: "Conductor", Rows: [][]string{{"Property", "Value"}, {"Conductor Type", "Copper"}}},
		}}
		svc := newTestService(NewMockCredentialProvider(), store, parser)

		ds, err := svc.GetLatestDatasheet(ctx, "XLPE")

		require.NoError(t, err)
		assert.Equal(t, []byte("PK-fake"), parser.received)
		require.Len(t, ds.Sheets, 2)
		assert.Equal(t, "Conductor", ds.Sheets[0].Title)
		assert.Equal(t, "Pricing", ds.Sheets[1].Title)
	})

	t.Run("records workbook sheets that cannot be read", func(t *testing.T) {
		store := NewMockDocumentStore()
		store.files = []domain.FileDescriptor{
			{ID: "wb-1", Name: "XLPE datasheet.xlsx", MimeType: domain.MimeTypeXLSX, ModifiedTime: "2026-10-12T00:00:00Z"},
		}
		rowsErr := errors.New("xml syntax error on line 1")
		parser := &MockWorkbookParser{sheets: []domain.RawSheet{
			{Title: "Summary", Rows: [][]string{{"Property", "Value"}, {"Conductor Type", "Copper"}}},
			{Title: "Technical Specs", Err: rowsErr},
		}}
		core, logs := observer.New(zap.WarnLevel)
		svc := NewDatasheetService(NewMockCredentialProvider(), store, parser, DatasheetServiceConfig{
			FolderID: "folder-1",
			Ranker:   DefaultRankerConfig(),
			Now:      func() time.Time { return fixedNow },
		}, zap.New(core))

		ds, err := svc.GetLatestDatasheet(ctx, "XLPE")

		require.NoError(t, err)
		require.Len(t, ds.Sheets, 2)
		failed := ds.Sheets[0]
		assert.Equal(t, "Technical Specs", failed.Title)
		assert.Nil(t, failed.Table)
		assert.Contains(t, failed.Err, `sheet "Technical Specs" (read)`)
		assert.Contains(t, failed.Err, "xml syntax error")
		assert.Equal(t, 1, logs.FilterMessage("failed to process sheet").Len())

		out, err := svc.IntegrateDatasheet(ctx, "XLPE", domain.Report{"customer": "ACME"})

		require.NoError(t, err)
		assert.Equal(t, "Copper", out["conductor_type"])
		sheets := out["datasheet_sheets"].(map[string]interface{})
		meta := sheets["Technical Specs"].(map[string]interface{})
		assert.Equal(t, failed.Err, meta["error"])
		assert.Equal(t, 0, meta["row_count"])
		assert.Contains(t, sheets, "Summary")
	})

	t.Run("workbook parse failures are extraction errors", func(t *testing.T) {
		store := NewMockDocumentStore()
		store.files = []domain.FileDescriptor{
			{ID: "wb-1", Name: "XLPE datasheet.xls", MimeType: domain.MimeTypeLegacySpreadsheet, ModifiedTime: "2026-10-12T00:00:00Z"},
		}
		parseErr := errors.New("zip: not a valid zip file")
		svc := newTestService(NewMockCredentialProvider(), store, &MockWorkbookParser{err: parseErr})

		_, err := svc.GetLatestDatasheet(ctx, "XLPE")

		var extractErr *domain.ExtractionError
		require.ErrorAs(t, err, &extractErr)
		assert.Equal(t, "parse", extractErr.Stage)
		assert.ErrorIs(t, err, parseErr)
	})

	t.Run("workbook without a parser is unsupported", func(t *testing.T) {
		store := NewMockDocumentStore()
		store.files = []domain.FileDescriptor{
			{ID: "wb-1", Name: "XLPE datasheet.xlsx", MimeType: domain.MimeTypeXLSX, ModifiedTime: "2026-10-12T00:00:00Z"},
		}
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		_, err := svc.GetLatestDatasheet(ctx, "XLPE")

		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})
}

func TestGetDatasheet(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for blank file id", func(t *testing.T) {
		svc := newTestService(NewMockCredentialProvider(), NewMockDocumentStore(), nil)

		_, err := svc.GetDatasheet(ctx, "")

		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("extracts the requested file without searching", func(t *testing.T) {
		store := NewMockDocumentStore()
		seedSpreadsheet(store)
		store.listError = errors.New("list must not be called")
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		ds, err := svc.GetDatasheet(ctx, "ss-1")

		require.NoError(t, err)
		assert.Equal(t, "ss-1", ds.File.ID)
		assert.Len(t, ds.Sheets, 2)
	})

	t.Run("unknown file", func(t *testing.T) {
		svc := newTestService(NewMockCredentialProvider(), NewMockDocumentStore(), nil)

		_, err := svc.GetDatasheet(ctx, "missing")

		assert.ErrorIs(t, err, domain.ErrFileNotFound)
	})

	t.Run("unsupported mime type", func(t *testing.T) {
		store := NewMockDocumentStore()
		store.fileByID["pdf"] = domain.FileDescriptor{ID: "pdf", Name: "scan.pdf", MimeType: "application/pdf"}
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		_, err := svc.GetDatasheet(ctx, "pdf")

		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})
}

func TestIntegrateDatasheet(t *testing.T) {
	ctx := context.Background()

	t.Run("validates input", func(t *testing.T) {
		svc := newTestService(NewMockCredentialProvider(), NewMockDocumentStore(), nil)

		_, err := svc.IntegrateDatasheet(ctx, "", domain.Report{"a": 1})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)

		_, err = svc.IntegrateDatasheet(ctx, "12 AWG", domain.Report{})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)

		_, err = svc.IntegrateDatasheet(ctx, "12 AWG", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("merges the best datasheet", func(t *testing.T) {
		store := NewMockDocumentStore()
		seedSpreadsheet(store)
		svc := newTestService(NewMockCredentialProvider(), store, nil)
		report := domain.Report{"conductor_type": "Silver-plated copper", "customer": "ACME"}

		out, err := svc.IntegrateDatasheet(ctx, "12 AWG XLPE", report)

		require.NoError(t, err)
		assert.Equal(t, "Silver-plated copper", out["conductor_type"])
		assert.Equal(t, "600V", out["voltage_rating"])
		assert.Equal(t, "12", out["awg_size"])
		assert.Equal(t, "12 AWG XLPE Hook-up Wire", out["itemDescription"])
		assert.Equal(t, "ACME", out["customer"])
		assert.Contains(t, out, "production_datasheet")
		assert.Contains(t, out, "datasheet_sheets")
		assert.NotContains(t, report, "voltage_rating")
	})

	t.Run("returns an unchanged copy when nothing matches", func(t *testing.T) {
		store := NewMockDocumentStore()
		svc := newTestService(NewMockCredentialProvider(), store, nil)
		report := domain.Report{"customer": "ACME"}

		out, err := svc.IntegrateDatasheet(ctx, "12 AWG", report)

		require.NoError(t, err)
		assert.Equal(t, report, out)
	})

	t.Run("returns an unchanged copy when storage fails", func(t *testing.T) {
		store := NewMockDocumentStore()
		store.listError = fmt.Errorf("%w: status 503", domain.ErrStorageFailure)
		svc := newTestService(NewMockCredentialProvider(), store, nil)
		report := domain.Report{"customer": "ACME"}

		out, err := svc.IntegrateDatasheet(ctx, "12 AWG", report)

		require.NoError(t, err)
		assert.Equal(t, report, out)
	})

	t.Run("propagates authentication failures", func(t *testing.T) {
		creds := NewMockCredentialProvider()
		creds.err = domain.ErrAuthentication
		svc := newTestService(creds, NewMockDocumentStore(), nil)

		_, err := svc.IntegrateDatasheet(ctx, "12 AWG", domain.Report{"a": 1})

		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})
}

func TestAutoGenerateReport(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for missing wire name", func(t *testing.T) {
		svc := newTestService(NewMockCredentialProvider(), NewMockDocumentStore(), nil)

		_, err := svc.AutoGenerateReport(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)

		_, err = svc.AutoGenerateReport(ctx, &domain.AutoReportRequest{})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("builds and integrates a report with defaults", func(t *testing.T) {
		store := NewMockDocumentStore()
		seedSpreadsheet(store)
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		out, err := svc.AutoGenerateReport(ctx, &domain.AutoReportRequest{WireName: "12 AWG XLPE"})

		require.NoError(t, err)
		assert.Equal(t, "12 AWG XLPE", out["wire_name"])
		assert.Equal(t, "DEF STAN 61-12", out["standard_name"])
		assert.Equal(t, "2026-10-14T12:00:00Z", out["generation_time"])
		assert.Equal(t, map[string]interface{}{}, out["additional_data"])
		assert.Equal(t, "generated", out["status"])
		assert.Equal(t, "success", out["datasheet_integration"])
		assert.Equal(t, "600V", out["voltage_rating"])
	})

	t.Run("keeps the requested standard and additional data", func(t *testing.T) {
		svc := newTestService(NewMockCredentialProvider(), NewMockDocumentStore(), nil)

		out, err := svc.AutoGenerateReport(ctx, &domain.AutoReportRequest{
			WireName:       "16 AWG PVC",
			StandardName:   "MIL-W-5086",
			AdditionalData: map[string]interface{}{"batch": "B-17"},
		})

		require.NoError(t, err)
		assert.Equal(t, "MIL-W-5086", out["standard_name"])
		assert.Equal(t, map[string]interface{}{"batch": "B-17"}, out["additional_data"])
		assert.Equal(t, "success", out["datasheet_integration"])
	})

	t.Run("records integration failure on the report", func(t *testing.T) {
		store := NewMockDocumentStore()
		seedSpreadsheet(store)
		store.rangeError["'Technical Data'!A:Z"] = fmt.Errorf("%w: status 401", domain.ErrAuthentication)
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		out, err := svc.AutoGenerateReport(ctx, &domain.AutoReportRequest{WireName: "12 AWG XLPE"})

		require.NoError(t, err)
		assert.Equal(t, "failed", out["datasheet_integration"])
		assert.Contains(t, out["datasheet_error"], "status 401")
		assert.Equal(t, "generated", out["status"])
	})

	t.Run("fails when no credential is available", func(t *testing.T) {
		creds := NewMockCredentialProvider()
		creds.err = errors.New("no token")
		svc := newTestService(creds, NewMockDocumentStore(), nil)

		_, err := svc.AutoGenerateReport(ctx, &domain.AutoReportRequest{WireName: "12 AWG"})

		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})
}

func TestTestConnection(t *testing.T) {
	ctx := context.Background()

	t.Run("counts matches for the connection test query", func(t *testing.T) {
		store := NewMockDocumentStore()
		store.files = []domain.FileDescriptor{
			{ID: "a", Name: "Test cable datasheet", MimeType: domain.MimeTypeSpreadsheet, ModifiedTime: "2019-01-01T00:00:00Z"},
			{ID: "b", Name: "Archive.zip", MimeType: "application/zip", ModifiedTime: "2026-10-13T00:00:00Z"},
			{ID: "c", Name: "notes", MimeType: domain.MimeTypeDocument, ModifiedTime: "2019-01-01T00:00:00Z"},
		}
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		count, err := svc.TestConnection(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("reports authentication failure", func(t *testing.T) {
		creds := NewMockCredentialProvider()
		creds.err = errors.New("refresh failed")
		svc := newTestService(creds, NewMockDocumentStore(), nil)

		_, err := svc.TestConnection(ctx)

		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})
}

func TestListDatasheets(t *testing.T) {
	store := NewMockDocumentStore()
	seedSpreadsheet(store)
	svc := newTestService(NewMockCredentialProvider(), store, nil)

	results, err := svc.ListDatasheets(context.Background())

	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "ss-1", results[0].File.ID)
}

func TestSheetData(t *testing.T) {
	ctx := context.Background()

	t.Run("keys sheets by file and title", func(t *testing.T) {
		store := NewMockDocumentStore()
		seedSpreadsheet(store)
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		data, err := svc.SheetData(ctx)

		require.NoError(t, err)
		require.Len(t, data, 2)
		technical := data["12 AWG XLPE Production Datasheet - Technical Data"]
		require.Len(t, technical, 4)
		assert.Equal(t, []string{"Property", "Value"}, technical[0])
		assert.Equal(t, []string{"Rated Voltage", "600V"}, technical[2])
	})

	t.Run("document datasheet has no sheet data", func(t *testing.T) {
		store := NewMockDocumentStore()
		store.files = []domain.FileDescriptor{
			{ID: "doc", Name: "Production notes", MimeType: domain.MimeTypeDocument, ModifiedTime: "2026-10-13T00:00:00Z"},
		}
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		_, err := svc.SheetData(ctx)

		assert.ErrorIs(t, err, domain.ErrDatasheetNotFound)
	})
}

func TestListSpreadsheetSheets(t *testing.T) {
	ctx := context.Background()

	t.Run("returns sheet properties", func(t *testing.T) {
		store := NewMockDocumentStore()
		seedSpreadsheet(store)
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		sheets, err := svc.ListSpreadsheetSheets(ctx, "ss-1")

		require.NoError(t, err)
		assert.Equal(t, []domain.SheetProperties{{SheetID: 0, Title: "Summary"}, {SheetID: 1, Title: "Technical Data"}}, sheets)
	})

	t.Run("returns error for blank id", func(t *testing.T) {
		svc := newTestService(NewMockCredentialProvider(), NewMockDocumentStore(), nil)

		_, err := svc.ListSpreadsheetSheets(ctx, " ")

		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("propagates metadata failures", func(t *testing.T) {
		store := NewMockDocumentStore()
		store.sheetError = fmt.Errorf("%w: spreadsheet", domain.ErrFileNotFound)
		svc := newTestService(NewMockCredentialProvider(), store, nil)

		_, err := svc.ListSpreadsheetSheets(ctx, "missing")

		assert.ErrorIs(t, err, domain.ErrFileNotFound)
	})
}

func TestA1Range(t *testing.T) {
	assert.Equal(t, "'Sheet1'!A:Z", a1Range("Sheet1"))
	assert.Equal(t, "'Tech''s'!A:Z", a1Range("Tech's"))
}
