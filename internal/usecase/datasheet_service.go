package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/prathamesh1010/Paras-Wires/internal/domain"
)

const (
	// defaultStandardName is used when an auto-generated report names no standard
	defaultStandardName = "DEF STAN 61-12"

	// sheetRange is the A1 column span read from every native spreadsheet tab
	sheetRange = "A:Z"

	connectionTestQuery = "test"
	legacyQuery         = "production"
)

// DatasheetServiceConfig holds configuration for the datasheet service
type DatasheetServiceConfig struct {
	FolderID     string
	Ranker       RankerConfig
	PreviewChars int
	Now          func() time.Time
}

// DatasheetService finds, extracts and merges wire datasheets
type DatasheetService struct {
	credentials domain.CredentialProvider
	store       domain.DocumentStore
	workbooks   domain.WorkbookParser
	ranker      *Ranker
	merger      *Merger
	folderID    string
	now         func() time.Time
	logger      *zap.Logger
}

// NewDatasheetService creates a new datasheet service with dependencies
func NewDatasheetService(
	credentials domain.CredentialProvider,
	store domain.DocumentStore,
	workbooks domain.WorkbookParser,
	config DatasheetServiceConfig,
	logger *zap.Logger,
) *DatasheetService {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	rankerCfg := config.Ranker
	if rankerCfg.Now == nil {
		rankerCfg.Now = now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DatasheetService{
		credentials: credentials,
		store:       store,
		workbooks:   workbooks,
		ranker:      NewRanker(rankerCfg),
		merger:      NewMerger(config.PreviewChars, now),
		folderID:    config.FolderID,
		now:         now,
		logger:      logger,
	}
}

// acquire gets the request-scoped credential
func (s *DatasheetService) acquire(ctx context.Context) (*domain.Credential, error) {
	cred, err := s.credentials.Acquire(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAuthentication) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthentication, err)
	}
	if !cred.Valid() {
		return nil, fmt.Errorf("%w: credential is not valid", domain.ErrAuthentication)
	}
	return cred, nil
}

// SearchDatasheets lists the datasheet folder and ranks its files against the wire name
func (s *DatasheetService) SearchDatasheets(ctx context.Context, wireName string) ([]domain.MatchResult, error) {
	if strings.TrimSpace(wireName) == "" {
		return nil, domain.ErrInvalidRequest
	}

	cred, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	return s.search(ctx, cred, wireName)
}

func (s *DatasheetService) search(ctx context.Context, cred *domain.Credential, wireName string) ([]domain.MatchResult, error) {
	files, err := s.store.ListFiles(ctx, cred, s.folderID)
	if err != nil {
		return nil, err
	}

	matches := s.ranker.Rank(wireName, files)

	s.logger.Info("ranked datasheets",
		zap.String("wire_name", wireName),
		zap.Int("files", len(files)),
		zap.Int("matches", len(matches)))
	for i, m := range matches {
		if i == 5 {
			break
		}
		s.logger.Debug("datasheet candidate",
			zap.String("name", m.File.Name),
			zap.Int("score", m.Score),
			zap.Strings("keywords", m.MatchedKeywords))
	}

	return matches, nil
}

// GetLatestDatasheet extracts the best-ranked datasheet for the wire name
func (s *DatasheetService) GetLatestDatasheet(ctx context.Context, wireName string) (*domain.Datasheet, error) {
	if strings.TrimSpace(wireName) == "" {
		return nil, domain.ErrInvalidRequest
	}

	cred, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	return s.latest(ctx, cred, wireName)
}

func (s *DatasheetService) latest(ctx context.Context, cred *domain.Credential, wireName string) (*domain.Datasheet, error) {
	matches, err := s.search(ctx, cred, wireName)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, domain.ErrDatasheetNotFound
	}

	best := matches[0].File
	s.logger.Info("best datasheet match",
		zap.String("name", best.Name),
		zap.Int("score", matches[0].Score))

	return s.extract(ctx, cred, best)
}

// GetDatasheet extracts the content of one specific file
func (s *DatasheetService) GetDatasheet(ctx context.Context, fileID string) (*domain.Datasheet, error) {
	if strings.TrimSpace(fileID) == "" {
		return nil, domain.ErrInvalidRequest
	}

	cred, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}

	file, err := s.store.GetFile(ctx, cred, fileID)
	if err != nil {
		return nil, err
	}
	return s.extract(ctx, cred, *file)
}

// IntegrateDatasheet merges the best datasheet for the wire into a copy of the report.
// When no datasheet can be found or extracted the copy is returned unchanged.
func (s *DatasheetService) IntegrateDatasheet(ctx context.Context, wireName string, report domain.Report) (domain.Report, error) {
	if strings.TrimSpace(wireName) == "" || len(report) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	cred, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	return s.integrate(ctx, cred, wireName, report)
}

func (s *DatasheetService) integrate(ctx context.Context, cred *domain.Credential, wireName string, report domain.Report) (domain.Report, error) {
	ds, err := s.latest(ctx, cred, wireName)
	if err != nil {
		if errors.Is(err, domain.ErrAuthentication) {
			return nil, err
		}
		s.logger.Warn("no datasheet data, returning original report",
			zap.String("wire_name", wireName), zap.Error(err))
		return report.Clone(), nil
	}

	enhanced := s.merger.MergeInto(report, ds)
	s.logger.Info("integrated datasheet into report",
		zap.String("wire_name", wireName),
		zap.String("source_file", ds.File.Name),
		zap.Int("fields", len(enhanced)))
	return enhanced, nil
}

// AutoGenerateReport builds a base report for the wire and integrates its datasheet.
// Integration failures are recorded on the report instead of failing the call.
func (s *DatasheetService) AutoGenerateReport(ctx context.Context, req *domain.AutoReportRequest) (domain.Report, error) {
	if req == nil || strings.TrimSpace(req.WireName) == "" {
		return nil, domain.ErrInvalidRequest
	}

	cred, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}

	standard := req.StandardName
	if standard == "" {
		standard = defaultStandardName
	}
	additional := req.AdditionalData
	if additional == nil {
		additional = map[string]interface{}{}
	}

	base := domain.Report{
		"wire_name":       req.WireName,
		"standard_name":   standard,
		"generation_time": s.now().Format(time.RFC3339),
		"additional_data": additional,
		"status":          "generated",
	}

	enhanced, err := s.integrate(ctx, cred, req.WireName, base)
	if err != nil {
		s.logger.Warn("datasheet integration failed", zap.String("wire_name", req.WireName), zap.Error(err))
		base["datasheet_integration"] = "failed"
		base["datasheet_error"] = err.Error()
		return base, nil
	}

	enhanced["datasheet_integration"] = "success"
	return enhanced, nil
}

// TestConnection verifies the credential and folder access, returning the number of matches
func (s *DatasheetService) TestConnection(ctx context.Context) (int, error) {
	cred, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}

	matches, err := s.search(ctx, cred, connectionTestQuery)
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

// ListDatasheets ranks the folder against the generic production query
func (s *DatasheetService) ListDatasheets(ctx context.Context) ([]domain.MatchResult, error) {
	return s.SearchDatasheets(ctx, legacyQuery)
}

// SheetData returns the sheets of the best production datasheet keyed by
// "<file> - <sheet>", each as its header followed by its rows.
func (s *DatasheetService) SheetData(ctx context.Context) (map[string][][]string, error) {
	ds, err := s.GetLatestDatasheet(ctx, legacyQuery)
	if err != nil {
		return nil, err
	}
	if len(ds.Sheets) == 0 {
		return nil, domain.ErrDatasheetNotFound
	}

	data := make(map[string][][]string, len(ds.Sheets))
	for _, sheet := range ds.Sheets {
		if sheet.Table == nil {
			continue
		}
		rows := make([][]string, 0, len(sheet.Table.Rows)+1)
		rows = append(rows, sheet.Table.Header)
		rows = append(rows, sheet.Table.Rows...)
		data[ds.File.Name+" - "+sheet.Title] = rows
	}
	return data, nil
}

// ListSpreadsheetSheets returns the tabs of a spreadsheet
func (s *DatasheetService) ListSpreadsheetSheets(ctx context.Context, spreadsheetID string) ([]domain.SheetProperties, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, domain.ErrInvalidRequest
	}

	cred, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListSheets(ctx, cred, spreadsheetID)
}

// extract reads the content of a file according to its kind
func (s *DatasheetService) extract(ctx context.Context, cred *domain.Credential, file domain.FileDescriptor) (*domain.Datasheet, error) {
	var (
		ds  *domain.Datasheet
		err error
	)

	switch file.Kind() {
	case domain.FileKindSpreadsheet:
		ds, err = s.extractSpreadsheet(ctx, cred, file)
	case domain.FileKindWorkbook:
		ds, err = s.extractWorkbook(ctx, cred, file)
	case domain.FileKindDocument:
		ds, err = s.extractDocument(ctx, cred, file)
	default:
		err = fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, file.MimeType)
	}

	if err != nil {
		s.logger.Error("failed to extract datasheet", zap.String("name", file.Name), zap.Error(err))
		return nil, err
	}
	return ds, nil
}

// extractSpreadsheet reads every tab of a native spreadsheet. A tab that
// fails to read is recorded with its error and the rest are still read.
func (s *DatasheetService) extractSpreadsheet(ctx context.Context, cred *domain.Credential, file domain.FileDescriptor) (*domain.Datasheet, error) {
	sheets, err := s.store.ListSheets(ctx, cred, file.ID)
	if err != nil {
		return nil, err
	}

	titles := make([]string, len(sheets))
	for i, sh := range sheets {
		titles[i] = sh.Title
	}

	ds := &domain.Datasheet{File: file}
	for _, title := range OrderSheets(titles) {
		raw, err := s.store.ReadRange(ctx, cred, file.ID, a1Range(title))
		if err != nil {
			if errors.Is(err, domain.ErrAuthentication) {
				return nil, err
			}
			extractErr := &domain.ExtractionError{SheetName: title, Stage: "read", Err: err}
			s.logger.Warn("failed to process sheet", zap.String("sheet", title), zap.Error(extractErr))
			ds.Sheets = append(ds.Sheets, domain.SheetData{Title: title, Err: extractErr.Error()})
			continue
		}
		if sheet, ok := buildSheet(title, raw); ok {
			ds.Sheets = append(ds.Sheets, sheet)
		}
	}
	return ds, nil
}

// extractWorkbook downloads an xlsx/xls file and parses its sheets
func (s *DatasheetService) extractWorkbook(ctx context.Context, cred *domain.Credential, file domain.FileDescriptor) (*domain.Datasheet, error) {
	if s.workbooks == nil {
		return nil, fmt.Errorf("%w: no workbook parser configured", domain.ErrUnsupportedFormat)
	}

	data, err := s.store.DownloadFile(ctx, cred, file.ID)
	if err != nil {
		return nil, err
	}

	raws, err := s.workbooks.Parse(data)
	if err != nil {
		return nil, &domain.ExtractionError{SheetName: file.Name, Stage: "parse", Err: err}
	}

	byTitle := make(map[string]domain.RawSheet, len(raws))
	titles := make([]string, len(raws))
	for i, raw := range raws {
		titles[i] = raw.Title
		byTitle[raw.Title] = raw
	}

	ds := &domain.Datasheet{File: file}
	for _, title := range OrderSheets(titles) {
		raw := byTitle[title]
		if raw.Err != nil {
			extractErr := &domain.ExtractionError{SheetName: title, Stage: "read", Err: raw.Err}
			s.logger.Warn("failed to process sheet", zap.String("sheet", title), zap.Error(extractErr))
			ds.Sheets = append(ds.Sheets, domain.SheetData{Title: title, Err: extractErr.Error()})
			continue
		}
		if sheet, ok := buildSheet(title, raw.Rows); ok {
			ds.Sheets = append(ds.Sheets, sheet)
		}
	}
	return ds, nil
}

// extractDocument reads the plain text of a Docs document
func (s *DatasheetService) extractDocument(ctx context.Context, cred *domain.Credential, file domain.FileDescriptor) (*domain.Datasheet, error) {
	text, err := s.store.ReadDocumentText(ctx, cred, file.ID)
	if err != nil {
		return nil, err
	}
	_, length := DocumentPreview(text, -1)
	return &domain.Datasheet{
		File:     file,
		Document: &domain.DocumentContent{Text: text, Length: length},
	}, nil
}

// buildSheet normalizes and summarizes raw cells; empty sheets are skipped
func buildSheet(title string, raw [][]string) (domain.SheetData, bool) {
	if len(raw) == 0 {
		return domain.SheetData{}, false
	}
	table := BuildTable(title, raw)
	return domain.SheetData{Title: title, Table: table, Summary: Summarize(table)}, true
}

// a1Range quotes a sheet title for A1 notation
func a1Range(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'!" + sheetRange
}
