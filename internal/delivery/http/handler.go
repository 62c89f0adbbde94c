package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prathamesh1010/Paras-Wires/internal/domain"
	"github.com/prathamesh1010/Paras-Wires/internal/usecase"
)

const apiVersion = "1.0.0"

// DatasheetUsecase is the datasheet service as seen by the HTTP layer
type DatasheetUsecase interface {
	SearchDatasheets(ctx context.Context, wireName string) ([]domain.MatchResult, error)
	GetDatasheet(ctx context.Context, fileID string) (*domain.Datasheet, error)
	IntegrateDatasheet(ctx context.Context, wireName string, report domain.Report) (domain.Report, error)
	AutoGenerateReport(ctx context.Context, req *domain.AutoReportRequest) (domain.Report, error)
	TestConnection(ctx context.Context) (int, error)
	ListDatasheets(ctx context.Context) ([]domain.MatchResult, error)
	SheetData(ctx context.Context) (map[string][][]string, error)
	ListSpreadsheetSheets(ctx context.Context, spreadsheetID string) ([]domain.SheetProperties, error)
}

// HandlerConfig holds response limits
type HandlerConfig struct {
	ResultLimit  int // datasheets returned by search
	LegacyLimit  int // datasheets returned by /list-sheets
	PreviewChars int // document preview in get-datasheet
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	datasheets DatasheetUsecase
	cfg        HandlerConfig
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(datasheets DatasheetUsecase, cfg HandlerConfig, logger *zap.Logger) *Handler {
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = 10
	}
	if cfg.LegacyLimit <= 0 {
		cfg.LegacyLimit = 5
	}
	if cfg.PreviewChars <= 0 {
		cfg.PreviewChars = 2000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{datasheets: datasheets, cfg: cfg, logger: logger}
}

// datasheetSummary is one ranked search hit
type datasheetSummary struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	URL             string   `json:"url"`
	ModifiedTime    string   `json:"modified_time"`
	RelevanceScore  int      `json:"relevance_score"`
	MatchedKeywords []string `json:"matched_keywords"`
	MimeType        string   `json:"mime_type"`
}

// legacySheet is one entry of the /list-sheets listing
type legacySheet struct {
	Name     string `json:"name"`
	ID       string `json:"id"`
	URL      string `json:"url"`
	Modified string `json:"modified"`
	Type     string `json:"type"`
}

type datasheetView struct {
	FileName     string               `json:"file_name"`
	FileID       string               `json:"file_id"`
	FileURL      string               `json:"file_url"`
	MimeType     string               `json:"mime_type"`
	ModifiedTime string               `json:"modified_time"`
	Sheets       map[string]sheetView `json:"sheets"`
	Content      *contentView         `json:"content,omitempty"`
}

type sheetView struct {
	RowCount    int                  `json:"row_count"`
	ColumnCount int                  `json:"column_count"`
	Headers     []string             `json:"headers"`
	Summary     *domain.SheetSummary `json:"summary,omitempty"`
	Error       string               `json:"error,omitempty"`
}

type contentView struct {
	TextContent string `json:"text_content"`
	FullLength  int    `json:"full_length"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  "healthy",
		"message": "Google Drive Integration API is running",
		"service": "paras-wires-datasheets",
		"version": apiVersion,
	})
}

// SearchDatasheets ranks the datasheet folder against a wire name
func (h *Handler) SearchDatasheets(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	wireName := strings.TrimSpace(req.WireName)
	if wireName == "" {
		respondError(c, http.StatusBadRequest, "Wire name is required")
		return
	}

	matches, err := h.datasheets.SearchDatasheets(c.Request.Context(), wireName)
	if err != nil {
		h.fail(c, "Failed to search datasheets", err)
		return
	}

	top := matches
	if len(top) > h.cfg.ResultLimit {
		top = top[:h.cfg.ResultLimit]
	}
	summaries := make([]datasheetSummary, 0, len(top))
	for _, m := range top {
		summaries = append(summaries, datasheetSummary{
			ID:              m.File.ID,
			Name:            m.File.Name,
			URL:             m.File.URL(),
			ModifiedTime:    m.File.ModifiedTime,
			RelevanceScore:  m.Score,
			MatchedKeywords: m.MatchedKeywords,
			MimeType:        m.File.MimeType,
		})
	}

	message := fmt.Sprintf("Found %d datasheets for wire: %s", len(matches), wireName)
	if len(matches) == 0 {
		message = "No datasheets found for wire: " + wireName
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     message,
		"datasheets":  summaries,
		"wire_name":   wireName,
		"total_count": len(matches),
	})
}

// GetDatasheet returns the extracted content of one file
func (h *Handler) GetDatasheet(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	var req domain.GetDatasheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	fileID := strings.TrimSpace(req.FileID)
	if fileID == "" {
		respondError(c, http.StatusBadRequest, "File ID is required")
		return
	}

	ds, err := h.datasheets.GetDatasheet(c.Request.Context(), fileID)
	if err != nil {
		h.fail(c, "Failed to get datasheet", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Successfully retrieved datasheet data for " + ds.File.Name,
		"datasheet": h.datasheetView(ds),
	})
}

func (h *Handler) datasheetView(ds *domain.Datasheet) datasheetView {
	view := datasheetView{
		FileName:     ds.File.Name,
		FileID:       ds.File.ID,
		FileURL:      ds.File.URL(),
		MimeType:     ds.File.MimeType,
		ModifiedTime: ds.File.ModifiedTime,
		Sheets:       make(map[string]sheetView, len(ds.Sheets)),
	}

	for _, sheet := range ds.Sheets {
		if sheet.Table == nil {
			view.Sheets[sheet.Title] = sheetView{Headers: []string{}, Error: sheet.Err}
			continue
		}
		summary := sheet.Summary
		view.Sheets[sheet.Title] = sheetView{
			RowCount:    len(sheet.Table.Rows),
			ColumnCount: len(sheet.Table.Header),
			Headers:     sheet.Table.Header,
			Summary:     &summary,
		}
	}

	if ds.Document != nil {
		preview, _ := usecase.DocumentPreview(ds.Document.Text, h.cfg.PreviewChars)
		view.Content = &contentView{TextContent: preview, FullLength: ds.Document.Length}
	}
	return view
}

// IntegrateDatasheet merges the best datasheet into a caller-supplied report
func (h *Handler) IntegrateDatasheet(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	var req domain.IntegrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	wireName := strings.TrimSpace(req.WireName)
	if wireName == "" {
		respondError(c, http.StatusBadRequest, "Wire name is required")
		return
	}
	if len(req.ReportData) == 0 {
		respondError(c, http.StatusBadRequest, "Report data is required")
		return
	}

	enhanced, err := h.datasheets.IntegrateDatasheet(c.Request.Context(), wireName, req.ReportData)
	if err != nil {
		h.fail(c, "Failed to integrate datasheet", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "Successfully integrated datasheet data for wire: " + wireName,
		"enhanced_report": enhanced,
	})
}

// AutoGenerateReport builds a new report for a wire with its datasheet merged in
func (h *Handler) AutoGenerateReport(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	var req domain.AutoReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.WireName = strings.TrimSpace(req.WireName)
	if req.WireName == "" {
		respondError(c, http.StatusBadRequest, "Wire name is required")
		return
	}

	report, err := h.datasheets.AutoGenerateReport(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, "Failed to generate report", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully generated report for wire: " + req.WireName,
		"report":  report,
	})
}

// TestConnection checks that the credential works and the folder is readable
func (h *Handler) TestConnection(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	count, err := h.datasheets.TestConnection(c.Request.Context())
	if err != nil {
		h.logger.Error("google drive connection test failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":           false,
			"error":             "Google Drive connection failed: " + err.Error(),
			"connection_status": "failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"message":           "Google Drive connection successful",
		"connection_status": "connected",
		"folder_access":     "success",
		"files_found":       count,
	})
}

// SheetData returns the sheets of the best production datasheet. Sheet keys
// sit at the top level next to success, where the report frontend reads them.
func (h *Handler) SheetData(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	data, err := h.datasheets.SheetData(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrDatasheetNotFound) {
			respondError(c, http.StatusNotFound, "No production datasheets found")
			return
		}
		h.fail(c, "Failed to get sheet data", err)
		return
	}

	body := gin.H{"success": true}
	for key, rows := range data {
		body[key] = rows
	}
	c.JSON(http.StatusOK, body)
}

// ListSheets lists the top production datasheets
func (h *Handler) ListSheets(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	matches, err := h.datasheets.ListDatasheets(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to list sheets", err)
		return
	}

	top := matches
	if len(top) > h.cfg.LegacyLimit {
		top = top[:h.cfg.LegacyLimit]
	}
	sheets := make([]legacySheet, 0, len(top))
	for _, m := range top {
		sheets = append(sheets, legacySheet{
			Name:     m.File.Name,
			ID:       m.File.ID,
			URL:      m.File.URL(),
			Modified: m.File.ModifiedTime,
			Type:     "production_datasheet",
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"sheets":      sheets,
		"total_count": len(matches),
	})
}

// ListSpreadsheetSheets lists the tabs of one spreadsheet
func (h *Handler) ListSpreadsheetSheets(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	spreadsheetID := c.Param("spreadsheet_id")
	sheets, err := h.datasheets.ListSpreadsheetSheets(c.Request.Context(), spreadsheetID)
	if err != nil {
		h.fail(c, "Failed to list spreadsheet sheets", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"spreadsheet_id": spreadsheetID,
		"sheets":         sheets,
	})
}

func (h *Handler) requireService(c *gin.Context) bool {
	if h.datasheets == nil {
		respondError(c, http.StatusNotImplemented, "Datasheet service not configured")
		return false
	}
	return true
}

// fail logs err and writes the error envelope with the matching status
func (h *Handler) fail(c *gin.Context, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(message, zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		h.logger.Info(message, zap.String("path", c.FullPath()), zap.Error(err))
	}
	respondError(c, status, message+": "+err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDatasheetNotFound), errors.Is(err, domain.ErrFileNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}
