package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/prathamesh1010/Paras-Wires/internal/domain"
)

const (
	userAgent = "ParasWires/1.0"

	// maxResponseBytes bounds every response body, including workbook downloads
	maxResponseBytes = 50 << 20

	driveFileFields = "id,name,mimeType,modifiedTime"
	drivePageSize   = "1000"
)

// ClientConfig holds the endpoints and limits of the Google client
type ClientConfig struct {
	DriveBaseURL      string
	SheetsBaseURL     string
	DocsBaseURL       string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client talks to the Drive v3, Sheets v4 and Docs v1 REST APIs
type Client struct {
	httpClient  *http.Client
	driveURL    string
	sheetsURL   string
	docsURL     string
	rateLimiter *rate.Limiter
	debug       bool
	logger      *zap.Logger
}

// NewClient creates a new Google API client
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		driveURL:    strings.TrimRight(cfg.DriveBaseURL, "/"),
		sheetsURL:   strings.TrimRight(cfg.SheetsBaseURL, "/"),
		docsURL:     strings.TrimRight(cfg.DocsBaseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:      logger.Named("google"),
	}
}

// SetDebug enables logging of raw response bodies
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(msg string, fields ...zap.Field) {
	if !c.debug {
		return
	}
	c.logger.Debug(msg, fields...)
}

// get executes one authorized GET request and returns the response body.
// Non-2xx statuses are mapped onto domain errors.
func (c *Client) get(ctx context.Context, cred *domain.Credential, reqURL string) ([]byte, error) {
	if cred == nil || cred.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing access token", domain.ErrAuthentication)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", cred.AuthorizationHeader())
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrStorageFailure, err)
	}

	c.debugLog("google response",
		zap.String("url", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("google api error",
			zap.String("url", req.URL.Path),
			zap.Int("status", resp.StatusCode))
		return nil, statusError(resp.StatusCode, body)
	}

	return body, nil
}

func (c *Client) getJSON(ctx context.Context, cred *domain.Credential, reqURL string, out interface{}) error {
	body, err := c.get(ctx, cred, reqURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrStorageFailure, err)
	}
	return nil
}

// statusError picks the domain error for an HTTP status
func statusError(status int, body []byte) error {
	var sentinel error
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = domain.ErrAuthentication
	case http.StatusNotFound:
		sentinel = domain.ErrFileNotFound
	default:
		sentinel = domain.ErrStorageFailure
	}

	if msg := apiErrorMessage(body); msg != "" {
		return fmt.Errorf("%w: status %d: %s", sentinel, status, msg)
	}
	return fmt.Errorf("%w: status %d", sentinel, status)
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// ListFiles lists the non-trashed files directly inside a Drive folder, newest first
func (c *Client) ListFiles(ctx context.Context, cred *domain.Credential, folderID string) ([]domain.FileDescriptor, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", strings.ReplaceAll(folderID, "'", `\'`))

	var files []domain.FileDescriptor
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("q", query)
		params.Set("fields", "nextPageToken,files("+driveFileFields+")")
		params.Set("orderBy", "modifiedTime desc")
		params.Set("pageSize", drivePageSize)
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page driveFileList
		if err := c.getJSON(ctx, cred, c.driveURL+"/drive/v3/files?"+params.Encode(), &page); err != nil {
			return nil, err
		}
		files = append(files, mapFiles(page.Files)...)

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	c.logger.Debug("listed folder", zap.String("folder_id", folderID), zap.Int("files", len(files)))
	return files, nil
}

// GetFile fetches the metadata of a single Drive file
func (c *Client) GetFile(ctx context.Context, cred *domain.Credential, fileID string) (*domain.FileDescriptor, error) {
	params := url.Values{}
	params.Set("fields", driveFileFields)
	reqURL := c.driveURL + "/drive/v3/files/" + url.PathEscape(fileID) + "?" + params.Encode()

	var f driveFile
	if err := c.getJSON(ctx, cred, reqURL, &f); err != nil {
		return nil, err
	}

	file, ok := mapFile(f)
	if !ok {
		return nil, fmt.Errorf("%w: incomplete metadata for file %s", domain.ErrStorageFailure, fileID)
	}
	return &file, nil
}

// DownloadFile returns the raw bytes of a stored (non-native) Drive file
func (c *Client) DownloadFile(ctx context.Context, cred *domain.Credential, fileID string) ([]byte, error) {
	reqURL := c.driveURL + "/drive/v3/files/" + url.PathEscape(fileID) + "?alt=media"
	return c.get(ctx, cred, reqURL)
}

// ListSheets returns the tabs of a spreadsheet in workbook order
func (c *Client) ListSheets(ctx context.Context, cred *domain.Credential, spreadsheetID string) ([]domain.SheetProperties, error) {
	params := url.Values{}
	params.Set("fields", "sheets.properties(sheetId,title)")
	reqURL := c.sheetsURL + "/v4/spreadsheets/" + url.PathEscape(spreadsheetID) + "?" + params.Encode()

	var meta spreadsheetMetadata
	if err := c.getJSON(ctx, cred, reqURL, &meta); err != nil {
		return nil, err
	}
	return mapSheetProperties(meta), nil
}

// ReadRange reads the cell values of an A1 range as strings
func (c *Client) ReadRange(ctx context.Context, cred *domain.Credential, spreadsheetID, rangeSpec string) ([][]string, error) {
	reqURL := c.sheetsURL + "/v4/spreadsheets/" + url.PathEscape(spreadsheetID) +
		"/values/" + url.PathEscape(rangeSpec)

	var vr valueRange
	if err := c.getJSON(ctx, cred, reqURL, &vr); err != nil {
		return nil, err
	}
	return mapValues(vr.Values), nil
}

// ReadDocumentText returns the concatenated paragraph text of a document
func (c *Client) ReadDocumentText(ctx context.Context, cred *domain.Credential, documentID string) (string, error) {
	reqURL := c.docsURL + "/v1/documents/" + url.PathEscape(documentID)

	var doc document
	if err := c.getJSON(ctx, cred, reqURL, &doc); err != nil {
		return "", err
	}
	return documentText(doc), nil
}
