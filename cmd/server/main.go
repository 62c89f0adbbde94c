package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/prathamesh1010/Paras-Wires/config"
	httpDelivery "github.com/prathamesh1010/Paras-Wires/internal/delivery/http"
	"github.com/prathamesh1010/Paras-Wires/internal/infrastructure/google"
	"github.com/prathamesh1010/Paras-Wires/internal/infrastructure/workbook"
	"github.com/prathamesh1010/Paras-Wires/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting Paras Wires datasheet service",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port))

	// Initialize infrastructure dependencies
	tokens, err := google.NewTokenProvider(cfg.Google.CredentialsFile, cfg.Google.TokenFile, cfg.Google.RefreshSkew, logger)
	if err != nil {
		logger.Fatal("failed to load google credentials",
			zap.String("credentials_file", cfg.Google.CredentialsFile), zap.Error(err))
	}

	googleClient := google.NewClient(google.ClientConfig{
		DriveBaseURL:      cfg.Google.DriveBaseURL,
		SheetsBaseURL:     cfg.Google.SheetsBaseURL,
		DocsBaseURL:       cfg.Google.DocsBaseURL,
		Timeout:           cfg.Google.Timeout,
		RequestsPerSecond: cfg.RateLimit.GooglePerSecond,
		Burst:             cfg.RateLimit.GoogleBurst,
	}, logger)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		googleClient.SetDebug(true)
		logger.Info("google client debug mode enabled")
	}

	logger.Info("google drive configured",
		zap.String("folder_id", cfg.Google.FolderID),
		zap.String("token_file", cfg.Google.TokenFile),
		zap.Float64("requests_per_second", cfg.RateLimit.GooglePerSecond))

	// Initialize usecase layer
	datasheetService := usecase.NewDatasheetService(
		tokens,
		googleClient,
		workbook.NewExcelParser(),
		usecase.DatasheetServiceConfig{
			FolderID:     cfg.Google.FolderID,
			Ranker:       usecase.RankerConfigFrom(cfg.Matching),
			PreviewChars: cfg.Search.PreviewChars,
		},
		logger,
	)

	logger.Info("matching weights",
		zap.Int("keyword", cfg.Matching.KeywordWeight),
		zap.Int("domain_keyword", cfg.Matching.DomainKeywordWeight),
		zap.Int("exact_match", cfg.Matching.ExactMatchBonus))

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(datasheetService, httpDelivery.HandlerConfig{
		ResultLimit:  cfg.Search.ResultLimit,
		LegacyLimit:  cfg.Search.LegacyLimit,
		PreviewChars: cfg.Search.DatasheetPreviewChars,
	}, logger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
