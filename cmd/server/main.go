package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mujeebabdul-99/sports-card-text-extraction/config"
	httpDelivery "github.com/mujeebabdul-99/sports-card-text-extraction/internal/delivery/http"
	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/domain"
	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/infrastructure/metrics"
	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/infrastructure/sheets"
	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/infrastructure/store"
	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/usecase"
)

const version = "1.0.0"

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cardexport",
	Short: "Card export reconciliation service",
	Long: `cardexport repairs generated listing text for graded sports cards and
exports each card as a CSV file or as the next row of a Google Sheet.

Run without arguments to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP export API",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, importCmd, exportCSVCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Info("starting cardexport",
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Type),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cards, closeStore, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	sheetService, err := openSheets(ctx, cfg, m)
	if err != nil {
		return err
	}

	exportService := usecase.NewExportService(cards, sheetService, exportConfig(cfg), logger, m)
	handler := httpDelivery.NewHandler(exportService, cfg.Server.IsProduction())
	router := httpDelivery.SetupRouter(cfg, handler, logger, registry)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStore builds the configured card repository and its closer
func openStore(cfg config.StoreConfig) (domain.CardRepository, func(), error) {
	switch cfg.Type {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("using sqlite card store", zap.String("path", cfg.SQLitePath))
		return s, func() {
			if err := s.Close(); err != nil {
				logger.Warn("failed to close sqlite store", zap.Error(err))
			}
		}, nil
	default:
		logger.Info("using in-memory card store")
		return store.NewMemoryStore(), func() {}, nil
	}
}

// openSheets returns nil when no credentials are configured so that Sheets
// exports fail with a configuration error instead of at startup.
func openSheets(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (domain.SpreadsheetService, error) {
	if !cfg.Sheets.HasCredentials() {
		logger.Warn("google sheets credentials not configured; sheet exports will fail",
			zap.String("hint", config.CredentialsFileEnvVar),
		)
		return nil, nil
	}

	client, err := sheets.NewClient(ctx, sheets.ClientConfig{
		CredentialsFile:   cfg.Sheets.CredentialsFile,
		CredentialsJSON:   cfg.Sheets.CredentialsJSON,
		RequestsPerMinute: cfg.Sheets.RequestsPerMinute,
		Timeout:           cfg.Sheets.Timeout,
	}, logger, m)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
		logger.Info("sheets client debug mode enabled")
	}
	if cfg.Sheets.SpreadsheetID == "" {
		logger.Warn("no default spreadsheet configured; requests must pass spreadsheetId",
			zap.String("hint", config.SpreadsheetIDEnvVar),
		)
	}
	return client, nil
}

func exportConfig(cfg *config.Config) usecase.ExportServiceConfig {
	return usecase.ExportServiceConfig{
		DefaultSpreadsheetID: cfg.Sheets.SpreadsheetID,
		DefaultSheetName:     cfg.Sheets.SheetName,
		SerializeSheetWrites: cfg.Sheets.SerializeWrites,
	}
}
