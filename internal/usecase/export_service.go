package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/domain"
	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/infrastructure/metrics"
)

// ExportServiceConfig holds configuration for the export service
type ExportServiceConfig struct {
	DefaultSpreadsheetID string
	DefaultSheetName     string

	// SerializeSheetWrites holds a per-tab lock across the read-then-write
	// row placement so concurrent exports cannot land on the same row.
	SerializeSheetWrites bool
}

// ExportService handles card export requests.
// Flow: load card -> validate/repair fields -> render to the requested sink
type ExportService struct {
	cards     domain.CardRepository
	validator *FieldIntegrityValidator
	csv       *CSVExporter
	sheets    *SheetExporter
	locks     *keyedMutex
	config    ExportServiceConfig
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewExportService creates a new export service. sheetService may be nil
// when no spreadsheet credentials are configured; Sheets exports then fail
// with domain.ErrSheetsNotConfigured.
func NewExportService(
	cards domain.CardRepository,
	sheetService domain.SpreadsheetService,
	config ExportServiceConfig,
	logger *zap.Logger,
	m *metrics.Metrics,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.DefaultSheetName == "" {
		config.DefaultSheetName = "Sheet1"
	}

	var sheetExporter *SheetExporter
	if sheetService != nil {
		sheetExporter = NewSheetExporter(sheetService, logger, m)
	}

	var locks *keyedMutex
	if config.SerializeSheetWrites {
		locks = newKeyedMutex()
	}

	return &ExportService{
		cards:     cards,
		validator: NewFieldIntegrityValidator(cards, logger, m),
		csv:       NewCSVExporter(),
		sheets:    sheetExporter,
		locks:     locks,
		config:    config,
		logger:    logger.Named("export"),
		metrics:   m,
	}
}

// GetCard loads a card without validating it
func (s *ExportService) GetCard(ctx context.Context, id string) (*domain.CardRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: card id is required", domain.ErrInvalidRequest)
	}
	return s.cards.Get(ctx, id)
}

// SaveCard stores a card produced by the upstream pipeline
func (s *ExportService) SaveCard(ctx context.Context, card *domain.CardRecord) error {
	if card == nil || strings.TrimSpace(card.ID) == "" {
		return fmt.Errorf("%w: card id is required", domain.ErrInvalidRequest)
	}
	return s.cards.Set(ctx, card)
}

// ExportCSV renders a card as a downloadable CSV file
func (s *ExportService) ExportCSV(ctx context.Context, request *domain.ExportCSVRequest) (export *domain.CSVExport, err error) {
	defer func() { s.metrics.RecordExport("csv", err) }()

	if request == nil || strings.TrimSpace(request.CardID) == "" {
		return nil, fmt.Errorf("%w: cardId is required", domain.ErrInvalidRequest)
	}

	card, report, err := s.loadValidated(ctx, request.CardID)
	if err != nil {
		return nil, err
	}

	content, err := s.csv.Export(card, report.ListingTitle)
	if err != nil {
		return nil, err
	}

	return &domain.CSVExport{
		Filename: s.csv.Filename(card.ID),
		Content:  content,
	}, nil
}

// ExportSheet writes a card as the next row of a spreadsheet tab
func (s *ExportService) ExportSheet(ctx context.Context, request *domain.ExportSheetRequest) (result *domain.SheetExportResult, err error) {
	defer func() { s.metrics.RecordExport("sheets", err) }()

	if request == nil || strings.TrimSpace(request.CardID) == "" {
		return nil, fmt.Errorf("%w: cardId is required", domain.ErrInvalidRequest)
	}

	target := s.resolveTarget(request)
	if target.SpreadsheetID == "" {
		return nil, domain.ErrSpreadsheetIDRequired
	}
	if s.sheets == nil {
		return nil, domain.ErrSheetsNotConfigured
	}

	card, report, err := s.loadValidated(ctx, request.CardID)
	if err != nil {
		return nil, err
	}

	if s.locks != nil {
		unlock := s.locks.Lock(target.SpreadsheetID + "\x00" + target.SheetName)
		defer unlock()
	}

	return s.sheets.Export(ctx, target, card, report.ListingTitle)
}

// resolveTarget applies configured defaults to a request
func (s *ExportService) resolveTarget(request *domain.ExportSheetRequest) SheetTarget {
	target := SheetTarget{
		SpreadsheetID: strings.TrimSpace(request.SpreadsheetID),
		SheetName:     strings.TrimSpace(request.SheetName),
	}
	if target.SpreadsheetID == "" {
		target.SpreadsheetID = s.config.DefaultSpreadsheetID
	}
	if target.SheetName == "" {
		target.SheetName = s.config.DefaultSheetName
	}
	return target
}

// loadValidated fetches a card and runs field integrity repair on it
func (s *ExportService) loadValidated(ctx context.Context, id string) (*domain.CardRecord, *IntegrityReport, error) {
	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return card, s.validator.Validate(ctx, card), nil
}
