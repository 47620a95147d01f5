package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/domain"
	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/infrastructure/metrics"
	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/infrastructure/sheets"
)

// SheetTarget identifies the tab a row is written to
type SheetTarget struct {
	SpreadsheetID string
	SheetName     string
}

// SheetExporter writes one card row into an externally owned spreadsheet.
//
// The flow is linear with no internal retries: verify the spreadsheet,
// ensure the tab, read the used range, classify the header, build the row,
// rewrite the header if needed, and write the row to an exact range. The row
// is built before any write so a validation failure leaves the sheet untouched. The next row is
// computed from the read rather than appended, so concurrent exports to the
// same tab must be serialized by the caller.
type SheetExporter struct {
	service domain.SpreadsheetService
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewSheetExporter creates a new spreadsheet exporter
func NewSheetExporter(service domain.SpreadsheetService, logger *zap.Logger, m *metrics.Metrics) *SheetExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetExporter{
		service: service,
		logger:  logger.Named("sheet_exporter"),
		metrics: m,
	}
}

// Export appends card as the next row of target
func (e *SheetExporter) Export(
	ctx context.Context,
	target SheetTarget,
	card *domain.CardRecord,
	listingTitle string,
) (*domain.SheetExportResult, error) {
	titles, err := e.service.SheetTitles(ctx, target.SpreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSpreadsheetNotFound, target.SpreadsheetID, err)
	}

	if !containsTitle(titles, target.SheetName) {
		if err := e.service.AddSheet(ctx, target.SpreadsheetID, target.SheetName); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", target.SheetName, err)
		}
	}

	existing, err := e.service.ReadValues(ctx, target.SpreadsheetID, sheets.SheetRange(target.SheetName))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", target.SheetName, err)
	}

	var header []string
	if len(existing) > 0 {
		header = existing[0]
	}
	schema := ClassifySchema(header)
	e.metrics.RecordSchema(schema.Schema.String())

	row, err := BuildRow(card, listingTitle, schema)
	if err != nil {
		return nil, err
	}

	nextRow := len(existing) + 1
	if nextRow == 1 || schema.NeedsHeaderWrite {
		headerRange := sheets.RowRange(target.SheetName, 1, schema.ColumnCount())
		if err := e.service.UpdateValues(ctx, target.SpreadsheetID, headerRange, [][]string{schema.Header()}); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		e.logger.Info("wrote sheet header",
			zap.String("range", headerRange),
			zap.String("schema", schema.Schema.String()),
		)
		if nextRow == 1 {
			nextRow = 2
		}
	}

	rowRange := sheets.RowRange(target.SheetName, nextRow, schema.ColumnCount())
	if err := e.service.UpdateValues(ctx, target.SpreadsheetID, rowRange, [][]string{row}); err != nil {
		return nil, fmt.Errorf("failed to write row: %w", err)
	}

	e.logger.Info("exported card to sheet",
		zap.String("card_id", card.ID),
		zap.String("spreadsheet_id", target.SpreadsheetID),
		zap.String("range", rowRange),
		zap.String("schema", schema.Schema.String()),
	)

	return &domain.SheetExportResult{
		SpreadsheetID: target.SpreadsheetID,
		SheetName:     target.SheetName,
		SheetURL:      domain.SpreadsheetURL(target.SpreadsheetID),
		Row:           nextRow,
	}, nil
}

func containsTitle(titles []string, name string) bool {
	for _, t := range titles {
		if t == name {
			return true
		}
	}
	return false
}
