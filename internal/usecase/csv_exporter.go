package usecase

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/domain"
)

// CSVExporter renders a single card as an 11-column CSV file.
// CSV output has no prior state, so the standard layout always applies.
type CSVExporter struct{}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// standardLayout is the fixed schema used for every CSV file
var standardLayout = domain.SchemaClassification{
	Schema:            domain.SchemaStandard11,
	DescriptionColumn: domain.StandardDescriptionCol,
}

// Export writes the header line and one data line for card
func (e *CSVExporter) Export(card *domain.CardRecord, listingTitle string) ([]byte, error) {
	row, err := BuildRow(card, listingTitle, standardLayout)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(domain.StandardHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := writer.Write(row); err != nil {
		return nil, fmt.Errorf("failed to write csv row: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename is the download name for a card's CSV file
func (e *CSVExporter) Filename(cardID string) string {
	return fmt.Sprintf("card-%s.csv", cardID)
}
