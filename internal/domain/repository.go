package domain

import "context"

// CardRepository stores card records by id.
// Implementations must return ErrCardNotFound for unknown ids and copies,
// never shared pointers, from Get.
type CardRepository interface {
	Get(ctx context.Context, id string) (*CardRecord, error)
	Set(ctx context.Context, card *CardRecord) error

	// CompareAndSwap writes updated only if the stored revision still equals
	// expectedRevision. It returns ErrStoreConflict otherwise.
	CompareAndSwap(ctx context.Context, expectedRevision int64, updated *CardRecord) error
}

// SpreadsheetService is the subset of a spreadsheet API the exporter needs.
// Ranges use A1 notation including the sheet name.
type SpreadsheetService interface {
	// SheetTitles returns the tab names of a spreadsheet, or ErrSpreadsheetNotFound
	SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
	AddSheet(ctx context.Context, spreadsheetID, title string) error
	ReadValues(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)
	UpdateValues(ctx context.Context, spreadsheetID, writeRange string, rows [][]string) error
}
