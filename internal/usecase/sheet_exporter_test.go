package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/domain"
)

var testTarget = SheetTarget{SpreadsheetID: "sheet-123", SheetName: "Sheet1"}

func TestSheetExporter_EmptySheetWritesHeaderThenRow(t *testing.T) {
	card := newTestCard()
	card.AutoTitle = ""
	card.AutoDescription = "Great card with sharp corners and centering, ready for a new collection."
	card.Normalized.Title = "2020 Topps #42 Mike Trout PSA 9"
	title, _ := ResolveListingTitle(card)

	svc := NewMockSpreadsheetService()
	result, err := NewSheetExporter(svc, nil, nil).Export(context.Background(), testTarget, card, title)

	require.NoError(t, err)
	require.Len(t, svc.updates, 2)

	assert.Equal(t, "'Sheet1'!A1:K1", svc.updates[0].Range)
	assert.Equal(t, [][]string{domain.StandardHeader}, svc.updates[0].Rows)

	assert.Equal(t, "'Sheet1'!A2:K2", svc.updates[1].Range)
	assert.Len(t, svc.updates[1].Rows[0], 11)
	assert.Equal(t, "2020 Topps #42 Mike Trout PSA 9", svc.updates[1].Rows[0][3])

	assert.Equal(t, 2, result.Row)
	assert.Equal(t, "Sheet1", result.SheetName)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/sheet-123", result.SheetURL)
}

func TestSheetExporter_LegacySheetKeepsTwelveColumns(t *testing.T) {
	card := newTestCard()
	svc := NewMockSpreadsheetService(
		domain.LegacyHeader,
		make([]string, 12),
		make([]string, 12),
	)

	result, err := NewSheetExporter(svc, nil, nil).Export(context.Background(), testTarget, card, card.AutoTitle)

	require.NoError(t, err)
	require.Len(t, svc.updates, 1, "legacy header must not be rewritten")
	assert.Equal(t, "'Sheet1'!A4:L4", svc.updates[0].Range)

	row := svc.updates[0].Rows[0]
	assert.Len(t, row, 12)
	assert.Equal(t, card.AutoTitle, row[10])
	assert.Equal(t, card.AutoDescription, row[11])
	assert.Equal(t, 4, result.Row)
}

func TestSheetExporter_StandardSheetAppends(t *testing.T) {
	card := newTestCard()
	svc := NewMockSpreadsheetService(domain.StandardHeader)

	result, err := NewSheetExporter(svc, nil, nil).Export(context.Background(), testTarget, card, card.AutoTitle)

	require.NoError(t, err)
	require.Len(t, svc.updates, 1)
	assert.Equal(t, "'Sheet1'!A2:K2", svc.updates[0].Range)
	assert.Equal(t, 2, result.Row)
}

func TestSheetExporter_RewritesDuplicatedHeader(t *testing.T) {
	card := newTestCard()
	svc := NewMockSpreadsheetService(
		headerWith("Auto Description", "Auto Description"),
		make([]string, 12),
	)

	result, err := NewSheetExporter(svc, nil, nil).Export(context.Background(), testTarget, card, card.AutoTitle)

	require.NoError(t, err)
	require.Len(t, svc.updates, 2)
	assert.Equal(t, "'Sheet1'!A1:L1", svc.updates[0].Range)
	assert.Equal(t, domain.LegacyHeader, svc.updates[0].Rows[0])
	assert.Equal(t, "'Sheet1'!A3:L3", svc.updates[1].Range)
	assert.Equal(t, 3, result.Row)
}

func TestSheetExporter_DriftedHeaderRewrittenAsStandard(t *testing.T) {
	card := newTestCard()
	svc := NewMockSpreadsheetService([]string{"year", "set", "number"})

	_, err := NewSheetExporter(svc, nil, nil).Export(context.Background(), testTarget, card, card.AutoTitle)

	require.NoError(t, err)
	require.Len(t, svc.updates, 2)
	assert.Equal(t, "'Sheet1'!A1:K1", svc.updates[0].Range)
	assert.Equal(t, "'Sheet1'!A2:K2", svc.updates[1].Range)
}

func TestSheetExporter_CreatesMissingTab(t *testing.T) {
	card := newTestCard()
	svc := NewMockSpreadsheetService()
	target := SheetTarget{SpreadsheetID: "sheet-123", SheetName: "Graded Cards"}

	result, err := NewSheetExporter(svc, nil, nil).Export(context.Background(), target, card, card.AutoTitle)

	require.NoError(t, err)
	assert.Equal(t, []string{"Graded Cards"}, svc.addCalls)
	assert.True(t, strings.HasPrefix(svc.updates[0].Range, "'Graded Cards'!"))
	assert.Equal(t, "Graded Cards", result.SheetName)
}

func TestSheetExporter_ExistingTabNotRecreated(t *testing.T) {
	svc := NewMockSpreadsheetService()
	card := newTestCard()

	_, err := NewSheetExporter(svc, nil, nil).Export(context.Background(), testTarget, card, card.AutoTitle)

	require.NoError(t, err)
	assert.Empty(t, svc.addCalls)
}

func TestSheetExporter_SpreadsheetLookupFailure(t *testing.T) {
	svc := NewMockSpreadsheetService()
	svc.getError = errors.New("permission denied")
	card := newTestCard()

	result, err := NewSheetExporter(svc, nil, nil).Export(context.Background(), testTarget, card, card.AutoTitle)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrSpreadsheetNotFound)
	assert.Empty(t, svc.updates)
}

func TestSheetExporter_ReadFailure(t *testing.T) {
	svc := NewMockSpreadsheetService()
	svc.readError = domain.ErrSheetsAPIFailure
	card := newTestCard()

	_, err := NewSheetExporter(svc, nil, nil).Export(context.Background(), testTarget, card, card.AutoTitle)

	assert.ErrorIs(t, err, domain.ErrSheetsAPIFailure)
	assert.Empty(t, svc.updates)
}

func TestSheetExporter_ValidationFailureWritesNothing(t *testing.T) {
	svc := NewMockSpreadsheetService()
	card := newTestCard()

	_, err := NewSheetExporter(svc, nil, nil).Export(context.Background(), testTarget, card, card.AutoDescription)

	assert.ErrorIs(t, err, domain.ErrRowValidation)
	assert.Empty(t, svc.updates)
}

func TestSheetExporter_SequentialExportsUseNextRows(t *testing.T) {
	svc := NewMockSpreadsheetService()
	exporter := NewSheetExporter(svc, nil, nil)
	card := newTestCard()

	var rows []int
	for i := 0; i < 3; i++ {
		result, err := exporter.Export(context.Background(), testTarget, card, card.AutoTitle)
		require.NoError(t, err)
		rows = append(rows, result.Row)
	}

	assert.Equal(t, []int{2, 3, 4}, rows)
}
