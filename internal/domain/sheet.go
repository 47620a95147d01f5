package domain

import "fmt"

// SheetSchema is the header layout found in a destination sheet
type SheetSchema int

const (
	// SchemaAbsent means the sheet has no header row yet
	SchemaAbsent SheetSchema = iota
	// SchemaStandard11 is the current 11-column layout
	SchemaStandard11
	// SchemaLegacy12 is the older layout with an extra "Auto Title" column
	SchemaLegacy12
	// SchemaDrifted is a header matching neither known layout
	SchemaDrifted
)

func (s SheetSchema) String() string {
	switch s {
	case SchemaAbsent:
		return "absent"
	case SchemaStandard11:
		return "standard_11"
	case SchemaLegacy12:
		return "legacy_12"
	case SchemaDrifted:
		return "drifted"
	default:
		return fmt.Sprintf("SheetSchema(%d)", int(s))
	}
}

// Column positions shared by every layout
const (
	ColumnListingTitle     = 3
	ColumnAutoTitleLegacy  = 10
	StandardDescriptionCol = 10
	LegacyDescriptionCol   = 11
)

// Header cells that the classifier keys on
const (
	HeaderAutoTitle       = "Auto Title"
	HeaderAutoDescription = "Auto Description"
)

// StandardHeader is the 11-column header written to new sheets and CSV files
var StandardHeader = []string{
	"Year",
	"Set",
	"Card Number",
	"Listing Title",
	"Player First Name",
	"Player Last Name",
	"Grading Company",
	"Grade",
	"Cert",
	"Listing Caption",
	HeaderAutoDescription,
}

// LegacyHeader is the 12-column header used by older sheets
var LegacyHeader = append(append([]string{}, StandardHeader[:10]...), HeaderAutoTitle, HeaderAutoDescription)

// SchemaClassification is the outcome of classifying a header row.
// It is computed once per export and threaded through row construction.
type SchemaClassification struct {
	Schema            SheetSchema
	DescriptionColumn int
	NeedsHeaderWrite  bool
}

// ColumnCount is the number of cells a row must have for this classification
func (c SchemaClassification) ColumnCount() int {
	return c.DescriptionColumn + 1
}

// Header returns the header row matching the classified column count
func (c SchemaClassification) Header() []string {
	if c.DescriptionColumn == LegacyDescriptionCol {
		return append([]string{}, LegacyHeader...)
	}
	return append([]string{}, StandardHeader...)
}

// SpreadsheetURL builds the browser URL for a spreadsheet
func SpreadsheetURL(spreadsheetID string) string {
	return "https://docs.google.com/spreadsheets/d/" + spreadsheetID
}
