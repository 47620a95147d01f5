package domain

// GenerationStatus tracks the lifecycle of the generated title/description pair.
type GenerationStatus string

const (
	// GenerationPending means the upstream generator has not finished yet
	GenerationPending GenerationStatus = "pending"

	// GenerationComplete means both generated fields were written by the generator
	GenerationComplete GenerationStatus = "complete"

	// GenerationSwapCorrected means a transposed title/description pair was
	// detected and swapped back. Records in this state are never swap-checked again.
	GenerationSwapCorrected GenerationStatus = "swapped-and-corrected"
)

// NormalizedFields holds the baseline card attributes produced by the
// extraction stage. They are used as export values and as fallbacks.
type NormalizedFields struct {
	Year            string `json:"year"`
	Set             string `json:"set"`
	CardNumber      string `json:"cardNumber"`
	Title           string `json:"title"`
	PlayerFirstName string `json:"playerFirstName"`
	PlayerLastName  string `json:"playerLastName"`
	GradingCompany  string `json:"gradingCompany"`
	Grade           string `json:"grade"`
	Cert            string `json:"cert"`
	Caption         string `json:"caption"`
}

// CardRecord is a single card as stored by the upstream pipeline
type CardRecord struct {
	ID                string             `json:"id"`
	Normalized        NormalizedFields   `json:"normalized"`
	AutoTitle         string             `json:"autoTitle,omitempty"`
	AutoDescription   string             `json:"autoDescription,omitempty"`
	GenerationStatus  GenerationStatus   `json:"generationStatus,omitempty"`
	ConfidenceByField map[string]float64 `json:"confidenceByField,omitempty"`

	// Revision is bumped by the store on every write and drives compare-and-swap
	Revision int64 `json:"revision"`
}

// Clone returns a deep copy of the record
func (c *CardRecord) Clone() *CardRecord {
	if c == nil {
		return nil
	}
	out := *c
	if c.ConfidenceByField != nil {
		out.ConfidenceByField = make(map[string]float64, len(c.ConfidenceByField))
		for k, v := range c.ConfidenceByField {
			out.ConfidenceByField[k] = v
		}
	}
	return &out
}

// ExportCSVRequest represents a CSV export request
type ExportCSVRequest struct {
	CardID string `json:"cardId"`
}

// ExportSheetRequest represents a spreadsheet export request.
// SpreadsheetID and SheetName fall back to configured defaults when empty.
type ExportSheetRequest struct {
	CardID        string `json:"cardId"`
	SpreadsheetID string `json:"spreadsheetId,omitempty"`
	SheetName     string `json:"sheetName,omitempty"`
}

// CSVExport is a rendered CSV file for one card
type CSVExport struct {
	Filename string
	Content  []byte
}

// SheetExportResult describes where a row was written
type SheetExportResult struct {
	SpreadsheetID string `json:"spreadsheetId"`
	SheetName     string `json:"sheetName"`
	SheetURL      string `json:"sheetUrl"`
	Row           int    `json:"row"`
}
