package usecase

import (
	"strings"

	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/domain"
)

// ClassifySchema decides which column of an existing sheet holds the long
// description and whether its header must be rewritten. It is a pure
// function of the header row; rules are evaluated in order, first match wins.
//
// Older sheets were written with a 12th "Auto Title" column. Rows must keep
// landing in the same description column the sheet already uses, so a
// 12-column sheet stays 12 columns and an 11-column sheet stays 11.
func ClassifySchema(header []string) domain.SchemaClassification {
	h := trimTrailingEmpty(header)

	switch {
	case len(h) == 0:
		return domain.SchemaClassification{
			Schema:            domain.SchemaAbsent,
			DescriptionColumn: domain.StandardDescriptionCol,
			NeedsHeaderWrite:  true,
		}

	case len(h) == 12 && h[11] == domain.HeaderAutoDescription &&
		(h[10] == domain.HeaderAutoTitle || h[10] == domain.HeaderAutoDescription):
		// A duplicated "Auto Description" header is repaired in place
		return domain.SchemaClassification{
			Schema:            domain.SchemaLegacy12,
			DescriptionColumn: domain.LegacyDescriptionCol,
			NeedsHeaderWrite:  h[10] == domain.HeaderAutoDescription,
		}

	case len(h) == 12 && h[11] == domain.HeaderAutoDescription:
		return domain.SchemaClassification{
			Schema:            domain.SchemaDrifted,
			DescriptionColumn: domain.LegacyDescriptionCol,
			NeedsHeaderWrite:  true,
		}

	case len(h) == 11 && h[10] == domain.HeaderAutoDescription:
		return domain.SchemaClassification{
			Schema:            domain.SchemaStandard11,
			DescriptionColumn: domain.StandardDescriptionCol,
			NeedsHeaderWrite:  false,
		}

	default:
		col := domain.StandardDescriptionCol
		if len(h) > 11 {
			col = domain.LegacyDescriptionCol
		}
		return domain.SchemaClassification{
			Schema:            domain.SchemaDrifted,
			DescriptionColumn: col,
			NeedsHeaderWrite:  true,
		}
	}
}

// trimTrailingEmpty normalizes cell whitespace and drops empty trailing cells,
// which the Sheets API may or may not return depending on formatting.
func trimTrailingEmpty(header []string) []string {
	out := make([]string, len(header))
	for i, cell := range header {
		out[i] = strings.TrimSpace(cell)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}
