package usecase

import (
	"fmt"

	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/domain"
)

// BuildRow lays out one export row for card in the classified schema.
// listingTitle always lands in column 3 and the description in the
// classified description column; 12-column rows carry the auto title in
// column 10. The row is re-validated before it is returned, so a row that
// would break an export invariant never reaches a sink.
func BuildRow(card *domain.CardRecord, listingTitle string, schema domain.SchemaClassification) ([]string, error) {
	n := card.Normalized
	row := []string{
		n.Year,
		n.Set,
		n.CardNumber,
		listingTitle,
		n.PlayerFirstName,
		n.PlayerLastName,
		n.GradingCompany,
		n.Grade,
		n.Cert,
		n.Caption,
	}

	if schema.DescriptionColumn == domain.LegacyDescriptionCol {
		autoTitle := card.AutoTitle
		if autoTitle == "" {
			autoTitle = listingTitle
		}
		row = append(row, autoTitle)
	}
	row = append(row, card.AutoDescription)

	if err := validateRow(row, schema); err != nil {
		return nil, err
	}
	return row, nil
}

// validateRow re-checks the title/description invariants immediately before
// an irreversible write. The title checks only apply while a description
// exists; cards still awaiting generation export with an empty description.
func validateRow(row []string, schema domain.SchemaClassification) error {
	if len(row) != schema.ColumnCount() {
		return &domain.ValidationError{
			Rule:   "column_count",
			Detail: fmt.Sprintf("row has %d columns, schema %s expects %d", len(row), schema.Schema, schema.ColumnCount()),
		}
	}

	title := row[domain.ColumnListingTitle]
	desc := row[schema.DescriptionColumn]
	if desc == "" {
		return nil
	}

	if title == desc {
		return &domain.ValidationError{
			Rule:   "title_equals_description",
			Detail: "listing title is identical to auto description",
		}
	}
	if runeLen(title) > runeLen(desc) {
		return &domain.ValidationError{
			Rule:   "title_longer_than_description",
			Detail: fmt.Sprintf("listing title has %d characters, description %d", runeLen(title), runeLen(desc)),
		}
	}
	return nil
}
