package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/domain"
	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/infrastructure/metrics"
)

// Thresholds for detecting corrupted generator output
const (
	swapTitleMinLen         = 200
	swapDescriptionMaxLen   = 100
	embeddedTitleMinLen     = 150
	embeddedPrefixLen       = 50
	embeddedSearchWindow    = 150
	embeddedFallbackLen     = 100
	untitledListing         = "Untitled"
	minExtractedTitleLength = 10
)

// Defect names a corruption pattern found in the generated fields
type Defect string

const (
	// DefectSwapped means title and description were transposed
	DefectSwapped Defect = "swapped"
	// DefectEmbeddedDescription means the title carries the description text
	DefectEmbeddedDescription Defect = "embedded_description"
	// DefectIdentity means the title is exactly the description
	DefectIdentity Defect = "identity"
	// DefectLengthOrder means the title was still not shorter than the description
	DefectLengthOrder Defect = "length_order"
)

// nameBoundaryRegex finds where a title ends and prose starts: the title
// segment followed by two capitalized words, e.g. "... PSA 10 This Stunning".
var nameBoundaryRegex = regexp.MustCompile(`^(.{10,}?[A-Za-z0-9#)\]])[\s.,:;!|\-]+[A-Z][a-z]+\s+[A-Z][a-z]+`)

// IntegrityReport is the outcome of validating one card
type IntegrityReport struct {
	// ListingTitle is the value exported in the "Listing Title" column
	ListingTitle string
	Defects      []Defect
	// Persisted is true when a repaired record was written back to the store
	Persisted bool
}

// Repaired reports whether any defect was corrected
func (r *IntegrityReport) Repaired() bool {
	return len(r.Defects) > 0
}

// FieldIntegrityValidator detects and repairs transposed or malformed
// generated fields. It never fails an export: every defect has a fallback.
type FieldIntegrityValidator struct {
	cards   domain.CardRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewFieldIntegrityValidator creates a validator that persists swap repairs to cards
func NewFieldIntegrityValidator(cards domain.CardRepository, logger *zap.Logger, m *metrics.Metrics) *FieldIntegrityValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FieldIntegrityValidator{
		cards:   cards,
		logger:  logger.Named("integrity"),
		metrics: m,
	}
}

// Validate repairs card in place and computes its listing title.
// A swapped title/description pair is written back to the store so that
// later reads see the corrected record.
func (v *FieldIntegrityValidator) Validate(ctx context.Context, card *domain.CardRecord) *IntegrityReport {
	report := &IntegrityReport{}

	if isSwapped(card) {
		expected := card.Revision
		card.AutoTitle, card.AutoDescription = card.AutoDescription, card.AutoTitle
		card.GenerationStatus = domain.GenerationSwapCorrected
		report.Defects = append(report.Defects, DefectSwapped)
		report.Persisted = v.persist(ctx, expected, card)
	}

	title, defects := ResolveListingTitle(card)
	report.ListingTitle = title
	report.Defects = append(report.Defects, defects...)

	if report.Repaired() {
		for _, d := range report.Defects {
			v.metrics.RecordRepair(string(d))
		}
		v.logger.Warn("repaired generated fields",
			zap.String("card_id", card.ID),
			zap.Any("defects", report.Defects),
			zap.Bool("persisted", report.Persisted),
		)
	}

	return report
}

// persist writes the repaired card back. Failures are logged, never returned:
// the export continues with the locally repaired copy.
func (v *FieldIntegrityValidator) persist(ctx context.Context, expectedRevision int64, card *domain.CardRecord) bool {
	if v.cards == nil {
		return false
	}

	err := v.cards.CompareAndSwap(ctx, expectedRevision, card)
	switch {
	case err == nil:
		return true
	case errors.Is(err, domain.ErrStoreConflict):
		// Another writer updated the card first; repeated repairs converge
		v.logger.Debug("repair lost compare-and-swap", zap.String("card_id", card.ID))
	default:
		v.logger.Error("failed to persist repaired card", zap.String("card_id", card.ID), zap.Error(err))
	}
	return false
}

// isSwapped detects a description stored as the title and vice versa.
// Cards already corrected once are not re-guessed.
func isSwapped(card *domain.CardRecord) bool {
	if card.GenerationStatus == domain.GenerationSwapCorrected {
		return false
	}
	return runeLen(card.AutoTitle) > swapTitleMinLen && runeLen(card.AutoDescription) < swapDescriptionMaxLen
}

// ResolveListingTitle picks the exported title for card and repairs embedded
// or duplicated description text. The result always differs from
// AutoDescription and is no longer than it when the description is non-empty.
func ResolveListingTitle(card *domain.CardRecord) (string, []Defect) {
	var defects []Defect
	desc := card.AutoDescription
	fallback := card.Normalized.Title

	title := card.AutoTitle
	if title == "" {
		title = fallback
	}

	if hasEmbeddedDescription(title, desc) {
		title = extractTitle(title, desc)
		defects = append(defects, DefectEmbeddedDescription)
	}

	if desc != "" && title == desc {
		title = fallback
		if title == "" {
			title = untitledListing
		}
		defects = append(defects, DefectIdentity)
	}

	if fitted := fitToDescription(title, fallback, desc); fitted != title {
		title = fitted
		defects = append(defects, DefectLengthOrder)
	}

	return title, defects
}

func hasEmbeddedDescription(title, desc string) bool {
	if desc == "" || runeLen(title) <= embeddedTitleMinLen {
		return false
	}
	return strings.Contains(title, truncateRunes(desc, embeddedPrefixLen))
}

// extractTitle recovers the real title from one that had the description
// appended. The description's own opening marks the exact cut when present;
// otherwise a name-boundary match in the first characters is used, and
// failing both the title is cut to a fixed length.
func extractTitle(title, desc string) string {
	prefix := truncateRunes(desc, embeddedPrefixLen)
	if idx := strings.Index(title, prefix); idx > 0 {
		if head := strings.TrimSpace(title[:idx]); runeLen(head) >= minExtractedTitleLength {
			return trimBoundaryPunctuation(head)
		}
	}

	window := truncateRunes(title, embeddedSearchWindow)
	if m := nameBoundaryRegex.FindStringSubmatch(window); m != nil {
		return strings.TrimSpace(m[1])
	}

	return strings.TrimSpace(truncateRunes(title, embeddedFallbackLen))
}

func trimBoundaryPunctuation(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, " -|:;,."))
}

// fitToDescription enforces the length ordering between title and description.
// Candidates are tried in order: the title cut to the description's length,
// the normalized title, "Untitled", and finally a strict prefix of the description.
func fitToDescription(title, fallback, desc string) string {
	if desc == "" || title == "" {
		return title
	}
	limit := runeLen(desc)
	fits := func(s string) bool {
		return s != "" && s != desc && runeLen(s) <= limit
	}

	if fits(title) {
		return title
	}
	if cut := strings.TrimSpace(truncateRunes(title, limit)); fits(cut) {
		return cut
	}
	for _, candidate := range []string{fallback, untitledListing} {
		if fits(candidate) {
			return candidate
		}
	}
	return truncateRunes(desc, limit-1)
}
