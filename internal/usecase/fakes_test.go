package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/domain"
)

// MockCardRepository is an in-memory domain.CardRepository for tests
type MockCardRepository struct {
	mu       sync.Mutex
	data     map[string]*domain.CardRecord
	casCalls int
	casError error
}

func NewMockCardRepository(cards ...*domain.CardRecord) *MockCardRepository {
	m := &MockCardRepository{data: make(map[string]*domain.CardRecord)}
	for _, c := range cards {
		m.data[c.ID] = c.Clone()
	}
	return m
}

func (m *MockCardRepository) Get(ctx context.Context, id string) (*domain.CardRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.data[id]
	if !ok {
		return nil, domain.ErrCardNotFound
	}
	return card.Clone(), nil
}

func (m *MockCardRepository) Set(ctx context.Context, card *domain.CardRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[card.ID]; ok {
		card.Revision = existing.Revision + 1
	} else {
		card.Revision = 1
	}
	m.data[card.ID] = card.Clone()
	return nil
}

func (m *MockCardRepository) CompareAndSwap(ctx context.Context, expectedRevision int64, updated *domain.CardRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.casCalls++
	if m.casError != nil {
		return m.casError
	}
	existing, ok := m.data[updated.ID]
	if !ok {
		return domain.ErrCardNotFound
	}
	if existing.Revision != expectedRevision {
		return fmt.Errorf("%w: revision %d", domain.ErrStoreConflict, existing.Revision)
	}
	updated.Revision = expectedRevision + 1
	m.data[updated.ID] = updated.Clone()
	return nil
}

func (m *MockCardRepository) stored(id string) *domain.CardRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[id].Clone()
}

// MockSpreadsheetService records calls against an in-memory grid
type MockSpreadsheetService struct {
	mu        sync.Mutex
	titles    []string
	values    [][]string
	getError  error
	readError error
	addCalls  []string
	updates   []mockUpdate
}

type mockUpdate struct {
	Range string
	Rows  [][]string
}

func NewMockSpreadsheetService(values ...[]string) *MockSpreadsheetService {
	return &MockSpreadsheetService{
		titles: []string{"Sheet1"},
		values: values,
	}
}

func (m *MockSpreadsheetService) SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	return append([]string{}, m.titles...), nil
}

func (m *MockSpreadsheetService) AddSheet(ctx context.Context, spreadsheetID, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addCalls = append(m.addCalls, title)
	m.titles = append(m.titles, title)
	return nil
}

func (m *MockSpreadsheetService) ReadValues(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readError != nil {
		return nil, m.readError
	}
	out := make([][]string, len(m.values))
	for i, row := range m.values {
		out[i] = append([]string{}, row...)
	}
	return out, nil
}

func (m *MockSpreadsheetService) UpdateValues(ctx context.Context, spreadsheetID, writeRange string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, mockUpdate{Range: writeRange, Rows: rows})

	// Mirror the write into the grid so later reads see it
	var row int
	fmt.Sscanf(writeRange[len(writeRange)-countDigits(writeRange):], "%d", &row)
	for len(m.values) < row {
		m.values = append(m.values, nil)
	}
	m.values[row-1] = append([]string{}, rows[0]...)
	return nil
}

func countDigits(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] >= '0' && s[i] <= '9'; i-- {
		n++
	}
	return n
}

func newTestCard() *domain.CardRecord {
	return &domain.CardRecord{
		ID: "card-42",
		Normalized: domain.NormalizedFields{
			Year:            "2020",
			Set:             "Topps",
			CardNumber:      "42",
			Title:           "2020 Topps #42 Mike Trout PSA 9",
			PlayerFirstName: "Mike",
			PlayerLastName:  "Trout",
			GradingCompany:  "PSA",
			Grade:           "9",
			Cert:            "12345678",
			Caption:         "Angels legend",
		},
		AutoTitle:        "2020 Topps #42 Mike Trout PSA 9 Angels",
		AutoDescription:  "Great card with sharp corners, strong centering and a clean PSA 9 slab.",
		GenerationStatus: domain.GenerationComplete,
	}
}
