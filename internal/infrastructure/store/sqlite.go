package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/domain"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore persists cards in a single SQLite table.
// The record body is stored as JSON next to its revision so that
// compare-and-swap is a single conditional UPDATE.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS cards (
		id TEXT PRIMARY KEY,
		revision INTEGER NOT NULL,
		body TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	return err
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get loads a card by id
func (s *SQLiteStore) Get(ctx context.Context, id string) (*domain.CardRecord, error) {
	var (
		revision int64
		body     string
	)
	err := s.db.QueryRowContext(ctx, `SELECT revision, body FROM cards WHERE id = ?`, id).Scan(&revision, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load card %s: %w", id, err)
	}

	card, err := decodeCard([]byte(body))
	if err != nil {
		return nil, err
	}
	card.Revision = revision
	return card, nil
}

// Set upserts a card, bumping its revision
func (s *SQLiteStore) Set(ctx context.Context, card *domain.CardRecord) error {
	if card == nil || card.ID == "" {
		return fmt.Errorf("%w: card id is required", domain.ErrInvalidRequest)
	}

	body, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("failed to encode card: %w", err)
	}

	var revision int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO cards (id, revision, body, updated_at)
		VALUES (?, 1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			revision = cards.revision + 1,
			body = excluded.body,
			updated_at = excluded.updated_at
		RETURNING revision`,
		card.ID, string(body), time.Now().Unix(),
	).Scan(&revision)
	if err != nil {
		return fmt.Errorf("failed to save card %s: %w", card.ID, err)
	}

	card.Revision = revision
	return nil
}

// CompareAndSwap writes updated only if the stored revision equals expectedRevision
func (s *SQLiteStore) CompareAndSwap(ctx context.Context, expectedRevision int64, updated *domain.CardRecord) error {
	if updated == nil || updated.ID == "" {
		return fmt.Errorf("%w: card id is required", domain.ErrInvalidRequest)
	}

	body, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to encode card: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE cards SET revision = revision + 1, body = ?, updated_at = ?
		WHERE id = ? AND revision = ?`,
		string(body), time.Now().Unix(), updated.ID, expectedRevision,
	)
	if err != nil {
		return fmt.Errorf("failed to update card %s: %w", updated.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update card %s: %w", updated.ID, err)
	}
	if affected == 0 {
		if _, err := s.Get(ctx, updated.ID); errors.Is(err, domain.ErrCardNotFound) {
			return domain.ErrCardNotFound
		}
		return fmt.Errorf("%w: expected revision %d", domain.ErrStoreConflict, expectedRevision)
	}

	updated.Revision = expectedRevision + 1
	return nil
}
