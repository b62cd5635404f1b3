package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"codeberg.org/snonux/phonetext/internal/maryxml"
)

// SaveDictionary stores the entries of dict for locale. Words already
// stored must keep their pronunciation; on conflict nothing is written.
// A non-nil beforeCommit runs last inside the transaction and its error
// rolls the entries back.
func (s *Store) SaveDictionary(ctx context.Context, locale, runID string, dict *maryxml.Dictionary, beforeCommit func() error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, e := range dict.Entries() {
		var existing string
		err := tx.QueryRowContext(ctx,
			`SELECT pronunciation FROM pronunciations WHERE locale = ? AND word = ?`,
			locale, e.Word).Scan(&existing)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO pronunciations (locale, word, pronunciation, run_id, created) VALUES (?, ?, ?, ?, ?)`,
				locale, e.Word, e.Pronunciation, runID, now); err != nil {
				return fmt.Errorf("failed to insert %q: %w", e.Word, err)
			}
		case err != nil:
			return fmt.Errorf("failed to query %q: %w", e.Word, err)
		case existing != e.Pronunciation:
			return &maryxml.ConsistencyError{Word: e.Word, Existing: existing, Conflicting: e.Pronunciation}
		}
	}

	if beforeCommit != nil {
		if err := beforeCommit(); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dictionary: %w", err)
	}

	return nil
}

// LoadDictionary returns all stored entries for locale in insertion order
func (s *Store) LoadDictionary(ctx context.Context, locale string) (*maryxml.Dictionary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, pronunciation FROM pronunciations WHERE locale = ? ORDER BY rowid`, locale)
	if err != nil {
		return nil, fmt.Errorf("failed to query dictionary: %w", err)
	}
	defer rows.Close()

	dict := maryxml.NewDictionary()
	for rows.Next() {
		var word, pronunciation string
		if err := rows.Scan(&word, &pronunciation); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if err := dict.Add(word, pronunciation); err != nil {
			return nil, err
		}
	}

	return dict, rows.Err()
}
