package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// CacheKey identifies a response by provider, locale and input text
func CacheKey(provider, locale, text string) string {
	h := blake3.New()
	for _, part := range []string{provider, locale, text} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GetResponse returns the cached markup for key
func (s *Store) GetResponse(ctx context.Context, key string) (string, bool, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT markup FROM responses WHERE key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query response cache: %w", err)
	}

	markup, err := decompress(blob)
	if err != nil {
		return "", false, fmt.Errorf("failed to decompress cached response: %w", err)
	}

	return markup, true, nil
}

// PutResponse caches markup under key, replacing any previous entry
func (s *Store) PutResponse(ctx context.Context, key, provider, locale, markup string) error {
	blob, err := compress(markup)
	if err != nil {
		return fmt.Errorf("failed to compress response: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO responses (key, provider, locale, markup, created) VALUES (?, ?, ?, ?, ?)`,
		key, provider, locale, blob, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store response: %w", err)
	}

	return nil
}

func compress(s string) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, s); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(blob []byte) (string, error) {
	r, err := xz.NewReader(bytes.NewReader(blob))
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
