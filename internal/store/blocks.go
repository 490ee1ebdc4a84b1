package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/marlinshell/marlin/internal/hir"
)

// Entry describes one cached block.
type Entry struct {
	Fingerprint string `json:"fingerprint"`
	Size        int    `json:"size"`
	Seq         int64  `json:"seq"`
}

// Put stores a block keyed by its canonical fingerprint and returns the
// fingerprint. Writing a block whose fingerprint is already present is a
// silent no-op, so Put is idempotent.
func (s *Store) Put(ctx context.Context, block *hir.Block) (string, error) {
	fp := block.Fingerprint()

	body, err := hir.EncodeBlock(block)
	if err != nil {
		return "", fmt.Errorf("put block: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("put block: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM blocks`).Scan(&seq); err != nil {
		return "", fmt.Errorf("put block: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO blocks (fingerprint, body, seq)
		VALUES (?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING
	`, fp, string(body), seq)
	if err != nil {
		return "", fmt.Errorf("put block: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("put block: %w", err)
	}

	slog.Debug("block cached",
		"fingerprint", fp,
		"bytes", len(body))

	return fp, nil
}

// Get returns the block stored under the given fingerprint.
// Returns sql.ErrNoRows if not found.
func (s *Store) Get(ctx context.Context, fingerprint string) (*hir.Block, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `
		SELECT body FROM blocks WHERE fingerprint = ?
	`, fingerprint).Scan(&body)
	if err != nil {
		return nil, err
	}

	block, err := hir.DecodeBlock([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("get block %s: %w", fingerprint, err)
	}

	return block, nil
}

// Has reports whether a block with the given fingerprint is cached.
func (s *Store) Has(ctx context.Context, fingerprint string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM blocks WHERE fingerprint = ?
	`, fingerprint).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("has block: %w", err)
	}
	return n > 0, nil
}

// List returns all cached blocks in insertion order.
// Returns an empty slice (not nil) when the cache is empty.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fingerprint, LENGTH(body), seq
		FROM blocks
		ORDER BY seq ASC, fingerprint COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Fingerprint, &e.Size, &e.Seq); err != nil {
			return nil, fmt.Errorf("scan block entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}

	if entries == nil {
		entries = []Entry{}
	}

	return entries, nil
}
