package store

import (
	"context"
	"strings"
)

const maxRecentSearches = 20

// AddRecentSearch records q as the most recently used query, keeping the
// newest maxRecentSearches distinct entries.
func (s *State) AddRecentSearch(ctx context.Context, q string) error {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO recent_searches(query, seq)
		VALUES(?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM recent_searches))`, q); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recent_searches WHERE query NOT IN (
		SELECT query FROM recent_searches ORDER BY seq DESC LIMIT ?
	)`, maxRecentSearches); err != nil {
		return err
	}
	return tx.Commit()
}

// RecentSearches returns up to limit queries, newest first.
func (s *State) RecentSearches(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 || limit > maxRecentSearches {
		limit = maxRecentSearches
	}
	rows, err := s.db.QueryContext(ctx, `SELECT query FROM recent_searches ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
