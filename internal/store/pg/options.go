package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/accessd/internal/store/core"
)

// GetOption: devuelve el valor JSON crudo o ErrNotFound.
func (s *Store) GetOption(ctx context.Context, userID int64, category, name string) ([]byte, error) {
	var v []byte
	err := s.pool.QueryRow(ctx, `
SELECT value
FROM user_option
WHERE user_id = $1 AND category = $2 AND name = $3`,
		userID, category, name).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// SetOption: upsert por PK (user_id, category, name).
func (s *Store) SetOption(ctx context.Context, userID int64, category, name string, value []byte) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO user_option (user_id, category, name, value)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, category, name) DO UPDATE SET value = EXCLUDED.value`,
		userID, category, name, value)
	return err
}

var _ core.OptionRepository = (*Store)(nil)
