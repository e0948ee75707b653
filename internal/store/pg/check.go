package pg

import (
	"context"
	"time"

	"github.com/dropDatabas3/accessd/internal/store/core"
)

// GetChecks: lista las marcas pendientes para (provider, usuario).
func (s *Store) GetChecks(ctx context.Context, providerID string, userID int64) ([]time.Time, error) {
	rows, err := s.pool.Query(ctx, `
SELECT date_check
FROM user_access_check
WHERE user_id = $1 AND provider_id = $2`, userID, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ScheduleCheck: insert-if-absent vía ON CONFLICT DO NOTHING. El SELECT
// contra app_user hace que un usuario inexistente no agende nada.
func (s *Store) ScheduleCheck(ctx context.Context, providerID string, userID int64, when time.Time) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO user_access_check (user_id, provider_id, date_check)
SELECT id, $2, $3
FROM app_user
WHERE id = $1
ON CONFLICT DO NOTHING`, userID, providerID, when)
	return err
}

// ScheduleForProvider: una marca por cada usuario que hoy tenga algún
// código del provider. Los pares se derivan de user_access agrupando.
func (s *Store) ScheduleForProvider(ctx context.Context, providerID string, when time.Time) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO user_access_check (user_id, provider_id, date_check)
SELECT user_id, provider_id, $2
FROM user_access
WHERE provider_id = $1 AND user_id > 0
GROUP BY user_id, provider_id
ON CONFLICT DO NOTHING`, providerID, when)
	return err
}

// ClearProcessed: borra solo las marcas ya vencidas; una agendada a
// futuro sobrevive la recalculación.
func (s *Store) ClearProcessed(ctx context.Context, providerID string, userID int64, upto time.Time) error {
	_, err := s.pool.Exec(ctx, `
DELETE FROM user_access_check
WHERE user_id = $1 AND provider_id = $2 AND date_check <= $3`,
		userID, providerID, upto)
	return err
}

// DeleteChecksForUser borra todas las marcas del usuario.
func (s *Store) DeleteChecksForUser(ctx context.Context, userID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM user_access_check WHERE user_id = $1`, userID)
	return err
}

var _ core.CheckRepository = (*Store)(nil)
