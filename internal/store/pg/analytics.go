package pg

import (
	"context"
	"time"

	"github.com/dropDatabas3/accessd/internal/store/core"
)

func (s *Store) AddEvent(ctx context.Context, e *core.AnalyticsEvent) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return s.pool.QueryRow(ctx, `
INSERT INTO analytics (code, created_at, payload)
VALUES ($1, $2, $3)
RETURNING id`, e.Code, createdAt, e.Payload).Scan(&e.ID)
}

// DeleteByDate: retención global, borra todo lo anterior o igual al corte.
func (s *Store) DeleteByDate(ctx context.Context, upto time.Time) (int64, error) {
	ct, err := s.pool.Exec(ctx, `DELETE FROM analytics WHERE created_at <= $1`, upto)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// DeleteByCodeAndDate: retención por código de evento.
func (s *Store) DeleteByCodeAndDate(ctx context.Context, code string, upto time.Time) (int64, error) {
	ct, err := s.pool.Exec(ctx, `DELETE FROM analytics WHERE code = $1 AND created_at <= $2`, code, upto)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

var _ core.AnalyticsRepository = (*Store)(nil)
