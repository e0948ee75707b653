package pg

import (
	"context"

	"github.com/dropDatabas3/accessd/internal/store/core"
)

// ---------- LECTURAS ----------

// GetCodes: lista los códigos del usuario aplicando el filtro opcional.
func (s *Store) GetCodes(ctx context.Context, userID int64, filter core.CodeFilter) ([]core.AccessCode, error) {
	q := `
SELECT user_id, provider_id, access_code
FROM user_access
WHERE user_id = $1`
	args := []any{userID}

	if filter.ProviderID != "" {
		args = append(args, filter.ProviderID)
		q += ` AND provider_id = $2`
	}
	if len(filter.Codes) > 0 {
		args = append(args, filter.Codes)
		if filter.ProviderID != "" {
			q += ` AND access_code = ANY($3)`
		} else {
			q += ` AND access_code = ANY($2)`
		}
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.AccessCode
	for rows.Next() {
		var c core.AccessCode
		if err := rows.Scan(&c.UserID, &c.ProviderID, &c.Code); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UserExists: consulta la tabla de usuarios (no la de códigos).
func (s *Store) UserExists(ctx context.Context, userID int64) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM app_user WHERE id = $1)`, userID).Scan(&ok)
	return ok, err
}

// ---------- ESCRITURAS ----------

// AddCode inserta la tripleta tal cual. No hay índice único sobre
// user_access: filas duplicadas quedan, igual que en el origen.
func (s *Store) AddCode(ctx context.Context, userID int64, providerID, code string) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO user_access (user_id, provider_id, access_code)
VALUES ($1, $2, $3)`, userID, providerID, code)
	return err
}

func (s *Store) RemoveCode(ctx context.Context, userID int64, providerID, code string) error {
	_, err := s.pool.Exec(ctx, `
DELETE FROM user_access
WHERE user_id = $1 AND provider_id = $2 AND access_code = $3`,
		userID, providerID, code)
	return err
}

func (s *Store) DeleteCodes(ctx context.Context, providerID string, userID int64) error {
	_, err := s.pool.Exec(ctx, `
DELETE FROM user_access
WHERE user_id = $1 AND provider_id = $2`, userID, providerID)
	return err
}

func (s *Store) DeleteAllForUser(ctx context.Context, userID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM user_access WHERE user_id = $1`, userID)
	return err
}

// Compile-time check: confirma que *Store satisface la interfaz.
var _ core.AccessRepository = (*Store)(nil)
