package pg

import (
	"context"

	"github.com/dropDatabas3/accessd/internal/store/core"
)

// GetUserGroups: IDs de grupo del usuario, ordenados.
func (s *Store) GetUserGroups(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `
SELECT group_id
FROM app_user_group
WHERE user_id = $1
ORDER BY group_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) GetGroupNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	rows, err := s.pool.Query(ctx, `
SELECT id, name
FROM app_group
WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

func (s *Store) GetUserNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	rows, err := s.pool.Query(ctx, `
SELECT id, name
FROM app_user
WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

var _ core.DirectoryRepository = (*Store)(nil)
