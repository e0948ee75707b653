package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/accessd/internal/store/core"
)

func (s *Store) AddReservation(ctx context.Context, r *core.Reservation) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
INSERT INTO basket_reservation (basket_id, store_id, quantity, date_reserve, date_reserve_end)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`,
		r.BasketID, r.StoreID, r.Quantity, r.DateReserve, r.DateReserveEnd).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateReservation(ctx context.Context, id int64, r *core.Reservation) error {
	ct, err := s.pool.Exec(ctx, `
UPDATE basket_reservation
SET basket_id = $2, store_id = $3, quantity = $4, date_reserve = $5, date_reserve_end = $6
WHERE id = $1`,
		id, r.BasketID, r.StoreID, r.Quantity, r.DateReserve, r.DateReserveEnd)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteReservation(ctx context.Context, id int64) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM basket_reservation WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) GetReservationByID(ctx context.Context, id int64) (*core.Reservation, error) {
	var r core.Reservation
	err := s.pool.QueryRow(ctx, `
SELECT id, basket_id, store_id, quantity, date_reserve, date_reserve_end
FROM basket_reservation
WHERE id = $1`, id).
		Scan(&r.ID, &r.BasketID, &r.StoreID, &r.Quantity, &r.DateReserve, &r.DateReserveEnd)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

var _ core.ReservationRepository = (*Store)(nil)
