// Package reservation implementa el servicio de reservas de carrito:
// un wrapper fino sobre el repositorio que propaga cada mutación al
// servicio de historial y agrega sus errores al resultado.
package reservation

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/accessd/internal/audit"
	"github.com/dropDatabas3/accessd/internal/observability/logger"
	"github.com/dropDatabas3/accessd/internal/store/core"
)

// HistoryService es el servicio de historial de reservas (caja negra:
// calcula disponibilidad a partir del historial).
type HistoryService interface {
	AddByReservation(ctx context.Context, reservationID int64) *Result
	UpdateByReservation(ctx context.Context, reservationID int64) *Result
	DeleteByReservation(ctx context.Context, reservationID int64) *Result

	AvailableCountForOrder(ctx context.Context, orderID int64) (map[int64]float64, error)
	AvailableCountForBasketItem(ctx context.Context, basketID, storeID int64) (float64, error)
	AvailableCountForBasketItems(ctx context.Context, basketIDs []int64) (map[int64]float64, error)
}

// Service compone repositorio + historial.
type Service struct {
	repo    core.ReservationRepository
	history HistoryService
	log     *zap.Logger
}

func NewService(repo core.ReservationRepository, history HistoryService) *Service {
	return &Service{
		repo:    repo,
		history: history,
		log:     logger.Named("reservation"),
	}
}

// Add inserta la reserva y propaga al historial. Si la fila recién
// insertada no se puede releer queda un evento de debug en el log de
// auditoría con los campos clave.
func (s *Service) Add(ctx context.Context, r *core.Reservation) *Result {
	id, err := s.repo.AddReservation(ctx, r)
	if err != nil {
		return failedResult(err)
	}

	result := &Result{id: id}

	if row, err := s.repo.GetReservationByID(ctx, id); err != nil || row == nil {
		payload, _ := json.Marshal(map[string]any{
			"store_id":         r.StoreID,
			"basket_id":        r.BasketID,
			"date_reserve":     r.DateReserve.Format(time.RFC3339),
			"date_reserve_end": r.DateReserveEnd.Format(time.RFC3339),
			"quantity":         r.Quantity,
		})
		audit.Log(ctx, audit.SeverityDebug, "SALE_RESERVATION_DEBUG", map[string]any{
			"reservation_id": id,
			"json":           string(payload),
		})
	}

	hr := s.history.AddByReservation(ctx, id)
	for _, err := range hr.Errors() {
		result.AddError(err)
	}
	return result
}

// Update modifica la reserva y propaga al historial.
func (s *Service) Update(ctx context.Context, id int64, r *core.Reservation) *Result {
	if err := s.repo.UpdateReservation(ctx, id, r); err != nil {
		return failedResult(err)
	}

	result := &Result{id: id}
	hr := s.history.UpdateByReservation(ctx, id)
	for _, err := range hr.Errors() {
		result.AddError(err)
	}
	return result
}

// Delete borra la reserva y propaga al historial.
func (s *Service) Delete(ctx context.Context, id int64) *Result {
	if err := s.repo.DeleteReservation(ctx, id); err != nil {
		return failedResult(err)
	}

	result := &Result{id: id}
	hr := s.history.DeleteByReservation(ctx, id)
	for _, err := range hr.Errors() {
		result.AddError(err)
	}
	return result
}

// AvailableCountForOrder delega en el historial.
func (s *Service) AvailableCountForOrder(ctx context.Context, orderID int64) (map[int64]float64, error) {
	return s.history.AvailableCountForOrder(ctx, orderID)
}

// AvailableCountForBasketItem delega en el historial.
func (s *Service) AvailableCountForBasketItem(ctx context.Context, basketID, storeID int64) (float64, error) {
	return s.history.AvailableCountForBasketItem(ctx, basketID, storeID)
}

// AvailableCountForBasketItems delega en el historial.
func (s *Service) AvailableCountForBasketItems(ctx context.Context, basketIDs []int64) (map[int64]float64, error) {
	return s.history.AvailableCountForBasketItems(ctx, basketIDs)
}
