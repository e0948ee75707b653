// Package reservation expone el servicio de reservas por HTTP.
package reservation

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	httpx "github.com/dropDatabas3/accessd/internal/http"
	"github.com/dropDatabas3/accessd/internal/observability/logger"
	"github.com/dropDatabas3/accessd/internal/reservation"
	"github.com/dropDatabas3/accessd/internal/store/core"
)

// Controller maneja las rutas /v1/reservations.
type Controller struct {
	service *reservation.Service
}

func NewController(service *reservation.Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) Register(r chi.Router) {
	r.Route("/v1/reservations", func(r chi.Router) {
		r.Post("/", c.Add)
		r.Put("/{id}", c.Update)
		r.Delete("/{id}", c.Delete)
		r.Get("/availability/order/{orderID}", c.AvailableForOrder)
	})
}

type reservationRequest struct {
	BasketID       int64     `json:"basket_id"`
	StoreID        int64     `json:"store_id"`
	Quantity       float64   `json:"quantity"`
	DateReserve    time.Time `json:"date_reserve"`
	DateReserveEnd time.Time `json:"date_reserve_end"`
}

func (req *reservationRequest) toCore() *core.Reservation {
	return &core.Reservation{
		BasketID:       req.BasketID,
		StoreID:        req.StoreID,
		Quantity:       req.Quantity,
		DateReserve:    req.DateReserve,
		DateReserveEnd: req.DateReserveEnd,
	}
}

func resultPayload(res *reservation.Result) map[string]any {
	out := map[string]any{
		"id":      res.ID(),
		"success": res.IsSuccess(),
	}
	if errs := res.Errors(); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		out["errors"] = msgs
	}
	return out
}

// Add maneja POST /v1/reservations
func (c *Controller) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("reservation.Add"))

	var req reservationRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}

	res := c.service.Add(ctx, req.toCore())
	if res.Aborted() {
		log.Error("add reservation failed", logger.Err(res.Err()))
		httpx.WriteError(w, http.StatusInternalServerError, "storage_error", res.Err().Error())
		return
	}
	// la fila quedó insertada; errores del historial viajan en el payload
	httpx.WriteJSON(w, http.StatusCreated, resultPayload(res))
}

// Update maneja PUT /v1/reservations/{id}
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("reservation.Update"))

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_id", "id inválido")
		return
	}
	var req reservationRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}

	res := c.service.Update(ctx, id, req.toCore())
	if res.Aborted() {
		if errors.Is(res.Err(), core.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "reserva inexistente")
			return
		}
		log.Error("update reservation failed", logger.ReservationID(id), logger.Err(res.Err()))
		httpx.WriteError(w, http.StatusInternalServerError, "storage_error", res.Err().Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resultPayload(res))
}

// Delete maneja DELETE /v1/reservations/{id}
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("reservation.Delete"))

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_id", "id inválido")
		return
	}

	res := c.service.Delete(ctx, id)
	if res.Aborted() {
		if errors.Is(res.Err(), core.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "reserva inexistente")
			return
		}
		log.Error("delete reservation failed", logger.ReservationID(id), logger.Err(res.Err()))
		httpx.WriteError(w, http.StatusInternalServerError, "storage_error", res.Err().Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resultPayload(res))
}

// AvailableForOrder maneja GET /v1/reservations/availability/order/{orderID}
func (c *Controller) AvailableForOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("reservation.AvailableForOrder"))

	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil || orderID <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_id", "order_id inválido")
		return
	}

	counts, err := c.service.AvailableCountForOrder(ctx, orderID)
	if err != nil {
		log.Error("availability failed", logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "storage_error", "no se pudo calcular la disponibilidad")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"available": counts})
}
