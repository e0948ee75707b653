package reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	httpx "github.com/dropDatabas3/accessd/internal/http"
	"github.com/dropDatabas3/accessd/internal/reservation"
	"github.com/dropDatabas3/accessd/internal/store/memory"
)

// flakyHistory falla el fan-out con un error fijo.
type flakyHistory struct {
	reservation.HistoryService
	err error
}

func (h *flakyHistory) result() *reservation.Result {
	r := &reservation.Result{}
	r.AddError(h.err)
	return r
}

func (h *flakyHistory) AddByReservation(context.Context, int64) *reservation.Result {
	return h.result()
}
func (h *flakyHistory) UpdateByReservation(context.Context, int64) *reservation.Result {
	return h.result()
}
func (h *flakyHistory) DeleteByReservation(context.Context, int64) *reservation.Result {
	return h.result()
}

func newRouter(hist reservation.HistoryService) (http.Handler, *memory.Store) {
	st := memory.New()
	svc := reservation.NewService(st, hist)
	return httpx.NewRouter(NewController(svc)), st
}

func postReservation(t *testing.T, h http.Handler) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"basket_id":        10,
		"store_id":         3,
		"quantity":         2,
		"date_reserve":     time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
		"date_reserve_end": time.Date(2026, 4, 8, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/reservations/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdd_OK(t *testing.T) {
	h, _ := newRouter(reservation.NewNoopHistory())

	rec := postReservation(t, h)
	require.Equal(t, http.StatusCreated, rec.Code)

	var out struct {
		ID      int64 `json:"id"`
		Success bool  `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, out.Success)
	require.NotZero(t, out.ID)
}

func TestAdd_HistoryFailureIsNot500(t *testing.T) {
	h, st := newRouter(&flakyHistory{err: errors.New("history down")})

	// la fila se persiste; el fallo del historial viaja en el payload
	rec := postReservation(t, h)
	require.Equal(t, http.StatusCreated, rec.Code)

	var out struct {
		ID      int64    `json:"id"`
		Success bool     `json:"success"`
		Errors  []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.False(t, out.Success)
	require.NotZero(t, out.ID)
	require.Contains(t, out.Errors, "history down")

	_, err := st.GetReservationByID(context.Background(), out.ID)
	require.NoError(t, err)
}

func TestUpdate_NotFound(t *testing.T) {
	h, _ := newRouter(reservation.NewNoopHistory())

	body := []byte(`{"basket_id":10,"store_id":3,"quantity":1,"date_reserve":"2026-04-01T10:00:00Z","date_reserve_end":"2026-04-08T10:00:00Z"}`)
	req := httptest.NewRequest(http.MethodPut, "/v1/reservations/999", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDelete_OK(t *testing.T) {
	h, st := newRouter(reservation.NewNoopHistory())

	rec := postReservation(t, h)
	require.Equal(t, http.StatusCreated, rec.Code)
	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	req := httptest.NewRequest(http.MethodDelete, "/v1/reservations/"+strconv.FormatInt(out.ID, 10), nil)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusOK, rec2.Code)

	_, err := st.GetReservationByID(context.Background(), out.ID)
	require.Error(t, err)
}
