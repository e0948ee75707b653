package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/accessd/internal/store/core"
	"github.com/dropDatabas3/accessd/internal/store/memory"
)

// stubHistory devuelve errores fijos en cada fan-out.
type stubHistory struct {
	noopHistory
	errs []error
}

func (h *stubHistory) result() *Result {
	r := &Result{}
	for _, err := range h.errs {
		r.AddError(err)
	}
	return r
}

func (h *stubHistory) AddByReservation(context.Context, int64) *Result    { return h.result() }
func (h *stubHistory) UpdateByReservation(context.Context, int64) *Result { return h.result() }
func (h *stubHistory) DeleteByReservation(context.Context, int64) *Result { return h.result() }

func testReservation() *core.Reservation {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	return &core.Reservation{
		BasketID:       10,
		StoreID:        3,
		Quantity:       2,
		DateReserve:    now,
		DateReserveEnd: now.AddDate(0, 0, 7),
	}
}

func TestAdd_Success(t *testing.T) {
	st := memory.New()
	svc := NewService(st, NewNoopHistory())

	res := svc.Add(context.Background(), testReservation())
	if !res.IsSuccess() {
		t.Fatalf("Add falló: %v", res.Err())
	}
	if res.ID() == 0 {
		t.Fatal("el alta debe retornar el ID generado")
	}

	row, err := st.GetReservationByID(context.Background(), res.ID())
	if err != nil || row.BasketID != 10 {
		t.Fatalf("row=%+v err=%v", row, err)
	}
}

func TestAdd_HistoryErrorsFlipSuccessButKeepRow(t *testing.T) {
	st := memory.New()
	hist := &stubHistory{errs: []error{errors.New("history down"), errors.New("retry later")}}
	svc := NewService(st, hist)

	res := svc.Add(context.Background(), testReservation())
	if res.IsSuccess() {
		t.Fatal("cualquier error agregado, historial incluido, voltea IsSuccess")
	}
	if res.Aborted() {
		t.Fatal("el alta en sí anduvo: no es una operación abortada")
	}
	if len(res.Errors()) != 2 {
		t.Fatalf("errors = %v, deben agregarse todos", res.Errors())
	}
	if res.Err() == nil {
		t.Fatal("Err() debe colapsar los errores agregados")
	}

	// la fila quedó insertada a pesar del historial (sin rollback)
	if res.ID() == 0 {
		t.Fatal("el ID generado se reporta aunque el historial haya fallado")
	}
	if _, err := st.GetReservationByID(context.Background(), res.ID()); err != nil {
		t.Fatalf("la reserva debe persistir: %v", err)
	}
}

func TestUpdate_NotFoundFails(t *testing.T) {
	st := memory.New()
	svc := NewService(st, NewNoopHistory())

	res := svc.Update(context.Background(), 999, testReservation())
	if res.IsSuccess() || !res.Aborted() {
		t.Fatal("update de una reserva inexistente debe abortar")
	}
	if !errors.Is(res.Err(), core.ErrNotFound) {
		t.Fatalf("err = %v, quería ErrNotFound", res.Err())
	}
}

func TestDelete_PropagatesToHistory(t *testing.T) {
	st := memory.New()
	hist := &stubHistory{errs: []error{errors.New("fanout")}}
	svc := NewService(st, hist)
	ctx := context.Background()

	added := svc.Add(ctx, testReservation())
	res := svc.Delete(ctx, added.ID())
	if res.Aborted() {
		t.Fatalf("Delete abortó: %v", res.Err())
	}
	if res.IsSuccess() || len(res.Errors()) == 0 {
		t.Fatal("los errores del fan-out de borrado se agregan y voltean el éxito")
	}
	if _, err := st.GetReservationByID(ctx, added.ID()); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("la fila debe estar borrada, err: %v", err)
	}
}

func TestNoopHistory_ZeroAvailability(t *testing.T) {
	svc := NewService(memory.New(), NewNoopHistory())
	ctx := context.Background()

	byOrder, err := svc.AvailableCountForOrder(ctx, 1)
	if err != nil || len(byOrder) != 0 {
		t.Fatalf("byOrder=%v err=%v", byOrder, err)
	}
	n, err := svc.AvailableCountForBasketItem(ctx, 1, 1)
	if err != nil || n != 0 {
		t.Fatalf("n=%v err=%v", n, err)
	}
}
