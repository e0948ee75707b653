package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/accessd/internal/store/core"
)

func TestAddCode_DuplicatesAllowed(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.AddCode(ctx, 1, "group", "G5")
	_ = s.AddCode(ctx, 1, "group", "G5")

	codes, err := s.GetCodes(ctx, 1, core.CodeFilter{})
	if err != nil {
		t.Fatalf("GetCodes err: %v", err)
	}
	if len(codes) != 2 {
		t.Fatalf("len = %d, la tabla de códigos admite duplicados", len(codes))
	}
}

func TestRemoveCode_RemovesAllMatches(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.AddCode(ctx, 1, "group", "G5")
	_ = s.AddCode(ctx, 1, "group", "G5")
	_ = s.AddCode(ctx, 1, "group", "G6")

	if err := s.RemoveCode(ctx, 1, "group", "G5"); err != nil {
		t.Fatalf("RemoveCode err: %v", err)
	}
	codes, _ := s.GetCodes(ctx, 1, core.CodeFilter{})
	if len(codes) != 1 || codes[0].Code != "G6" {
		t.Fatalf("codes = %v, RemoveCode borra todas las filas de la tripleta", codes)
	}
}

func TestGetCodes_Filter(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.AddCode(ctx, 1, "group", "G5")
	_ = s.AddCode(ctx, 1, "user", "U1")
	_ = s.AddCode(ctx, 1, "user", "AU")
	_ = s.AddCode(ctx, 2, "user", "U2")

	byProvider, _ := s.GetCodes(ctx, 1, core.CodeFilter{ProviderID: "user"})
	if len(byProvider) != 2 {
		t.Fatalf("filtro por provider: %v", byProvider)
	}

	byCode, _ := s.GetCodes(ctx, 1, core.CodeFilter{Codes: []string{"AU", "G5"}})
	if len(byCode) != 2 {
		t.Fatalf("filtro por códigos: %v", byCode)
	}

	both, _ := s.GetCodes(ctx, 1, core.CodeFilter{ProviderID: "user", Codes: []string{"AU"}})
	if len(both) != 1 || both[0].Code != "AU" {
		t.Fatalf("filtro combinado: %v", both)
	}
}

func TestDeleteCodes_OnlyProviderPair(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.AddCode(ctx, 1, "group", "G5")
	_ = s.AddCode(ctx, 1, "user", "U1")
	_ = s.AddCode(ctx, 2, "group", "G5")

	if err := s.DeleteCodes(ctx, "group", 1); err != nil {
		t.Fatalf("DeleteCodes err: %v", err)
	}

	u1, _ := s.GetCodes(ctx, 1, core.CodeFilter{})
	if len(u1) != 1 || u1[0].ProviderID != "user" {
		t.Fatalf("solo el par (provider, usuario) se vacía: %v", u1)
	}
	u2, _ := s.GetCodes(ctx, 2, core.CodeFilter{})
	if len(u2) != 1 {
		t.Fatalf("otros usuarios no se tocan: %v", u2)
	}
}

func TestScheduleCheck_InsertIfAbsent(t *testing.T) {
	s := New()
	s.AddUser(1, "ana")
	ctx := context.Background()
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_ = s.ScheduleCheck(ctx, "group", 1, when)
	_ = s.ScheduleCheck(ctx, "group", 1, when)
	_ = s.ScheduleCheck(ctx, "group", 1, when.Add(time.Hour))

	checks, _ := s.GetChecks(ctx, "group", 1)
	if len(checks) != 2 {
		t.Fatalf("checks = %v, la misma fecha no se duplica pero otra sí entra", checks)
	}
}

func TestScheduleCheck_UnknownUserIgnored(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.ScheduleCheck(ctx, "group", 42, time.Now()); err != nil {
		t.Fatalf("ScheduleCheck err: %v", err)
	}
	checks, _ := s.GetChecks(ctx, "group", 42)
	if len(checks) != 0 {
		t.Fatal("sin fila de usuario no hay marca")
	}
}

func TestScheduleForProvider_DistinctHolders(t *testing.T) {
	s := New()
	ctx := context.Background()
	when := time.Now()

	_ = s.AddCode(ctx, 1, "group", "G5")
	_ = s.AddCode(ctx, 1, "group", "G6")
	_ = s.AddCode(ctx, 2, "group", "G5")
	_ = s.AddCode(ctx, 3, "user", "U3")
	_ = s.AddCode(ctx, -7, "group", "G5") // ids no positivos se excluyen

	if err := s.ScheduleForProvider(ctx, "group", when); err != nil {
		t.Fatalf("ScheduleForProvider err: %v", err)
	}

	for _, tc := range []struct {
		userID int64
		want   int
	}{{1, 1}, {2, 1}, {3, 0}, {-7, 0}} {
		checks, _ := s.GetChecks(ctx, "group", tc.userID)
		if len(checks) != tc.want {
			t.Fatalf("user %d: checks = %v, quería %d", tc.userID, checks, tc.want)
		}
	}
}

func TestClearProcessed_Boundary(t *testing.T) {
	s := New()
	s.AddUser(1, "ana")
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_ = s.ScheduleCheck(ctx, "group", 1, now.Add(-time.Hour))
	_ = s.ScheduleCheck(ctx, "group", 1, now) // upto inclusivo
	_ = s.ScheduleCheck(ctx, "group", 1, now.Add(time.Hour))

	if err := s.ClearProcessed(ctx, "group", 1, now); err != nil {
		t.Fatalf("ClearProcessed err: %v", err)
	}
	checks, _ := s.GetChecks(ctx, "group", 1)
	if len(checks) != 1 || !checks[0].After(now) {
		t.Fatalf("checks = %v, solo la futura sobrevive", checks)
	}
}

func TestOptions_RoundTripAndMiss(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.GetOption(ctx, 1, "cat", "name"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("miss debe ser ErrNotFound, err: %v", err)
	}

	_ = s.SetOption(ctx, 1, "cat", "name", []byte(`["a"]`))
	_ = s.SetOption(ctx, 1, "cat", "name", []byte(`["b"]`)) // upsert

	v, err := s.GetOption(ctx, 1, "cat", "name")
	if err != nil {
		t.Fatalf("GetOption err: %v", err)
	}
	if string(v) != `["b"]` {
		t.Fatalf("v = %s", v)
	}
}

func TestReservations_CRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.AddReservation(ctx, &core.Reservation{BasketID: 10, StoreID: 3, Quantity: 2})
	if err != nil || id == 0 {
		t.Fatalf("id=%d err=%v", id, err)
	}

	r, err := s.GetReservationByID(ctx, id)
	if err != nil || r.BasketID != 10 {
		t.Fatalf("r=%+v err=%v", r, err)
	}

	if err := s.UpdateReservation(ctx, id, &core.Reservation{BasketID: 10, StoreID: 3, Quantity: 5}); err != nil {
		t.Fatalf("UpdateReservation err: %v", err)
	}
	r, _ = s.GetReservationByID(ctx, id)
	if r.Quantity != 5 {
		t.Fatalf("Quantity = %v", r.Quantity)
	}

	if err := s.DeleteReservation(ctx, id); err != nil {
		t.Fatalf("DeleteReservation err: %v", err)
	}
	if _, err := s.GetReservationByID(ctx, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("tras borrar quería ErrNotFound, err: %v", err)
	}
	if err := s.UpdateReservation(ctx, id, &core.Reservation{}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update de fila inexistente quería ErrNotFound, err: %v", err)
	}
}

func TestAnalytics_RetentionDeletes(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, code := range []string{"login", "login", "purchase"} {
		_ = s.AddEvent(ctx, &core.AnalyticsEvent{Code: code, CreatedAt: base.AddDate(0, 0, i)})
	}

	n, err := s.DeleteByCodeAndDate(ctx, "login", base)
	if err != nil {
		t.Fatalf("DeleteByCodeAndDate err: %v", err)
	}
	if n != 1 {
		t.Fatalf("n = %d, solo el login del día 0 entra en el corte", n)
	}

	n, err = s.DeleteByDate(ctx, base.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("DeleteByDate err: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, quedaban dos eventos dentro del corte", n)
	}
}
