package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/dropDatabas3/accessd/internal/store/memory"
)

func TestAdd_SerializesPayload(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	ctx := context.Background()

	if err := svc.Add(ctx, "login", map[string]any{"user_id": 7}); err != nil {
		t.Fatalf("Add err: %v", err)
	}

	// un payload no serializable debe rechazarse antes de tocar storage
	if err := svc.Add(ctx, "bad", make(chan int)); err == nil {
		t.Fatal("payload no serializable debe fallar")
	}
}

func TestRetention_ByDateAndCode(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	ctx := context.Background()

	for _, code := range []string{"login", "login", "purchase"} {
		if err := svc.Add(ctx, code, nil); err != nil {
			t.Fatalf("Add err: %v", err)
		}
	}

	n, err := svc.DeleteByCodeAndDate(ctx, "login", time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("DeleteByCodeAndDate err: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, quería los dos login", n)
	}

	n, err = svc.DeleteByDate(ctx, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("DeleteByDate err: %v", err)
	}
	if n != 1 {
		t.Fatalf("n = %d, quedaba solo purchase", n)
	}
}
