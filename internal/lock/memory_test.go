package lock

import (
	"context"
	"testing"
)

func TestMemory_TryLock(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	got, err := m.TryLock(ctx, "access.group.1")
	if err != nil || !got {
		t.Fatalf("got=%v err=%v", got, err)
	}

	// segundo intento sobre el mismo nombre no bloquea: retorna false
	got, err = m.TryLock(ctx, "access.group.1")
	if err != nil {
		t.Fatalf("TryLock err: %v", err)
	}
	if got {
		t.Fatal("lock tomado no debe otorgarse de nuevo")
	}

	// otros nombres son independientes
	if got, _ := m.TryLock(ctx, "access.group.2"); !got {
		t.Fatal("nombres distintos no compiten")
	}
}

func TestMemory_UnlockReleases(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if got, _ := m.TryLock(ctx, "n"); !got {
		t.Fatal("primer TryLock debe otorgar")
	}
	if err := m.Unlock(ctx, "n"); err != nil {
		t.Fatalf("Unlock err: %v", err)
	}
	if got, _ := m.TryLock(ctx, "n"); !got {
		t.Fatal("tras Unlock el lock debe otorgarse")
	}
}

func TestMemory_UnlockUnheldIsNoop(t *testing.T) {
	m := NewMemory()
	if err := m.Unlock(context.Background(), "nunca"); err != nil {
		t.Fatalf("Unlock de un nombre libre no es error: %v", err)
	}
}
