package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemory_SetGetDelete(t *testing.T) {
	c := NewMemory("test")
	ctx := context.Background()

	if err := c.Set(ctx, "dir", "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set err: %v", err)
	}
	got, err := c.Get(ctx, "dir", "k")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("got = %q", got)
	}

	if err := c.Delete(ctx, "dir", "k"); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if _, err := c.Get(ctx, "dir", "k"); !IsNotFound(err) {
		t.Fatalf("tras Delete quería ErrNotFound, err: %v", err)
	}
}

func TestMemory_MissIsNotFound(t *testing.T) {
	c := NewMemory("test")
	if _, err := c.Get(context.Background(), "dir", "nope"); !IsNotFound(err) {
		t.Fatalf("quería ErrNotFound, err: %v", err)
	}
}

func TestMemory_TTLExpiry(t *testing.T) {
	c := NewMemory("test")
	ctx := context.Background()

	if err := c.Set(ctx, "dir", "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set err: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := c.Get(ctx, "dir", "k"); !IsNotFound(err) {
		t.Fatalf("entrada vencida debe faltar, err: %v", err)
	}
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	c := NewMemory("test")
	ctx := context.Background()

	if err := c.Set(ctx, "dir", "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set err: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := c.Get(ctx, "dir", "k"); err != nil {
		t.Fatalf("ttl=0 no expira, err: %v", err)
	}
}

func TestMemory_DeleteDir(t *testing.T) {
	c := NewMemory("test")
	ctx := context.Background()

	_ = c.Set(ctx, "a", "k1", []byte("1"), 0)
	_ = c.Set(ctx, "a", "k2", []byte("2"), 0)
	_ = c.Set(ctx, "b", "k1", []byte("3"), 0)

	if err := c.DeleteDir(ctx, "a"); err != nil {
		t.Fatalf("DeleteDir err: %v", err)
	}
	if _, err := c.Get(ctx, "a", "k1"); !IsNotFound(err) {
		t.Fatal("a/k1 debía borrarse")
	}
	if _, err := c.Get(ctx, "a", "k2"); !IsNotFound(err) {
		t.Fatal("a/k2 debía borrarse")
	}
	if _, err := c.Get(ctx, "b", "k1"); err != nil {
		t.Fatalf("b/k1 debe sobrevivir, err: %v", err)
	}
}

func TestMemory_DirsAreIsolated(t *testing.T) {
	c := NewMemory("test")
	ctx := context.Background()

	_ = c.Set(ctx, "a", "k", []byte("1"), 0)
	if _, err := c.Get(ctx, "b", "k"); !IsNotFound(err) {
		t.Fatal("la misma key en otro dir es otra entrada")
	}
}
