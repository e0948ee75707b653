package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile err: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(writeConfig(t, "app:\n  app_env: dev\n"))
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if c.Server.Addr != ":8080" {
		t.Fatalf("Addr = %q", c.Server.Addr)
	}
	if c.Storage.Driver != "pg" {
		t.Fatalf("Driver = %q", c.Storage.Driver)
	}
	if c.Cache.Kind != "memory" || c.Lock.Kind != "memory" {
		t.Fatalf("Kind = %q / %q", c.Cache.Kind, c.Lock.Kind)
	}
	if c.Log.Level != "info" {
		t.Fatalf("Level = %q", c.Log.Level)
	}
	if c.LockTTL() != 30*time.Second {
		t.Fatalf("LockTTL = %v", c.LockTTL())
	}
	if c.CacheDefaultTTL() != 2*time.Minute {
		t.Fatalf("CacheDefaultTTL = %v", c.CacheDefaultTTL())
	}
}

func TestLoad_InvalidDurationRejected(t *testing.T) {
	_, err := Load(writeConfig(t, "lock:\n  ttl: \"treinta\"\n"))
	if err == nil {
		t.Fatal("duración inválida debe fallar en Load")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")

	c, err := Load(writeConfig(t, "server:\n  addr: \":8080\"\ncache:\n  enabled: false\n"))
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if c.Server.Addr != ":9999" {
		t.Fatalf("Addr = %q, el entorno pisa al yaml", c.Server.Addr)
	}
	if c.Storage.Driver != "memory" {
		t.Fatalf("Driver = %q", c.Storage.Driver)
	}
	if !c.Cache.Enabled {
		t.Fatal("CACHE_ENABLED=true debe pisar al yaml")
	}
	if c.Cache.Redis.DB != 3 {
		t.Fatalf("Redis.DB = %d", c.Cache.Redis.DB)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "no-existe.yaml")); err == nil {
		t.Fatal("archivo inexistente debe fallar")
	}
}
