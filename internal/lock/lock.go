// Package lock provee locks con nombre de semántica try-lock: la
// adquisición nunca bloquea, devuelve false si el lock ya está tomado.
// El que falla en adquirir NO reintenta; el ciclo natural de checks
// pendientes vuelve a intentar más adelante.
package lock

import (
	"context"
	"time"
)

// Manager define el contrato de locks con nombre.
type Manager interface {
	// TryLock intenta tomar el lock. Retorna false (sin error) si ya
	// está tomado por otro.
	TryLock(ctx context.Context, name string) (bool, error)

	// Unlock libera el lock si este proceso lo tiene.
	Unlock(ctx context.Context, name string) error

	// Close libera recursos del manager.
	Close() error
}

// Config configuración para crear un Manager.
type Config struct {
	Kind     string // "memory" | "redis"
	Addr     string
	Password string
	DB       int
	TTL      time.Duration // expiración de seguridad (solo redis)
}

// New crea un Manager según la configuración.
func New(cfg Config) (Manager, error) {
	switch cfg.Kind {
	case "redis":
		return NewRedis(cfg)
	default:
		return NewMemory(), nil
	}
}
