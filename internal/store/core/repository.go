package core

import (
	"context"
	"time"
)

// AccessRepository define las operaciones sobre la tabla user_access.
type AccessRepository interface {
	// AddCode inserta la tripleta tal cual (sin de-dup).
	AddCode(ctx context.Context, userID int64, providerID, code string) error

	// RemoveCode borra las filas que coinciden exactamente con la tripleta.
	RemoveCode(ctx context.Context, userID int64, providerID, code string) error

	// DeleteCodes borra todos los códigos del usuario para un provider.
	DeleteCodes(ctx context.Context, providerID string, userID int64) error

	// GetCodes lista los códigos del usuario aplicando el filtro.
	GetCodes(ctx context.Context, userID int64, filter CodeFilter) ([]AccessCode, error)

	// DeleteAllForUser borra todas las filas de códigos del usuario.
	DeleteAllForUser(ctx context.Context, userID int64) error

	// UserExists indica si el usuario existe en la tabla de usuarios.
	UserExists(ctx context.Context, userID int64) (bool, error)
}

// CheckRepository define las operaciones sobre user_access_check.
type CheckRepository interface {
	// GetChecks lista las marcas pendientes para (provider, usuario).
	GetChecks(ctx context.Context, providerID string, userID int64) ([]time.Time, error)

	// ScheduleCheck inserta una marca para el usuario si no existe ya la
	// tripleta exacta (insert-if-absent). Un usuario inexistente no
	// agenda nada.
	ScheduleCheck(ctx context.Context, providerID string, userID int64, when time.Time) error

	// ScheduleForProvider agenda una marca para cada usuario que hoy
	// tenga algún código del provider (insert-if-absent por par).
	ScheduleForProvider(ctx context.Context, providerID string, when time.Time) error

	// ClearProcessed borra las marcas con date_check <= upto.
	ClearProcessed(ctx context.Context, providerID string, userID int64, upto time.Time) error

	// DeleteChecksForUser borra todas las marcas del usuario.
	DeleteChecksForUser(ctx context.Context, userID int64) error
}

// DirectoryRepository resuelve membresías de grupos y nombres de
// usuarios/grupos. Lo consumen los providers built-in.
type DirectoryRepository interface {
	// GetUserGroups lista los IDs de grupo a los que pertenece el usuario.
	GetUserGroups(ctx context.Context, userID int64) ([]int64, error)

	// GetGroupNames resuelve nombres de grupos por ID.
	GetGroupNames(ctx context.Context, ids []int64) (map[int64]string, error)

	// GetUserNames resuelve nombres visibles de usuarios por ID.
	GetUserNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

// OptionRepository guarda opciones por usuario (listas "recientes", etc.).
// Los valores se serializan como JSON.
type OptionRepository interface {
	GetOption(ctx context.Context, userID int64, category, name string) ([]byte, error)
	SetOption(ctx context.Context, userID int64, category, name string, value []byte) error
}

// ReservationRepository define el CRUD de reservas de carrito.
type ReservationRepository interface {
	AddReservation(ctx context.Context, r *Reservation) (int64, error)
	UpdateReservation(ctx context.Context, id int64, r *Reservation) error
	DeleteReservation(ctx context.Context, id int64) error
	GetReservationByID(ctx context.Context, id int64) (*Reservation, error)
}

// AnalyticsRepository define el log de eventos de analítica con sus
// operaciones de retención.
type AnalyticsRepository interface {
	AddEvent(ctx context.Context, e *AnalyticsEvent) error
	DeleteByDate(ctx context.Context, upto time.Time) (int64, error)
	DeleteByCodeAndDate(ctx context.Context, code string, upto time.Time) (int64, error)
}
