package core

import (
	"encoding/json"
	"time"
)

// AccessCode es una fila de user_access: un código de acceso otorgado
// a un usuario por un provider. No hay unicidad: los providers pueden
// insertar códigos solapados y la tabla los conserva tal cual.
type AccessCode struct {
	UserID     int64
	ProviderID string
	Code       string
}

// CheckRecord es una fila de user_access_check: una marca de tiempo que
// indica cuándo deben recalcularse los códigos del usuario para un provider.
// Puede haber varias filas pendientes por (usuario, provider).
type CheckRecord struct {
	UserID     int64
	ProviderID string
	DateCheck  time.Time
}

// CodeFilter restringe una lectura de códigos.
// Codes vacío y ProviderID vacío = sin filtro.
type CodeFilter struct {
	Codes      []string
	ProviderID string
}

// Empty indica si el filtro no restringe nada (lectura cacheable).
func (f CodeFilter) Empty() bool {
	return f.ProviderID == "" && len(f.Codes) == 0
}

// Reservation es una reserva de una posición del carrito contra un depósito.
type Reservation struct {
	ID             int64
	BasketID       int64
	StoreID        int64
	Quantity       float64
	DateReserve    time.Time
	DateReserveEnd time.Time
}

// AnalyticsEvent es una fila de la tabla de analítica: un código de evento
// con payload JSON arbitrario.
type AnalyticsEvent struct {
	ID        int64
	Code      string
	CreatedAt time.Time
	Payload   json.RawMessage
}
