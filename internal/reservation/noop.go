package reservation

import "context"

// noopHistory es un HistoryService vacío para despliegues sin módulo de
// historial: nunca agrega errores y reporta disponibilidad cero.
type noopHistory struct{}

// NewNoopHistory crea el HistoryService nulo.
func NewNoopHistory() HistoryService { return noopHistory{} }

func (noopHistory) AddByReservation(context.Context, int64) *Result    { return &Result{} }
func (noopHistory) UpdateByReservation(context.Context, int64) *Result { return &Result{} }
func (noopHistory) DeleteByReservation(context.Context, int64) *Result { return &Result{} }

func (noopHistory) AvailableCountForOrder(context.Context, int64) (map[int64]float64, error) {
	return map[int64]float64{}, nil
}

func (noopHistory) AvailableCountForBasketItem(context.Context, int64, int64) (float64, error) {
	return 0, nil
}

func (noopHistory) AvailableCountForBasketItems(context.Context, []int64) (map[int64]float64, error) {
	return map[int64]float64{}, nil
}
