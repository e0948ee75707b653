package reservation

import "errors"

// Result agrega los errores de una operación de reserva: la fila en sí
// más el fan-out al servicio de historial. Cualquier error acumulado
// voltea el éxito, aunque la fila principal haya quedado persistida.
type Result struct {
	id   int64
	errs []error
	// aborted marca que la operación principal falló (no solo el historial).
	aborted bool
}

// ID retorna el ID de la fila afectada (0 si falló el alta).
func (r *Result) ID() int64 { return r.id }

// IsSuccess indica si la operación terminó sin ningún error. Errores
// del historial también la voltean; la fila principal puede haber
// quedado igual (ver Aborted).
func (r *Result) IsSuccess() bool { return len(r.errs) == 0 }

// Aborted indica si la operación principal falló: no hay fila que
// mostrar. Con Aborted=false y IsSuccess=false la fila quedó
// persistida pero el fan-out acumuló errores.
func (r *Result) Aborted() bool { return r.aborted }

// Errors retorna todos los errores recolectados.
func (r *Result) Errors() []error { return r.errs }

// Err colapsa los errores en uno (nil si no hubo).
func (r *Result) Err() error { return errors.Join(r.errs...) }

// AddError suma un error al resultado.
func (r *Result) AddError(err error) {
	if err != nil {
		r.errs = append(r.errs, err)
	}
}

func failedResult(err error) *Result {
	return &Result{aborted: true, errs: []error{err}}
}
