package access

import "context"

type userIDKey struct{}

// WithUserID inyecta el usuario autenticado en el contexto. Lo setea el
// middleware de sesión; las operaciones que aceptan userID=0 lo usan
// como fallback.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext extrae el usuario autenticado del contexto.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(userIDKey{}).(int64)
	return v, ok && v > 0
}
