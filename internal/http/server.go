// Package http arma el router del servicio.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/accessd/internal/observability/logger"
)

// Registrar cuelga rutas en el router (lo implementan los controllers).
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter arma el router con middlewares base, health, metrics y los
// controllers dados.
func NewRouter(controllers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	for _, c := range controllers {
		c.Register(r)
	}
	return r
}

// requestLogger inyecta un logger scoped por request y loguea el cierre.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := middleware.GetReqID(r.Context())
		l := logger.L().With(
			logger.RequestID(reqID),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
		)
		ctx := logger.ToContext(r.Context(), l)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		l.Debug("request done",
			logger.Status(ww.Status()),
			logger.Duration(time.Since(start)),
		)
	})
}
