package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Métricas del motor de recálculo. Paquete aparte para evitar ciclos de
// import entre access y las capas HTTP.

var (
	Recalculations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "access_recalculations_total",
		Help: "Recalculaciones de códigos completadas, por provider",
	}, []string{"provider"})

	LockSkips = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "access_recalc_lock_skips_total",
		Help: "Providers salteados por contención de lock",
	}, []string{"provider"})

	CodeCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "access_code_cache_hits_total",
		Help: "Lecturas de códigos servidas desde cache",
	})

	CodeCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "access_code_cache_misses_total",
		Help: "Lecturas de códigos resueltas contra storage",
	})
)

// Register registra las métricas de acceso en el registry dado (o el default si es nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{Recalculations, LockSkips, CodeCacheHits, CodeCacheMisses} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
