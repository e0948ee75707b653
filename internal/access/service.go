package access

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/accessd/internal/cache"
	"github.com/dropDatabas3/accessd/internal/lock"
	"github.com/dropDatabas3/accessd/internal/metrics"
	"github.com/dropDatabas3/accessd/internal/observability/logger"
	"github.com/dropDatabas3/accessd/internal/store/core"
)

// Service es la fachada del motor de códigos: compone registry,
// CheckCache, repositorio de códigos, cache store y lock manager.
type Service struct {
	registry *Registry
	repo     core.AccessRepository
	options  core.OptionRepository
	checks   *CheckCache
	store    cache.Client
	locks    lock.Manager

	cacheEnabled bool
	cacheTTL     time.Duration

	// now es inyectable para tests.
	now func() time.Time

	log *zap.Logger
}

// Deps agrupa las dependencias del Service.
type Deps struct {
	Registry *Registry
	Access   core.AccessRepository
	Checks   *CheckCache
	Options  core.OptionRepository
	Store    cache.Client
	Locks    lock.Manager

	// CacheEnabled es el toggle global de caching.
	CacheEnabled bool
	// CacheTTL aplica a las entradas del cache store (0 = sin expiración).
	CacheTTL time.Duration
	// Now reemplaza el reloj (tests). Default: time.Now.
	Now func() time.Time
}

// NewService crea la fachada.
func NewService(d Deps) *Service {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		registry:     d.Registry,
		repo:         d.Access,
		options:      d.Options,
		checks:       d.Checks,
		store:        d.Store,
		locks:        d.Locks,
		cacheEnabled: d.CacheEnabled,
		cacheTTL:     d.CacheTTL,
		now:          now,
		log:          logger.Named("access"),
	}
}

func codesCacheID(userID int64) string {
	return fmt.Sprintf("access_codes%d", userID)
}

// lockName arma el nombre del lock exclusivo por (provider, usuario).
func lockName(providerID string, userID int64) string {
	return fmt.Sprintf("access.%s.%d", providerID, userID)
}

// ClearCodesCache limpia la entrada del set de códigos del usuario.
func (s *Service) ClearCodesCache(ctx context.Context, userID int64) {
	if err := s.store.Delete(ctx, CacheDir, codesCacheID(userID)); err != nil {
		s.log.Warn("codes cache clean failed", logger.UserID(userID), logger.Err(err))
	}
}

// UpdateCodes recorre los providers en orden de registro y recalcula
// los códigos del usuario para cada provider con recalculación vencida.
// userID=0 resuelve el usuario de la sesión ambiente del contexto.
//
// El recálculo corre bajo un lock exclusivo por (provider, usuario) con
// semántica try-lock: si otro proceso ya lo tiene, el provider se
// saltea en esta pasada sin error (el próximo check vencido vuelve a
// intentar). El fallo de un provider es fatal solo para ese provider.
func (s *Service) UpdateCodes(ctx context.Context, userID int64) error {
	if userID <= 0 {
		var ok bool
		if userID, ok = UserIDFromContext(ctx); !ok {
			return nil
		}
	}

	now := s.now()
	clearCache := false
	var errs []error

	for _, p := range s.registry.List() {
		updater, ok := p.Impl.(CodeUpdater)
		if !ok {
			continue
		}

		due, err := s.checks.IsRecalculationDue(ctx, p.ID, userID, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("provider %s: due check: %w", p.ID, err))
			continue
		}
		if !due {
			continue
		}

		name := lockName(p.ID, userID)
		got, err := s.locks.TryLock(ctx, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("provider %s: lock: %w", p.ID, err))
			continue
		}
		if !got {
			// otro proceso está recalculando este par: saltear sin error
			metrics.LockSkips.WithLabelValues(p.ID).Inc()
			s.log.Debug("recalc lock busy, skipping",
				logger.Provider(p.ID), logger.UserID(userID))
			continue
		}

		err = s.recalculate(ctx, p.ID, updater, userID, now)
		if uerr := s.locks.Unlock(ctx, name); uerr != nil {
			s.log.Warn("unlock failed", logger.Provider(p.ID), logger.Err(uerr))
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("provider %s: %w", p.ID, err))
			continue
		}

		clearCache = true
		metrics.Recalculations.WithLabelValues(p.ID).Inc()
	}

	// una sola invalidación del set de códigos, no por provider
	if clearCache {
		s.ClearCodesCache(ctx, userID)
	}

	return errors.Join(errs...)
}

// recalculate ejecuta delete + recompute + clear de checks vencidos
// bajo el lock ya tomado. Si el recompute falla a mitad de camino los
// códigos viejos ya no están: riesgo at-least-once asumido, el próximo
// check vencido repara.
func (s *Service) recalculate(ctx context.Context, providerID string, updater CodeUpdater, userID int64, now time.Time) error {
	if err := s.repo.DeleteCodes(ctx, providerID, userID); err != nil {
		return fmt.Errorf("delete codes: %w", err)
	}
	if err := updater.UpdateCodes(ctx, userID); err != nil {
		return fmt.Errorf("update codes: %w", err)
	}
	if err := s.checks.ClearProcessed(ctx, providerID, userID, now); err != nil {
		return fmt.Errorf("clear processed: %w", err)
	}

	s.log.Info("codes recalculated", logger.Provider(providerID), logger.UserID(userID))
	return nil
}

// AddCode inserta la tripleta e invalida el cache del usuario.
// No dispara recalculación.
func (s *Service) AddCode(ctx context.Context, userID int64, providerID, code string) error {
	if err := s.repo.AddCode(ctx, userID, providerID, code); err != nil {
		return err
	}
	s.ClearCodesCache(ctx, userID)
	return nil
}

// RemoveCode borra la tripleta e invalida el cache del usuario.
func (s *Service) RemoveCode(ctx context.Context, userID int64, providerID, code string) error {
	if err := s.repo.RemoveCode(ctx, userID, providerID, code); err != nil {
		return err
	}
	s.ClearCodesCache(ctx, userID)
	return nil
}

// GetUserCodes lista los códigos del usuario aplicando el filtro.
// Antes de leer dispara UpdateCodes para garantizar frescura: la
// lectura puede hacer trabajo de escritura.
func (s *Service) GetUserCodes(ctx context.Context, userID int64, filter core.CodeFilter) ([]core.AccessCode, error) {
	if err := s.UpdateCodes(ctx, userID); err != nil {
		// la lectura no falla por un recálculo a medias: se sirve lo que haya
		s.log.Warn("update codes before read failed", logger.UserID(userID), logger.Err(err))
	}
	return s.repo.GetCodes(ctx, userID, filter)
}

// GetUserCodesArray retorna solo los valores de código del usuario.
// Con filtro vacío y caching habilitado sirve (y puebla) la entrada
// del cache store.
func (s *Service) GetUserCodesArray(ctx context.Context, userID int64, filter core.CodeFilter) ([]string, error) {
	useCache := filter.Empty() && s.cacheEnabled

	cacheID := codesCacheID(userID)
	if useCache {
		if b, err := s.store.Get(ctx, CacheDir, cacheID); err == nil {
			var codes []string
			if jsonErr := json.Unmarshal(b, &codes); jsonErr == nil {
				metrics.CodeCacheHits.Inc()
				return codes, nil
			}
			_ = s.store.Delete(ctx, CacheDir, cacheID)
		} else if !cache.IsNotFound(err) {
			s.log.Warn("codes cache read failed", logger.UserID(userID), logger.Err(err))
		}
	}

	metrics.CodeCacheMisses.Inc()
	rows, err := s.GetUserCodes(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(rows))
	for _, r := range rows {
		codes = append(codes, r.Code)
	}

	if useCache {
		if b, err := json.Marshal(codes); err == nil {
			if err := s.store.Set(ctx, CacheDir, cacheID, b, s.cacheTTL); err != nil {
				s.log.Warn("codes cache write failed", logger.UserID(userID), logger.Err(err))
			}
		}
	}
	return codes, nil
}

// RecalculateForUser agenda una marca de recalculación para el par
// (usuario, provider). Solo agenda: el trabajo lo hace el próximo
// UpdateCodes o la próxima lectura de códigos.
func (s *Service) RecalculateForUser(ctx context.Context, userID int64, providerID string, when time.Time) error {
	if when.IsZero() {
		when = s.now()
	}
	if err := s.checks.ScheduleCheck(ctx, providerID, userID, when); err != nil {
		return err
	}
	s.ClearCodesCache(ctx, userID)
	return nil
}

// RecalculateForProvider agenda una marca para cada usuario que hoy
// tenga algún código del provider. Limpia el namespace de cache entero
// (más caro que por usuario, pero simple) y descarta el memo in-process
// del provider.
func (s *Service) RecalculateForProvider(ctx context.Context, providerID string) error {
	if err := s.checks.repo.ScheduleForProvider(ctx, providerID, s.now()); err != nil {
		return err
	}
	if err := s.store.DeleteDir(ctx, CacheDir); err != nil {
		s.log.Warn("cache dir clean failed", logger.Provider(providerID), logger.Err(err))
	}
	s.checks.DropProviderMemo(providerID)
	return nil
}

// OnUserDelete purga códigos y checks del usuario e invalida todos sus
// cachés. Siempre reporta éxito: los errores quedan en el log.
func (s *Service) OnUserDelete(ctx context.Context, userID int64) {
	if err := s.repo.DeleteAllForUser(ctx, userID); err != nil {
		s.log.Error("delete codes on user delete failed", logger.UserID(userID), logger.Err(err))
	}
	if err := s.checks.repo.DeleteChecksForUser(ctx, userID); err != nil {
		s.log.Error("delete checks on user delete failed", logger.UserID(userID), logger.Err(err))
	}

	for _, p := range s.registry.List() {
		if err := s.checks.Invalidate(ctx, p.ID, userID); err != nil {
			s.log.Warn("check cache clean failed", logger.Provider(p.ID), logger.Err(err))
		}
	}
	s.ClearCodesCache(ctx, userID)
}

// ResolvedName es una entrada del resultado de GetNames.
type ResolvedName struct {
	Code     string
	Name     string
	Provider string
}

// GetNames resuelve nombres para códigos consultando todos los
// providers con NameResolver. En colisión de código gana el último
// provider (no deberían solaparse los namespaces). Con sortResult se
// ordena por (provider, name) ascendente; si no, se conserva el orden
// de primera aparición.
func (s *Service) GetNames(ctx context.Context, codes []string, sortResult bool) ([]ResolvedName, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	var order []string
	merged := make(map[string]ResolvedName)

	for _, p := range s.registry.List() {
		resolver, ok := p.Impl.(NameResolver)
		if !ok {
			continue
		}

		res, err := resolver.GetNames(ctx, codes)
		if err != nil {
			s.log.Warn("name resolution failed", logger.Provider(p.ID), logger.Err(err))
			continue
		}
		for code, cn := range res {
			if _, seen := merged[code]; !seen {
				order = append(order, code)
			}
			provider := cn.Provider
			if provider == "" {
				provider = p.ProviderName
			}
			merged[code] = ResolvedName{Code: code, Name: cn.Name, Provider: provider}
		}
	}

	out := make([]ResolvedName, 0, len(order))
	for _, code := range order {
		out = append(out, merged[code])
	}

	if sortResult {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Provider != out[j].Provider {
				return out[i].Provider < out[j].Provider
			}
			return out[i].Name < out[j].Name
		})
	}
	return out, nil
}

// FormBlock es el bloque HTML de un provider para el diálogo.
type FormBlock struct {
	ProviderID string
	Name       string
	HTML       string
	Selected   bool
}

// GetFormHTML junta los bloques de formulario de los providers que
// implementan FormRenderer, en orden de registro.
func (s *Service) GetFormHTML(ctx context.Context, params map[string]any) ([]FormBlock, error) {
	var out []FormBlock
	for _, p := range s.registry.List() {
		renderer, ok := p.Impl.(FormRenderer)
		if !ok {
			continue
		}
		res, err := renderer.GetFormHTML(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", p.ID, err)
		}
		if res == nil {
			continue
		}
		out = append(out, FormBlock{
			ProviderID: p.ID,
			Name:       p.Name,
			HTML:       res.HTML,
			Selected:   res.Selected,
		})
	}
	return out, nil
}

// AjaxRequest enruta un request AJAX al provider indicado. handled es
// false si el provider no existe o no implementa la capability.
func (s *Service) AjaxRequest(ctx context.Context, providerID string, params map[string]any) (result any, handled bool, err error) {
	p, ok := s.registry.Get(providerID)
	if !ok {
		return nil, false, nil
	}
	handler, ok := p.Impl.(AjaxHandler)
	if !ok {
		return nil, false, nil
	}
	res, err := handler.AjaxRequest(ctx, params)
	if err != nil {
		return nil, true, err
	}
	return res, true, nil
}

// GetProviderNames describe los providers registrados para la UI.
func (s *Service) GetProviderNames() map[string]ProviderInfo {
	out := make(map[string]ProviderInfo)
	for _, p := range s.registry.List() {
		name := p.ProviderName
		if name == "" {
			name = p.ID
		}
		out[p.ID] = ProviderInfo{Name: name, Prefixes: p.Prefixes}
	}
	return out
}
