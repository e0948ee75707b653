// Package access expone las operaciones del motor de códigos por HTTP.
package access

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/accessd/internal/access"
	httpx "github.com/dropDatabas3/accessd/internal/http"
	"github.com/dropDatabas3/accessd/internal/observability/logger"
	"github.com/dropDatabas3/accessd/internal/store/core"
)

// Controller maneja las rutas /v1/access.
type Controller struct {
	service *access.Service
}

// NewController crea el controller del motor de códigos.
func NewController(service *access.Service) *Controller {
	return &Controller{service: service}
}

// Register cuelga las rutas del controller en el router.
func (c *Controller) Register(r chi.Router) {
	r.Route("/v1/access", func(r chi.Router) {
		r.Get("/users/{userID}/codes", c.GetUserCodes)
		r.Post("/users/{userID}/codes", c.AddCode)
		r.Delete("/users/{userID}/codes", c.RemoveCode)
		r.Post("/users/{userID}/update", c.UpdateCodes)
		r.Post("/users/{userID}/recalculate", c.RecalculateForUser)
		r.Delete("/users/{userID}", c.OnUserDelete)
		r.Post("/providers/{providerID}/recalculate", c.RecalculateForProvider)
		r.Get("/providers", c.GetProviderNames)
		r.Post("/names", c.GetNames)
		r.Get("/form", c.GetFormHTML)
		r.Post("/providers/{providerID}/ajax", c.AjaxRequest)
		r.Get("/users/{userID}/recent/{providerID}", c.GetLastRecentlyUsed)
		r.Post("/users/{userID}/recent", c.SaveLastRecentlyUsed)
	})
}

func userIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	return id, err == nil && id > 0
}

// GetUserCodes maneja GET /v1/access/users/{userID}/codes
// Query params opcionales: provider, code (repetible).
func (c *Controller) GetUserCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("access.GetUserCodes"))

	userID, ok := userIDParam(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_user", "user_id inválido")
		return
	}

	filter := core.CodeFilter{
		ProviderID: r.URL.Query().Get("provider"),
		Codes:      r.URL.Query()["code"],
	}

	codes, err := c.service.GetUserCodesArray(ctx, userID, filter)
	if err != nil {
		// la lectura sirve lo que haya aunque el recálculo haya fallado;
		// acá solo falla la consulta principal
		log.Error("get codes failed", logger.UserID(userID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "storage_error", "no se pudieron leer los códigos")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"codes":   codes,
	})
}

type codeRequest struct {
	Provider string `json:"provider"`
	Code     string `json:"code"`
}

// AddCode maneja POST /v1/access/users/{userID}/codes
func (c *Controller) AddCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("access.AddCode"))

	userID, ok := userIDParam(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_user", "user_id inválido")
		return
	}
	var req codeRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}
	if req.Provider == "" || req.Code == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "provider y code requeridos")
		return
	}

	if err := c.service.AddCode(ctx, userID, req.Provider, req.Code); err != nil {
		log.Error("add code failed", logger.UserID(userID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "storage_error", "no se pudo insertar el código")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"ok": true})
}

// RemoveCode maneja DELETE /v1/access/users/{userID}/codes
func (c *Controller) RemoveCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("access.RemoveCode"))

	userID, ok := userIDParam(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_user", "user_id inválido")
		return
	}
	var req codeRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}

	if err := c.service.RemoveCode(ctx, userID, req.Provider, req.Code); err != nil {
		log.Error("remove code failed", logger.UserID(userID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "storage_error", "no se pudo borrar el código")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// UpdateCodes maneja POST /v1/access/users/{userID}/update
func (c *Controller) UpdateCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("access.UpdateCodes"))

	userID, ok := userIDParam(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_user", "user_id inválido")
		return
	}

	if err := c.service.UpdateCodes(ctx, userID); err != nil {
		// fallos por provider: la pasada siguió con el resto
		log.Warn("update codes finished with errors", logger.UserID(userID), logger.Err(err))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type recalcRequest struct {
	When *time.Time `json:"when,omitempty"`
	// Provider requerido en el endpoint por usuario.
	Provider string `json:"provider"`
}

// RecalculateForUser maneja POST /v1/access/users/{userID}/recalculate
func (c *Controller) RecalculateForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("access.RecalculateForUser"))

	userID, ok := userIDParam(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_user", "user_id inválido")
		return
	}
	var req recalcRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}
	if req.Provider == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "provider requerido")
		return
	}

	var when time.Time
	if req.When != nil {
		when = *req.When
	}
	if err := c.service.RecalculateForUser(ctx, userID, req.Provider, when); err != nil {
		log.Error("recalculate failed", logger.UserID(userID), logger.Provider(req.Provider), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "storage_error", "no se pudo agendar la recalculación")
		return
	}
	httpx.WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}

// RecalculateForProvider maneja POST /v1/access/providers/{providerID}/recalculate
func (c *Controller) RecalculateForProvider(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("access.RecalculateForProvider"))

	providerID := chi.URLParam(r, "providerID")
	if err := c.service.RecalculateForProvider(ctx, providerID); err != nil {
		log.Error("recalculate provider failed", logger.Provider(providerID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "storage_error", "no se pudo agendar la recalculación")
		return
	}
	httpx.WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}

// OnUserDelete maneja DELETE /v1/access/users/{userID}
func (c *Controller) OnUserDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDParam(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_user", "user_id inválido")
		return
	}

	// siempre reporta éxito; los errores quedan en el log
	c.service.OnUserDelete(ctx, userID)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// GetProviderNames maneja GET /v1/access/providers
func (c *Controller) GetProviderNames(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, c.service.GetProviderNames())
}

type namesRequest struct {
	Codes []string `json:"codes"`
	Sort  bool     `json:"sort"`
}

// GetNames maneja POST /v1/access/names
func (c *Controller) GetNames(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("access.GetNames"))

	var req namesRequest
	if !httpx.ReadJSON(w, r, &req) {
		return
	}

	names, err := c.service.GetNames(ctx, req.Codes, req.Sort)
	if err != nil {
		log.Error("get names failed", logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "storage_error", "no se pudieron resolver los nombres")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"names": names})
}

// GetFormHTML maneja GET /v1/access/form
func (c *Controller) GetFormHTML(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("access.GetFormHTML"))

	params := make(map[string]any, len(r.URL.Query()))
	for k, v := range r.URL.Query() {
		if len(v) == 1 {
			params[k] = v[0]
		} else {
			params[k] = v
		}
	}

	blocks, err := c.service.GetFormHTML(ctx, params)
	if err != nil {
		log.Error("form html failed", logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "provider_error", "no se pudo armar el formulario")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"blocks": blocks})
}

// AjaxRequest maneja POST /v1/access/providers/{providerID}/ajax
func (c *Controller) AjaxRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("access.AjaxRequest"))

	providerID := chi.URLParam(r, "providerID")
	var params map[string]any
	if !httpx.ReadJSON(w, r, &params) {
		return
	}

	result, handled, err := c.service.AjaxRequest(ctx, providerID, params)
	if err != nil {
		log.Error("ajax failed", logger.Provider(providerID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "provider_error", "el provider falló")
		return
	}
	if !handled {
		httpx.WriteError(w, http.StatusNotFound, "not_handled", "el provider no atiende requests ajax")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"result": result})
}

// GetLastRecentlyUsed maneja GET /v1/access/users/{userID}/recent/{providerID}
func (c *Controller) GetLastRecentlyUsed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("access.GetLastRecentlyUsed"))

	userID, ok := userIDParam(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_user", "user_id inválido")
		return
	}
	providerID := chi.URLParam(r, "providerID")

	ids, err := c.service.GetLastRecentlyUsed(ctx, userID, providerID)
	if err != nil {
		log.Error("get recent failed", logger.UserID(userID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "storage_error", "no se pudo leer la lista reciente")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": ids})
}

// SaveLastRecentlyUsed maneja POST /v1/access/users/{userID}/recent
func (c *Controller) SaveLastRecentlyUsed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("access.SaveLastRecentlyUsed"))

	userID, ok := userIDParam(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_user", "user_id inválido")
		return
	}
	var recent map[string][]string
	if !httpx.ReadJSON(w, r, &recent) {
		return
	}

	if err := c.service.SaveLastRecentlyUsed(ctx, userID, recent); err != nil {
		log.Error("save recent failed", logger.UserID(userID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "storage_error", "no se pudo guardar la lista reciente")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}
