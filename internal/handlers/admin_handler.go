// internal/handlers/admin_handler.go
package handlers

import (
	"net/http"

	"menu_admin/internal/middleware"
	"menu_admin/internal/model"
	"menu_admin/internal/service"
	"menu_admin/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// AdminHandler はスーパー管理者専用のテナント横断API。
// ルーティング側で RequireSuperAdmin を必ず前段に挟むこと。
type AdminHandler struct {
	platformService service.PlatformService
}

func NewAdminHandler(platformService service.PlatformService) *AdminHandler {
	return &AdminHandler{platformService: platformService}
}

func pathTenantID(r *http.Request) (uuid.UUID, error) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_TENANT_ID", "Tenant id must be a UUID.", "tenantID", model.ErrInvalidInput)
	}
	return tenantID, nil
}

// ListRestaurants GET /api/v1/admin/restaurants
func (h *AdminHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	restaurants, err := h.platformService.ListRestaurants(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, restaurants, logger)
}

// ListUsers GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	users, err := h.platformService.ListUsers(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, users, logger)
}

// GetRestaurantStats GET /api/v1/admin/restaurants/{tenantID}/stats
func (h *AdminHandler) GetRestaurantStats(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, err := pathTenantID(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	stats, err := h.platformService.StatsFor(r.Context(), tenantID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}

// ListAllStats GET /api/v1/admin/stats
func (h *AdminHandler) ListAllStats(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	stats, err := h.platformService.AllStats(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}

// GetPlatformSummary GET /api/v1/admin/stats/summary
func (h *AdminHandler) GetPlatformSummary(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	summary, err := h.platformService.PlatformSummary(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, summary, logger)
}

// UpdateRestaurantRole PUT /api/v1/admin/restaurants/{tenantID}/role
func (h *AdminHandler) UpdateRestaurantRole(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, err := pathTenantID(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.UpdateRoleRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.platformService.SetTenantRole(r.Context(), tenantID, req.Role); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateRestaurantActive PUT /api/v1/admin/restaurants/{tenantID}/active
func (h *AdminHandler) UpdateRestaurantActive(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, err := pathTenantID(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.UpdateActiveRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.platformService.SetTenantActive(r.Context(), tenantID, *req.IsActive); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
