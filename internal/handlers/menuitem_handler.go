// internal/handlers/menuitem_handler.go
package handlers

import (
	"net/http"

	"menu_admin/internal/middleware"
	"menu_admin/internal/model"
	"menu_admin/internal/service"
	"menu_admin/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type MenuItemHandler struct {
	menuService service.MenuService
}

func NewMenuItemHandler(menuService service.MenuService) *MenuItemHandler {
	return &MenuItemHandler{menuService: menuService}
}

// ListMenuItems GET /api/v1/menu-items
func (h *MenuItemHandler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		webutil.HandleError(w, logger, model.ErrUnauthorized)
		return
	}

	items, err := h.menuService.ListMenuItems(r.Context(), tenantID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, items, logger)
}

// GetMenuItem GET /api/v1/menu-items/{itemID}
func (h *MenuItemHandler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		webutil.HandleError(w, logger, model.ErrUnauthorized)
		return
	}

	item, err := h.menuService.GetMenuItem(r.Context(), tenantID, chi.URLParam(r, "itemID"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, item, logger)
}

// CreateMenuItem POST /api/v1/menu-items
func (h *MenuItemHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		webutil.HandleError(w, logger, model.ErrUnauthorized)
		return
	}

	var req model.CreateMenuItemRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	item, err := h.menuService.CreateMenuItem(r.Context(), tenantID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, item, logger)
}

// UpdateMenuItem PATCH /api/v1/menu-items/{itemID}
func (h *MenuItemHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		webutil.HandleError(w, logger, model.ErrUnauthorized)
		return
	}

	var req model.UpdateMenuItemRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	item, err := h.menuService.UpdateMenuItem(r.Context(), tenantID, chi.URLParam(r, "itemID"), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, item, logger)
}

// DeleteMenuItem DELETE /api/v1/menu-items/{itemID}
func (h *MenuItemHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		webutil.HandleError(w, logger, model.ErrUnauthorized)
		return
	}

	if err := h.menuService.DeleteMenuItem(r.Context(), tenantID, chi.URLParam(r, "itemID")); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
