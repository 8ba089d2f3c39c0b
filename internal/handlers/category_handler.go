// internal/handlers/category_handler.go
package handlers

import (
	"net/http"

	"menu_admin/internal/middleware"
	"menu_admin/internal/model"
	"menu_admin/internal/service"
	"menu_admin/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	menuService service.MenuService
}

func NewCategoryHandler(menuService service.MenuService) *CategoryHandler {
	return &CategoryHandler{menuService: menuService}
}

// ListCategories GET /api/v1/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		webutil.HandleError(w, logger, model.ErrUnauthorized)
		return
	}

	categories, err := h.menuService.ListCategories(r.Context(), tenantID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, categories, logger)
}

// GetCategory GET /api/v1/categories/{categoryID}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		webutil.HandleError(w, logger, model.ErrUnauthorized)
		return
	}

	category, err := h.menuService.GetCategory(r.Context(), tenantID, chi.URLParam(r, "categoryID"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, category, logger)
}

// CreateCategory POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		webutil.HandleError(w, logger, model.ErrUnauthorized)
		return
	}

	var req model.CreateCategoryRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	category, err := h.menuService.CreateCategory(r.Context(), tenantID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, category, logger)
}

// UpdateCategory PATCH /api/v1/categories/{categoryID}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		webutil.HandleError(w, logger, model.ErrUnauthorized)
		return
	}

	var req model.UpdateCategoryRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	category, err := h.menuService.UpdateCategory(r.Context(), tenantID, chi.URLParam(r, "categoryID"), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, category, logger)
}

// DeleteCategory DELETE /api/v1/categories/{categoryID}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		webutil.HandleError(w, logger, model.ErrUnauthorized)
		return
	}

	if err := h.menuService.DeleteCategory(r.Context(), tenantID, chi.URLParam(r, "categoryID")); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
