// internal/handlers/profile_handler.go
package handlers

import (
	"net/http"

	"menu_admin/internal/middleware"
	"menu_admin/internal/model"
	"menu_admin/internal/service"
	"menu_admin/internal/webutil"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile GET /api/v1/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		webutil.HandleError(w, logger, model.ErrUnauthorized)
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), tenantID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, profile, logger)
}

// UpdateProfile PATCH /api/v1/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		webutil.HandleError(w, logger, model.ErrUnauthorized)
		return
	}

	var req model.UpdateProfileRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(&req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), tenantID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, profile, logger)
}
