// internal/handlers/upload_handler.go
package handlers

import (
	"io"
	"net/http"
	"time"

	"menu_admin/internal/assets"
	"menu_admin/internal/middleware"
	"menu_admin/internal/model"
	"menu_admin/internal/webutil"

	"github.com/google/uuid"
)

// アップロード受付の上限（縮小前）
const maxUploadBytes = 10 << 20

type UploadHandler struct {
	uploader assets.Uploader
}

func NewUploadHandler(uploader assets.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// UploadImage POST /api/v1/uploads/images
// multipart/form-data の "image" フィールドを受け取り、縮小してから保存する。
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		webutil.HandleError(w, logger, model.ErrUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("image")
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_INPUT", "Form field 'image' is required.", "image", model.ErrInvalidInput))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_INPUT", "Failed to read uploaded file.", "image", model.ErrInvalidInput))
		return
	}

	compressed, err := assets.CompressImage(raw)
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("INVALID_IMAGE", "Uploaded file is not a supported image.", "image", model.ErrInvalidInput))
		return
	}

	key := "tenants/" + tenantID.String() + "/images/" + time.Now().UTC().Format("20060102T150405") + "-" + uuid.NewString() + ".jpg"
	url, err := h.uploader.Upload(r.Context(), key, "image/jpeg", compressed)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusCreated, map[string]string{
		"key": key,
		"url": url,
	}, logger)
}
