// internal/webutil/response.go
package webutil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"menu_admin/internal/model"
)

// RespondWithJSON はペイロードをJSONで書き出す
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response body", "error", err)
	}
}

// RespondWithError はエラーレスポンス(APIErrorResponse)を書き出す
func RespondWithError(w http.ResponseWriter, code int, detail model.ErrorDetail, logger *slog.Logger) {
	RespondWithJSON(w, code, model.APIErrorResponse{Error: detail}, logger)
}

// HandleError はサービス層から返ったエラーをHTTPレスポンスへ変換する。
// AppError ならそのコード・メッセージを使い、素のセンチネルならステータスだけ対応させる。
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := MapErrorToStatusCode(err)

	var appErr *model.AppError
	if errors.As(err, &appErr) {
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed", "error", err, "code", appErr.Code)
		} else {
			logger.Warn("Request rejected", "error", err, "code", appErr.Code)
		}
		RespondWithError(w, status, model.ErrorDetail{
			Code:    appErr.Code,
			Message: appErr.Message,
			Field:   appErr.Field,
		}, logger)
		return
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		// 内部情報を漏らさないよう固定メッセージにする
		RespondWithError(w, status, model.ErrorDetail{
			Code:    "INTERNAL_SERVER_ERROR",
			Message: "An unexpected error occurred.",
		}, logger)
		return
	}

	logger.Warn("Request rejected", "error", err)
	RespondWithError(w, status, model.ErrorDetail{
		Code:    codeForStatus(status),
		Message: err.Error(),
	}, logger)
}

// MapErrorToStatusCode はセンチネルエラーをHTTPステータスに対応させる
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrConflict), errors.Is(err, model.ErrHasDependents):
		return http.StatusConflict
	case errors.Is(err, model.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusBadRequest:
		return "INVALID_INPUT"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusServiceUnavailable:
		return "STORE_UNAVAILABLE"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}
