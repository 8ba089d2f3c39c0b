// internal/webutil/request.go
package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"menu_admin/internal/model"
)

// DecodeJSONBody はリクエストボディをJSONとしてデコードする。
// 未知フィールドは拒否し、失敗は ErrInvalidInput として返す。
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewAppError("INVALID_INPUT", "Request body is empty.", "", model.ErrInvalidInput)
		}
		return model.NewAppError("INVALID_INPUT", fmt.Sprintf("Invalid request body: %v", err), "", model.ErrInvalidInput)
	}

	// ボディに複数のJSON値が連結されていたら不正とみなす
	if decoder.More() {
		return model.NewAppError("INVALID_INPUT", "Request body must contain a single JSON object.", "", model.ErrInvalidInput)
	}
	return nil
}
