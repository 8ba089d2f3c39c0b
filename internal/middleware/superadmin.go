// internal/middleware/superadmin.go
package middleware

import (
	"context"
	"net/http"

	"menu_admin/internal/model"
	"menu_admin/internal/webutil"

	"github.com/google/uuid"
)

// SuperAdminChecker は認可判定の問い合わせ先。
// サービス層の実装を注入する（ここから逆向きに import しないための小さなインターフェース）。
type SuperAdminChecker interface {
	IsSuperAdmin(ctx context.Context, tenantID uuid.UUID) (bool, error)
}

// RequireSuperAdmin は認証済みテナントが super_admin であることを要求する。
// 判定に失敗した場合は許可しない側に倒す。
func RequireSuperAdmin(checker SuperAdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			tenantID, ok := GetTenantID(r.Context())
			if !ok {
				respondUnauthorized(w, r, "Authentication required.")
				return
			}

			isSuperAdmin, err := checker.IsSuperAdmin(r.Context(), tenantID)
			if err != nil {
				logger.Error("Super admin check failed, denying access", "error", err)
				isSuperAdmin = false
			}
			if !isSuperAdmin {
				webutil.RespondWithError(w, http.StatusForbidden, model.ErrorDetail{
					Code:    "FORBIDDEN",
					Message: "Super admin privileges required.",
				}, logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
