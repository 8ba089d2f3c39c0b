// internal/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"menu_admin/internal/config"
	"menu_admin/internal/model"
	"menu_admin/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthMiddleware はBearerトークンを検証し、subのテナントIDをコンテキストに積む。
// 以降のハンドラは GetTenantID で取り出した自テナントのデータにしか触れない。
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		authHeader := r.Header.Get(config.AuthHeaderName)
		if authHeader == "" {
			respondUnauthorized(w, r, "Authorization header is missing.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], config.AuthSchemeBearer) {
			respondUnauthorized(w, r, "Authorization header format must be 'Bearer {token}'.")
			return
		}
		tokenString := parts[1]

		claims := &model.JWTCustomClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(config.Cfg.Auth.JWTSecretKey), nil
		})
		if err != nil || !token.Valid {
			logger.Warn("Invalid access token", "error", err)
			respondUnauthorized(w, r, "Invalid or expired access token.")
			return
		}

		tenantID, err := uuid.Parse(claims.Subject)
		if err != nil {
			logger.Warn("Access token subject is not a valid tenant id", "sub", claims.Subject)
			respondUnauthorized(w, r, "Invalid access token.")
			return
		}

		ctx := context.WithValue(r.Context(), model.TenantIDKey, tenantID)
		ctx = WithLogger(ctx, logger.With("tenant_id", tenantID.String()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetTenantID は認証済みコンテキストからテナントIDを取り出す
func GetTenantID(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(model.TenantIDKey).(uuid.UUID)
	return tenantID, ok
}

func respondUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	webutil.RespondWithError(w, http.StatusUnauthorized, model.ErrorDetail{
		Code:    "UNAUTHORIZED",
		Message: message,
	}, GetLogger(r.Context()))
}
