// internal/config/constants.go
package config

const (
	// AuthHeaderName は認証トークンを受け取るHTTPヘッダ
	AuthHeaderName = "Authorization"
	// AuthSchemeBearer はAuthorizationヘッダのスキーム
	AuthSchemeBearer = "Bearer"
)
