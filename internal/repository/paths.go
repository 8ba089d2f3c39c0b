// internal/repository/paths.go
package repository

import "github.com/google/uuid"

// ドキュメントストア上のパス構成:
//
//	tenants/{tenantID}                      ... プロフィール
//	tenants/{tenantID}/categories/{id}      ... カテゴリ
//	tenants/{tenantID}/menuItems/{id}       ... メニュー項目
//	credentials/{email}                     ... 認証情報
//	passwordResetTokens/{token}             ... パスワード再設定トークン
//
// テナント配下のコレクションは必ずここを経由して組み立てること。
// これがテナント分離の境界になる。
const (
	tenantsCollection     = "tenants"
	categoriesCollection  = "categories"
	menuItemsCollection   = "menuItems"
	credentialsCollection = "credentials"
	resetTokensCollection = "passwordResetTokens"
)

func profileDocPath(tenantID uuid.UUID) string {
	return tenantsCollection + "/" + tenantID.String()
}

func categoriesPath(tenantID uuid.UUID) string {
	return profileDocPath(tenantID) + "/" + categoriesCollection
}

func categoryDocPath(tenantID uuid.UUID, categoryID string) string {
	return categoriesPath(tenantID) + "/" + categoryID
}

func menuItemsPath(tenantID uuid.UUID) string {
	return profileDocPath(tenantID) + "/" + menuItemsCollection
}

func menuItemDocPath(tenantID uuid.UUID, itemID string) string {
	return menuItemsPath(tenantID) + "/" + itemID
}

func credentialDocPath(email string) string {
	return credentialsCollection + "/" + email
}

func resetTokenDocPath(token string) string {
	return resetTokensCollection + "/" + token
}
