package model

import (
	"time"

	"github.com/google/uuid"
)

// Role はテナントの権限ロール
type Role string

const (
	RoleRestaurantOwner Role = "restaurant_owner"
	RoleSuperAdmin      Role = "super_admin"
)

// IsValid は既知のロールかどうかを返します
func (r Role) IsValid() bool {
	return r == RoleRestaurantOwner || r == RoleSuperAdmin
}

// UserProfile はテナント（＝認証済みユーザー）ごとに1件のプロフィールドキュメント。
// TenantID は認証基盤のIDと同一で不変。Email もこの層では変更しない。
// Role と IsActive はスーパー管理者のみが変更できる。
type UserProfile struct {
	TenantID       uuid.UUID `json:"tenant_id"`
	Email          string    `json:"email"`
	RestaurantName string    `json:"restaurant_name"`
	Role           Role      `json:"role"`
	IsActive       bool      `json:"is_active"`
	WebsiteURL     string    `json:"website_url,omitempty"`
	QRCodeImage    string    `json:"qr_code_image,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UpdateProfileRequest はプロフィール更新リクエストDTO。
// Role / IsActive は含めない（管理APIからのみ変更可能）。
type UpdateProfileRequest struct {
	RestaurantName *string `json:"restaurant_name,omitempty" validate:"omitempty,min=1,max=100"`
	WebsiteURL     *string `json:"website_url,omitempty" validate:"omitempty,url"`
	QRCodeImage    *string `json:"qr_code_image,omitempty" validate:"omitempty,url"`
}

// UpdateRoleRequest はスーパー管理者によるロール変更リクエストDTO
type UpdateRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=restaurant_owner super_admin"`
}

// UpdateActiveRequest はスーパー管理者による有効/無効切り替えリクエストDTO
type UpdateActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
