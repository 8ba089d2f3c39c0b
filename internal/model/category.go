package model

import "time"

// Category はテナント配下のメニューカテゴリ。
// Order は作成時に「現在の件数+1」で採番し、削除時に振り直しはしない。
type Category struct {
	CategoryID  string    `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Visible     bool      `json:"visible"`
	Order       int       `json:"order"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// カテゴリ作成リクエストDTO
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	Visible     *bool  `json:"visible,omitempty"`
	Image       string `json:"image,omitempty" validate:"omitempty,url"`
}

// カテゴリ更新（部分）リクエストDTO
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Visible     *bool   `json:"visible,omitempty"`
	Order       *int    `json:"order,omitempty" validate:"omitempty,min=0"`
	Image       *string `json:"image,omitempty" validate:"omitempty,url"`
}
