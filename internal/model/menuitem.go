package model

import "time"

// MenuItem はテナント配下のメニュー項目。ちょうど1つのカテゴリを参照する。
// CategoryName は表示用にカテゴリ名を書き込み時に非正規化したもの。
// カテゴリ名変更時はサービス層がファンアウト更新で追随させる。
type MenuItem struct {
	ItemID       string    `json:"item_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Image        string    `json:"image,omitempty"`
	Available    bool      `json:"available"`
	Featured     bool      `json:"featured"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// メニュー項目作成リクエストDTO
type CreateMenuItemRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description string  `json:"description" validate:"max=500"`
	Price       float64 `json:"price" validate:"gte=0"`
	CategoryID  string  `json:"category_id" validate:"required"`
	Image       string  `json:"image,omitempty" validate:"omitempty,url"`
	Available   *bool   `json:"available,omitempty"`
	Featured    *bool   `json:"featured,omitempty"`
}

// メニュー項目更新（部分）リクエストDTO
type UpdateMenuItemRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	CategoryID  *string  `json:"category_id,omitempty"`
	Image       *string  `json:"image,omitempty" validate:"omitempty,url"`
	Available   *bool    `json:"available,omitempty"`
	Featured    *bool    `json:"featured,omitempty"`
}
