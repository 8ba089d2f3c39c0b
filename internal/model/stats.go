package model

import (
	"time"

	"github.com/google/uuid"
)

// RestaurantStats は1テナント分の集計値。永続化せず都度計算する。
type RestaurantStats struct {
	TenantID        uuid.UUID `json:"tenant_id"`
	RestaurantName  string    `json:"restaurant_name"`
	Email           string    `json:"email"`
	IsActive        bool      `json:"is_active"`
	TotalCategories int       `json:"total_categories"`
	TotalMenuItems  int       `json:"total_menu_items"`
	ActiveMenuItems int       `json:"active_menu_items"`
	CreatedAt       time.Time `json:"created_at"`
	LastUpdated     time.Time `json:"last_updated"`
}

// PlatformStats は全テナントを横断した集計値
type PlatformStats struct {
	TotalRestaurants          int `json:"total_restaurants"`
	ActiveRestaurants         int `json:"active_restaurants"`
	InactiveRestaurants       int `json:"inactive_restaurants"`
	TotalCategories           int `json:"total_categories"`
	TotalMenuItems            int `json:"total_menu_items"`
	ActiveMenuItems           int `json:"active_menu_items"`
	AverageItemsPerRestaurant int `json:"average_items_per_restaurant"`
}
