// internal/repository/codec.go
package repository

import (
	"time"

	"menu_admin/internal/model"

	"github.com/google/uuid"
)

// ストアのデータは map[string]interface{} で受け渡すため、
// モデルとの相互変換をここに集約する。フィールド名はストア側の命名（camelCase）。

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func getBool(data map[string]interface{}, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

// Firestore は整数を int64 で返す。インメモリ実装は書き込んだ型のまま返すので両対応する。
func getInt(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func getFloat(data map[string]interface{}, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func getTime(data map[string]interface{}, key string) time.Time {
	if v, ok := data[key].(time.Time); ok {
		return v
	}
	return time.Time{}
}

func decodeCategory(id string, data map[string]interface{}) *model.Category {
	return &model.Category{
		CategoryID:  id,
		Name:        getString(data, "name"),
		Description: getString(data, "description"),
		Visible:     getBool(data, "visible"),
		Order:       getInt(data, "order"),
		Image:       getString(data, "image"),
		CreatedAt:   getTime(data, "createdAt"),
		UpdatedAt:   getTime(data, "updatedAt"),
	}
}

func encodeCategory(c *model.Category) map[string]interface{} {
	return map[string]interface{}{
		"name":        c.Name,
		"description": c.Description,
		"visible":     c.Visible,
		"order":       c.Order,
		"image":       c.Image,
		"createdAt":   c.CreatedAt,
		"updatedAt":   c.UpdatedAt,
	}
}

func decodeMenuItem(id string, data map[string]interface{}) *model.MenuItem {
	return &model.MenuItem{
		ItemID:       id,
		Name:         getString(data, "name"),
		Description:  getString(data, "description"),
		Price:        getFloat(data, "price"),
		CategoryID:   getString(data, "categoryId"),
		CategoryName: getString(data, "categoryName"),
		Image:        getString(data, "image"),
		Available:    getBool(data, "available"),
		Featured:     getBool(data, "featured"),
		CreatedAt:    getTime(data, "createdAt"),
		UpdatedAt:    getTime(data, "updatedAt"),
	}
}

func encodeMenuItem(m *model.MenuItem) map[string]interface{} {
	return map[string]interface{}{
		"name":         m.Name,
		"description":  m.Description,
		"price":        m.Price,
		"categoryId":   m.CategoryID,
		"categoryName": m.CategoryName,
		"image":        m.Image,
		"available":    m.Available,
		"featured":     m.Featured,
		"createdAt":    m.CreatedAt,
		"updatedAt":    m.UpdatedAt,
	}
}

func decodeProfile(tenantID uuid.UUID, data map[string]interface{}) *model.UserProfile {
	return &model.UserProfile{
		TenantID:       tenantID,
		Email:          getString(data, "email"),
		RestaurantName: getString(data, "restaurantName"),
		Role:           model.Role(getString(data, "role")),
		IsActive:       getBool(data, "isActive"),
		WebsiteURL:     getString(data, "websiteUrl"),
		QRCodeImage:    getString(data, "qrCodeImage"),
		CreatedAt:      getTime(data, "createdAt"),
		UpdatedAt:      getTime(data, "updatedAt"),
	}
}

func encodeProfile(p *model.UserProfile) map[string]interface{} {
	return map[string]interface{}{
		"email":          p.Email,
		"restaurantName": p.RestaurantName,
		"role":           string(p.Role),
		"isActive":       p.IsActive,
		"websiteUrl":     p.WebsiteURL,
		"qrCodeImage":    p.QRCodeImage,
		"createdAt":      p.CreatedAt,
		"updatedAt":      p.UpdatedAt,
	}
}

func decodeCredential(email string, data map[string]interface{}) (*model.Credential, error) {
	tenantID, err := uuid.Parse(getString(data, "tenantId"))
	if err != nil {
		return nil, err
	}
	return &model.Credential{
		Email:        email,
		TenantID:     tenantID,
		PasswordHash: getString(data, "passwordHash"),
		CreatedAt:    getTime(data, "createdAt"),
		UpdatedAt:    getTime(data, "updatedAt"),
	}, nil
}

func encodeCredential(c *model.Credential) map[string]interface{} {
	return map[string]interface{}{
		"tenantId":     c.TenantID.String(),
		"passwordHash": c.PasswordHash,
		"createdAt":    c.CreatedAt,
		"updatedAt":    c.UpdatedAt,
	}
}

func decodeResetToken(token string, data map[string]interface{}) (*model.PasswordResetToken, error) {
	tenantID, err := uuid.Parse(getString(data, "tenantId"))
	if err != nil {
		return nil, err
	}
	return &model.PasswordResetToken{
		Token:     token,
		TenantID:  tenantID,
		Email:     getString(data, "email"),
		ExpiresAt: getTime(data, "expiresAt"),
		CreatedAt: getTime(data, "createdAt"),
	}, nil
}

func encodeResetToken(t *model.PasswordResetToken) map[string]interface{} {
	return map[string]interface{}{
		"tenantId":  t.TenantID.String(),
		"email":     t.Email,
		"expiresAt": t.ExpiresAt,
		"createdAt": t.CreatedAt,
	}
}
