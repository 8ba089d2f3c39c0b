// internal/service/authz_service_test.go
package service

import (
	"context"
	"testing"

	"menu_admin/internal/docstore"
	"menu_admin/internal/model"
	"menu_admin/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthzService_IsSuperAdmin(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	profileRepo := repository.NewDocProfileRepository(store)
	svc := NewAuthzService(profileRepo)

	owner := &model.UserProfile{
		TenantID:       uuid.New(),
		RestaurantName: "オーナー店",
		Role:           model.RoleRestaurantOwner,
		IsActive:       true,
	}
	require.NoError(t, profileRepo.Create(ctx, owner))

	t.Run("正常系: restaurant_owner は false", func(t *testing.T) {
		ok, err := svc.IsSuperAdmin(ctx, owner.TenantID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("正常系: プロフィール不在は権限なし扱いでエラーにしない", func(t *testing.T) {
		ok, err := svc.IsSuperAdmin(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("正常系: ロール昇格は次の判定から反映される", func(t *testing.T) {
		require.NoError(t, profileRepo.Update(ctx, owner.TenantID, map[string]interface{}{
			"role": string(model.RoleSuperAdmin),
		}))

		ok, err := svc.IsSuperAdmin(ctx, owner.TenantID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("正常系: 降格も即反映される", func(t *testing.T) {
		require.NoError(t, profileRepo.Update(ctx, owner.TenantID, map[string]interface{}{
			"role": string(model.RoleRestaurantOwner),
		}))

		ok, err := svc.IsSuperAdmin(ctx, owner.TenantID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAuthzService_RoleOf(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	profileRepo := repository.NewDocProfileRepository(store)
	svc := NewAuthzService(profileRepo)

	admin := &model.UserProfile{
		TenantID: uuid.New(),
		Role:     model.RoleSuperAdmin,
		IsActive: true,
	}
	require.NoError(t, profileRepo.Create(ctx, admin))

	role, err := svc.RoleOf(ctx, admin.TenantID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSuperAdmin, role)

	_, err = svc.RoleOf(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}
