// internal/service/platform_service_test.go
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

type platformFixture struct {
	svc         PlatformService
	menu        MenuService
	profileRepo repository.ProfileRepository
}

func newPlatformFixture() *platformFixture {
	store := docstore.NewMemoryStore()
	profileRepo := repository.NewDocProfileRepository(store)
	categoryRepo := repository.NewDocCategoryRepository(store)
	menuItemRepo := repository.NewDocMenuItemRepository(store)
	return &platformFixture{
		svc:         NewPlatformService(profileRepo, categoryRepo, menuItemRepo),
		menu:        NewMenuService(categoryRepo, menuItemRepo),
		profileRepo: profileRepo,
	}
}

func (f *platformFixture) addRestaurant(t *testing.T, name string, role model.Role, isActive bool) uuid.UUID {
	t.Helper()
	profile := &model.UserProfile{
		TenantID:       uuid.New(),
		Email:          name + "@example.com",
		RestaurantName: name,
		Role:           role,
		IsActive:       isActive,
	}
	require.NoError(t, f.profileRepo.Create(context.Background(), profile))
	return profile.TenantID
}

func (f *platformFixture) addItems(t *testing.T, tenantID uuid.UUID, available, unavailable int) {
	t.Helper()
	ctx := context.Background()
	category, err := f.menu.CreateCategory(ctx, tenantID, &model.CreateCategoryRequest{Name: "カテゴリ"})
	require.NoError(t, err)

	off := false
	for i := 0; i < available; i++ {
		_, err := f.menu.CreateMenuItem(ctx, tenantID, &model.CreateMenuItemRequest{
			Name: "販売中", Price: 100, CategoryID: category.CategoryID,
		})
		require.NoError(t, err)
	}
	for i := 0; i < unavailable; i++ {
		_, err := f.menu.CreateMenuItem(ctx, tenantID, &model.CreateMenuItemRequest{
			Name: "売り切れ", Price: 100, CategoryID: category.CategoryID, Available: &off,
		})
		require.NoError(t, err)
	}
}

func TestPlatformService_StatsFor(t *testing.T) {
	ctx := context.Background()
	f := newPlatformFixture()

	tenantID := f.addRestaurant(t, "stats", model.RoleRestaurantOwner, true)
	f.addItems(t, tenantID, 3, 2)

	stats, err := f.svc.StatsFor(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalCategories)
	assert.Equal(t, 5, stats.TotalMenuItems)
	assert.Equal(t, 3, stats.ActiveMenuItems)
	assert.True(t, stats.IsActive)

	t.Run("異常系: 存在しないテナントは ErrNotFound", func(t *testing.T) {
		_, err := f.svc.StatsFor(ctx, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestPlatformService_PlatformSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: テナント0件でも全てゼロで返る", func(t *testing.T) {
		f := newPlatformFixture()
		summary, err := f.svc.PlatformSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.TotalRestaurants)
		assert.Equal(t, 0, summary.AverageItemsPerRestaurant)
	})

	t.Run("正常系: 合算と平均（四捨五入）", func(t *testing.T) {
		f := newPlatformFixture()
		active := f.addRestaurant(t, "active", model.RoleRestaurantOwner, true)
		inactive := f.addRestaurant(t, "inactive", model.RoleRestaurantOwner, false)
		f.addItems(t, active, 2, 0)
		f.addItems(t, inactive, 1, 0)

		summary, err := f.svc.PlatformSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.TotalRestaurants)
		assert.Equal(t, 1, summary.ActiveRestaurants)
		assert.Equal(t, 1, summary.InactiveRestaurants)
		assert.Equal(t, 2, summary.TotalCategories)
		assert.Equal(t, 3, summary.TotalMenuItems)
		// 3項目 / 2店舗 = 1.5 -> 2
		assert.Equal(t, 2, summary.AverageItemsPerRestaurant)
	})
}

func TestPlatformService_AllStats(t *testing.T) {
	ctx := context.Background()
	f := newPlatformFixture()

	f.addRestaurant(t, "one", model.RoleRestaurantOwner, true)
	f.addRestaurant(t, "two", model.RoleRestaurantOwner, true)
	f.addRestaurant(t, "three", model.RoleSuperAdmin, true)

	stats, err := f.svc.AllStats(ctx)
	require.NoError(t, err)
	assert.Len(t, stats, 3)
}

func TestPlatformService_LastSuperAdminGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("異常系: 最後の有効なスーパー管理者は降格できない", func(t *testing.T) {
		f := newPlatformFixture()
		adminID := f.addRestaurant(t, "admin", model.RoleSuperAdmin, true)

		err := f.svc.SetTenantRole(ctx, adminID, model.RoleRestaurantOwner)
		assert.ErrorIs(t, err, model.ErrForbidden)

		var appErr *model.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "LAST_SUPER_ADMIN", appErr.Code)
	})

	t.Run("異常系: 最後の有効なスーパー管理者は無効化できない", func(t *testing.T) {
		f := newPlatformFixture()
		adminID := f.addRestaurant(t, "admin", model.RoleSuperAdmin, true)
		// 無効な管理者が他に居ても「有効な」管理者が残らなければ拒否
		f.addRestaurant(t, "retired", model.RoleSuperAdmin, false)

		err := f.svc.SetTenantActive(ctx, adminID, false)
		assert.ErrorIs(t, err, model.ErrForbidden)
	})

	t.Run("正常系: 他に有効なスーパー管理者が居れば降格できる", func(t *testing.T) {
		f := newPlatformFixture()
		adminID := f.addRestaurant(t, "admin", model.RoleSuperAdmin, true)
		f.addRestaurant(t, "backup", model.RoleSuperAdmin, true)

		require.NoError(t, f.svc.SetTenantRole(ctx, adminID, model.RoleRestaurantOwner))

		profiles, err := f.svc.ListUsers(ctx)
		require.NoError(t, err)
		for _, p := range profiles {
			if p.TenantID == adminID {
				assert.Equal(t, model.RoleRestaurantOwner, p.Role)
			}
		}
	})

	t.Run("正常系: 一般オーナーの無効化は通る", func(t *testing.T) {
		f := newPlatformFixture()
		f.addRestaurant(t, "admin", model.RoleSuperAdmin, true)
		ownerID := f.addRestaurant(t, "owner", model.RoleRestaurantOwner, true)

		require.NoError(t, f.svc.SetTenantActive(ctx, ownerID, false))
	})

	t.Run("異常系: 不明なロールは ErrInvalidInput", func(t *testing.T) {
		f := newPlatformFixture()
		ownerID := f.addRestaurant(t, "owner", model.RoleRestaurantOwner, true)

		err := f.svc.SetTenantRole(ctx, ownerID, model.Role("emperor"))
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}
