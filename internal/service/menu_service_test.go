// internal/service/menu_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"menu_admin/internal/docstore"
	"menu_admin/internal/model"
	"menu_admin/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMenuServiceForTest() (MenuService, uuid.UUID) {
	store := docstore.NewMemoryStore()
	return NewMenuService(
		repository.NewDocCategoryRepository(store),
		repository.NewDocMenuItemRepository(store),
	), uuid.New()
}

func TestMenuService_CreateCategory(t *testing.T) {
	ctx := context.Background()
	svc, tenantID := newMenuServiceForTest()

	t.Run("正常系: 表示順は件数+1で採番、visible省略時はtrue", func(t *testing.T) {
		first, err := svc.CreateCategory(ctx, tenantID, &model.CreateCategoryRequest{Name: "前菜"})
		require.NoError(t, err)
		assert.Equal(t, 1, first.Order)
		assert.True(t, first.Visible)

		second, err := svc.CreateCategory(ctx, tenantID, &model.CreateCategoryRequest{Name: "主菜"})
		require.NoError(t, err)
		assert.Equal(t, 2, second.Order)
	})
}

func TestMenuService_DeleteCategoryGuard(t *testing.T) {
	ctx := context.Background()
	svc, tenantID := newMenuServiceForTest()

	category, err := svc.CreateCategory(ctx, tenantID, &model.CreateCategoryRequest{Name: "ドリンク"})
	require.NoError(t, err)

	item, err := svc.CreateMenuItem(ctx, tenantID, &model.CreateMenuItemRequest{
		Name:       "コーヒー",
		Price:      500,
		CategoryID: category.CategoryID,
	})
	require.NoError(t, err)

	t.Run("異常系: 参照するメニュー項目が残っている間は削除できない", func(t *testing.T) {
		err := svc.DeleteCategory(ctx, tenantID, category.CategoryID)
		assert.ErrorIs(t, err, model.ErrHasDependents)

		var appErr *model.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "CATEGORY_HAS_ITEMS", appErr.Code)
	})

	t.Run("正常系: 項目を消せば削除できる", func(t *testing.T) {
		require.NoError(t, svc.DeleteMenuItem(ctx, tenantID, item.ItemID))
		require.NoError(t, svc.DeleteCategory(ctx, tenantID, category.CategoryID))

		_, err := svc.GetCategory(ctx, tenantID, category.CategoryID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("異常系: 存在しないカテゴリの削除は ErrNotFound", func(t *testing.T) {
		err := svc.DeleteCategory(ctx, tenantID, "missing")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestMenuService_UpdateCategorySameName(t *testing.T) {
	ctx := context.Background()
	svc, tenantID := newMenuServiceForTest()

	category, err := svc.CreateCategory(ctx, tenantID, &model.CreateCategoryRequest{Name: "サイド"})
	require.NoError(t, err)

	// 同じ名前でのPATCHでも更新として扱い、updatedAt は進む
	time.Sleep(10 * time.Millisecond)
	sameName := category.Name
	updated, err := svc.UpdateCategory(ctx, tenantID, category.CategoryID, &model.UpdateCategoryRequest{Name: &sameName})
	require.NoError(t, err)
	assert.Equal(t, "サイド", updated.Name)
	assert.True(t, updated.UpdatedAt.After(category.UpdatedAt))
	assert.Equal(t, category.CreatedAt, updated.CreatedAt)
}

func TestMenuService_CategoryRenamePropagation(t *testing.T) {
	ctx := context.Background()
	svc, tenantID := newMenuServiceForTest()

	category, err := svc.CreateCategory(ctx, tenantID, &model.CreateCategoryRequest{Name: "麺類"})
	require.NoError(t, err)
	other, err := svc.CreateCategory(ctx, tenantID, &model.CreateCategoryRequest{Name: "ご飯もの"})
	require.NoError(t, err)

	ramen, err := svc.CreateMenuItem(ctx, tenantID, &model.CreateMenuItemRequest{
		Name: "ラーメン", Price: 900, CategoryID: category.CategoryID,
	})
	require.NoError(t, err)
	udon, err := svc.CreateMenuItem(ctx, tenantID, &model.CreateMenuItemRequest{
		Name: "うどん", Price: 700, CategoryID: category.CategoryID,
	})
	require.NoError(t, err)
	curry, err := svc.CreateMenuItem(ctx, tenantID, &model.CreateMenuItemRequest{
		Name: "カレー", Price: 800, CategoryID: other.CategoryID,
	})
	require.NoError(t, err)

	// 作成時点で非正規化されたカテゴリ名が入っている
	assert.Equal(t, "麺類", ramen.CategoryName)

	newName := "麺メニュー"
	_, err = svc.UpdateCategory(ctx, tenantID, category.CategoryID, &model.UpdateCategoryRequest{Name: &newName})
	require.NoError(t, err)

	for _, itemID := range []string{ramen.ItemID, udon.ItemID} {
		item, err := svc.GetMenuItem(ctx, tenantID, itemID)
		require.NoError(t, err)
		assert.Equal(t, "麺メニュー", item.CategoryName)
	}

	// 別カテゴリの項目は影響を受けない
	item, err := svc.GetMenuItem(ctx, tenantID, curry.ItemID)
	require.NoError(t, err)
	assert.Equal(t, "ご飯もの", item.CategoryName)
}

func TestMenuService_CreateMenuItem(t *testing.T) {
	ctx := context.Background()
	svc, tenantID := newMenuServiceForTest()

	category, err := svc.CreateCategory(ctx, tenantID, &model.CreateCategoryRequest{Name: "定食"})
	require.NoError(t, err)

	t.Run("正常系: available省略時true、featured省略時false", func(t *testing.T) {
		item, err := svc.CreateMenuItem(ctx, tenantID, &model.CreateMenuItemRequest{
			Name: "焼き魚定食", Price: 1200, CategoryID: category.CategoryID,
		})
		require.NoError(t, err)
		assert.True(t, item.Available)
		assert.False(t, item.Featured)
		assert.Equal(t, "定食", item.CategoryName)
	})

	t.Run("異常系: 存在しないカテゴリを参照すると ErrInvalidInput", func(t *testing.T) {
		_, err := svc.CreateMenuItem(ctx, tenantID, &model.CreateMenuItemRequest{
			Name: "幻のメニュー", Price: 100, CategoryID: "missing",
		})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestMenuService_UpdateMenuItemCategoryChange(t *testing.T) {
	ctx := context.Background()
	svc, tenantID := newMenuServiceForTest()

	from, err := svc.CreateCategory(ctx, tenantID, &model.CreateCategoryRequest{Name: "ランチ"})
	require.NoError(t, err)
	to, err := svc.CreateCategory(ctx, tenantID, &model.CreateCategoryRequest{Name: "ディナー"})
	require.NoError(t, err)

	item, err := svc.CreateMenuItem(ctx, tenantID, &model.CreateMenuItemRequest{
		Name: "ステーキ", Price: 3000, CategoryID: from.CategoryID,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateMenuItem(ctx, tenantID, item.ItemID, &model.UpdateMenuItemRequest{
		CategoryID: &to.CategoryID,
	})
	require.NoError(t, err)
	assert.Equal(t, to.CategoryID, updated.CategoryID)
	assert.Equal(t, "ディナー", updated.CategoryName)
}
