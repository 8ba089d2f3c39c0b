// internal/service/menu_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"menu_admin/internal/docstore"
	"menu_admin/internal/middleware"
	"menu_admin/internal/model"
	"menu_admin/internal/repository"

	"github.com/google/uuid"
)

// MenuService はカテゴリとメニュー項目のユースケースを束ねる。
// カテゴリ名はメニュー項目側に非正規化しているため、
// 名前変更・カテゴリ付け替え時の追随更新はこの層の責務。
type MenuService interface {
	ListCategories(ctx context.Context, tenantID uuid.UUID) ([]*model.Category, error)
	GetCategory(ctx context.Context, tenantID uuid.UUID, categoryID string) (*model.Category, error)
	CreateCategory(ctx context.Context, tenantID uuid.UUID, req *model.CreateCategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, tenantID uuid.UUID, categoryID string, req *model.UpdateCategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, tenantID uuid.UUID, categoryID string) error
	SubscribeCategories(ctx context.Context, tenantID uuid.UUID, fn func([]*model.Category)) (docstore.Unsubscribe, error)

	ListMenuItems(ctx context.Context, tenantID uuid.UUID) ([]*model.MenuItem, error)
	GetMenuItem(ctx context.Context, tenantID uuid.UUID, itemID string) (*model.MenuItem, error)
	CreateMenuItem(ctx context.Context, tenantID uuid.UUID, req *model.CreateMenuItemRequest) (*model.MenuItem, error)
	UpdateMenuItem(ctx context.Context, tenantID uuid.UUID, itemID string, req *model.UpdateMenuItemRequest) (*model.MenuItem, error)
	DeleteMenuItem(ctx context.Context, tenantID uuid.UUID, itemID string) error
	SubscribeMenuItems(ctx context.Context, tenantID uuid.UUID, fn func([]*model.MenuItem)) (docstore.Unsubscribe, error)
}

type menuService struct {
	categoryRepo repository.CategoryRepository
	menuItemRepo repository.MenuItemRepository
}

func NewMenuService(categoryRepo repository.CategoryRepository, menuItemRepo repository.MenuItemRepository) MenuService {
	return &menuService{
		categoryRepo: categoryRepo,
		menuItemRepo: menuItemRepo,
	}
}

func (s *menuService) ListCategories(ctx context.Context, tenantID uuid.UUID) ([]*model.Category, error) {
	categories, err := s.categoryRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("menuService.ListCategories: %w", err)
	}
	return categories, nil
}

func (s *menuService) GetCategory(ctx context.Context, tenantID uuid.UUID, categoryID string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, tenantID, categoryID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("CATEGORY_NOT_FOUND", "Category not found.", "", model.ErrNotFound)
		}
		return nil, fmt.Errorf("menuService.GetCategory: %w", err)
	}
	return category, nil
}

// CreateCategory は表示順を「現在の件数+1」で採番する。
// 削除で欠番が出ても振り直しはしない。
func (s *menuService) CreateCategory(ctx context.Context, tenantID uuid.UUID, req *model.CreateCategoryRequest) (*model.Category, error) {
	existing, err := s.categoryRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("menuService.CreateCategory: %w", err)
	}

	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		Visible:     visible,
		Order:       len(existing) + 1,
		Image:       req.Image,
	}
	created, err := s.categoryRepo.Create(ctx, tenantID, category)
	if err != nil {
		return nil, fmt.Errorf("menuService.CreateCategory: %w", err)
	}
	return created, nil
}

func (s *menuService) UpdateCategory(ctx context.Context, tenantID uuid.UUID, categoryID string, req *model.UpdateCategoryRequest) (*model.Category, error) {
	logger := middleware.GetLogger(ctx)

	current, err := s.categoryRepo.FindByID(ctx, tenantID, categoryID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("CATEGORY_NOT_FOUND", "Category not found.", "", model.ErrNotFound)
		}
		return nil, fmt.Errorf("menuService.UpdateCategory: %w", err)
	}

	// 同名でも指定されたフィールドは書き込む（updatedAt を進めるため）。
	// ファンアウトは実際に名前が変わったときだけ。
	updates := map[string]interface{}{}
	renamed := false
	if req.Name != nil {
		updates["name"] = *req.Name
		renamed = *req.Name != current.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Visible != nil {
		updates["visible"] = *req.Visible
	}
	if req.Order != nil {
		updates["order"] = *req.Order
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}

	if err := s.categoryRepo.Update(ctx, tenantID, categoryID, updates); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("CATEGORY_NOT_FOUND", "Category not found.", "", model.ErrNotFound)
		}
		return nil, fmt.Errorf("menuService.UpdateCategory: %w", err)
	}

	// 名前が変わったら非正規化済みの categoryName を項目側へファンアウトする
	if renamed {
		if err := s.propagateCategoryName(ctx, tenantID, categoryID, *req.Name); err != nil {
			logger.Error("Failed to propagate category rename to menu items",
				"error", err,
				"category_id", categoryID,
			)
			return nil, fmt.Errorf("menuService.UpdateCategory: %w", err)
		}
	}

	return s.categoryRepo.FindByID(ctx, tenantID, categoryID)
}

func (s *menuService) propagateCategoryName(ctx context.Context, tenantID uuid.UUID, categoryID, name string) error {
	items, err := s.menuItemRepo.ListByCategory(ctx, tenantID, categoryID)
	if err != nil {
		return err
	}
	for _, item := range items {
		err := s.menuItemRepo.Update(ctx, tenantID, item.ItemID, map[string]interface{}{
			"categoryName": name,
		})
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}
	}
	return nil
}

// DeleteCategory は参照しているメニュー項目が1件でも残っていれば削除を拒否する。
// 存在確認と削除の間は非アトミックなので、競合時は孤児項目が残り得る（許容）。
func (s *menuService) DeleteCategory(ctx context.Context, tenantID uuid.UUID, categoryID string) error {
	if _, err := s.categoryRepo.FindByID(ctx, tenantID, categoryID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("CATEGORY_NOT_FOUND", "Category not found.", "", model.ErrNotFound)
		}
		return fmt.Errorf("menuService.DeleteCategory: %w", err)
	}

	items, err := s.menuItemRepo.ListByCategory(ctx, tenantID, categoryID)
	if err != nil {
		return fmt.Errorf("menuService.DeleteCategory: %w", err)
	}
	if len(items) > 0 {
		return model.NewAppError(
			"CATEGORY_HAS_ITEMS",
			fmt.Sprintf("Cannot delete category: %d menu item(s) still reference it.", len(items)),
			"",
			model.ErrHasDependents,
		)
	}

	if err := s.categoryRepo.Delete(ctx, tenantID, categoryID); err != nil {
		return fmt.Errorf("menuService.DeleteCategory: %w", err)
	}
	return nil
}

func (s *menuService) SubscribeCategories(ctx context.Context, tenantID uuid.UUID, fn func([]*model.Category)) (docstore.Unsubscribe, error) {
	return s.categoryRepo.Subscribe(ctx, tenantID, fn)
}

func (s *menuService) ListMenuItems(ctx context.Context, tenantID uuid.UUID) ([]*model.MenuItem, error) {
	items, err := s.menuItemRepo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("menuService.ListMenuItems: %w", err)
	}
	return items, nil
}

func (s *menuService) GetMenuItem(ctx context.Context, tenantID uuid.UUID, itemID string) (*model.MenuItem, error) {
	item, err := s.menuItemRepo.FindByID(ctx, tenantID, itemID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("MENU_ITEM_NOT_FOUND", "Menu item not found.", "", model.ErrNotFound)
		}
		return nil, fmt.Errorf("menuService.GetMenuItem: %w", err)
	}
	return item, nil
}

// CreateMenuItem は参照先カテゴリの存在を確認し、カテゴリ名を書き込み時に非正規化する
func (s *menuService) CreateMenuItem(ctx context.Context, tenantID uuid.UUID, req *model.CreateMenuItemRequest) (*model.MenuItem, error) {
	category, err := s.categoryRepo.FindByID(ctx, tenantID, req.CategoryID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("CATEGORY_NOT_FOUND", "Referenced category not found.", "category_id", model.ErrInvalidInput)
		}
		return nil, fmt.Errorf("menuService.CreateMenuItem: %w", err)
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	featured := false
	if req.Featured != nil {
		featured = *req.Featured
	}

	item := &model.MenuItem{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		CategoryID:   category.CategoryID,
		CategoryName: category.Name,
		Image:        req.Image,
		Available:    available,
		Featured:     featured,
	}
	created, err := s.menuItemRepo.Create(ctx, tenantID, item)
	if err != nil {
		return nil, fmt.Errorf("menuService.CreateMenuItem: %w", err)
	}
	return created, nil
}

func (s *menuService) UpdateMenuItem(ctx context.Context, tenantID uuid.UUID, itemID string, req *model.UpdateMenuItemRequest) (*model.MenuItem, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}

	// カテゴリ付け替え時は新カテゴリの存在確認と categoryName の取り直しを行う
	if req.CategoryID != nil {
		category, err := s.categoryRepo.FindByID(ctx, tenantID, *req.CategoryID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, model.NewAppError("CATEGORY_NOT_FOUND", "Referenced category not found.", "category_id", model.ErrInvalidInput)
			}
			return nil, fmt.Errorf("menuService.UpdateMenuItem: %w", err)
		}
		updates["categoryId"] = category.CategoryID
		updates["categoryName"] = category.Name
	}

	if err := s.menuItemRepo.Update(ctx, tenantID, itemID, updates); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("MENU_ITEM_NOT_FOUND", "Menu item not found.", "", model.ErrNotFound)
		}
		return nil, fmt.Errorf("menuService.UpdateMenuItem: %w", err)
	}

	return s.menuItemRepo.FindByID(ctx, tenantID, itemID)
}

func (s *menuService) DeleteMenuItem(ctx context.Context, tenantID uuid.UUID, itemID string) error {
	if _, err := s.menuItemRepo.FindByID(ctx, tenantID, itemID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("MENU_ITEM_NOT_FOUND", "Menu item not found.", "", model.ErrNotFound)
		}
		return fmt.Errorf("menuService.DeleteMenuItem: %w", err)
	}
	if err := s.menuItemRepo.Delete(ctx, tenantID, itemID); err != nil {
		return fmt.Errorf("menuService.DeleteMenuItem: %w", err)
	}
	return nil
}

func (s *menuService) SubscribeMenuItems(ctx context.Context, tenantID uuid.UUID, fn func([]*model.MenuItem)) (docstore.Unsubscribe, error) {
	return s.menuItemRepo.Subscribe(ctx, tenantID, fn)
}
