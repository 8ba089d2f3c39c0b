// internal/repository/menuitem_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"menu_admin/internal/docstore"
	"menu_admin/internal/middleware"
	"menu_admin/internal/model"

	"github.com/google/uuid"
)

// MenuItemRepository はテナント単位のメニュー項目操作
type MenuItemRepository interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]*model.MenuItem, error)
	ListByCategory(ctx context.Context, tenantID uuid.UUID, categoryID string) ([]*model.MenuItem, error)
	FindByID(ctx context.Context, tenantID uuid.UUID, itemID string) (*model.MenuItem, error)
	Create(ctx context.Context, tenantID uuid.UUID, item *model.MenuItem) (*model.MenuItem, error)
	Update(ctx context.Context, tenantID uuid.UUID, itemID string, updates map[string]interface{}) error
	Delete(ctx context.Context, tenantID uuid.UUID, itemID string) error
	Subscribe(ctx context.Context, tenantID uuid.UUID, fn func([]*model.MenuItem)) (docstore.Unsubscribe, error)
}

type docMenuItemRepository struct {
	store docstore.Store
}

func NewDocMenuItemRepository(store docstore.Store) MenuItemRepository {
	return &docMenuItemRepository{store: store}
}

// メニュー項目は作成日時の降順で一覧する
func menuItemListQuery(tenantID uuid.UUID) docstore.Query {
	return docstore.Query{
		CollectionPath: menuItemsPath(tenantID),
		Orders:         []docstore.Order{{Field: "createdAt", Desc: true}},
	}
}

func decodeMenuItems(docs []docstore.Document) []*model.MenuItem {
	items := make([]*model.MenuItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, decodeMenuItem(doc.ID, doc.Data))
	}
	return items
}

func (r *docMenuItemRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*model.MenuItem, error) {
	logger := middleware.GetLogger(ctx)

	docs, err := r.store.GetDocs(ctx, menuItemListQuery(tenantID))
	if err != nil {
		logger.Error("Error listing menu items in store",
			"error", err,
			"tenant_id", tenantID.String(),
		)
		return nil, fmt.Errorf("docMenuItemRepository.List: %w", err)
	}
	return decodeMenuItems(docs), nil
}

// ListByCategory はカテゴリ削除ガードの依存チェックに使う
func (r *docMenuItemRepository) ListByCategory(ctx context.Context, tenantID uuid.UUID, categoryID string) ([]*model.MenuItem, error) {
	logger := middleware.GetLogger(ctx)

	docs, err := r.store.GetDocs(ctx, docstore.Query{
		CollectionPath: menuItemsPath(tenantID),
		Filters:        []docstore.Filter{{Field: "categoryId", Op: "==", Value: categoryID}},
	})
	if err != nil {
		logger.Error("Error listing menu items by category in store",
			"error", err,
			"tenant_id", tenantID.String(),
			"category_id", categoryID,
		)
		return nil, fmt.Errorf("docMenuItemRepository.ListByCategory: %w", err)
	}
	return decodeMenuItems(docs), nil
}

func (r *docMenuItemRepository) FindByID(ctx context.Context, tenantID uuid.UUID, itemID string) (*model.MenuItem, error) {
	logger := middleware.GetLogger(ctx)

	data, err := r.store.GetDoc(ctx, menuItemDocPath(tenantID, itemID))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding menu item in store",
			"error", err,
			"tenant_id", tenantID.String(),
			"item_id", itemID,
		)
		return nil, fmt.Errorf("docMenuItemRepository.FindByID: %w", err)
	}
	return decodeMenuItem(itemID, data), nil
}

func (r *docMenuItemRepository) Create(ctx context.Context, tenantID uuid.UUID, item *model.MenuItem) (*model.MenuItem, error) {
	logger := middleware.GetLogger(ctx)

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	id, err := r.store.AddDoc(ctx, menuItemsPath(tenantID), encodeMenuItem(item))
	if err != nil {
		logger.Error("Error creating menu item in store",
			"error", err,
			"tenant_id", tenantID.String(),
			"name", item.Name,
		)
		return nil, fmt.Errorf("docMenuItemRepository.Create: %w", err)
	}
	item.ItemID = id
	return item, nil
}

func (r *docMenuItemRepository) Update(ctx context.Context, tenantID uuid.UUID, itemID string, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	updates["updatedAt"] = time.Now()

	err := r.store.UpdateDoc(ctx, menuItemDocPath(tenantID, itemID), updates)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return model.ErrNotFound
		}
		logger.Error("Error updating menu item in store",
			"error", err,
			"tenant_id", tenantID.String(),
			"item_id", itemID,
		)
		return fmt.Errorf("docMenuItemRepository.Update: %w", err)
	}
	return nil
}

func (r *docMenuItemRepository) Delete(ctx context.Context, tenantID uuid.UUID, itemID string) error {
	logger := middleware.GetLogger(ctx)

	if err := r.store.DeleteDoc(ctx, menuItemDocPath(tenantID, itemID)); err != nil {
		logger.Error("Error deleting menu item in store",
			"error", err,
			"tenant_id", tenantID.String(),
			"item_id", itemID,
		)
		return fmt.Errorf("docMenuItemRepository.Delete: %w", err)
	}
	return nil
}

func (r *docMenuItemRepository) Subscribe(ctx context.Context, tenantID uuid.UUID, fn func([]*model.MenuItem)) (docstore.Unsubscribe, error) {
	logger := middleware.GetLogger(ctx)

	unsubscribe, err := r.store.Snapshots(ctx, menuItemListQuery(tenantID), func(docs []docstore.Document) {
		fn(decodeMenuItems(docs))
	})
	if err != nil {
		logger.Error("Error subscribing to menu items",
			"error", err,
			"tenant_id", tenantID.String(),
		)
		return nil, fmt.Errorf("docMenuItemRepository.Subscribe: %w", err)
	}
	return unsubscribe, nil
}
