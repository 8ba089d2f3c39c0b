// internal/repository/category_repository.go
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

// CategoryRepository はテナント単位のカテゴリ操作。
// 全操作が tenantID を先頭引数に取り、クエリは必ずそのテナントの名前空間に閉じる。
// 渡された tenantID 自体の認可チェックは上位層（ミドルウェア/ゲート）の責務。
type CategoryRepository interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]*model.Category, error)
	FindByID(ctx context.Context, tenantID uuid.UUID, categoryID string) (*model.Category, error)
	Create(ctx context.Context, tenantID uuid.UUID, category *model.Category) (*model.Category, error)
	Update(ctx context.Context, tenantID uuid.UUID, categoryID string, updates map[string]interface{}) error
	Delete(ctx context.Context, tenantID uuid.UUID, categoryID string) error
	Subscribe(ctx context.Context, tenantID uuid.UUID, fn func([]*model.Category)) (docstore.Unsubscribe, error)
}

type docCategoryRepository struct {
	store docstore.Store
}

func NewDocCategoryRepository(store docstore.Store) CategoryRepository {
	return &docCategoryRepository{store: store}
}

func categoryListQuery(tenantID uuid.UUID) docstore.Query {
	return docstore.Query{
		CollectionPath: categoriesPath(tenantID),
		Orders:         []docstore.Order{{Field: "order"}},
	}
}

func (r *docCategoryRepository) List(ctx context.Context, tenantID uuid.UUID) ([]*model.Category, error) {
	logger := middleware.GetLogger(ctx)

	docs, err := r.store.GetDocs(ctx, categoryListQuery(tenantID))
	if err != nil {
		logger.Error("Error listing categories in store",
			"error", err,
			"tenant_id", tenantID.String(),
		)
		return nil, fmt.Errorf("docCategoryRepository.List: %w", err)
	}

	categories := make([]*model.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, decodeCategory(doc.ID, doc.Data))
	}
	return categories, nil
}

func (r *docCategoryRepository) FindByID(ctx context.Context, tenantID uuid.UUID, categoryID string) (*model.Category, error) {
	logger := middleware.GetLogger(ctx)

	data, err := r.store.GetDoc(ctx, categoryDocPath(tenantID, categoryID))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding category in store",
			"error", err,
			"tenant_id", tenantID.String(),
			"category_id", categoryID,
		)
		return nil, fmt.Errorf("docCategoryRepository.FindByID: %w", err)
	}
	return decodeCategory(categoryID, data), nil
}

func (r *docCategoryRepository) Create(ctx context.Context, tenantID uuid.UUID, category *model.Category) (*model.Category, error) {
	logger := middleware.GetLogger(ctx)

	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	id, err := r.store.AddDoc(ctx, categoriesPath(tenantID), encodeCategory(category))
	if err != nil {
		logger.Error("Error creating category in store",
			"error", err,
			"tenant_id", tenantID.String(),
			"name", category.Name,
		)
		return nil, fmt.Errorf("docCategoryRepository.Create: %w", err)
	}
	category.CategoryID = id
	return category, nil
}

// Update は指定フィールドをマージし、updatedAt を常に更新する。
// categoryID / createdAt は上書き対象に含めないこと。
func (r *docCategoryRepository) Update(ctx context.Context, tenantID uuid.UUID, categoryID string, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	updates["updatedAt"] = time.Now()

	err := r.store.UpdateDoc(ctx, categoryDocPath(tenantID, categoryID), updates)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return model.ErrNotFound
		}
		logger.Error("Error updating category in store",
			"error", err,
			"tenant_id", tenantID.String(),
			"category_id", categoryID,
		)
		return fmt.Errorf("docCategoryRepository.Update: %w", err)
	}
	return nil
}

func (r *docCategoryRepository) Delete(ctx context.Context, tenantID uuid.UUID, categoryID string) error {
	logger := middleware.GetLogger(ctx)

	if err := r.store.DeleteDoc(ctx, categoryDocPath(tenantID, categoryID)); err != nil {
		logger.Error("Error deleting category in store",
			"error", err,
			"tenant_id", tenantID.String(),
			"category_id", categoryID,
		)
		return fmt.Errorf("docCategoryRepository.Delete: %w", err)
	}
	return nil
}

// Subscribe は List と同じ絞り込み・並び順のライブクエリを張る。
// 返却した Unsubscribe はちょうど1回呼び出して解放すること。
func (r *docCategoryRepository) Subscribe(ctx context.Context, tenantID uuid.UUID, fn func([]*model.Category)) (docstore.Unsubscribe, error) {
	logger := middleware.GetLogger(ctx)

	unsubscribe, err := r.store.Snapshots(ctx, categoryListQuery(tenantID), func(docs []docstore.Document) {
		categories := make([]*model.Category, 0, len(docs))
		for _, doc := range docs {
			categories = append(categories, decodeCategory(doc.ID, doc.Data))
		}
		fn(categories)
	})
	if err != nil {
		logger.Error("Error subscribing to categories",
			"error", err,
			"tenant_id", tenantID.String(),
		)
		return nil, fmt.Errorf("docCategoryRepository.Subscribe: %w", err)
	}
	return unsubscribe, nil
}
