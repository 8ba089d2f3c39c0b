// internal/repository/profile_repository.go
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

// ProfileRepository はテナントプロフィール（tenants/{tenantID} 直下のドキュメント）の操作。
// ListAll / ListByRoles だけがテナント横断で、プラットフォーム統計と権限管理からのみ使う。
type ProfileRepository interface {
	FindByTenantID(ctx context.Context, tenantID uuid.UUID) (*model.UserProfile, error)
	Create(ctx context.Context, profile *model.UserProfile) error
	Update(ctx context.Context, tenantID uuid.UUID, updates map[string]interface{}) error
	ListAll(ctx context.Context) ([]*model.UserProfile, error)
	ListByRoles(ctx context.Context, roles []model.Role) ([]*model.UserProfile, error)
	Subscribe(ctx context.Context, tenantID uuid.UUID, fn func(*model.UserProfile)) (docstore.Unsubscribe, error)
}

type docProfileRepository struct {
	store docstore.Store
}

func NewDocProfileRepository(store docstore.Store) ProfileRepository {
	return &docProfileRepository{store: store}
}

func (r *docProfileRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID) (*model.UserProfile, error) {
	logger := middleware.GetLogger(ctx)

	data, err := r.store.GetDoc(ctx, profileDocPath(tenantID))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding profile in store",
			"error", err,
			"tenant_id", tenantID.String(),
		)
		return nil, fmt.Errorf("docProfileRepository.FindByTenantID: %w", err)
	}
	return decodeProfile(tenantID, data), nil
}

func (r *docProfileRepository) Create(ctx context.Context, profile *model.UserProfile) error {
	logger := middleware.GetLogger(ctx)

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := r.store.SetDoc(ctx, profileDocPath(profile.TenantID), encodeProfile(profile)); err != nil {
		logger.Error("Error creating profile in store",
			"error", err,
			"tenant_id", profile.TenantID.String(),
		)
		return fmt.Errorf("docProfileRepository.Create: %w", err)
	}
	return nil
}

func (r *docProfileRepository) Update(ctx context.Context, tenantID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	updates["updatedAt"] = time.Now()

	err := r.store.UpdateDoc(ctx, profileDocPath(tenantID), updates)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return model.ErrNotFound
		}
		logger.Error("Error updating profile in store",
			"error", err,
			"tenant_id", tenantID.String(),
		)
		return fmt.Errorf("docProfileRepository.Update: %w", err)
	}
	return nil
}

func decodeProfiles(logger interface{ Warn(string, ...any) }, docs []docstore.Document) []*model.UserProfile {
	profiles := make([]*model.UserProfile, 0, len(docs))
	for _, doc := range docs {
		tenantID, err := uuid.Parse(doc.ID)
		if err != nil {
			// テナントIDとして解釈できないドキュメントは集計から除外する
			logger.Warn("Skipping tenant document with non-UUID id", "doc_id", doc.ID)
			continue
		}
		profiles = append(profiles, decodeProfile(tenantID, doc.Data))
	}
	return profiles
}

// ListAll は全テナントのプロフィールを登録日時の降順で返す
func (r *docProfileRepository) ListAll(ctx context.Context) ([]*model.UserProfile, error) {
	logger := middleware.GetLogger(ctx)

	docs, err := r.store.GetDocs(ctx, docstore.Query{
		CollectionPath: tenantsCollection,
		Orders:         []docstore.Order{{Field: "createdAt", Desc: true}},
	})
	if err != nil {
		logger.Error("Error listing all profiles in store", "error", err)
		return nil, fmt.Errorf("docProfileRepository.ListAll: %w", err)
	}
	return decodeProfiles(logger, docs), nil
}

func (r *docProfileRepository) ListByRoles(ctx context.Context, roles []model.Role) ([]*model.UserProfile, error) {
	logger := middleware.GetLogger(ctx)

	// ストア側の比較は文字列ベースなので model.Role のまま渡さない
	values := make([]string, 0, len(roles))
	for _, role := range roles {
		values = append(values, string(role))
	}

	docs, err := r.store.GetDocs(ctx, docstore.Query{
		CollectionPath: tenantsCollection,
		Filters:        []docstore.Filter{{Field: "role", Op: "in", Value: values}},
		Orders:         []docstore.Order{{Field: "createdAt", Desc: true}},
	})
	if err != nil {
		logger.Error("Error listing profiles by roles in store",
			"error", err,
			"roles", values,
		)
		return nil, fmt.Errorf("docProfileRepository.ListByRoles: %w", err)
	}
	return decodeProfiles(logger, docs), nil
}

// Subscribe は単一テナントのプロフィール変更を購読する。
// 購読はそのテナントのドキュメント1件だけに張り、他テナントの変更は一切見ない。
// ドキュメントが存在しない間は nil を配信する。
func (r *docProfileRepository) Subscribe(ctx context.Context, tenantID uuid.UUID, fn func(*model.UserProfile)) (docstore.Unsubscribe, error) {
	logger := middleware.GetLogger(ctx)

	unsubscribe, err := r.store.DocSnapshots(ctx, profileDocPath(tenantID), func(data map[string]interface{}) {
		if data == nil {
			fn(nil)
			return
		}
		fn(decodeProfile(tenantID, data))
	})
	if err != nil {
		logger.Error("Error subscribing to profile",
			"error", err,
			"tenant_id", tenantID.String(),
		)
		return nil, fmt.Errorf("docProfileRepository.Subscribe: %w", err)
	}
	return unsubscribe, nil
}
