// internal/repository/credential_repository.go
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

// CredentialRepository はメールアドレスをキーにした認証情報の操作
type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.Credential, error)
	FindByTenantID(ctx context.Context, tenantID uuid.UUID) (*model.Credential, error)
	Create(ctx context.Context, credential *model.Credential) error
	UpdatePasswordHash(ctx context.Context, email string, passwordHash string) error
}

type docCredentialRepository struct {
	store docstore.Store
}

func NewDocCredentialRepository(store docstore.Store) CredentialRepository {
	return &docCredentialRepository{store: store}
}

func (r *docCredentialRepository) FindByEmail(ctx context.Context, email string) (*model.Credential, error) {
	logger := middleware.GetLogger(ctx)

	data, err := r.store.GetDoc(ctx, credentialDocPath(email))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding credential in store",
			"error", err,
			"email", email,
		)
		return nil, fmt.Errorf("docCredentialRepository.FindByEmail: %w", err)
	}

	credential, err := decodeCredential(email, data)
	if err != nil {
		logger.Error("Error decoding credential",
			"error", err,
			"email", email,
		)
		return nil, fmt.Errorf("docCredentialRepository.FindByEmail: %w", err)
	}
	return credential, nil
}

// FindByTenantID はテナントIDから認証情報を逆引きする
func (r *docCredentialRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID) (*model.Credential, error) {
	logger := middleware.GetLogger(ctx)

	docs, err := r.store.GetDocs(ctx, docstore.Query{
		CollectionPath: credentialsCollection,
		Filters:        []docstore.Filter{{Field: "tenantId", Op: "==", Value: tenantID.String()}},
	})
	if err != nil {
		logger.Error("Error finding credential by tenant in store",
			"error", err,
			"tenant_id", tenantID.String(),
		)
		return nil, fmt.Errorf("docCredentialRepository.FindByTenantID: %w", err)
	}
	if len(docs) == 0 {
		return nil, model.ErrNotFound
	}

	credential, err := decodeCredential(docs[0].ID, docs[0].Data)
	if err != nil {
		logger.Error("Error decoding credential",
			"error", err,
			"tenant_id", tenantID.String(),
		)
		return nil, fmt.Errorf("docCredentialRepository.FindByTenantID: %w", err)
	}
	return credential, nil
}

// Create は同一メールアドレスの既存登録があれば ErrConflict を返す
func (r *docCredentialRepository) Create(ctx context.Context, credential *model.Credential) error {
	logger := middleware.GetLogger(ctx)

	if _, err := r.store.GetDoc(ctx, credentialDocPath(credential.Email)); err == nil {
		return model.ErrConflict
	} else if !errors.Is(err, docstore.ErrNotFound) {
		logger.Error("Error checking existing credential in store",
			"error", err,
			"email", credential.Email,
		)
		return fmt.Errorf("docCredentialRepository.Create: %w", err)
	}

	now := time.Now()
	credential.CreatedAt = now
	credential.UpdatedAt = now

	if err := r.store.SetDoc(ctx, credentialDocPath(credential.Email), encodeCredential(credential)); err != nil {
		logger.Error("Error creating credential in store",
			"error", err,
			"email", credential.Email,
		)
		return fmt.Errorf("docCredentialRepository.Create: %w", err)
	}
	return nil
}

func (r *docCredentialRepository) UpdatePasswordHash(ctx context.Context, email string, passwordHash string) error {
	logger := middleware.GetLogger(ctx)

	err := r.store.UpdateDoc(ctx, credentialDocPath(email), map[string]interface{}{
		"passwordHash": passwordHash,
		"updatedAt":    time.Now(),
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return model.ErrNotFound
		}
		logger.Error("Error updating password hash in store",
			"error", err,
			"email", email,
		)
		return fmt.Errorf("docCredentialRepository.UpdatePasswordHash: %w", err)
	}
	return nil
}
