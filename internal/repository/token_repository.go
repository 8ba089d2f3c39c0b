// internal/repository/token_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"menu_admin/internal/docstore"
	"menu_admin/internal/middleware"
	"menu_admin/internal/model"
)

// TokenRepository はパスワード再設定トークンの操作
type TokenRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (*model.PasswordResetToken, error)
	Delete(ctx context.Context, token string) error
}

type docTokenRepository struct {
	store docstore.Store
}

func NewDocTokenRepository(store docstore.Store) TokenRepository {
	return &docTokenRepository{store: store}
}

func (r *docTokenRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	logger := middleware.GetLogger(ctx)

	token.CreatedAt = time.Now()

	if err := r.store.SetDoc(ctx, resetTokenDocPath(token.Token), encodeResetToken(token)); err != nil {
		logger.Error("Error creating password reset token in store",
			"error", err,
			"tenant_id", token.TenantID.String(),
		)
		return fmt.Errorf("docTokenRepository.Create: %w", err)
	}
	return nil
}

func (r *docTokenRepository) FindByToken(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	logger := middleware.GetLogger(ctx)

	data, err := r.store.GetDoc(ctx, resetTokenDocPath(token))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding password reset token in store", "error", err)
		return nil, fmt.Errorf("docTokenRepository.FindByToken: %w", err)
	}

	resetToken, err := decodeResetToken(token, data)
	if err != nil {
		logger.Error("Error decoding password reset token", "error", err)
		return nil, fmt.Errorf("docTokenRepository.FindByToken: %w", err)
	}
	return resetToken, nil
}

func (r *docTokenRepository) Delete(ctx context.Context, token string) error {
	logger := middleware.GetLogger(ctx)

	if err := r.store.DeleteDoc(ctx, resetTokenDocPath(token)); err != nil {
		logger.Error("Error deleting password reset token in store", "error", err)
		return fmt.Errorf("docTokenRepository.Delete: %w", err)
	}
	return nil
}
