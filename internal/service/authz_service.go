// internal/service/authz_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"menu_admin/internal/model"
	"menu_admin/internal/repository"

	"github.com/google/uuid"
)

// AuthzService は権限判定の問い合わせ窓口。
// 判定のたびにストアを読み直すので、ロール変更は次の判定から即反映される。
type AuthzService interface {
	IsSuperAdmin(ctx context.Context, tenantID uuid.UUID) (bool, error)
	RoleOf(ctx context.Context, tenantID uuid.UUID) (model.Role, error)
}

type authzService struct {
	profileRepo repository.ProfileRepository
}

func NewAuthzService(profileRepo repository.ProfileRepository) AuthzService {
	return &authzService{profileRepo: profileRepo}
}

// IsSuperAdmin はプロフィール不在なら権限なしとして false を返す（エラーにしない）
func (s *authzService) IsSuperAdmin(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	profile, err := s.profileRepo.FindByTenantID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("authzService.IsSuperAdmin: %w", err)
	}
	return profile.Role == model.RoleSuperAdmin, nil
}

func (s *authzService) RoleOf(ctx context.Context, tenantID uuid.UUID) (model.Role, error) {
	profile, err := s.profileRepo.FindByTenantID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("authzService.RoleOf: %w", err)
	}
	return profile.Role, nil
}
