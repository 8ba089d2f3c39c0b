// internal/service/profile_service.go
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

// ProfileService はテナント自身のプロフィール操作
type ProfileService interface {
	// GetProfile はプロフィールを返す。未作成なら既定値で作成してから返す。
	GetProfile(ctx context.Context, tenantID uuid.UUID) (*model.UserProfile, error)
	UpdateProfile(ctx context.Context, tenantID uuid.UUID, req *model.UpdateProfileRequest) (*model.UserProfile, error)
	Subscribe(ctx context.Context, tenantID uuid.UUID, fn func(*model.UserProfile)) (docstore.Unsubscribe, error)
}

type profileService struct {
	profileRepo    repository.ProfileRepository
	credentialRepo repository.CredentialRepository
}

func NewProfileService(profileRepo repository.ProfileRepository, credentialRepo repository.CredentialRepository) ProfileService {
	return &profileService{
		profileRepo:    profileRepo,
		credentialRepo: credentialRepo,
	}
}

func (s *profileService) GetProfile(ctx context.Context, tenantID uuid.UUID) (*model.UserProfile, error) {
	logger := middleware.GetLogger(ctx)

	profile, err := s.profileRepo.FindByTenantID(ctx, tenantID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("profileService.GetProfile: %w", err)
	}

	// 認証は通っているがプロフィールが無い場合は既定値で補完する。
	// 通常は登録時に作成済みなので、これは復旧経路。
	logger.Warn("Profile missing for authenticated tenant, creating default", "tenant_id", tenantID.String())

	// メールアドレスは認証情報から引き直す。引けなくても補完自体は続行する。
	email := ""
	credential, err := s.credentialRepo.FindByTenantID(ctx, tenantID)
	switch {
	case err == nil:
		email = credential.Email
	case !errors.Is(err, model.ErrNotFound):
		logger.Warn("Could not resolve email for default profile",
			"error", err,
			"tenant_id", tenantID.String(),
		)
	}

	defaultProfile := &model.UserProfile{
		TenantID:       tenantID,
		Email:          email,
		RestaurantName: "My Restaurant",
		Role:           model.RoleRestaurantOwner,
		IsActive:       true,
	}
	if err := s.profileRepo.Create(ctx, defaultProfile); err != nil {
		return nil, fmt.Errorf("profileService.GetProfile: %w", err)
	}
	return defaultProfile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, tenantID uuid.UUID, req *model.UpdateProfileRequest) (*model.UserProfile, error) {
	updates := map[string]interface{}{}
	if req.RestaurantName != nil {
		updates["restaurantName"] = *req.RestaurantName
	}
	if req.WebsiteURL != nil {
		updates["websiteUrl"] = *req.WebsiteURL
	}
	if req.QRCodeImage != nil {
		updates["qrCodeImage"] = *req.QRCodeImage
	}

	if err := s.profileRepo.Update(ctx, tenantID, updates); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("PROFILE_NOT_FOUND", "Profile not found.", "", model.ErrNotFound)
		}
		return nil, fmt.Errorf("profileService.UpdateProfile: %w", err)
	}
	return s.profileRepo.FindByTenantID(ctx, tenantID)
}

func (s *profileService) Subscribe(ctx context.Context, tenantID uuid.UUID, fn func(*model.UserProfile)) (docstore.Unsubscribe, error) {
	return s.profileRepo.Subscribe(ctx, tenantID, fn)
}
