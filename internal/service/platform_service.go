// internal/service/platform_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"menu_admin/internal/middleware"
	"menu_admin/internal/model"
	"menu_admin/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// PlatformService はテナント横断の統計とテナント管理操作。
// スーパー管理者専用のAPIからのみ呼ばれる前提（認可はミドルウェアが担う）。
type PlatformService interface {
	// ListRestaurants は既知ロールのテナントを返す（ロール不明のドキュメントは除外）
	ListRestaurants(ctx context.Context) ([]*model.UserProfile, error)
	// ListUsers はロールを問わず全テナントを返す
	ListUsers(ctx context.Context) ([]*model.UserProfile, error)
	StatsFor(ctx context.Context, tenantID uuid.UUID) (*model.RestaurantStats, error)
	AllStats(ctx context.Context) ([]*model.RestaurantStats, error)
	PlatformSummary(ctx context.Context) (*model.PlatformStats, error)
	SetTenantRole(ctx context.Context, tenantID uuid.UUID, role model.Role) error
	SetTenantActive(ctx context.Context, tenantID uuid.UUID, isActive bool) error
}

type platformService struct {
	profileRepo  repository.ProfileRepository
	categoryRepo repository.CategoryRepository
	menuItemRepo repository.MenuItemRepository
}

func NewPlatformService(
	profileRepo repository.ProfileRepository,
	categoryRepo repository.CategoryRepository,
	menuItemRepo repository.MenuItemRepository,
) PlatformService {
	return &platformService{
		profileRepo:  profileRepo,
		categoryRepo: categoryRepo,
		menuItemRepo: menuItemRepo,
	}
}

func (s *platformService) ListRestaurants(ctx context.Context) ([]*model.UserProfile, error) {
	profiles, err := s.profileRepo.ListByRoles(ctx, []model.Role{model.RoleRestaurantOwner, model.RoleSuperAdmin})
	if err != nil {
		return nil, fmt.Errorf("platformService.ListRestaurants: %w", err)
	}
	return profiles, nil
}

func (s *platformService) ListUsers(ctx context.Context) ([]*model.UserProfile, error) {
	profiles, err := s.profileRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("platformService.ListUsers: %w", err)
	}
	return profiles, nil
}

// StatsFor は1テナント分を集計する。カテゴリとメニュー項目は並行で読む。
func (s *platformService) StatsFor(ctx context.Context, tenantID uuid.UUID) (*model.RestaurantStats, error) {
	profile, err := s.profileRepo.FindByTenantID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("RESTAURANT_NOT_FOUND", "Restaurant not found.", "", model.ErrNotFound)
		}
		return nil, fmt.Errorf("platformService.StatsFor: %w", err)
	}
	return s.statsForProfile(ctx, profile)
}

func (s *platformService) statsForProfile(ctx context.Context, profile *model.UserProfile) (*model.RestaurantStats, error) {
	var (
		categories []*model.Category
		items      []*model.MenuItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.categoryRepo.List(gctx, profile.TenantID)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.menuItemRepo.List(gctx, profile.TenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("platformService.statsForProfile: %w", err)
	}

	activeItems := 0
	for _, item := range items {
		if item.Available {
			activeItems++
		}
	}

	return &model.RestaurantStats{
		TenantID:        profile.TenantID,
		RestaurantName:  profile.RestaurantName,
		Email:           profile.Email,
		IsActive:        profile.IsActive,
		TotalCategories: len(categories),
		TotalMenuItems:  len(items),
		ActiveMenuItems: activeItems,
		CreatedAt:       profile.CreatedAt,
		LastUpdated:     profile.UpdatedAt,
	}, nil
}

// AllStats は全テナントへファンアウトして集計する。
// 1テナントでも失敗したら全体を失敗させる（部分的な統計は返さない）。
func (s *platformService) AllStats(ctx context.Context) ([]*model.RestaurantStats, error) {
	logger := middleware.GetLogger(ctx)

	profiles, err := s.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("platformService.AllStats: %w", err)
	}

	stats := make([]*model.RestaurantStats, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	for i, profile := range profiles {
		i, profile := i, profile
		g.Go(func() error {
			st, err := s.statsForProfile(gctx, profile)
			if err != nil {
				return err
			}
			stats[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Platform stats aggregation failed", "error", err, "restaurants", len(profiles))
		return nil, fmt.Errorf("platformService.AllStats: %w", err)
	}
	return stats, nil
}

// PlatformSummary は全テナント統計を合算する。テナント0件なら全てゼロ。
func (s *platformService) PlatformSummary(ctx context.Context) (*model.PlatformStats, error) {
	stats, err := s.AllStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("platformService.PlatformSummary: %w", err)
	}

	summary := &model.PlatformStats{TotalRestaurants: len(stats)}
	for _, st := range stats {
		if st.IsActive {
			summary.ActiveRestaurants++
		} else {
			summary.InactiveRestaurants++
		}
		summary.TotalCategories += st.TotalCategories
		summary.TotalMenuItems += st.TotalMenuItems
		summary.ActiveMenuItems += st.ActiveMenuItems
	}
	if summary.TotalRestaurants > 0 {
		summary.AverageItemsPerRestaurant = int(math.Round(
			float64(summary.TotalMenuItems) / float64(summary.TotalRestaurants),
		))
	}
	return summary, nil
}

// SetTenantRole はロールを変更する。最後のスーパー管理者を降格させる操作は拒否する。
func (s *platformService) SetTenantRole(ctx context.Context, tenantID uuid.UUID, role model.Role) error {
	if !role.IsValid() {
		return model.NewAppError("INVALID_ROLE", "Unknown role.", "role", model.ErrInvalidInput)
	}

	profile, err := s.profileRepo.FindByTenantID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("RESTAURANT_NOT_FOUND", "Restaurant not found.", "", model.ErrNotFound)
		}
		return fmt.Errorf("platformService.SetTenantRole: %w", err)
	}
	if profile.Role == role {
		return nil
	}

	if profile.Role == model.RoleSuperAdmin && role != model.RoleSuperAdmin {
		if err := s.ensureNotLastSuperAdmin(ctx, tenantID); err != nil {
			return err
		}
	}

	err = s.profileRepo.Update(ctx, tenantID, map[string]interface{}{
		"role": string(role),
	})
	if err != nil {
		return fmt.Errorf("platformService.SetTenantRole: %w", err)
	}
	return nil
}

// SetTenantActive は有効/無効を切り替える。最後の有効なスーパー管理者は無効化できない。
func (s *platformService) SetTenantActive(ctx context.Context, tenantID uuid.UUID, isActive bool) error {
	profile, err := s.profileRepo.FindByTenantID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("RESTAURANT_NOT_FOUND", "Restaurant not found.", "", model.ErrNotFound)
		}
		return fmt.Errorf("platformService.SetTenantActive: %w", err)
	}
	if profile.IsActive == isActive {
		return nil
	}

	if !isActive && profile.Role == model.RoleSuperAdmin {
		if err := s.ensureNotLastSuperAdmin(ctx, tenantID); err != nil {
			return err
		}
	}

	err = s.profileRepo.Update(ctx, tenantID, map[string]interface{}{
		"isActive": isActive,
	})
	if err != nil {
		return fmt.Errorf("platformService.SetTenantActive: %w", err)
	}
	return nil
}

// ensureNotLastSuperAdmin は対象以外に有効なスーパー管理者が残るかを確認する
func (s *platformService) ensureNotLastSuperAdmin(ctx context.Context, tenantID uuid.UUID) error {
	admins, err := s.profileRepo.ListByRoles(ctx, []model.Role{model.RoleSuperAdmin})
	if err != nil {
		return fmt.Errorf("platformService.ensureNotLastSuperAdmin: %w", err)
	}
	for _, admin := range admins {
		if admin.TenantID != tenantID && admin.IsActive {
			return nil
		}
	}
	return model.NewAppError(
		"LAST_SUPER_ADMIN",
		"Cannot remove the last active super admin.",
		"",
		model.ErrForbidden,
	)
}
