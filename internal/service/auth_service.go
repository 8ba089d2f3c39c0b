// internal/service/auth_service.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"menu_admin/internal/config"
	"menu_admin/internal/middleware"
	"menu_admin/internal/model"
	"menu_admin/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService は登録・ログイン・パスワード再設定のユースケース
type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.LoginResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	ForgotPassword(ctx context.Context, req *model.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error
}

type authService struct {
	credentialRepo repository.CredentialRepository
	profileRepo    repository.ProfileRepository
	tokenRepo      repository.TokenRepository
	mailer         Mailer
}

func NewAuthService(
	credentialRepo repository.CredentialRepository,
	profileRepo repository.ProfileRepository,
	tokenRepo repository.TokenRepository,
	mailer Mailer,
) AuthService {
	return &authService{
		credentialRepo: credentialRepo,
		profileRepo:    profileRepo,
		tokenRepo:      tokenRepo,
		mailer:         mailer,
	}
}

// Register は認証情報とプロフィールを新規作成し、そのままログイン状態のトークンを返す。
// 新規テナントは常に restaurant_owner / 有効 で作成する。
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.LoginResponse, error) {
	logger := middleware.GetLogger(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		return nil, fmt.Errorf("authService.Register: %w", err)
	}

	tenantID := uuid.New()
	credential := &model.Credential{
		Email:        req.Email,
		TenantID:     tenantID,
		PasswordHash: string(hash),
	}
	if err := s.credentialRepo.Create(ctx, credential); err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, model.NewAppError("EMAIL_ALREADY_REGISTERED", "This email address is already registered.", "email", model.ErrConflict)
		}
		return nil, fmt.Errorf("authService.Register: %w", err)
	}

	profile := &model.UserProfile{
		TenantID:       tenantID,
		Email:          req.Email,
		RestaurantName: req.RestaurantName,
		Role:           model.RoleRestaurantOwner,
		IsActive:       true,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("authService.Register: %w", err)
	}

	logger.Info("New tenant registered", "tenant_id", tenantID.String())
	return s.issueToken(tenantID)
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	logger := middleware.GetLogger(ctx)

	credential, err := s.credentialRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// メールアドレスの存在有無を区別させない
			return nil, invalidCredentials()
		}
		return nil, fmt.Errorf("authService.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Login failed: password mismatch", "email", req.Email)
		return nil, invalidCredentials()
	}

	profile, err := s.profileRepo.FindByTenantID(ctx, credential.TenantID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("authService.Login: %w", err)
	}
	if profile != nil && !profile.IsActive {
		return nil, model.NewAppError("ACCOUNT_DISABLED", "This account has been disabled.", "", model.ErrForbidden)
	}

	return s.issueToken(credential.TenantID)
}

func invalidCredentials() error {
	return model.NewAppError("INVALID_CREDENTIALS", "Email or password is incorrect.", "", model.ErrUnauthorized)
}

func (s *authService) issueToken(tenantID uuid.UUID) (*model.LoginResponse, error) {
	now := time.Now()
	claims := model.JWTCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tenantID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(config.Cfg.Auth.TokenExpiryHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Cfg.Auth.JWTSecretKey))
	if err != nil {
		return nil, fmt.Errorf("authService.issueToken: %w", err)
	}
	return &model.LoginResponse{AccessToken: signed}, nil
}

// ForgotPassword は再設定トークンを発行してメールで案内する。
// 未登録のメールアドレスでも成功として扱い、存在有無を漏らさない。
func (s *authService) ForgotPassword(ctx context.Context, req *model.ForgotPasswordRequest) error {
	logger := middleware.GetLogger(ctx)

	credential, err := s.credentialRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("authService.ForgotPassword: %w", err)
	}

	tokenValue, err := newResetTokenValue()
	if err != nil {
		return fmt.Errorf("authService.ForgotPassword: %w", err)
	}

	resetToken := &model.PasswordResetToken{
		Token:     tokenValue,
		TenantID:  credential.TenantID,
		Email:     credential.Email,
		ExpiresAt: time.Now().Add(time.Duration(config.Cfg.Auth.ResetTokenExpiry) * time.Minute),
	}
	if err := s.tokenRepo.Create(ctx, resetToken); err != nil {
		return fmt.Errorf("authService.ForgotPassword: %w", err)
	}

	resetURL := config.Cfg.Mail.ResetURLBase + "?token=" + tokenValue
	if err := s.mailer.SendPasswordReset(ctx, credential.Email, resetURL); err != nil {
		return fmt.Errorf("authService.ForgotPassword: %w", err)
	}
	return nil
}

func newResetTokenValue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("newResetTokenValue: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ResetPassword はトークンを検証してパスワードを差し替え、トークンを失効させる
func (s *authService) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error {
	logger := middleware.GetLogger(ctx)

	resetToken, err := s.tokenRepo.FindByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("INVALID_RESET_TOKEN", "Reset token is invalid.", "token", model.ErrInvalidInput)
		}
		return fmt.Errorf("authService.ResetPassword: %w", err)
	}

	if time.Now().After(resetToken.ExpiresAt) {
		// 期限切れトークンは掃除しておく
		if err := s.tokenRepo.Delete(ctx, req.Token); err != nil {
			logger.Warn("Failed to delete expired reset token", "error", err)
		}
		return model.NewAppError("RESET_TOKEN_EXPIRED", "Reset token has expired.", "token", model.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("authService.ResetPassword: %w", err)
	}
	if err := s.credentialRepo.UpdatePasswordHash(ctx, resetToken.Email, string(hash)); err != nil {
		return fmt.Errorf("authService.ResetPassword: %w", err)
	}

	if err := s.tokenRepo.Delete(ctx, req.Token); err != nil {
		logger.Warn("Failed to delete used reset token", "error", err)
	}

	logger.Info("Password reset completed", "tenant_id", resetToken.TenantID.String())
	return nil
}
