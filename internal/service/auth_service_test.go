// internal/service/auth_service_test.go
package service

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"menu_admin/internal/config"
	"menu_admin/internal/docstore"
	"menu_admin/internal/model"
	"menu_admin/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureMailer は送信内容を覚えるだけのテスト用実装
type captureMailer struct {
	to       string
	resetURL string
}

func (m *captureMailer) SendPasswordReset(_ context.Context, to string, resetURL string) error {
	m.to = to
	m.resetURL = resetURL
	return nil
}

type authFixture struct {
	svc    AuthService
	mailer *captureMailer
}

func newAuthFixture() *authFixture {
	config.Cfg.Auth.JWTSecretKey = "test-secret"
	config.Cfg.Auth.TokenExpiryHours = 1
	config.Cfg.Auth.ResetTokenExpiry = 60
	config.Cfg.Mail.ResetURLBase = "http://localhost/reset-password"

	store := docstore.NewMemoryStore()
	mailer := &captureMailer{}
	svc := NewAuthService(
		repository.NewDocCredentialRepository(store),
		repository.NewDocProfileRepository(store),
		repository.NewDocTokenRepository(store),
		mailer,
	)
	return &authFixture{svc: svc, mailer: mailer}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	req := &model.RegisterRequest{
		Email:          "owner@example.com",
		Password:       "password123",
		RestaurantName: "テスト食堂",
	}

	t.Run("正常系: 登録成功でトークンが返る", func(t *testing.T) {
		resp, err := f.svc.Register(ctx, req)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("異常系: 同じメールアドレスは登録できない", func(t *testing.T) {
		_, err := f.svc.Register(ctx, req)
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("正常系: 正しいパスワードでログインできる", func(t *testing.T) {
		resp, err := f.svc.Login(ctx, &model.LoginRequest{Email: req.Email, Password: req.Password})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("異常系: パスワード違いは ErrUnauthorized", func(t *testing.T) {
		_, err := f.svc.Login(ctx, &model.LoginRequest{Email: req.Email, Password: "wrong-password"})
		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})

	t.Run("異常系: 未登録メールも同じ ErrUnauthorized", func(t *testing.T) {
		_, err := f.svc.Login(ctx, &model.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	req := &model.RegisterRequest{
		Email:          "reset@example.com",
		Password:       "password123",
		RestaurantName: "リセット食堂",
	}
	_, err := f.svc.Register(ctx, req)
	require.NoError(t, err)

	t.Run("正常系: 未登録メールでもエラーにしない（存在を漏らさない）", func(t *testing.T) {
		err := f.svc.ForgotPassword(ctx, &model.ForgotPasswordRequest{Email: "unknown@example.com"})
		assert.NoError(t, err)
	})

	require.NoError(t, f.svc.ForgotPassword(ctx, &model.ForgotPasswordRequest{Email: req.Email}))
	require.Equal(t, req.Email, f.mailer.to)
	require.True(t, strings.HasPrefix(f.mailer.resetURL, "http://localhost/reset-password?token="))

	parsed, err := url.Parse(f.mailer.resetURL)
	require.NoError(t, err)
	token := parsed.Query().Get("token")
	require.NotEmpty(t, token)

	t.Run("正常系: トークンでパスワードを差し替えられる", func(t *testing.T) {
		err := f.svc.ResetPassword(ctx, &model.ResetPasswordRequest{Token: token, Password: "newpassword456"})
		require.NoError(t, err)

		_, err = f.svc.Login(ctx, &model.LoginRequest{Email: req.Email, Password: "newpassword456"})
		assert.NoError(t, err)

		_, err = f.svc.Login(ctx, &model.LoginRequest{Email: req.Email, Password: "password123"})
		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})

	t.Run("異常系: 使用済みトークンは再利用できない", func(t *testing.T) {
		err := f.svc.ResetPassword(ctx, &model.ResetPasswordRequest{Token: token, Password: "another789"})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("異常系: 不明なトークンは ErrInvalidInput", func(t *testing.T) {
		err := f.svc.ResetPassword(ctx, &model.ResetPasswordRequest{Token: "bogus", Password: "another789"})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestAuthService_LoginDisabledAccount(t *testing.T) {
	ctx := context.Background()

	config.Cfg.Auth.JWTSecretKey = "test-secret"
	config.Cfg.Auth.TokenExpiryHours = 1

	store := docstore.NewMemoryStore()
	profileRepo := repository.NewDocProfileRepository(store)
	svc := NewAuthService(
		repository.NewDocCredentialRepository(store),
		profileRepo,
		repository.NewDocTokenRepository(store),
		&captureMailer{},
	)

	resp, err := svc.Register(ctx, &model.RegisterRequest{
		Email:          "disabled@example.com",
		Password:       "password123",
		RestaurantName: "停止中食堂",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	// 管理操作でアカウントを無効化した状態を作る
	profiles, err := profileRepo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	require.NoError(t, profileRepo.Update(ctx, profiles[0].TenantID, map[string]interface{}{"isActive": false}))

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "disabled@example.com", Password: "password123"})
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestAuthService_ExpiredResetToken(t *testing.T) {
	ctx := context.Background()

	config.Cfg.Auth.JWTSecretKey = "test-secret"

	store := docstore.NewMemoryStore()
	tokenRepo := repository.NewDocTokenRepository(store)
	credentialRepo := repository.NewDocCredentialRepository(store)
	svc := NewAuthService(credentialRepo, repository.NewDocProfileRepository(store), tokenRepo, &captureMailer{})

	_, err := svc.Register(ctx, &model.RegisterRequest{
		Email:          "expired@example.com",
		Password:       "password123",
		RestaurantName: "期限切れ食堂",
	})
	require.NoError(t, err)

	credential, err := credentialRepo.FindByEmail(ctx, "expired@example.com")
	require.NoError(t, err)

	expired := &model.PasswordResetToken{
		Token:     "expired-token",
		TenantID:  credential.TenantID,
		Email:     credential.Email,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, tokenRepo.Create(ctx, expired))

	err = svc.ResetPassword(ctx, &model.ResetPasswordRequest{Token: "expired-token", Password: "newpassword456"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "RESET_TOKEN_EXPIRED", appErr.Code)
}
