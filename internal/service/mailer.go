// internal/service/mailer.go
package service

import (
	"context"
	"log/slog"
)

// Mailer はパスワード再設定メールの送信先を抽象化する
type Mailer interface {
	SendPasswordReset(ctx context.Context, to string, resetURL string) error
}

// logMailer は実送信せずログに書くだけの実装。ローカル開発・テスト用。
type logMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) Mailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) SendPasswordReset(_ context.Context, to string, resetURL string) error {
	m.logger.Info("Password reset mail (log driver)",
		"to", to,
		"reset_url", resetURL,
	)
	return nil
}
