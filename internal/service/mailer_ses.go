// internal/service/mailer_ses.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesMailer はAmazon SES (v2) でパスワード再設定メールを送る
type sesMailer struct {
	client *sesv2.Client
	sender string
	logger *slog.Logger
}

func NewSESMailer(ctx context.Context, region, sender string, logger *slog.Logger) (Mailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("NewSESMailer: failed to load aws config: %w", err)
	}
	return &sesMailer{
		client: sesv2.NewFromConfig(awsCfg),
		sender: sender,
		logger: logger,
	}, nil
}

func (m *sesMailer) SendPasswordReset(ctx context.Context, to string, resetURL string) error {
	subject := "パスワード再設定のご案内"
	body := fmt.Sprintf(
		"以下のURLからパスワードの再設定を行ってください。\n\n%s\n\nこのメールに心当たりがない場合は破棄してください。",
		resetURL,
	)

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		m.logger.Error("Failed to send password reset mail via SES", "error", err, "to", to)
		return fmt.Errorf("sesMailer.SendPasswordReset: %w", err)
	}
	return nil
}
