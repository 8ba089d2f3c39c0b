// internal/assets/s3.go
package assets

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Uploader はAmazon S3に画像を保存する
type s3Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
	logger  *slog.Logger
}

func NewS3Uploader(ctx context.Context, region, bucket, baseURL string, logger *slog.Logger) (Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("NewS3Uploader: failed to load aws config: %w", err)
	}
	return &s3Uploader{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

func (u *s3Uploader) Upload(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		u.logger.Error("Failed to upload asset to S3", "error", err, "key", key)
		return "", fmt.Errorf("s3Uploader.Upload: %w", err)
	}
	return u.baseURL + "/" + key, nil
}

// Remove は削除に失敗してもログに残すだけで呼び出し側の処理は止めない
func (u *s3Uploader) Remove(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		u.logger.Warn("Failed to remove asset from S3", "error", err, "key", key)
		return fmt.Errorf("s3Uploader.Remove: %w", err)
	}
	return nil
}
