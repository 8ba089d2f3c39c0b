// internal/assets/uploader.go

// Package assets はメニュー画像などのアップロード先を抽象化する
package assets

import (
	"context"
	"log/slog"
)

// Uploader は画像アセットの保存先。
// Upload は公開URLを返す。Remove は失敗しても致命的に扱わない想定。
type Uploader interface {
	Upload(ctx context.Context, key string, contentType string, data []byte) (string, error)
	Remove(ctx context.Context, key string) error
}

// nopUploader はアップロード機能を無効化した構成用
type nopUploader struct {
	logger *slog.Logger
}

func NewNopUploader(logger *slog.Logger) Uploader {
	return &nopUploader{logger: logger}
}

func (u *nopUploader) Upload(_ context.Context, key string, _ string, _ []byte) (string, error) {
	u.logger.Warn("Asset upload requested but uploads are disabled", "key", key)
	return "", nil
}

func (u *nopUploader) Remove(_ context.Context, _ string) error {
	return nil
}
