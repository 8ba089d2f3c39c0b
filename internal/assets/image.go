// internal/assets/image.go
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG入力のデコード用

	"golang.org/x/image/draw"
)

const (
	// アップロード前に収める最大辺（ピクセル）
	maxDimension = 1280
	jpegQuality  = 80
)

// CompressImage は画像を最大辺 maxDimension に収まるよう縮小し、JPEGに再エンコードする。
// 既に小さい画像も品質を揃えるため再エンコードだけは行う。
func CompressImage(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("assets.CompressImage: failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > maxDimension || height > maxDimension {
		if width >= height {
			height = height * maxDimension / width
			width = maxDimension
		} else {
			width = width * maxDimension / height
			height = maxDimension
		}
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("assets.CompressImage: failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
