// Package export writes a captured signature to files.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"path/filepath"
	"time"

	"SignaturePad/internal/state"
)

var ErrEmptyCrop = errors.New("crop area lies outside the image")

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Crop cuts r (rounded outwards to whole pixels) out of a PNG.
func Crop(pngData []byte, r state.Rect) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	rect := image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width)), int(math.Ceil(r.Y+r.Height)),
	).Intersect(img.Bounds())
	if rect.Empty() {
		return nil, ErrEmptyCrop
	}

	si, ok := img.(subImager)
	if !ok {
		return nil, fmt.Errorf("image type %T cannot be cropped", img)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, si.SubImage(rect)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeConfig(pngData []byte) (image.Config, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(pngData))
	if err != nil {
		return image.Config{}, fmt.Errorf("read png header: %w", err)
	}
	return cfg, nil
}

// Filename builds "<dir>/signature-<timestamp>.<ext>".
func Filename(dir, ext string, at time.Time) string {
	return filepath.Join(dir, "signature-"+at.Format("20060102-150405")+"."+ext)
}
