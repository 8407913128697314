// Package images validates uploaded photos and derives the square
// thumbnail shown in listings.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

// Thumbnail geometry: a fixed square, re-encoded as JPEG.
const (
	ThumbSize    = 100
	ThumbQuality = 60
)

// ErrNotImage is returned when an upload does not decode as a
// supported raster image (JPEG, PNG or GIF).
var ErrNotImage = errors.New("file is not a supported image")

// Decode reads and decodes an uploaded file. Any decode failure is
// reported as ErrNotImage; the caller rejects the whole submission.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, ErrNotImage
	}
	return img, nil
}

// Thumbnail center-crops the source to a square and scales it to
// ThumbSize x ThumbSize, returning JPEG bytes.
func Thumbnail(src image.Image) ([]byte, error) {
	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, ThumbSize, ThumbSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: ThumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
