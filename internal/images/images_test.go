package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	if _, err := Decode(bytes.NewReader(testPNG(t, 10, 10))); err != nil {
		t.Fatalf("valid png rejected: %v", err)
	}
	if _, err := Decode(strings.NewReader("definitely not an image")); err != ErrNotImage {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
}

func TestThumbnail(t *testing.T) {
	src, err := Decode(bytes.NewReader(testPNG(t, 300, 200)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, err := Thumbnail(src)
	if err != nil {
		t.Fatalf("thumbnail: %v", err)
	}
	tb, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("thumbnail is not a jpeg: %v", err)
	}
	if tb.Bounds().Dx() != ThumbSize || tb.Bounds().Dy() != ThumbSize {
		t.Fatalf("expected %dx%d, got %dx%d", ThumbSize, ThumbSize, tb.Bounds().Dx(), tb.Bounds().Dy())
	}
}

func TestStoreSavePhoto(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	data := testPNG(t, 120, 80)
	decoded, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	photo, thumb, err := s.SavePhoto("my photo.png", data, decoded)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(photo, "log/photos/") {
		t.Fatalf("unexpected photo path %q", photo)
	}
	if !strings.HasPrefix(thumb, "log/thumbs/") || !strings.HasSuffix(thumb, ".jpg") {
		t.Fatalf("unexpected thumb path %q", thumb)
	}
	if strings.Contains(photo, " ") {
		t.Fatalf("photo name not sanitized: %q", photo)
	}

	for _, rel := range []string{photo, thumb} {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			t.Fatalf("missing media file %q: %v", rel, err)
		}
	}
}
