package images

import (
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Layout under the media root. DB rows store these relative paths; the
// file server exposes them at /media/.
const (
	photoDir = "log/photos"
	thumbDir = "log/thumbs"
)

// Store persists uploaded photos and their derived thumbnails under a
// media root directory.
type Store struct {
	Root string
}

func NewStore(root string) *Store {
	return &Store{Root: root}
}

// SavePhoto writes the original upload and a derived thumbnail, and
// returns their media-root relative paths (forward slashes).
func (s *Store) SavePhoto(filename string, data []byte, decoded image.Image) (photo, thumb string, err error) {
	name := uniqueName(filename)

	photo = path.Join(photoDir, name)
	if err = s.write(photo, data); err != nil {
		return "", "", err
	}

	tb, err := Thumbnail(decoded)
	if err != nil {
		return "", "", err
	}
	thumb = path.Join(thumbDir, strings.TrimSuffix(name, path.Ext(name))+".jpg")
	if err = s.write(thumb, tb); err != nil {
		return "", "", err
	}
	return photo, thumb, nil
}

func (s *Store) write(rel string, data []byte) error {
	abs := filepath.Join(s.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("media dir: %w", err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return fmt.Errorf("write media file: %w", err)
	}
	return nil
}

// uniqueName prefixes the upload's base name with a nanosecond stamp so
// repeated uploads of the same file never collide.
func uniqueName(filename string) string {
	base := filepath.Base(filepath.ToSlash(filename))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		base = "photo"
	}
	return fmt.Sprintf("%d_%s", time.Now().UnixNano(), base)
}
