// Package media stores uploaded recipe images on local disk.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register the gif decoder
	"image/jpeg"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const recipesDir = "recipes"

var (
	ErrInvalidImage = errors.New("invalid image")
	ErrTooLarge     = errors.New("image too large")
)

// ImageStore decodes data-URI uploads, downsizes them and writes them under root.
type ImageStore struct {
	root     string
	maxWidth int
	maxSize  int64
}

func NewImageStore(root string, maxWidth int, maxSize int64) *ImageStore {
	return &ImageStore{root: root, maxWidth: maxWidth, maxSize: maxSize}
}

// SaveDataURI accepts "data:image/<png|jpeg|gif>;base64,<payload>" and returns the stored
// file's path relative to the media root, e.g. "recipes/<uuid>.png".
func (s *ImageStore) SaveDataURI(dataURI string) (string, error) {
	format, payload, err := parseDataURI(dataURI)
	if err != nil {
		return "", err
	}
	if s.maxSize > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > s.maxSize {
		return "", ErrTooLarge
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: bad base64 payload", ErrInvalidImage)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	img = s.downsize(img)

	var buf bytes.Buffer
	ext := ".png"
	switch format {
	case "jpeg", "jpg":
		ext = ".jpg"
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	default:
		// gif frames are flattened to png
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	dir := filepath.Join(s.root, recipesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path.Join(recipesDir, name), nil
}

// Remove deletes a previously stored image. Missing files are not an error.
func (s *ImageStore) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	clean := filepath.Clean(filepath.FromSlash(ref))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("%w: reference escapes media root", ErrInvalidImage)
	}
	if err := os.Remove(filepath.Join(s.root, clean)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// downsize scales img to maxWidth keeping the aspect ratio. Narrower images are untouched.
func (s *ImageStore) downsize(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if s.maxWidth <= 0 || width <= s.maxWidth {
		return img
	}
	ratio := float64(s.maxWidth) / float64(width)
	height = max(1, int(float64(height)*ratio))

	dst := image.NewRGBA(image.Rect(0, 0, s.maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func parseDataURI(dataURI string) (format, payload string, err error) {
	rest, ok := strings.CutPrefix(dataURI, "data:image/")
	if !ok {
		return "", "", fmt.Errorf("%w: expected data:image/... uri", ErrInvalidImage)
	}
	format, payload, ok = strings.Cut(rest, ";base64,")
	if !ok {
		return "", "", fmt.Errorf("%w: expected base64 encoding", ErrInvalidImage)
	}
	switch format {
	case "png", "jpeg", "jpg", "gif":
		return format, payload, nil
	default:
		return "", "", fmt.Errorf("%w: unsupported format %q", ErrInvalidImage, format)
	}
}

// URL joins the public media prefix and a stored reference.
func URL(base, ref string) string {
	if ref == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(ref, "/")
}
