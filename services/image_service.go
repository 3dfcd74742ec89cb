package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ImageStore keeps uploaded offering images on local disk. Files are served
// under PublicPrefix by the router.
type ImageStore struct {
	Dir          string
	PublicPrefix string
}

func NewImageStore(dir string) *ImageStore {
	return &ImageStore{Dir: dir, PublicPrefix: "/uploads"}
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Resolve returns image unchanged unless it is a base64 data URI, in which case
// the payload is written under subdir and its public path is returned.
func (s *ImageStore) Resolve(image, subdir string) (string, error) {
	image = strings.TrimSpace(image)
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}

	idx := strings.Index(image, "base64,")
	if idx < 0 {
		return "", newError(ErrValidation, "Image data must be base64 encoded")
	}
	mime := strings.TrimSuffix(strings.TrimPrefix(image[:idx], "data:"), ";")
	ext, ok := imageExtensions[strings.ToLower(mime)]
	if !ok {
		return "", newError(ErrValidation, "Unsupported image type %q", mime)
	}

	data, err := base64.StdEncoding.DecodeString(image[idx+7:])
	if err != nil {
		return "", newError(ErrValidation, "Image data is not valid base64")
	}

	dir := filepath.Join(s.Dir, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return strings.TrimRight(s.PublicPrefix, "/") + "/" + filepath.ToSlash(filepath.Join(subdir, filename)), nil
}
