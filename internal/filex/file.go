// Package filex reads local files picked by the user and prepares local
// data directories.
package filex

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxImageSize caps the size of an uploaded picture.
const MaxImageSize = 10 << 20

var (
	ErrNotAnImage    = errors.New("file is not a supported image")
	ErrImageTooLarge = errors.New("image is too large")
)

// imageTypes maps sniffed content types to the extension used in storage keys.
var imageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Image is a picture loaded from disk.
type Image struct {
	Data        []byte
	Ext         string
	ContentType string
}

// ReadImage loads path and sniffs its content type. Only JPEG, PNG, GIF and
// WebP are accepted.
func ReadImage(path string) (*Image, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Size() > MaxImageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, fi.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ct := http.DetectContentType(data)
	ext, ok := imageTypes[ct]
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotAnImage, filepath.Base(path), ct)
	}
	return &Image{Data: data, Ext: ext, ContentType: ct}, nil
}

// ContentTypeFor returns the content type for a storage extension.
func ContentTypeFor(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for ct, e := range imageTypes {
		if e == ext || (ext == "jpeg" && e == "jpg") {
			return ct
		}
	}
	return "application/octet-stream"
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
