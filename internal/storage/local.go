// Package storage implements the blob store for avatar and outfit images.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// DefaultMaxUploadSizeMB bounds accepted upload payloads.
	DefaultMaxUploadSizeMB = 10
	// maxDimension is the longest edge kept after downscaling.
	maxDimension = 2048
	jpegQuality  = 82
)

// BlobStore persists image bytes under a path and returns an accessible URL.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
	// ObjectPath recovers the object path from a URL previously returned by
	// Put. Reports false for URLs this store did not produce.
	ObjectPath(url string) (string, bool)
}

// ImageStore is a local-disk BlobStore that normalizes uploads to bounded
// JPEGs before writing them.
type ImageStore struct {
	baseDir  string
	baseURL  string
	maxBytes int64
}

// NewImageStore returns an ImageStore rooted at baseDir. Served URLs are
// formed by joining baseURL with the object path.
func NewImageStore(baseDir, baseURL string, maxUploadSizeMB int) *ImageStore {
	if maxUploadSizeMB <= 0 {
		maxUploadSizeMB = DefaultMaxUploadSizeMB
	}
	return &ImageStore{
		baseDir:  baseDir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// BaseDir returns the directory objects are written under.
func (s *ImageStore) BaseDir() string {
	return s.baseDir
}

// Put decodes, downscales and re-encodes the image, then writes it below the
// store's base directory. The returned URL is stable for the given path.
func (s *ImageStore) Put(_ context.Context, path string, data []byte) (string, error) {
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("image exceeds maximum upload size of %d bytes", s.maxBytes)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	img = downscale(img, maxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}
	if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return s.baseURL + "/" + path, nil
}

// ObjectPath strips the store's base URL from a served URL, yielding the
// path Put wrote the object under.
func (s *ImageStore) ObjectPath(url string) (string, bool) {
	return strings.CutPrefix(url, s.baseURL+"/")
}

// Delete removes a stored object. Missing objects are not an error.
func (s *ImageStore) Delete(_ context.Context, path string) error {
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(path))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// PostImagePath derives a collision-free object path for an outfit upload,
// keyed by owner and timestamp.
func PostImagePath(userID uint) string {
	return fmt.Sprintf("posts/%d_%d_%s.jpg", userID, time.Now().Unix(), uuid.NewString()[:8])
}

// AvatarPath derives the object path for a user's profile picture. Avatars
// overwrite in place so a profile keeps a single stored image.
func AvatarPath(userID uint) string {
	return fmt.Sprintf("profile-pictures/%d.jpg", userID)
}

// downscale resizes img so its longest edge is at most max, preserving
// aspect ratio. Images already within bounds are returned unchanged.
func downscale(img image.Image, max int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return img
	}

	var nw, nh int
	if w >= h {
		nw = max
		nh = h * max / w
	} else {
		nh = max
		nw = w * max / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
