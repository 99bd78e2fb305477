package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPutWritesJPEGAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir, "/uploads", 10)

	url, err := store.Put(context.Background(), "posts/1_test.jpg", encodePNG(t, 64, 48))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/posts/1_test.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "posts", "1_test.jpg"))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestPutDownscalesOversizedImages(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir, "/uploads", 10)

	_, err := store.Put(context.Background(), "posts/big.jpg", encodePNG(t, 4096, 2048))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "posts", "big.jpg"))
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2048, img.Bounds().Dx())
	assert.Equal(t, 1024, img.Bounds().Dy())
}

func TestPutRejectsOversizedPayload(t *testing.T) {
	store := NewImageStore(t.TempDir(), "/uploads", 1)

	payload := make([]byte, 2*1024*1024)
	_, err := store.Put(context.Background(), "posts/huge.jpg", payload)
	assert.Error(t, err)
}

func TestPutRejectsNonImagePayload(t *testing.T) {
	store := NewImageStore(t.TempDir(), "/uploads", 10)

	_, err := store.Put(context.Background(), "posts/bad.jpg", []byte("not an image"))
	assert.Error(t, err)
}

func TestDeleteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir, "/uploads", 10)

	_, err := store.Put(context.Background(), "profile-pictures/7.jpg", encodePNG(t, 10, 10))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), "profile-pictures/7.jpg"))
	require.NoError(t, store.Delete(context.Background(), "profile-pictures/7.jpg"))
}

func TestObjectPathFollowsBaseURL(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewImageStore(dir, "https://cdn.example.com/media/", 10)

	url, err := store.Put(ctx, "posts/9_test.jpg", encodePNG(t, 10, 10))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/media/posts/9_test.jpg", url)

	path, ok := store.ObjectPath(url)
	require.True(t, ok)
	assert.Equal(t, "posts/9_test.jpg", path)

	// URLs from another origin never map back to a local object.
	_, ok = store.ObjectPath("/uploads/posts/9_test.jpg")
	assert.False(t, ok)
}

func TestObjectPaths(t *testing.T) {
	assert.Equal(t, "profile-pictures/42.jpg", AvatarPath(42))
	assert.True(t, strings.HasPrefix(PostImagePath(42), "posts/42_"))
	assert.True(t, strings.HasSuffix(PostImagePath(42), ".jpg"))
}
