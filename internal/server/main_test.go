package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"fitcheck/internal/config"
	"fitcheck/internal/database"
	"fitcheck/internal/middleware"
	"fitcheck/internal/models"
	"fitcheck/internal/repository"
	"fitcheck/internal/service"
	"fitcheck/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer wires a Server against an in-memory database with no Redis,
// so rate limiting and realtime delivery are disabled.
func newTestServer(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:       "test-secret-0123456789abcdef0123456789",
		Env:             "test",
		UploadDir:       t.TempDir(),
		UploadBaseURL:   "/uploads",
		MaxUploadSizeMB: 10,
	}
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	inspoRepo := repository.NewInspoRepository(db)
	store := storage.NewImageStore(cfg.UploadDir, cfg.UploadBaseURL, cfg.MaxUploadSizeMB)

	s := &Server{
		config:     cfg,
		db:         db,
		userRepo:   userRepo,
		followRepo: followRepo,
		postRepo:   postRepo,
		inspoRepo:  inspoRepo,
		store:      store,
	}
	s.userService = service.NewUserService(db, userRepo, followRepo, store)
	s.graphService = service.NewGraphService(db, followRepo, userRepo)
	s.feedService = service.NewFeedService(followRepo, postRepo, inspoRepo)
	s.postService = service.NewPostService(postRepo, followRepo, inspoRepo, store, nil)

	app := fiber.New()
	s.SetupRoutes(app)
	return app, s, db
}

// createAccount inserts a user with a bcrypt-hashed password and returns the
// user plus a valid bearer token.
func createAccount(t *testing.T, s *Server, db *gorm.DB, username string) (*models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3rSecret"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
	}
	require.NoError(t, db.Create(user).Error)

	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, "Bearer " + token
}

func doJSON(t *testing.T, app *fiber.App, method, path, auth string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// pngBytes renders a small valid PNG for upload tests.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// multipartImage builds a multipart body with an image file plus extra fields.
func multipartImage(t *testing.T, field string, imageData []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile(field, "photo.png")
	require.NoError(t, err)
	_, err = fw.Write(imageData)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}
