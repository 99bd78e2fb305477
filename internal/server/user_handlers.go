package server

import (
	"io"

	"fitcheck/internal/models"
	"fitcheck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userService.Profile(c.Context(), userID, userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req service.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), userID, req)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(user)
}

// UploadAvatar handles PUT /api/users/me/avatar. The image arrives as the
// multipart field "avatar".
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	userID := currentUserID(c)

	data, err := s.readImageFile(c, "avatar")
	if err != nil {
		return respondAppError(c, err)
	}

	user, err := s.userService.SetAvatar(c.Context(), userID, data)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(user)
}

// DeleteMyAccount handles DELETE /api/users/me
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	userID := currentUserID(c)

	if err := s.userService.DeleteAccount(c.Context(), userID); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Account deleted",
	})
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.Profile(c.Context(), currentUserID(c), targetID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(user)
}

// ExploreUsers handles GET /api/users/search?q=<query>
func (s *Server) ExploreUsers(c *fiber.Ctx) error {
	query := c.Query("q")
	page := parsePagination(c, 20)

	users, err := s.userService.ExploreUsers(c.Context(), currentUserID(c), query, page.Limit)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"users": users,
	})
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 50)
	posts, err := s.postService.UserPosts(c.Context(), targetID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"posts": posts,
	})
}

// readImageFile reads a multipart file field, bounded by the configured
// upload size.
func (s *Server) readImageFile(c *fiber.Ctx, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, models.NewValidationError("Image file is required")
	}

	maxBytes := int64(s.config.MaxUploadSizeMB) * 1024 * 1024
	if fileHeader.Size > maxBytes {
		return nil, models.NewValidationError("Image exceeds maximum upload size")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if int64(len(data)) > maxBytes {
		return nil, models.NewValidationError("Image exceeds maximum upload size")
	}
	return data, nil
}
