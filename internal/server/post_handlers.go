package server

import (
	"encoding/json"

	"fitcheck/internal/models"
	"fitcheck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts. The outfit image arrives as the
// multipart field "image"; "caption" and "aesthetics" are plain form fields
// and "tags" is a JSON array of spatial item tags.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	data, err := s.readImageFile(c, "image")
	if err != nil {
		return respondAppError(c, err)
	}

	var tags []models.ItemTag
	if raw := c.FormValue("tags"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid tags payload"))
		}
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:     userID,
		ImageData:  data,
		Caption:    c.FormValue("caption"),
		Tags:       tags,
		Aesthetics: c.FormValue("aesthetics"),
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id. The detail view also carries a strip
// of the owner's other recent posts.
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), currentUserID(c), postID)
	if err != nil {
		return respondAppError(c, err)
	}

	others, err := s.postService.UserPosts(c.Context(), post.UserID, 13, 0)
	if err != nil {
		return respondAppError(c, err)
	}
	more := make([]models.Post, 0, len(others))
	for _, other := range others {
		if other.ID == post.ID {
			continue
		}
		more = append(more, other)
	}
	if len(more) > 12 {
		more = more[:12]
	}

	return c.JSON(fiber.Map{
		"post":            post,
		"more_from_owner": more,
	})
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), currentUserID(c), postID); err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Post deleted",
	})
}
