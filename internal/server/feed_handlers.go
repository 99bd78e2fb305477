package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed. The feed holds the newest posts from the
// accounts the viewer follows.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	posts, err := s.feedService.ComposeFeed(c.Context(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"posts": posts,
	})
}

// ToggleSave handles POST /api/posts/:id/save. The same endpoint saves and
// unsaves; the response carries the resulting state.
func (s *Server) ToggleSave(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	saved, err := s.feedService.ToggleSave(c.Context(), currentUserID(c), postID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"saved": saved,
	})
}

// GetInspo handles GET /api/inspo, the viewer's saved board.
func (s *Server) GetInspo(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	items, err := s.feedService.Inspo(c.Context(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": items,
	})
}
