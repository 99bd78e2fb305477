package server

import (
	"github.com/gofiber/fiber/v2"
)

// ToggleFollow handles POST /api/users/:id/follow. The same endpoint follows
// and unfollows; the response carries the resulting state.
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	state, err := s.graphService.ToggleFollow(c.Context(), currentUserID(c), targetID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(state)
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.graphService.Followers(c.Context(), targetID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"users": users,
	})
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.graphService.Following(c.Context(), targetID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"users": users,
	})
}
