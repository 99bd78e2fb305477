package service

import (
	"context"
	"time"

	"fitcheck/internal/models"
	"fitcheck/internal/observability"
	"fitcheck/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FeedService composes the home feed and manages the inspo board.
type FeedService struct {
	followRepo repository.FollowRepository
	postRepo   repository.PostRepository
	inspoRepo  repository.InspoRepository
}

// NewFeedService returns a new FeedService.
func NewFeedService(followRepo repository.FollowRepository, postRepo repository.PostRepository, inspoRepo repository.InspoRepository) *FeedService {
	return &FeedService{
		followRepo: followRepo,
		postRepo:   postRepo,
		inspoRepo:  inspoRepo,
	}
}

// ComposeFeed returns the newest posts from the accounts userID follows,
// with each post's saved flag set for the viewer. A user who follows nobody
// gets an empty feed, not an error.
func (s *FeedService) ComposeFeed(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	span, ctx := observability.NewSpan(ctx, "feed.compose")
	defer span.End()
	span.AddAttributes(
		attribute.Int("feed.limit", limit),
		attribute.Int("feed.offset", offset),
	)

	posts, err := s.composeFeed(ctx, userID, limit, offset)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Int("feed.posts", len(posts)))
	return posts, nil
}

func (s *FeedService) composeFeed(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	followingIDs, err := s.followRepo.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(followingIDs) == 0 {
		return []models.Post{}, nil
	}

	posts, err := s.postRepo.GetByOwnerIDs(ctx, followingIDs, limit+offset)
	if err != nil {
		return nil, err
	}
	if offset >= len(posts) {
		return []models.Post{}, nil
	}
	posts = posts[offset:]

	if err := s.annotateSaved(ctx, userID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ToggleSave flips whether postID is on userID's inspo board. Saving an
// already-saved post refreshes it; unsaving is the inverse. Returns the
// resulting saved state.
func (s *FeedService) ToggleSave(ctx context.Context, userID, postID uint) (bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}

	existing, err := s.inspoRepo.Get(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		if err := s.inspoRepo.Delete(ctx, userID, postID); err != nil {
			return false, err
		}
		return false, nil
	}

	item := &models.InspoItem{
		UserID:   userID,
		PostID:   postID,
		ImageURL: post.ImageURL,
		SavedAt:  time.Now(),
	}
	if err := s.inspoRepo.Upsert(ctx, item); err != nil {
		return false, err
	}
	return true, nil
}

// Inspo returns userID's saved board, most recently saved first. Items keep
// the image snapshot taken at save time, so entries survive the source post
// being deleted.
func (s *FeedService) Inspo(ctx context.Context, userID uint, limit, offset int) ([]models.InspoItem, error) {
	return s.inspoRepo.List(ctx, userID, limit, offset)
}

// IsSaved reports whether userID has postID on their board.
func (s *FeedService) IsSaved(ctx context.Context, userID, postID uint) (bool, error) {
	item, err := s.inspoRepo.Get(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	return item != nil, nil
}

func (s *FeedService) annotateSaved(ctx context.Context, userID uint, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	saved, err := s.inspoRepo.SavedPostIDs(ctx, userID, ids)
	if err != nil {
		return err
	}
	for i := range posts {
		posts[i].Saved = saved[posts[i].ID]
	}
	return nil
}
