package service

import (
	"context"
	"strings"

	"fitcheck/internal/middleware"
	"fitcheck/internal/models"
	"fitcheck/internal/observability"
	"fitcheck/internal/repository"
	"fitcheck/internal/storage"
	"fitcheck/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const maxItemTags = 20

// FeedPublisher delivers realtime feed events to a user's live connections.
type FeedPublisher interface {
	PublishUser(ctx context.Context, userID uint, event any) error
}

// PostService provides outfit post business logic.
type PostService struct {
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	inspoRepo  repository.InspoRepository
	store      storage.BlobStore
	publisher  FeedPublisher
}

// NewPostService returns a new PostService. publisher may be nil when
// realtime delivery is disabled.
func NewPostService(
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	inspoRepo repository.InspoRepository,
	store storage.BlobStore,
	publisher FeedPublisher,
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		followRepo: followRepo,
		inspoRepo:  inspoRepo,
		store:      store,
		publisher:  publisher,
	}
}

// CreatePostInput carries a new outfit post.
type CreatePostInput struct {
	UserID     uint
	ImageData  []byte
	Caption    string
	Tags       []models.ItemTag
	Aesthetics string
}

// FeedEvent is the payload pushed to followers' live feeds.
type FeedEvent struct {
	Type   string `json:"type"`
	PostID uint   `json:"postId"`
	UserID uint   `json:"userId"`
}

// CreatePost stores the image, persists the post and fans a feed event out
// to the author's followers. Aesthetics arrive as free text and are split
// into normalized terms; tag coordinates are pixel offsets in the image as
// captured by the client.
func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	if len(input.ImageData) == 0 {
		return nil, models.NewValidationError("Post image is required")
	}
	if err := validateTags(input.Tags); err != nil {
		return nil, err
	}

	span, ctx := observability.NewSpan(ctx, "post.create")
	defer span.End()
	span.AddAttributes(
		attribute.Int("post.image_bytes", len(input.ImageData)),
		attribute.Int("post.tags", len(input.Tags)),
	)

	url, err := s.store.Put(ctx, storage.PostImagePath(input.UserID), input.ImageData)
	if err != nil {
		span.SetError(err)
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		UserID:     input.UserID,
		ImageURL:   url,
		Caption:    strings.TrimSpace(input.Caption),
		Tags:       input.Tags,
		Aesthetics: validation.NormalizeAesthetics(input.Aesthetics),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		span.SetError(err)
		return nil, err
	}

	s.fanOut(ctx, post.UserID, FeedEvent{Type: "post_created", PostID: post.ID, UserID: post.UserID})
	return post, nil
}

// GetPost returns a post with the viewer's saved flag set.
func (s *PostService) GetPost(ctx context.Context, viewerID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if viewerID != 0 {
		item, err := s.inspoRepo.Get(ctx, viewerID, postID)
		if err != nil {
			return nil, err
		}
		post.Saved = item != nil
	}
	return post, nil
}

// UserPosts returns a user's posts, newest first.
func (s *PostService) UserPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset)
}

// DeletePost removes a post. Only the owner may delete it. Inspo items other
// users saved from the post are left in place with their image snapshot.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewUnauthorizedError("Only the owner can delete a post")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	// Best effort; the row is already gone.
	if path, ok := s.store.ObjectPath(post.ImageURL); ok {
		_ = s.store.Delete(ctx, path)
	}

	s.fanOut(ctx, post.UserID, FeedEvent{Type: "post_deleted", PostID: postID, UserID: post.UserID})
	return nil
}

// fanOut pushes the event to every follower's live feed channel. Delivery is
// best effort; a follower with no open connection simply misses the push and
// sees the change on the next feed load.
func (s *PostService) fanOut(ctx context.Context, authorID uint, event FeedEvent) {
	if s.publisher == nil {
		return
	}
	followerIDs, err := s.followerIDs(ctx, authorID)
	if err != nil {
		middleware.Logger.Warn("feed fan-out skipped", "author_id", authorID, "error", err)
		return
	}
	for _, id := range followerIDs {
		if err := s.publisher.PublishUser(ctx, id, event); err != nil {
			middleware.Logger.Warn("feed event publish failed", "user_id", id, "error", err)
			continue
		}
		middleware.FeedFanoutEvents.Inc()
	}
}

func (s *PostService) followerIDs(ctx context.Context, userID uint) ([]uint, error) {
	followers, err := s.followRepo.GetFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(followers))
	for i, u := range followers {
		ids[i] = u.ID
	}
	return ids, nil
}

// validateTags checks spatial tag coordinates and labels. Coordinates are
// pixel offsets, so any non-negative value is in range; the capture
// dimensions are only known to the client.
func validateTags(tags []models.ItemTag) error {
	if len(tags) > maxItemTags {
		return models.NewValidationError("Too many item tags")
	}
	for _, tag := range tags {
		if tag.X < 0 || tag.Y < 0 {
			return models.NewValidationError("Tag coordinates cannot be negative")
		}
		if strings.TrimSpace(tag.Label) == "" {
			return models.NewValidationError("Tag label is required")
		}
	}
	return nil
}
