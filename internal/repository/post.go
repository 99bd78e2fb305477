package repository

import (
	"context"
	"errors"
	"sort"

	"fitcheck/internal/cache"
	"fitcheck/internal/models"

	"gorm.io/gorm"
)

// feedChunkSize bounds the IN clause when fanning a feed query out over a
// large following list.
const feedChunkSize = 500

// PostRepository defines persistence operations for outfit posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error)
	GetByOwnerIDs(ctx context.Context, ownerIDs []uint, limit int) ([]models.Post, error)
	Delete(ctx context.Context, id uint) error
	DeleteAllForUser(ctx context.Context, userID uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).Preload("Owner").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	var posts []models.Post
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// GetByOwnerIDs returns posts from the given owners, newest first. The owner
// list is queried in chunks so arbitrarily long following lists stay within
// driver parameter limits; results are merged and re-sorted by the caller's
// ordering contract before the limit is applied.
func (r *postRepository) GetByOwnerIDs(ctx context.Context, ownerIDs []uint, limit int) ([]models.Post, error) {
	if len(ownerIDs) == 0 {
		return []models.Post{}, nil
	}
	if limit <= 0 {
		limit = 100
	}

	var posts []models.Post
	for start := 0; start < len(ownerIDs); start += feedChunkSize {
		end := start + feedChunkSize
		if end > len(ownerIDs) {
			end = len(ownerIDs)
		}

		var chunk []models.Post
		if err := r.db.WithContext(ctx).
			Preload("Owner").
			Where("user_id IN ?", ownerIDs[start:end]).
			Order("created_at DESC, id DESC").
			Limit(limit).
			Find(&chunk).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
		posts = append(posts, chunk...)
	}

	// Timestamp ties break by ID so the ordering is deterministic.
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) DeleteAllForUser(ctx context.Context, userID uint) error {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Post{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	for _, id := range ids {
		cache.InvalidatePost(ctx, id)
	}
	return nil
}
