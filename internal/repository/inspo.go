package repository

import (
	"context"
	"errors"

	"fitcheck/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InspoRepository defines persistence operations for a user's saved
// inspiration board.
type InspoRepository interface {
	Get(ctx context.Context, userID, postID uint) (*models.InspoItem, error)
	Upsert(ctx context.Context, item *models.InspoItem) error
	Delete(ctx context.Context, userID, postID uint) error
	List(ctx context.Context, userID uint, limit, offset int) ([]models.InspoItem, error)
	SavedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error)
	DeleteAllForUser(ctx context.Context, userID uint) error
}

type inspoRepository struct {
	db *gorm.DB
}

// NewInspoRepository returns a new InspoRepository implementation.
func NewInspoRepository(db *gorm.DB) InspoRepository {
	return &inspoRepository{db: db}
}

// Get returns the saved item for (userID, postID), or (nil, nil) when the
// post is not saved.
func (r *inspoRepository) Get(ctx context.Context, userID, postID uint) (*models.InspoItem, error) {
	var item models.InspoItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

// Upsert saves the item, overwriting image URL and save time if the post is
// already on the board. Re-saving is therefore always safe.
func (r *inspoRepository) Upsert(ctx context.Context, item *models.InspoItem) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"image_url", "saved_at"}),
		}).
		Create(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *inspoRepository) Delete(ctx context.Context, userID, postID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.InspoItem{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *inspoRepository) List(ctx context.Context, userID uint, limit, offset int) ([]models.InspoItem, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	var items []models.InspoItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

// SavedPostIDs reports which of the given posts the user has saved, for
// flagging saved state on feed and detail responses in one query.
func (r *inspoRepository) SavedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	saved := make(map[uint]bool, len(postIDs))
	if len(postIDs) == 0 {
		return saved, nil
	}

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.InspoItem{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, id := range ids {
		saved[id] = true
	}
	return saved, nil
}

func (r *inspoRepository) DeleteAllForUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.InspoItem{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
