package service

import (
	"context"

	"fitcheck/internal/middleware"
	"fitcheck/internal/models"
	"fitcheck/internal/repository"

	"gorm.io/gorm"
)

// GraphService provides follow graph business logic.
type GraphService struct {
	db         *gorm.DB
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewGraphService returns a new GraphService.
func NewGraphService(db *gorm.DB, followRepo repository.FollowRepository, userRepo repository.UserRepository) *GraphService {
	return &GraphService{
		db:         db,
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// FollowState is the outcome of a follow toggle.
type FollowState struct {
	Following     bool  `json:"following"`
	FollowerCount int64 `json:"followerCount"`
}

// ToggleFollow flips the follow edge from userID to targetID. The check and
// the write run in one transaction so concurrent toggles on the same pair
// settle on a single edge rather than a half-written one.
func (s *GraphService) ToggleFollow(ctx context.Context, userID, targetID uint) (*FollowState, error) {
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	// Toggling yourself is a no-op that reports the current state.
	if userID == targetID {
		count, err := s.followRepo.CountFollowers(ctx, targetID)
		if err != nil {
			return nil, err
		}
		return &FollowState{Following: false, FollowerCount: count}, nil
	}

	var following bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.followRepo.WithTx(tx)

		exists, err := repo.Exists(ctx, userID, targetID)
		if err != nil {
			return err
		}
		if exists {
			if err := repo.Delete(ctx, userID, targetID); err != nil {
				return err
			}
			following = false
			return nil
		}
		if err := repo.Create(ctx, userID, targetID); err != nil {
			return err
		}
		following = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if following {
		middleware.FollowToggles.WithLabelValues("followed").Inc()
	} else {
		middleware.FollowToggles.WithLabelValues("unfollowed").Inc()
	}

	count, err := s.followRepo.CountFollowers(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return &FollowState{Following: following, FollowerCount: count}, nil
}

// Followers returns the users following userID, most recent first.
func (s *GraphService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.GetFollowers(ctx, userID)
}

// Following returns the users userID follows, most recent first.
func (s *GraphService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.GetFollowing(ctx, userID)
}

// IsFollowing reports whether followerID currently follows followeeID.
func (s *GraphService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followeeID)
}

// Counts returns the live follower and following counts for a user. Counts
// are always derived from the edge rows, never stored.
func (s *GraphService) Counts(ctx context.Context, userID uint) (followers, following int64, err error) {
	followers, err = s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	following, err = s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
