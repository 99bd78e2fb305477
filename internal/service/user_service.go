package service

import (
	"context"

	"fitcheck/internal/cache"
	"fitcheck/internal/models"
	"fitcheck/internal/repository"
	"fitcheck/internal/storage"
	"fitcheck/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService provides account and profile business logic.
type UserService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	store      storage.BlobStore
}

// NewUserService returns a new UserService.
func NewUserService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	store storage.BlobStore,
) *UserService {
	return &UserService{
		db:         db,
		userRepo:   userRepo,
		followRepo: followRepo,
		store:      store,
	}
}

// SignupInput carries a new account request.
type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new account. Usernames are stored normalized so lookups
// are case-insensitive. The pre-check gives a friendly error for taken names;
// the unique index is the backstop when two signups race.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	username := validation.NormalizeUsername(input.Username)
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    input.Email,
		Password: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by username and password. The username resolves to the
// stored account first; credential failures of either kind return the same
// unauthorized error.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, validation.NormalizeUsername(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}
	return user, nil
}

// UpdateProfileInput carries profile changes. Nil fields are left unchanged.
type UpdateProfileInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// UpdateProfile applies profile changes for the user.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		username := validation.NormalizeUsername(*input.Username)
		if err := validation.ValidateUsername(username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if username != user.Username {
			existing, err := s.userRepo.GetByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, models.NewConflictError("Username already taken")
			}
			user.Username = username
		}
	}

	if input.Email != nil {
		if err := validation.ValidateEmail(*input.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = *input.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAvatar stores the image as the user's profile picture and records its
// URL. The avatar path is stable per user, so a new upload replaces the old
// image in place.
func (s *UserService) SetAvatar(ctx context.Context, userID uint, imageData []byte) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.store.Put(ctx, storage.AvatarPath(userID), imageData)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user.PhotoURL = url
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Profile returns a user with live counts and, when a viewer is given, the
// viewer's follow state toward them.
func (s *UserService) Profile(ctx context.Context, viewerID, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.FollowersCount = followers
	user.FollowingCount = following

	if viewerID != 0 && viewerID != userID {
		isFollowing, err := s.followRepo.Exists(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
		user.IsFollowing = isFollowing
	}
	return user, nil
}

// ExploreUsers searches accounts by username for the explore page. The
// viewer never appears in their own results.
func (s *UserService) ExploreUsers(ctx context.Context, viewerID uint, query string, limit int) ([]models.User, error) {
	query = validation.NormalizeUsername(query)
	if query == "" {
		return []models.User{}, nil
	}
	return s.userRepo.SearchByUsername(ctx, query, viewerID, limit)
}

// DeleteAccount removes the user and every row that references them. Edges
// in both directions, posts and the inspo board go in one transaction so a
// failed delete never leaves a partial account behind. Inspo items other
// users saved from the deleted account's posts are kept; they carry their
// own image snapshot.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? OR followee_id = ?", userID, userID).
			Delete(&models.Follow{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.InspoItem{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.User{}, userID).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateUser(ctx, userID)
	// Best effort; the account row is already gone.
	_ = s.store.Delete(ctx, storage.AvatarPath(userID))
	return nil
}
