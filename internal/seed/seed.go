// Package seed populates the database with demo data for development.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"fitcheck/internal/models"
	"fitcheck/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much demo data gets generated.
type Options struct {
	NumUsers     int
	PostsPerUser int
	ShouldClean  bool
}

var aestheticPool = []string{
	"vintage", "streetwear", "minimal", "grunge", "preppy", "y2k",
	"cottagecore", "athleisure", "darkacademia", "normcore", "bohemian",
	"workwear", "gorpcore", "coastal", "monochrome",
}

var itemLabels = []string{
	"jacket", "blazer", "cardigan", "hoodie", "tee", "blouse", "dress",
	"jeans", "trousers", "skirt", "shorts", "sneakers", "boots", "loafers",
	"tote", "crossbody", "beanie", "sunglasses", "watch", "scarf",
}

// Seed fills the database with users, a follow mesh, tagged outfit posts
// and inspo saves. All demo accounts use the password "password123".
func Seed(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("seed: %d users created", len(users))

	if err := createFollowMesh(db, r, users); err != nil {
		return fmt.Errorf("failed to create follow mesh: %w", err)
	}

	posts, err := createPosts(db, r, users, opts.PostsPerUser)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("seed: %d posts created", len(posts))

	if err := createInspoSaves(db, r, users, posts); err != nil {
		return fmt.Errorf("failed to create inspo saves: %w", err)
	}

	log.Printf("seed: done")
	return nil
}

func clearData(db *gorm.DB) error {
	for _, model := range []any{
		&models.InspoItem{}, &models.Follow{}, &models.Post{}, &models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, count int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		username := validation.NormalizeUsername(
			fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(10, 99)))
		user := &models.User{
			Username: username,
			Email:    gofakeit.Email(),
			Password: string(hash),
			PhotoURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		}
		if err := db.Create(user).Error; err != nil {
			// username collisions from the generator are rare, skip the row
			continue
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users created")
	}
	return users, nil
}

// createFollowMesh gives every user a handful of accounts to follow so
// freshly seeded feeds are never empty.
func createFollowMesh(db *gorm.DB, r *rand.Rand, users []*models.User) error {
	for _, user := range users {
		targets := r.Perm(len(users))
		follows := 3 + r.Intn(5)
		for _, idx := range targets {
			if follows == 0 {
				break
			}
			target := users[idx]
			if target.ID == user.ID {
				continue
			}
			follow := &models.Follow{FollowerID: user.ID, FolloweeID: target.ID}
			if err := db.Create(follow).Error; err != nil {
				return err
			}
			follows--
		}
	}
	return nil
}

func createPosts(db *gorm.DB, r *rand.Rand, users []*models.User, perUser int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, len(users)*perUser)
	for _, user := range users {
		for i := 0; i < perUser; i++ {
			post := &models.Post{
				UserID:     user.ID,
				ImageURL:   fmt.Sprintf("https://picsum.photos/seed/%s/800/1000", gofakeit.UUID()),
				Caption:    gofakeit.Sentence(6),
				Tags:       randomTags(r),
				Aesthetics: randomAesthetics(r),
				CreatedAt:  time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
			}
			if err := db.Create(post).Error; err != nil {
				return nil, err
			}
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func randomTags(r *rand.Rand) []models.ItemTag {
	count := r.Intn(4)
	tags := make([]models.ItemTag, 0, count)
	for i := 0; i < count; i++ {
		// Pixel offsets within the 800x1000 seeded images.
		tags = append(tags, models.ItemTag{
			X:     float64(r.Intn(800)),
			Y:     float64(r.Intn(1000)),
			Label: itemLabels[r.Intn(len(itemLabels))],
			Link:  gofakeit.URL(),
		})
	}
	return tags
}

func randomAesthetics(r *rand.Rand) []string {
	count := 1 + r.Intn(3)
	picks := r.Perm(len(aestheticPool))[:count]
	keywords := make([]string, 0, count)
	for _, idx := range picks {
		keywords = append(keywords, aestheticPool[idx])
	}
	return keywords
}

func createInspoSaves(db *gorm.DB, r *rand.Rand, users []*models.User, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	for _, user := range users {
		saves := r.Intn(6)
		for _, idx := range r.Perm(len(posts)) {
			if saves == 0 {
				break
			}
			post := posts[idx]
			if post.UserID == user.ID {
				continue
			}
			item := &models.InspoItem{
				UserID:   user.ID,
				PostID:   post.ID,
				ImageURL: post.ImageURL,
				SavedAt:  time.Now().Add(-time.Duration(r.Intn(30*24)) * time.Hour),
			}
			if err := db.Create(item).Error; err != nil {
				return err
			}
			saves--
		}
	}
	return nil
}
