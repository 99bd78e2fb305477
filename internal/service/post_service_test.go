package service

import (
	"context"
	"testing"

	"fitcheck/internal/models"
	"fitcheck/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingPublisher captures published feed events per user.
type recordingPublisher struct {
	events map[uint][]FeedEvent
}

func (p *recordingPublisher) PublishUser(_ context.Context, userID uint, event any) error {
	if p.events == nil {
		p.events = make(map[uint][]FeedEvent)
	}
	p.events[userID] = append(p.events[userID], event.(FeedEvent))
	return nil
}

func newPostFixture(t *testing.T) (*PostService, *recordingPublisher, *nopStore, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	publisher := &recordingPublisher{}
	store := &nopStore{}
	svc := NewPostService(
		repository.NewPostRepository(db),
		repository.NewFollowRepository(db),
		repository.NewInspoRepository(db),
		store,
		publisher,
	)
	return svc, publisher, store, db
}

func TestCreatePostNormalizesAestheticsAndStoresImage(t *testing.T) {
	svc, _, store, db := newPostFixture(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")

	post, err := svc.CreatePost(ctx, CreatePostInput{
		UserID:    alice.ID,
		ImageData: []byte("image-bytes"),
		Caption:   "  thrifted blazer  ",
		Tags: []models.ItemTag{
			{X: 0.5, Y: 0.5, Label: "blazer", Link: "https://shop.example/blazer"},
		},
		Aesthetics: "  Vintage STREETWEAR vintage ",
	})
	require.NoError(t, err)
	require.NotZero(t, post.ID)
	assert.Equal(t, "thrifted blazer", post.Caption)
	assert.Equal(t, []string{"vintage", "streetwear"}, post.Aesthetics)
	require.Len(t, store.putCalls, 1)
	assert.Equal(t, "/uploads/"+store.putCalls[0], post.ImageURL)
}

func TestCreatePostFansOutToFollowers(t *testing.T) {
	svc, publisher, _, db := newPostFixture(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	follows := repository.NewFollowRepository(db)
	require.NoError(t, follows.Create(ctx, bob.ID, alice.ID))
	require.NoError(t, follows.Create(ctx, carol.ID, alice.ID))

	post, err := svc.CreatePost(ctx, CreatePostInput{
		UserID:    alice.ID,
		ImageData: []byte("image-bytes"),
	})
	require.NoError(t, err)

	// Both followers get the event; the author does not.
	require.Len(t, publisher.events[bob.ID], 1)
	require.Len(t, publisher.events[carol.ID], 1)
	assert.Empty(t, publisher.events[alice.ID])

	event := publisher.events[bob.ID][0]
	assert.Equal(t, "post_created", event.Type)
	assert.Equal(t, post.ID, event.PostID)
	assert.Equal(t, alice.ID, event.UserID)
}

func TestCreatePostValidatesTags(t *testing.T) {
	svc, _, _, db := newPostFixture(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")

	cases := []models.ItemTag{
		{X: -12, Y: 80, Label: "blazer"},
		{X: 200, Y: -0.1, Label: "blazer"},
		{X: 200, Y: 80, Label: "   "},
	}
	for _, tag := range cases {
		_, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:    alice.ID,
			ImageData: []byte("image-bytes"),
			Tags:      []models.ItemTag{tag},
		})
		require.Error(t, err)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	}
}

func TestCreatePostAcceptsPixelTagCoordinates(t *testing.T) {
	svc, _, _, db := newPostFixture(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")

	// Clients report where the tap landed in image pixels, so values well
	// above 1 are the normal case.
	post, err := svc.CreatePost(ctx, CreatePostInput{
		UserID:    alice.ID,
		ImageData: []byte("image-bytes"),
		Tags: []models.ItemTag{
			{X: 340, Y: 512, Label: "jacket"},
			{X: 0, Y: 0, Label: "hat"},
		},
	})
	require.NoError(t, err)
	require.Len(t, post.Tags, 2)
	assert.Equal(t, float64(340), post.Tags[0].X)
	assert.Equal(t, float64(512), post.Tags[0].Y)
}

func TestCreatePostRequiresImage(t *testing.T) {
	svc, _, _, db := newPostFixture(t)

	alice := createTestUser(t, db, "alice")

	_, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: alice.ID})
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestGetPostSetsViewerSavedFlag(t *testing.T) {
	svc, _, _, db := newPostFixture(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	post, err := svc.CreatePost(ctx, CreatePostInput{
		UserID:    bob.ID,
		ImageData: []byte("image-bytes"),
	})
	require.NoError(t, err)

	feed := NewFeedService(
		repository.NewFollowRepository(db),
		repository.NewPostRepository(db),
		repository.NewInspoRepository(db),
	)
	_, err = feed.ToggleSave(ctx, alice.ID, post.ID)
	require.NoError(t, err)

	got, err := svc.GetPost(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, got.Saved)

	asBob, err := svc.GetPost(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, asBob.Saved)
}

func TestDeletePostOwnerOnly(t *testing.T) {
	svc, publisher, store, db := newPostFixture(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	follows := repository.NewFollowRepository(db)
	require.NoError(t, follows.Create(ctx, bob.ID, alice.ID))

	post, err := svc.CreatePost(ctx, CreatePostInput{
		UserID:    alice.ID,
		ImageData: []byte("image-bytes"),
	})
	require.NoError(t, err)

	err = svc.DeletePost(ctx, bob.ID, post.ID)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)

	require.NoError(t, svc.DeletePost(ctx, alice.ID, post.ID))

	_, err = svc.GetPost(ctx, alice.ID, post.ID)
	require.Error(t, err)

	// The stored image is removed under the same path it was written to.
	require.Len(t, store.putCalls, 1)
	assert.Equal(t, store.putCalls, store.deleteCalls)

	events := publisher.events[bob.ID]
	require.Len(t, events, 2)
	assert.Equal(t, "post_deleted", events[1].Type)
}
