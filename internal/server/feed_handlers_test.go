package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadPost(t *testing.T, app *fiber.App, auth, caption string) uint {
	t.Helper()
	body, contentType := multipartImage(t, "image", pngBytes(t), map[string]string{
		"caption": caption,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID uint `json:"id"`
	}
	decodeBody(t, resp, &created)
	return created.ID
}

func TestFeedEmptyWhenFollowingNobody(t *testing.T) {
	app, s, db := newTestServer(t)
	_, aliceAuth := createAccount(t, s, db, "alice")

	resp := doJSON(t, app, http.MethodGet, "/api/feed", aliceAuth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Posts []struct {
			ID uint `json:"id"`
		} `json:"posts"`
	}
	decodeBody(t, resp, &body)
	assert.Empty(t, body.Posts)
}

func TestFeedShowsFollowedAccountsNewestFirst(t *testing.T) {
	app, s, db := newTestServer(t)
	_, aliceAuth := createAccount(t, s, db, "alice")
	bob, bobAuth := createAccount(t, s, db, "bob")
	_, carolAuth := createAccount(t, s, db, "carol")

	first := uploadPost(t, app, bobAuth, "first")
	second := uploadPost(t, app, bobAuth, "second")
	uploadPost(t, app, carolAuth, "not followed")

	resp := doJSON(t, app, http.MethodPost, "/api/users/"+itoa(bob.ID)+"/follow", aliceAuth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/feed", aliceAuth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Posts []struct {
			ID      uint   `json:"id"`
			Caption string `json:"caption"`
		} `json:"posts"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Posts, 2)
	assert.Equal(t, second, body.Posts[0].ID)
	assert.Equal(t, first, body.Posts[1].ID)
}

func TestToggleSaveFlipsAndFillsInspo(t *testing.T) {
	app, s, db := newTestServer(t)
	_, aliceAuth := createAccount(t, s, db, "alice")
	_, bobAuth := createAccount(t, s, db, "bob")

	postID := uploadPost(t, app, bobAuth, "save me")
	savePath := "/api/posts/" + itoa(postID) + "/save"

	var state struct {
		Saved bool `json:"saved"`
	}
	resp := doJSON(t, app, http.MethodPost, savePath, aliceAuth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &state)
	assert.True(t, state.Saved)

	var board struct {
		Items []struct {
			PostID   uint   `json:"post_id"`
			ImageURL string `json:"image_url"`
		} `json:"items"`
	}
	resp = doJSON(t, app, http.MethodGet, "/api/inspo", aliceAuth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &board)
	require.Len(t, board.Items, 1)
	assert.Equal(t, postID, board.Items[0].PostID)
	assert.Contains(t, board.Items[0].ImageURL, "/uploads/posts/")

	resp = doJSON(t, app, http.MethodPost, savePath, aliceAuth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &state)
	assert.False(t, state.Saved)

	resp = doJSON(t, app, http.MethodGet, "/api/inspo", aliceAuth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &board)
	assert.Empty(t, board.Items)
}

func TestToggleSaveUnknownPost(t *testing.T) {
	app, s, db := newTestServer(t)
	_, aliceAuth := createAccount(t, s, db, "alice")

	resp := doJSON(t, app, http.MethodPost, "/api/posts/9999/save", aliceAuth, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFeedAnnotatesSavedPosts(t *testing.T) {
	app, s, db := newTestServer(t)
	_, aliceAuth := createAccount(t, s, db, "alice")
	bob, bobAuth := createAccount(t, s, db, "bob")

	saved := uploadPost(t, app, bobAuth, "saved one")
	uploadPost(t, app, bobAuth, "plain one")

	resp := doJSON(t, app, http.MethodPost, "/api/users/"+itoa(bob.ID)+"/follow", aliceAuth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/posts/"+itoa(saved)+"/save", aliceAuth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/feed", aliceAuth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Posts []struct {
			ID    uint `json:"id"`
			Saved bool `json:"saved"`
		} `json:"posts"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Posts, 2)
	for _, p := range body.Posts {
		assert.Equal(t, p.ID == saved, p.Saved)
	}
}
