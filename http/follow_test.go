package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/domain"
)

func TestFollowAndFeed(t *testing.T) {
	app := newTestApp(t)
	session := app.signup(t, "auth")
	app.signup(t, "following")
	follower := app.user(t, "auth")
	followed := app.user(t, "following")
	require.NoError(t, app.services.Post.Create(&domain.Post{
		AuthorID: followed.ID,
		Text:     "Тестовый текст",
	}))

	t.Run("follow creates exactly one edge", func(t *testing.T) {
		rr := app.get(t, "/profile/following/follow/", session)
		require.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/profile/following/", rr.Header().Get("Location"))
		assert.Equal(t, 1, app.followCount(t, follower.ID, followed.ID))
	})

	t.Run("follow is idempotent", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			rr := app.get(t, "/profile/following/follow/", session)
			require.Equal(t, http.StatusFound, rr.Code)
		}
		assert.Equal(t, 1, app.followCount(t, follower.ID, followed.ID))
	})

	t.Run("feed contains the followed author's post", func(t *testing.T) {
		rr := app.get(t, "/follow/", session)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Тестовый текст")
	})

	t.Run("feed of a non-follower is empty", func(t *testing.T) {
		other := app.signup(t, "loner")
		rr := app.get(t, "/follow/", other)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 0, countPosts(rr.Body.String()))
	})

	t.Run("unfollow removes the edge", func(t *testing.T) {
		rr := app.get(t, "/profile/following/unfollow/", session)
		require.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, 0, app.followCount(t, follower.ID, followed.ID))
	})

	t.Run("unfollow is idempotent", func(t *testing.T) {
		rr := app.get(t, "/profile/following/unfollow/", session)
		require.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, 0, app.followCount(t, follower.ID, followed.ID))
	})

	t.Run("the feed reflects the unfollow", func(t *testing.T) {
		rr := app.get(t, "/follow/", session)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 0, countPosts(rr.Body.String()))
	})
}

func TestSelfFollow(t *testing.T) {
	app := newTestApp(t)
	session := app.signup(t, "auth")
	user := app.user(t, "auth")

	rr := app.get(t, "/profile/auth/follow/", session)
	require.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/profile/auth/", rr.Header().Get("Location"))
	assert.Equal(t, 0, app.followCount(t, user.ID, user.ID))
}

func TestFollowRequiresAuth(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "someone")

	for _, path := range []string{"/follow/", "/profile/someone/follow/", "/profile/someone/unfollow/"} {
		rr := app.get(t, path, nil)
		require.Equal(t, http.StatusFound, rr.Code, "path %s", path)
		assert.True(t, strings.HasPrefix(rr.Header().Get("Location"), LoginURL), "path %s", path)
	}
}

func TestFollowUnknownUserIs404(t *testing.T) {
	app := newTestApp(t)
	session := app.signup(t, "auth")
	rr := app.get(t, "/profile/ghost/follow/", session)
	require.Equal(t, http.StatusNotFound, rr.Code)
}
