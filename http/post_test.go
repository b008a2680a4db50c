package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/domain"
)

func countPosts(body string) int {
	return strings.Count(body, `<article class="post">`)
}

var pngUpload = []byte("\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 64))

// storedImages lists the files currently under the app's post image directory.
func storedImages(t *testing.T, app *testApp) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(app.mediaRoot, domain.PostsImageDir))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestIndexPagination(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "pag_auth")
	author := app.user(t, "pag_auth")

	group := &domain.Group{Title: "Тестовый заголовок", Slug: "test-slug"}
	require.NoError(t, app.services.Group.Create(group))
	for i := 1; i <= 13; i++ {
		require.NoError(t, app.services.Post.Create(&domain.Post{
			AuthorID: author.ID,
			Text:     fmt.Sprintf("Тестовый пост%d", i),
			GroupID:  &group.ID,
		}))
	}

	rr := app.get(t, "/?page=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 10, countPosts(rr.Body.String()))

	rr = app.get(t, "/?page=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3, countPosts(rr.Body.String()))

	t.Run("group feed paginates too", func(t *testing.T) {
		rr := app.get(t, "/group/test-slug/?page=2", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 3, countPosts(rr.Body.String()))
	})

	t.Run("profile feed paginates too", func(t *testing.T) {
		rr := app.get(t, "/profile/pag_auth/?page=2", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 3, countPosts(rr.Body.String()))
	})

	t.Run("garbage page falls back to the last page", func(t *testing.T) {
		rr := app.get(t, "/group/test-slug/?page=banana", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 3, countPosts(rr.Body.String()))
	})
}

func TestGroupList(t *testing.T) {
	app := newTestApp(t)
	rr := app.get(t, "/group/missing/", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProfile(t *testing.T) {
	app := newTestApp(t)
	session := app.signup(t, "leo")
	author := app.user(t, "leo")
	require.NoError(t, app.services.Post.Create(&domain.Post{AuthorID: author.ID, Text: "Тестовый текст"}))

	t.Run("shows posts and amount", func(t *testing.T) {
		rr := app.get(t, "/profile/leo/", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Тестовый текст")
		assert.Contains(t, rr.Body.String(), "1 posts")
	})

	t.Run("follow link reflects the viewer", func(t *testing.T) {
		app.signup(t, "mia")
		mia := app.user(t, "mia")
		require.NoError(t, app.services.Follow.Create(&domain.Follow{UserID: author.ID, AuthorID: mia.ID}))
		rr := app.get(t, "/profile/mia/", session)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "/profile/mia/unfollow/")
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		rr := app.get(t, "/profile/ghost/", nil)
		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestPostDetail(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "leo")
	author := app.user(t, "leo")
	post := &domain.Post{AuthorID: author.ID, Text: "Тестовый текст"}
	require.NoError(t, app.services.Post.Create(post))

	rr := app.get(t, "/posts/"+strconv.Itoa(post.ID)+"/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Тестовый текст")

	rr = app.get(t, "/posts/999/", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreatePost(t *testing.T) {
	t.Run("anonymous is redirected to login", func(t *testing.T) {
		app := newTestApp(t)
		rr := app.get(t, "/create/", nil)
		require.Equal(t, http.StatusFound, rr.Code)
		assert.True(t, strings.HasPrefix(rr.Header().Get("Location"), LoginURL))
	})

	t.Run("valid submission redirects to the profile", func(t *testing.T) {
		app := newTestApp(t)
		session := app.signup(t, "leo")
		group := &domain.Group{Title: "Тестовый заголовок", Slug: "test-slug"}
		require.NoError(t, app.services.Group.Create(group))

		form := url.Values{"text": {"Тестовый пост"}, "group": {strconv.Itoa(group.ID)}}
		rr := app.postForm(t, "/create/", form, session)
		require.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/profile/leo/", rr.Header().Get("Location"))

		author := app.user(t, "leo")
		posts, err := app.services.Post.ByAuthorID(author.ID)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "Тестовый пост", posts[0].Text)
		require.NotNil(t, posts[0].GroupID)
		assert.Equal(t, group.ID, *posts[0].GroupID)

		t.Run("and shows up on the group feed", func(t *testing.T) {
			rr := app.get(t, "/group/test-slug/", nil)
			require.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), "Тестовый пост")
		})
	})

	t.Run("empty text re-renders the form", func(t *testing.T) {
		app := newTestApp(t)
		session := app.signup(t, "leo")
		rr := app.postForm(t, "/create/", url.Values{"text": {"   "}}, session)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "The post text must not be empty.")
	})

	t.Run("image upload is stored and referenced", func(t *testing.T) {
		app := newTestApp(t)
		session := app.signup(t, "leo")
		rr := app.postMultipart(t, "/create/", map[string]string{"text": "Тестовый пост"}, pngUpload, session)
		require.Equal(t, http.StatusFound, rr.Code)

		author := app.user(t, "leo")
		posts, err := app.services.Post.ByAuthorID(author.ID)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.True(t, strings.HasPrefix(posts[0].Image, domain.PostsImageDir+"/"))
		assert.Len(t, storedImages(t, app), 1)
	})

	t.Run("invalid text discards the stored image", func(t *testing.T) {
		app := newTestApp(t)
		session := app.signup(t, "leo")
		rr := app.postMultipart(t, "/create/", map[string]string{"text": "   "}, pngUpload, session)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "The post text must not be empty.")
		assert.Empty(t, storedImages(t, app))
	})

	t.Run("malformed multipart body re-renders with an error", func(t *testing.T) {
		app := newTestApp(t)
		session := app.signup(t, "leo")
		req := httptest.NewRequest(http.MethodPost, "/create/", strings.NewReader("this is not multipart"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
		req.AddCookie(session)
		rr := httptest.NewRecorder()
		app.server.Router().ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "The uploaded image could not be read.")
	})
}

func TestEditPost(t *testing.T) {
	app := newTestApp(t)
	session := app.signup(t, "auth")
	author := app.user(t, "auth")
	group := &domain.Group{Title: "Тестовый заголовок", Slug: "test-slug"}
	require.NoError(t, app.services.Group.Create(group))
	post := &domain.Post{AuthorID: author.ID, Text: "Тестовый текст", GroupID: &group.ID}
	require.NoError(t, app.services.Post.Create(post))
	editURL := "/posts/" + strconv.Itoa(post.ID) + "/edit/"

	t.Run("form is pre-filled from the post", func(t *testing.T) {
		rr := app.get(t, editURL, session)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Тестовый текст")
		assert.Contains(t, rr.Body.String(), `value="`+strconv.Itoa(group.ID)+`" selected`)
	})

	t.Run("author can change the text", func(t *testing.T) {
		form := url.Values{"text": {"Написано что-то интересное"}, "group": {strconv.Itoa(group.ID)}}
		rr := app.postForm(t, editURL, form, session)
		require.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, postDetailURL(post.ID), rr.Header().Get("Location"))

		rr = app.get(t, postDetailURL(post.ID), nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Написано что-то интересное")
	})

	t.Run("invalid text discards the uploaded image", func(t *testing.T) {
		rr := app.postMultipart(t, editURL, map[string]string{"text": "   "}, pngUpload, session)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "The post text must not be empty.")
		assert.Empty(t, storedImages(t, app))

		unchanged, err := app.services.Post.ByID(post.ID)
		require.NoError(t, err)
		assert.Empty(t, unchanged.Image)
	})

	t.Run("non-author is bounced to the detail page", func(t *testing.T) {
		other := app.signup(t, "intruder")
		form := url.Values{"text": {"hijacked"}}
		rr := app.postForm(t, editURL, form, other)
		require.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, postDetailURL(post.ID), rr.Header().Get("Location"))

		unchanged, err := app.services.Post.ByID(post.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "hijacked", unchanged.Text)
	})

	t.Run("anonymous is redirected to login", func(t *testing.T) {
		rr := app.get(t, editURL, nil)
		require.Equal(t, http.StatusFound, rr.Code)
		assert.True(t, strings.HasPrefix(rr.Header().Get("Location"), LoginURL))
	})

	t.Run("editing a missing post is 404", func(t *testing.T) {
		rr := app.get(t, "/posts/999/edit/", session)
		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}
