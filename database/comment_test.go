package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/domain"
	"yatube/errs"
)

func TestCommentService(t *testing.T) {
	t.Run("create assigns the timestamp", func(t *testing.T) {
		s := testServices(t)
		author := createUser(t, s, "leo")
		post := createPost(t, s, author, "Тестовый текст", nil)

		comment := &domain.Comment{PostID: post.ID, AuthorID: author.ID, Text: "nice"}
		require.NoError(t, s.Comment.Create(comment))
		assert.NotZero(t, comment.ID)
		assert.False(t, comment.Created.IsZero())
	})

	t.Run("rejects empty text", func(t *testing.T) {
		s := testServices(t)
		author := createUser(t, s, "leo")
		post := createPost(t, s, author, "Тестовый текст", nil)
		err := s.Comment.Create(&domain.Comment{PostID: post.ID, AuthorID: author.ID, Text: " "})
		assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
	})

	t.Run("commented post must exist", func(t *testing.T) {
		s := testServices(t)
		author := createUser(t, s, "leo")
		err := s.Comment.Create(&domain.Comment{PostID: 999, AuthorID: author.ID, Text: "nice"})
		assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	})

	t.Run("listing is newest first with authors", func(t *testing.T) {
		s := testServices(t)
		author := createUser(t, s, "leo")
		post := createPost(t, s, author, "Тестовый текст", nil)

		first := &domain.Comment{PostID: post.ID, AuthorID: author.ID, Text: "first"}
		second := &domain.Comment{PostID: post.ID, AuthorID: author.ID, Text: "second"}
		require.NoError(t, s.Comment.Create(first))
		require.NoError(t, s.Comment.Create(second))

		comments, err := s.Comment.ByPostID(post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "second", comments[0].Text)
		assert.Equal(t, "leo", comments[0].Author.Username)
	})
}
