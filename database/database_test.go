package database

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"yatube/domain"
)

// testServices spins up the full service container over an in-memory sqlite
// database with the real schema. The database is named after the test so
// every connection in the pool sees the same data.
func testServices(t *testing.T) *Services {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		domain.User{},
		domain.Group{},
		domain.Post{},
		domain.Comment{},
		domain.Follow{},
	))
	services, err := NewServices(
		db,
		WithUser("test-hmac-key", "test-pepper"),
		WithGroup(),
		WithPost(),
		WithComment(),
		WithFollow(),
	)
	require.NoError(t, err)
	return services
}

// createUser registers a user with sane defaults.
func createUser(t *testing.T, s *Services, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	}
	require.NoError(t, s.User.Create(user))
	return user
}

// createPost publishes a post for the given author.
func createPost(t *testing.T, s *Services, author *domain.User, text string, groupID *int) *domain.Post {
	t.Helper()
	post := &domain.Post{
		AuthorID: author.ID,
		Text:     text,
		GroupID:  groupID,
	}
	require.NoError(t, s.Post.Create(post))
	return post
}
