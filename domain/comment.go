package domain

import "time"

// Comment is a reply attached to a post. Comments are append-only: they are
// never edited or deleted through the app.
type Comment struct {
	ID       int       `json:"id"`
	PostID   int       `json:"-" gorm:"notNull;index"`
	AuthorID int       `json:"-" gorm:"notNull"`
	Author   User      `json:"author"`
	Text     string    `json:"text" gorm:"notNull"`
	Created  time.Time `json:"created"`
}

// CommentService is a set of methods to manipulate and work with the Comment model.
type CommentService interface {
	// ByPostID returns a post's comments newest first.
	ByPostID(postID int) ([]Comment, error)
	Create(comment *Comment) error
}
