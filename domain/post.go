package domain

import "time"

// Post is a short text entry in an author's blog, optionally tagged with a
// Group and optionally carrying one attached image. The image is stored as a
// relative file reference (see storage); PubDate is assigned at insert time.
// A post is mutable only by its author and is never destroyed by the app.
type Post struct {
	ID       int       `json:"id"`
	AuthorID int       `json:"-" gorm:"notNull;index"`
	Author   User      `json:"author"`
	Text     string    `json:"text" gorm:"notNull"`
	PubDate  time.Time `json:"pub_date" gorm:"index"`
	GroupID  *int      `json:"group_id,omitempty" gorm:"index"`
	Group    *Group    `json:"group,omitempty"`
	Image    string    `json:"image,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// PostService is a set of methods to manipulate and work with the Post model.
// All listing methods return posts newest first.
type PostService interface {
	ByID(id int) (*Post, error)
	All() ([]Post, error)
	ByGroupID(groupID int) ([]Post, error)
	ByAuthorID(authorID int) ([]Post, error)
	// ByFollowed returns the posts whose author is followed by the given
	// user, i.e. the personalized feed.
	ByFollowed(userID int) ([]Post, error)
	CountByAuthorID(authorID int) (int, error)
	Create(post *Post) error
	Update(post *Post) error
}
