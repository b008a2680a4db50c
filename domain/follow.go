package domain

import "time"

// Follow represents a directed edge between two users. A Follow is created
// when one user opts in to see another user's posts in their personalized
// feed. UserID is the follower, AuthorID the followed user. The pair is
// unique and self-edges are rejected by a check constraint, so concurrent
// duplicate follow requests cannot race past the handler pre-checks.
type Follow struct {
	ID       int  `json:"id"`
	UserID   int  `json:"-" gorm:"notNull;index;uniqueIndex:idx_follow_user_author;check:chk_no_self_follow,user_id <> author_id"`
	User     User `json:"user"`
	AuthorID int  `json:"-" gorm:"notNull;index;uniqueIndex:idx_follow_user_author"`
	Author   User `json:"author"`

	CreatedAt time.Time `json:"created_at"`
}

// FollowService is a set of methods to manipulate and work with the Follow model.
type FollowService interface {
	Exists(userID, authorID int) (bool, error)
	Create(follow *Follow) error
	Delete(follow *Follow) error
}
