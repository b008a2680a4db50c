package domain

// Group is an admin-curated bucket that a post may be tagged with.
// Groups are immutable from the user-facing handlers; they are created
// by seed or ops tooling.
type Group struct {
	ID          int    `json:"id"`
	Title       string `json:"title" gorm:"notNull"`
	Slug        string `json:"slug" gorm:"uniqueIndex;notNull"`
	Description string `json:"description"`
}

// GroupService is a set of methods to manipulate and work with the Group model.
type GroupService interface {
	BySlug(slug string) (*Group, error)
	// All returns every group, for the post form's group choices.
	All() ([]Group, error)
	Create(group *Group) error
}
