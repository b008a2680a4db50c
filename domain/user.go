package domain

import "time"

// User represents a registered account. Users own posts, comments and
// follow edges. The password is only ever populated from a form submission
// and is cleared as soon as it has been hashed; only the hash is stored.
// The remember token works the same way: the raw token lives in the client
// cookie, the database keeps its HMAC.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username" gorm:"uniqueIndex;notNull"`
	Email        string `json:"email" gorm:"uniqueIndex;notNull"`
	Password     string `json:"-" gorm:"-"`
	PasswordHash string `json:"-" gorm:"notNull"`
	Remember     string `json:"-" gorm:"-"`
	RememberHash string `json:"-" gorm:"notNull;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	ByID(id int) (*User, error)
	ByUsername(username string) (*User, error)
	ByRemember(token string) (*User, error)
	Authenticate(email, password string) (*User, error)
	Create(user *User) error
	Update(user *User) error
}
