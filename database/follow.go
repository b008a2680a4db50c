package database

import (
	"errors"

	"gorm.io/gorm"

	"yatube/domain"
	"yatube/errs"
)

// FollowService manages Follows, the directed edges of the social graph.
// It implements the domain.FollowService interface.
type FollowService struct {
	followValidator
}

// followValidator runs validations on incoming Follow data.
// On success, it passes the data on to followGorm.
type followValidator struct {
	followGorm
}

// followGorm runs CRUD operations on the database using incoming Follow data.
// It assumes that data has been validated.
type followGorm struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followValidator{
			followGorm{
				db: db,
			},
		},
	}
}

// Ensure the FollowService struct properly implements the
// domain.FollowService interface. If it does not, then this expression
// becomes invalid and won't compile.
var _ domain.FollowService = &FollowService{}

// Create runs validations needed for creating new Follow database records.
// The handlers treat EINVALID and ECONFLICT from here as a no-op: follow is
// idempotent and self-follows are silently dropped at the HTTP boundary.
func (fv *followValidator) Create(follow *domain.Follow) error {
	err := runFollowValFns(follow,
		fv.authorNotUser,
		fv.followedUserExists,
		fv.notAlreadyFollowing)
	if err != nil {
		return err
	}
	return fv.followGorm.Create(follow)
}

// Delete runs validations needed for deleting existing Follow database records.
func (fv *followValidator) Delete(follow *domain.Follow) error {
	err := runFollowValFns(follow, fv.followExists)
	if err != nil {
		return err
	}
	return fv.followGorm.Delete(follow)
}

// runFollowValFns runs any number of functions of type followValFn on the
// passed in Follow object, stopping at the first error.
func runFollowValFns(follow *domain.Follow, fns ...followValFn) error {
	for _, fn := range fns {
		if err := fn(follow); err != nil {
			return err
		}
	}
	return nil
}

// A followValFn is any function that takes in a pointer to a domain.Follow
// object and returns an error.
type followValFn func(follow *domain.Follow) error

func (fv *followValidator) authorNotUser(follow *domain.Follow) error {
	if follow.UserID == follow.AuthorID {
		return errs.Errorf(errs.EINVALID, "You cannot follow yourself.")
	}
	return nil
}

func (fv *followValidator) followedUserExists(follow *domain.Follow) error {
	err := fv.db.First(&domain.User{}, "id = ?", follow.AuthorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The user to be followed does not exist.")
		}
		return err
	}
	return nil
}

func (fv *followValidator) notAlreadyFollowing(follow *domain.Follow) error {
	exists, err := fv.followGorm.Exists(follow.UserID, follow.AuthorID)
	if err != nil {
		return err
	}
	if exists {
		return errs.Errorf(errs.ECONFLICT, "You already follow this user.")
	}
	return nil
}

func (fv *followValidator) followExists(follow *domain.Follow) error {
	exists, err := fv.followGorm.Exists(follow.UserID, follow.AuthorID)
	if err != nil {
		return err
	}
	if !exists {
		return errs.Errorf(errs.ENOTFOUND, "You don't follow this user.")
	}
	return nil
}

// Exists reports whether a follow edge from user to author is present.
func (fg *followGorm) Exists(userID, authorID int) (bool, error) {
	var count int64
	err := fg.db.Model(&domain.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create stores the data from the Follow object in a new database record.
// The unique index on (user_id, author_id) closes the race between the
// existence pre-check and the insert.
func (fg *followGorm) Create(follow *domain.Follow) error {
	return fg.db.Create(follow).Error
}

// Delete removes the edge matching the Follow object's user and author ids.
func (fg *followGorm) Delete(follow *domain.Follow) error {
	return fg.db.
		Where("user_id = ? AND author_id = ?", follow.UserID, follow.AuthorID).
		Delete(&domain.Follow{}).Error
}
