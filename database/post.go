package database

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"yatube/domain"
	"yatube/errs"
)

// PostService manages Posts.
// It implements the domain.PostService interface.
type PostService struct {
	postValidator
}

// postValidator runs validations on incoming Post data.
// On success, it passes the data on to postGorm.
// Otherwise, it returns the error of the validation that has failed.
type postValidator struct {
	postGorm
}

// postGorm runs CRUD operations on the database using incoming Post data.
// It assumes that data has been validated.
type postGorm struct {
	db *gorm.DB
}

// NewPostService returns an instance of PostService.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		postValidator{
			postGorm{
				db: db,
			},
		},
	}
}

// Ensure the PostService struct properly implements the domain.PostService
// interface. If it does not, then this expression becomes invalid and won't compile.
var _ domain.PostService = &PostService{}

// Create runs validations needed for creating new Post database records.
// The publication date is assigned here, at insert time.
func (pv *postValidator) Create(post *domain.Post) error {
	err := runPostValFns(post,
		pv.authorIDValid,
		pv.textRequired,
		pv.groupExists,
		pv.pubDateSetIfUnset)
	if err != nil {
		return err
	}
	return pv.postGorm.Create(post)
}

// Update runs validations needed for updating an existing Post record.
// The publication date is never touched on update.
func (pv *postValidator) Update(post *domain.Post) error {
	err := runPostValFns(post,
		pv.idValid,
		pv.authorIDValid,
		pv.textRequired,
		pv.groupExists)
	if err != nil {
		return err
	}
	return pv.postGorm.Update(post)
}

// runPostValFns runs any number of functions of type postValFn on the passed
// in Post object, stopping at the first error.
func runPostValFns(post *domain.Post, fns ...postValFn) error {
	for _, fn := range fns {
		if err := fn(post); err != nil {
			return err
		}
	}
	return nil
}

// A postValFn is any function that takes in a pointer to a domain.Post object
// and returns an error.
type postValFn func(post *domain.Post) error

func (pv *postValidator) idValid(post *domain.Post) error {
	if post.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid post id.")
	}
	return nil
}

func (pv *postValidator) authorIDValid(post *domain.Post) error {
	if post.AuthorID <= 0 {
		return errs.Errorf(errs.EINVALID, "A post author is required.")
	}
	return nil
}

// textRequired makes sure the post text is not empty or all whitespace.
func (pv *postValidator) textRequired(post *domain.Post) error {
	if strings.TrimSpace(post.Text) == "" {
		return errs.Errorf(errs.EINVALID, "The post text must not be empty.")
	}
	return nil
}

// groupExists makes sure the referenced group exists, when one is set.
func (pv *postValidator) groupExists(post *domain.Post) error {
	if post.GroupID == nil {
		return nil
	}
	err := pv.db.First(&domain.Group{}, "id = ?", *post.GroupID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.EINVALID, "The selected group does not exist.")
		}
		return err
	}
	return nil
}

func (pv *postValidator) pubDateSetIfUnset(post *domain.Post) error {
	if post.PubDate.IsZero() {
		post.PubDate = time.Now().UTC()
	}
	return nil
}

// feedOrder is the default listing order: newest first, ids breaking ties so
// posts published within the same instant still page deterministically.
func feedOrder(db *gorm.DB) *gorm.DB {
	return db.Order("pub_date desc, id desc")
}

// ByID retrieves a Post database record by ID, along with its author and group.
func (pg *postGorm) ByID(id int) (*domain.Post, error) {
	var post domain.Post
	err := pg.db.
		Preload("Author").
		Preload("Group").
		First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return nil, err
	}
	return &post, nil
}

// All retrieves every post, newest first. This backs the global feed.
func (pg *postGorm) All() ([]domain.Post, error) {
	var posts []domain.Post
	err := feedOrder(pg.db).
		Preload("Author").
		Preload("Group").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ByGroupID retrieves a group's posts, newest first.
func (pg *postGorm) ByGroupID(groupID int) ([]domain.Post, error) {
	var posts []domain.Post
	err := feedOrder(pg.db).
		Where("group_id = ?", groupID).
		Preload("Author").
		Preload("Group").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ByAuthorID retrieves an author's posts, newest first.
func (pg *postGorm) ByAuthorID(authorID int) ([]domain.Post, error) {
	var posts []domain.Post
	err := feedOrder(pg.db).
		Where("author_id = ?", authorID).
		Preload("Author").
		Preload("Group").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ByFollowed retrieves the posts whose author is followed by the given user,
// newest first. A user who follows no-one gets an empty feed.
func (pg *postGorm) ByFollowed(userID int) ([]domain.Post, error) {
	var posts []domain.Post
	err := feedOrder(pg.db).
		Joins("JOIN follows ON follows.author_id = posts.author_id").
		Where("follows.user_id = ?", userID).
		Preload("Author").
		Preload("Group").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// CountByAuthorID returns the number of posts an author has published.
func (pg *postGorm) CountByAuthorID(authorID int) (int, error) {
	var count int64
	err := pg.db.Model(&domain.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Create stores the data from the Post object in a new database record.
func (pg *postGorm) Create(post *domain.Post) error {
	return pg.db.Create(post).Error
}

// Update saves changes to an existing post record in the database.
func (pg *postGorm) Update(post *domain.Post) error {
	return pg.db.Save(post).Error
}
