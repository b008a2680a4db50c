package database

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"yatube/domain"
	"yatube/errs"
)

// CommentService manages Comments.
// It implements the domain.CommentService interface.
type CommentService struct {
	commentValidator
}

// commentValidator runs validations on incoming Comment data.
// On success, it passes the data on to commentGorm.
type commentValidator struct {
	commentGorm
}

// commentGorm runs CRUD operations on the database using incoming Comment
// data. It assumes that data has been validated.
type commentGorm struct {
	db *gorm.DB
}

// NewCommentService returns an instance of CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		commentValidator{
			commentGorm{
				db: db,
			},
		},
	}
}

// Ensure the CommentService struct properly implements the
// domain.CommentService interface. If it does not, then this expression
// becomes invalid and won't compile.
var _ domain.CommentService = &CommentService{}

// Create runs validations needed for creating new Comment database records.
// The creation timestamp is assigned here, at insert time.
func (cv *commentValidator) Create(comment *domain.Comment) error {
	err := runCommentValFns(comment,
		cv.authorIDValid,
		cv.commentedPostExists,
		cv.textRequired,
		cv.createdSetIfUnset)
	if err != nil {
		return err
	}
	return cv.commentGorm.Create(comment)
}

// runCommentValFns runs any number of functions of type commentValFn on the
// passed in Comment object, stopping at the first error.
func runCommentValFns(comment *domain.Comment, fns ...commentValFn) error {
	for _, fn := range fns {
		if err := fn(comment); err != nil {
			return err
		}
	}
	return nil
}

// A commentValFn is any function that takes in a pointer to a domain.Comment
// object and returns an error.
type commentValFn func(comment *domain.Comment) error

func (cv *commentValidator) authorIDValid(comment *domain.Comment) error {
	if comment.AuthorID <= 0 {
		return errs.Errorf(errs.EINVALID, "A comment author is required.")
	}
	return nil
}

// commentedPostExists makes sure the post to be commented on actually exists.
func (cv *commentValidator) commentedPostExists(comment *domain.Comment) error {
	err := cv.db.First(&domain.Post{}, "id = ?", comment.PostID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The commented post does not exist.")
		}
		return err
	}
	return nil
}

func (cv *commentValidator) textRequired(comment *domain.Comment) error {
	if strings.TrimSpace(comment.Text) == "" {
		return errs.Errorf(errs.EINVALID, "The comment text must not be empty.")
	}
	return nil
}

func (cv *commentValidator) createdSetIfUnset(comment *domain.Comment) error {
	if comment.Created.IsZero() {
		comment.Created = time.Now().UTC()
	}
	return nil
}

// ByPostID retrieves a post's comments, newest first, with their authors.
func (cg *commentGorm) ByPostID(postID int) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := cg.db.
		Where("post_id = ?", postID).
		Order("created desc, id desc").
		Preload("Author").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Create stores the data from the Comment object in a new database record.
func (cg *commentGorm) Create(comment *domain.Comment) error {
	return cg.db.Create(comment).Error
}
