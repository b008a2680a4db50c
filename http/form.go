package http

import (
	"net/http"
	"strconv"

	"yatube/domain"
)

// PostForm carries the create/edit post form between request and template.
// GroupID 0 means no group selected.
type PostForm struct {
	Text    string
	GroupID int
	Groups  []domain.Group
	Errors  []string
}

// parsePostForm reads the submitted post fields. Groups are attached so a
// re-rendered form keeps its choices.
func parsePostForm(r *http.Request, groups []domain.Group) *PostForm {
	form := &PostForm{
		Text:   r.PostFormValue("text"),
		Groups: groups,
	}
	if v := r.PostFormValue("group"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			form.GroupID = id
		}
	}
	return form
}

// postFormFor pre-fills the form from an existing post, for the edit page.
func postFormFor(post *domain.Post, groups []domain.Group) *PostForm {
	form := &PostForm{
		Text:   post.Text,
		Groups: groups,
	}
	if post.GroupID != nil {
		form.GroupID = *post.GroupID
	}
	return form
}

// groupIDPtr converts the form's group selection into the optional reference
// the Post model stores.
func (f *PostForm) groupIDPtr() *int {
	if f.GroupID == 0 {
		return nil
	}
	id := f.GroupID
	return &id
}

// addError records a validation failure for the template to display.
func (f *PostForm) addError(msg string) {
	f.Errors = append(f.Errors, msg)
}

// CommentForm carries the comment form on the post detail page.
type CommentForm struct {
	Text   string
	Errors []string
}

func (f *CommentForm) addError(msg string) {
	f.Errors = append(f.Errors, msg)
}

// SignupForm carries the registration form.
type SignupForm struct {
	Username string
	Email    string
	Errors   []string
}

func (f *SignupForm) addError(msg string) {
	f.Errors = append(f.Errors, msg)
}

// LoginForm carries the login form. Next is the location to return to after
// a successful login.
type LoginForm struct {
	Email  string
	Next   string
	Errors []string
}

func (f *LoginForm) addError(msg string) {
	f.Errors = append(f.Errors, msg)
}
