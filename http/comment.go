package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"yatube/domain"
	"yatube/errs"
)

func (s *Server) registerCommentRoutes(r *mux.Router) {
	// GET is accepted so that anonymous hits still redirect to the login
	// page instead of failing on the method; an authenticated GET just
	// bounces back to the post.
	r.HandleFunc("/posts/{post_id:[0-9]+}/comment/", s.requireAuth(s.handleAddComment)).Methods("GET", "POST")
}

// handleAddComment handles "POST /posts/{post_id}/comment/". A valid
// submission appends a comment with the viewer as author and redirects back
// to the post; a failed validation re-renders the detail page with the form's
// error state.
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	post, err := s.postFromVars(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if r.Method != http.MethodPost {
		http.Redirect(w, r, postDetailURL(post.ID), http.StatusFound)
		return
	}

	form := &CommentForm{Text: r.PostFormValue("text")}
	viewer := getUserFromContext(r.Context())
	comment := &domain.Comment{
		PostID:   post.ID,
		AuthorID: viewer.ID,
		Text:     form.Text,
	}
	if err := s.cs.Create(comment); err != nil {
		if errs.ErrorCode(err) == errs.EINVALID {
			form.addError(errs.ErrorMessage(err))
			comments, err := s.cs.ByPostID(post.ID)
			if err != nil {
				errs.ReturnError(w, r, err)
				return
			}
			s.render(w, r, "post_detail.html", Context{
				"post":     post,
				"comments": comments,
				"form":     form,
			})
			return
		}
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, postDetailURL(post.ID), http.StatusFound)
}
