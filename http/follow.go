package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"yatube/domain"
	"yatube/errs"
	"yatube/pagination"
)

func (s *Server) registerFollowRoutes(r *mux.Router) {
	r.HandleFunc("/follow/", s.requireAuth(s.handleFollowIndex)).Methods("GET")
	r.HandleFunc("/profile/{username}/follow/", s.requireAuth(s.handleProfileFollow)).Methods("GET")
	r.HandleFunc("/profile/{username}/unfollow/", s.requireAuth(s.handleProfileUnfollow)).Methods("GET")
}

// handleFollowIndex handles "GET /follow/", the personalized feed: posts by
// the authors the viewer follows, newest first.
func (s *Server) handleFollowIndex(w http.ResponseWriter, r *http.Request) {
	viewer := getUserFromContext(r.Context())
	posts, err := s.ps.ByFollowed(viewer.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	page := pagination.Paginate(posts, r.URL.Query().Get("page"), s.config.PageSize)
	s.render(w, r, "follow.html", Context{
		"page_obj": page,
	})
}

// handleProfileFollow handles "GET /profile/{username}/follow/". Creating an
// edge that already exists, or a self-follow, changes nothing; the viewer is
// redirected to the target's profile either way.
func (s *Server) handleProfileFollow(w http.ResponseWriter, r *http.Request) {
	author, err := s.us.ByUsername(mux.Vars(r)["username"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	viewer := getUserFromContext(r.Context())
	follow := &domain.Follow{
		UserID:   viewer.ID,
		AuthorID: author.ID,
	}
	if err := s.fs.Create(follow); err != nil {
		switch errs.ErrorCode(err) {
		case errs.ECONFLICT, errs.EINVALID:
			// Duplicate or self-follow: silently idempotent.
		default:
			errs.ReturnError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, "/profile/"+author.Username+"/", http.StatusFound)
}

// handleProfileUnfollow handles "GET /profile/{username}/unfollow/".
// Unfollowing someone the viewer does not follow changes nothing.
func (s *Server) handleProfileUnfollow(w http.ResponseWriter, r *http.Request) {
	author, err := s.us.ByUsername(mux.Vars(r)["username"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	viewer := getUserFromContext(r.Context())
	follow := &domain.Follow{
		UserID:   viewer.ID,
		AuthorID: author.ID,
	}
	if err := s.fs.Delete(follow); err != nil && errs.ErrorCode(err) != errs.ENOTFOUND {
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, "/profile/"+author.Username+"/", http.StatusFound)
}
