package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"yatube/domain"
	"yatube/errs"
	"yatube/pagination"
)

// indexCacheKey prefixes the page cache entries for the global feed.
const indexCacheKey = "index_page"

func (s *Server) registerPostRoutes(r *mux.Router) {
	r.HandleFunc("/", s.cachePage(indexCacheKey, s.handleIndex)).Methods("GET")
	r.HandleFunc("/group/{slug}/", s.handleGroupList).Methods("GET")
	r.HandleFunc("/profile/{username}/", s.handleProfile).Methods("GET")
	r.HandleFunc("/posts/{post_id:[0-9]+}/", s.handlePostDetail).Methods("GET")
	r.HandleFunc("/create/", s.requireAuth(s.handleCreatePost)).Methods("GET", "POST")
	r.HandleFunc("/posts/{post_id:[0-9]+}/edit/", s.requireAuth(s.handleEditPost)).Methods("GET", "POST")
}

// handleIndex handles "GET /", the global feed. The cachePage wrapper serves
// it from the page cache within the TTL.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	posts, err := s.ps.All()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	page := pagination.Paginate(posts, r.URL.Query().Get("page"), s.config.PageSize)
	s.render(w, r, "index.html", Context{
		"page_obj": page,
	})
}

// handleGroupList handles "GET /group/{slug}/", a group's feed.
func (s *Server) handleGroupList(w http.ResponseWriter, r *http.Request) {
	group, err := s.gs.BySlug(mux.Vars(r)["slug"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	posts, err := s.ps.ByGroupID(group.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	page := pagination.Paginate(posts, r.URL.Query().Get("page"), s.config.PageSize)
	s.render(w, r, "group_list.html", Context{
		"group":    group,
		"page_obj": page,
	})
}

// handleProfile handles "GET /profile/{username}/", an author's feed. The
// is_following flag reflects the viewer and is false for anonymous visitors.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	author, err := s.us.ByUsername(mux.Vars(r)["username"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	posts, err := s.ps.ByAuthorID(author.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	amount, err := s.ps.CountByAuthorID(author.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	isFollowing := false
	if viewer := getUserFromContext(r.Context()); viewer != nil {
		isFollowing, err = s.fs.Exists(viewer.ID, author.ID)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
	}
	page := pagination.Paginate(posts, r.URL.Query().Get("page"), s.config.PageSize)
	s.render(w, r, "profile.html", Context{
		"author":       author,
		"page_obj":     page,
		"posts_amount": amount,
		"is_following": isFollowing,
	})
}

// handlePostDetail handles "GET /posts/{post_id}/". It shows the post, its
// comments newest first, and an empty comment form.
func (s *Server) handlePostDetail(w http.ResponseWriter, r *http.Request) {
	post, err := s.postFromVars(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	comments, err := s.cs.ByPostID(post.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.render(w, r, "post_detail.html", Context{
		"post":     post,
		"comments": comments,
		"form":     &CommentForm{},
	})
}

// handleCreatePost handles "GET|POST /create/". A valid submission persists
// the post with the viewer as author and redirects to the viewer's profile;
// a failed validation re-renders the form with its error state. The index
// cache is deliberately not invalidated here.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	groups, err := s.gs.All()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if r.Method != http.MethodPost {
		s.render(w, r, "post_create.html", Context{
			"form": &PostForm{Groups: groups},
		})
		return
	}

	form := parsePostForm(r, groups)
	viewer := getUserFromContext(r.Context())
	post := &domain.Post{
		AuthorID: viewer.ID,
		Text:     form.Text,
		GroupID:  form.groupIDPtr(),
	}

	img, err := s.saveUploadedImage(r)
	if err != nil {
		if errs.ErrorCode(err) == errs.EINVALID {
			form.addError(errs.ErrorMessage(err))
			s.render(w, r, "post_create.html", Context{"form": form})
			return
		}
		errs.ReturnError(w, r, err)
		return
	}
	if img != nil {
		post.Image = img.Ref()
	}

	if err := s.ps.Create(post); err != nil {
		if img != nil {
			s.discardImage(r, img)
		}
		if errs.ErrorCode(err) == errs.EINVALID {
			form.addError(errs.ErrorMessage(err))
			s.render(w, r, "post_create.html", Context{"form": form})
			return
		}
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, "/profile/"+viewer.Username+"/", http.StatusFound)
}

// handleEditPost handles "GET|POST /posts/{post_id}/edit/". A viewer who is
// not the author is bounced to the post detail page rather than shown an
// error, to preserve existing client behavior.
func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.postFromVars(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	viewer := getUserFromContext(r.Context())
	if viewer.ID != post.AuthorID {
		http.Redirect(w, r, postDetailURL(post.ID), http.StatusFound)
		return
	}

	groups, err := s.gs.All()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if r.Method != http.MethodPost {
		s.render(w, r, "post_create.html", Context{
			"form": postFormFor(post, groups),
			"post": post,
		})
		return
	}

	form := parsePostForm(r, groups)
	post.Text = form.Text
	post.GroupID = form.groupIDPtr()
	post.Group = nil

	img, err := s.saveUploadedImage(r)
	if err != nil {
		if errs.ErrorCode(err) == errs.EINVALID {
			form.addError(errs.ErrorMessage(err))
			s.render(w, r, "post_create.html", Context{"form": form, "post": post})
			return
		}
		errs.ReturnError(w, r, err)
		return
	}
	if img != nil {
		post.Image = img.Ref()
	}

	if err := s.ps.Update(post); err != nil {
		if img != nil {
			s.discardImage(r, img)
		}
		if errs.ErrorCode(err) == errs.EINVALID {
			form.addError(errs.ErrorMessage(err))
			s.render(w, r, "post_create.html", Context{"form": form, "post": post})
			return
		}
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, postDetailURL(post.ID), http.StatusFound)
}

// saveUploadedImage stores the optional "image" form file. A request without
// an image yields a nil image; a multipart body that cannot be parsed is a
// validation error rather than a silently dropped upload.
func (s *Server) saveUploadedImage(r *http.Request) (*domain.Image, error) {
	file, _, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, errs.Errorf(errs.EINVALID, "The uploaded image could not be read.")
	}
	defer file.Close()
	img := &domain.Image{File: file}
	if err := s.is.Create(img); err != nil {
		return nil, err
	}
	return img, nil
}

// discardImage removes a stored upload whose post never made it into the
// database, so failed submissions leave no orphaned files under the media root.
func (s *Server) discardImage(r *http.Request, img *domain.Image) {
	if err := s.is.Delete(img); err != nil {
		errs.LogError(r, err)
	}
}

// postFromVars loads the post addressed by the {post_id} route variable.
func (s *Server) postFromVars(r *http.Request) (*domain.Post, error) {
	id, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
	}
	return s.ps.ByID(id)
}

func postDetailURL(id int) string {
	return "/posts/" + strconv.Itoa(id) + "/"
}
