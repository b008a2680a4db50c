package http

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"yatube/domain"
	"yatube/errs"
)

const rememberCookieName = "remember_token"

func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/auth/signup/", s.handleSignup).Methods("GET", "POST")
	r.HandleFunc("/auth/login/", s.handleLogin).Methods("GET", "POST")
	r.HandleFunc("/auth/logout/", s.handleLogout).Methods("GET", "POST")
}

// handleSignup handles "GET|POST /auth/signup/". A successful registration
// signs the new user in and sends them to the index page.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.render(w, r, "signup.html", Context{"form": &SignupForm{}})
		return
	}

	form := &SignupForm{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
	}
	user := &domain.User{
		Username: form.Username,
		Email:    form.Email,
		Password: r.PostFormValue("password"),
	}
	if err := s.us.Create(user); err != nil {
		if errs.ErrorCode(err) == errs.EINVALID {
			form.addError(errs.ErrorMessage(err))
			s.render(w, r, "signup.html", Context{"form": form})
			return
		}
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.signIn(w, user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLogin handles "GET|POST /auth/login/". After a successful login the
// viewer returns to the location in ?next=, defaulting to the index page.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	next := sanitizeNext(r.FormValue("next"))
	if r.Method != http.MethodPost {
		s.render(w, r, "login.html", Context{"form": &LoginForm{Next: next}})
		return
	}

	form := &LoginForm{
		Email: r.PostFormValue("email"),
		Next:  next,
	}
	user, err := s.us.Authenticate(form.Email, r.PostFormValue("password"))
	if err != nil {
		code := errs.ErrorCode(err)
		if code == errs.EINVALID || code == errs.ENOTFOUND {
			form.addError(errs.ErrorMessage(err))
			s.render(w, r, "login.html", Context{"form": form})
			return
		}
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.signIn(w, user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, next, http.StatusFound)
}

// handleLogout handles "/auth/logout/". The remember token is rotated so the
// old cookie value can never identify the user again.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     rememberCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
	if user := getUserFromContext(r.Context()); user != nil {
		token, err := makeRememberToken()
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		user.Remember = token
		if err := s.us.Update(user); err != nil {
			errs.ReturnError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// signIn issues a fresh remember token, stores its hash on the user and
// hands the raw token to the client as a cookie.
func (s *Server) signIn(w http.ResponseWriter, user *domain.User) error {
	if user.Remember == "" {
		token, err := makeRememberToken()
		if err != nil {
			return err
		}
		user.Remember = token
		if err := s.us.Update(user); err != nil {
			return err
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     rememberCookieName,
		Value:    user.Remember,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.IsProd,
	})
	return nil
}

// makeRememberToken generates a random token for the remember cookie.
func makeRememberToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// sanitizeNext keeps redirects on-site: only an absolute path is honored.
func sanitizeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
