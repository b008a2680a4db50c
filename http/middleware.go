package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// responseRecorder wraps http.ResponseWriter to capture the status code and
// a copy of the body as they are written through to the client.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rec *responseRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *responseRecorder) Write(b []byte) (int, error) {
	rec.body.Write(b)
	return rec.ResponseWriter.Write(b)
}

// logRequest logs every request with its status and duration.
func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// checkUser tries to identify the viewer on every request by matching the
// remember token cookie against the hashed tokens in the database. Requests
// without a valid cookie pass through anonymously.
func (s *Server) checkUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(rememberCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByRemember(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(setUserInContext(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// requireAuth short-circuits anonymous requests with a redirect to the login
// page, carrying the original location in ?next=.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := getUserFromContext(r.Context())
		if user == nil {
			http.Redirect(w, r, LoginURL+"?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// cachePage serves the wrapped handler's rendered body from the page cache
// while the TTL lasts. The cache is not keyed on the viewer, only on the
// requested page window, so the cached content must be anonymous-visible.
// Writes do not invalidate it; new posts appear after at most one TTL.
func (s *Server) cachePage(keyPrefix string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := keyPrefix
		if page := r.URL.Query().Get("page"); page != "" {
			key += ":page=" + page
		}
		if body, ok := s.pages.Get(key); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(body)
			return
		}
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if rec.status == http.StatusOK {
			s.pages.Set(key, rec.body.Bytes())
		}
	}
}
