package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"

	"yatube/cache"
	"yatube/domain"
)

// LoginURL is the path anonymous users are redirected to when they hit an
// auth-required handler. The original location is carried in ?next=.
const LoginURL = "/auth/login/"

// Config carries the handler-facing configuration. It is loaded once at
// startup and threaded into the server; handlers never consult globals.
type Config struct {
	// PageSize is the fixed page size for all feeds.
	PageSize int
	// MediaRoot is the directory uploaded images are stored in and served from.
	MediaRoot string
	// CSRFAuthKey signs the CSRF cookies wrapped around the router in Run.
	CSRFAuthKey string
	// IsProd toggles secure cookies.
	IsProd bool
}

// Server provides the http functionality of the app: routing, request
// handling and middleware. It performs authentication and authorization
// before handing things over to one of the database services.
type Server struct {
	router *mux.Router
	logger *slog.Logger
	config Config
	pages  *cache.PageCache

	us domain.UserService
	gs domain.GroupService
	ps domain.PostService
	cs domain.CommentService
	fs domain.FollowService
	is domain.ImageService
}

// NewServer returns a new instance of the server, registers all routes and
// gives their handlers access to the services passed in. The page cache is
// injected so tests and ops tooling can flush it.
func NewServer(
	config Config,
	logger *slog.Logger,
	pages *cache.PageCache,
	us domain.UserService,
	gs domain.GroupService,
	ps domain.PostService,
	cs domain.CommentService,
	fs domain.FollowService,
	is domain.ImageService,
) *Server {
	s := &Server{
		router: mux.NewRouter(),
		logger: logger,
		config: config,
		pages:  pages,
		us:     us,
		gs:     gs,
		ps:     ps,
		cs:     cs,
		fs:     fs,
		is:     is,
	}

	// Routes of the auth system.
	s.registerAuthRoutes(s.router)

	// Routes of the posts app.
	s.registerPostRoutes(s.router)
	s.registerCommentRoutes(s.router)
	s.registerFollowRoutes(s.router)

	// Uploaded media.
	s.router.PathPrefix("/media/").Handler(
		http.StripPrefix("/media/", http.FileServer(http.Dir(config.MediaRoot))))

	s.router.NotFoundHandler = s.checkUser(http.HandlerFunc(s.handleNotFound))

	// Middleware that runs on every request.
	s.router.Use(s.logRequest, s.checkUser)

	return s
}

// Router exposes the route table. Tests drive it directly, bypassing the
// CSRF wrapper applied in Run.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts to listen and serve on the specified port, with CSRF
// protection wrapped around the whole route table.
func (s *Server) Run(port int) error {
	csrfMw := csrf.Protect(
		[]byte(s.config.CSRFAuthKey),
		csrf.Secure(s.config.IsProd),
		csrf.Path("/"),
	)
	addr := ":" + strconv.Itoa(port)
	s.logger.Info("listening", slog.String("addr", addr))
	return http.ListenAndServe(addr, csrfMw(s.router))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Page not found.", http.StatusNotFound)
}
