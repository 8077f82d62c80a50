package http

import (
	"context"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/classzip/pkg/domain/interfaces"
	"github.com/spf13/afero"
)

// config holds internal HTTP server configuration
type config struct {
	addr         string
	staticFS     afero.Fs
	secureCookie bool
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithStaticDir serves the frontend from dir for all unmatched GET requests.
// An empty dir disables static serving.
func WithStaticDir(dir string) Option {
	return func(c *config) {
		if dir == "" {
			c.staticFS = nil
			return
		}
		c.staticFS = afero.NewBasePathFs(afero.NewReadOnlyFs(afero.NewOsFs()), dir)
	}
}

// WithStaticFS serves the frontend from fsys
func WithStaticFS(fsys afero.Fs) Option {
	return func(c *config) {
		c.staticFS = fsys
	}
}

// WithSecureCookie marks session cookies as Secure
func WithSecureCookie(secure bool) Option {
	return func(c *config) {
		c.secureCookie = secure
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	authUC interfaces.AuthUseCase,
	classroomUC interfaces.ClassroomUseCase,
	archiveUC interfaces.ArchiveUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr: "localhost:5000",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	cookies := &cookieJar{secure: cfg.secureCookie}
	authHandler := &authHandler{auth: authUC, cookies: cookies}
	courseHandler := &courseHandler{classroom: classroomUC, archive: archiveUC}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	if sentry.CurrentHub().Client() != nil {
		router.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	router.Use(middleware.Recoverer)
	router.Use(authHandler.Middleware)

	// Health check
	router.Get("/health", handleHealth)

	// OAuth2 flow
	router.Get("/auth/google", authHandler.Login)
	router.Get("/auth/google/callback", authHandler.Callback)
	router.Get("/logout", authHandler.Logout)

	// Authenticated API
	router.Get("/user-info", courseHandler.UserInfo)
	router.Get("/profile-image/{id}", courseHandler.ProfileImage)
	router.Get("/courses", courseHandler.ListCourses)
	router.Get("/courses/{courseId}/materials", courseHandler.ListMaterials)
	router.Get("/courses/{courseId}/download", courseHandler.Download)

	// Frontend
	if cfg.staticFS != nil {
		router.Handle("/*", http.FileServer(afero.NewHttpFs(cfg.staticFS).Dir("/")))
	}

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
