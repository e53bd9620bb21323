// Package server is the composition root: it builds every collaborator from
// the configuration, mounts the routes and runs the HTTP server with a
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/skillverse/internal/assistant"
	"github.com/sakif/skillverse/internal/assistant/gemini"
	"github.com/sakif/skillverse/internal/auth"
	"github.com/sakif/skillverse/internal/cache"
	"github.com/sakif/skillverse/internal/config"
	"github.com/sakif/skillverse/internal/handler"
	"github.com/sakif/skillverse/internal/media"
	"github.com/sakif/skillverse/internal/media/cloudinary"
	"github.com/sakif/skillverse/internal/middleware"
	"github.com/sakif/skillverse/internal/model"
	"github.com/sakif/skillverse/internal/repository"
	"github.com/sakif/skillverse/internal/repository/postgres"
	sqliteRepo "github.com/sakif/skillverse/internal/repository/sqlite"
	"github.com/sakif/skillverse/internal/service"
	"github.com/sakif/skillverse/internal/validate"
)

// shutdownTimeout is how long in-flight requests get to finish.
const shutdownTimeout = 30 * time.Second

// OpenStore connects to the configured database and applies the schema.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (repository.Store, error) {
	var (
		store repository.Store
		err   error
	)

	switch cfg.Driver {
	case "postgres":
		store, err = postgres.New(ctx, cfg.DSN(), cfg.MaxConns)
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		store, err = sqliteRepo.New(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	logger.Info("database ready", slog.String("driver", cfg.Driver))
	return store, nil
}

// Server owns the router and the store. The store is closed when Start
// returns.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	store  repository.Store
}

// collaborators are the optional integrations. Each stays nil when its
// credentials are missing; the service using it then answers 503.
type collaborators struct {
	verifier  auth.SessionVerifier
	profiles  auth.ProfileFetcher
	tokens    *auth.TokenService
	assistant assistant.Assistant
	uploader  media.Uploader
}

// New builds the services and routes on top of store.
func New(ctx context.Context, cfg *config.Config, store repository.Store, logger *slog.Logger) (*Server, error) {
	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	deps, err := buildCollaborators(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	backend, err := cache.New(cfg.Cache.Type, cfg.Cache.RedisURL, cfg.Cache.CourseTTL)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}
	courseCache := cache.NewPrefixedCache[[]model.Course](backend, "courses:", cfg.Cache.CourseTTL)

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}
	s.setupRoutes(deps, courseCache, proxies)
	return s, nil
}

func buildCollaborators(ctx context.Context, cfg *config.Config, logger *slog.Logger) (collaborators, error) {
	var deps collaborators

	if cfg.ClerkEnabled() {
		v, err := auth.NewClerkVerifier(cfg.Clerk.JWTKey, cfg.Clerk.AuthorizedParties)
		if err != nil {
			return deps, fmt.Errorf("configuring Clerk session verification: %w", err)
		}
		deps.verifier = v
	} else {
		logger.Warn("clerk.jwt_key not set, signed-in routes are disabled")
	}

	if cfg.ClerkProfileEnabled() {
		deps.profiles = auth.NewClerkClient(cfg.Clerk.SecretKey, cfg.Clerk.APIURL)
	}

	if cfg.AdminEnabled() {
		tokens, err := auth.NewTokenService(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
		if err != nil {
			return deps, fmt.Errorf("configuring admin tokens: %w", err)
		}
		deps.tokens = tokens
	} else {
		logger.Warn("admin.jwt_secret not set, admin routes are disabled")
	}

	if cfg.GeminiEnabled() {
		a, err := gemini.New(ctx, gemini.Config{
			APIKey:   cfg.Gemini.APIKey,
			Model:    cfg.Gemini.Model,
			MaxTurns: cfg.Gemini.MaxTurns,
			Timeout:  cfg.UpstreamTimeout,
		}, logger)
		if err != nil {
			return deps, fmt.Errorf("configuring Gemini: %w", err)
		}
		deps.assistant = a
	} else {
		logger.Warn("gemini.api_key not set, /api/gemini is disabled")
	}

	if cfg.CloudinaryEnabled() {
		u, err := cloudinary.New(cloudinary.Config{
			CloudName: cfg.Cloudinary.CloudName,
			APIKey:    cfg.Cloudinary.APIKey,
			APISecret: cfg.Cloudinary.APISecret,
			Folder:    cfg.Cloudinary.Folder,
			Timeout:   cfg.UpstreamTimeout,
		}, logger)
		if err != nil {
			return deps, fmt.Errorf("configuring Cloudinary: %w", err)
		}
		deps.uploader = u
	}

	return deps, nil
}

// setupRoutes mounts the API under /api and the SPA on everything else.
//
//	GET  /healthz
//	GET  /api/courses/active            public
//	GET  /api/courses/enrollment        public
//	POST /api/submit-feedback           public
//	POST /api/gemini                    public, rate limited
//	POST /api/saveUser                  signed in
//	GET  /api/userProgress              signed in
//	GET  /api/me                        signed in
//	POST /api/courses/{id}/enroll       signed in
//	POST /api/upload                    signed in
//	POST /api/admin/login               rate limited
//	*    /api/admin/...                 admin session
func (s *Server) setupRoutes(deps collaborators, courseCache service.CourseCache, proxies []netip.Prefix) {
	v := validate.New()

	userSvc := service.NewUserService(s.store, deps.profiles, s.logger)
	courseSvc := service.NewCourseService(s.store, s.store, courseCache, v, s.logger)
	feedbackSvc := service.NewFeedbackService(s.store, v, s.logger)
	adminSvc := service.NewAdminService(s.store, s.store, deps.tokens, auth.NewPasswordService(), s.logger)
	chatSvc := service.NewChatService(deps.assistant, v, s.logger)
	mediaSvc := service.NewMediaService(deps.uploader, s.logger)

	users := handler.NewUserHandler(userSvc, s.logger)
	courses := handler.NewCourseHandler(courseSvc, s.logger)
	feedback := handler.NewFeedbackHandler(feedbackSvc, s.logger)
	admin := handler.NewAdminHandler(adminSvc, s.config.Admin.SecureCookie, s.logger)
	chat := handler.NewChatHandler(chatSvc, s.logger)
	uploads := handler.NewMediaHandler(mediaSvc, s.logger)
	health := handler.NewHealthHandler(s.store, s.logger)

	chatLimit := middleware.NewRateLimiter("chat", s.config.Gemini.RatePerMinute)
	loginLimit := middleware.NewRateLimiter("login", s.config.Admin.LoginPerMinute)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(middleware.RealIP(proxies))
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.CORS(s.config.CORSOrigins))

	s.router.Get("/healthz", health.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/courses/active", courses.HandleActive)
		r.Get("/courses/enrollment", courses.HandleEnrollments)
		r.Post("/submit-feedback", feedback.HandleSubmit)
		r.With(chatLimit.Middleware).Post("/gemini", chat.HandleChat)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(deps.verifier))
			r.Post("/saveUser", users.HandleSaveUser)
			r.Get("/userProgress", users.HandleProgress)
			r.Get("/me", users.HandleMe)
			r.Post("/courses/{id}/enroll", courses.HandleEnroll)
			r.Post("/upload", uploads.HandleUpload)
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(loginLimit.Middleware).Post("/login", admin.HandleLogin)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin(deps.tokens))
				r.Post("/logout", admin.HandleLogout)
				r.Get("/dashboard", admin.HandleDashboard)
				r.Get("/feedback", feedback.HandleList)
				r.Post("/courses", courses.HandleCreate)
				r.Post("/courses/refresh", courses.HandleRefresh)
			})
		})

		r.NotFound(handler.NotFoundAPI)
		r.MethodNotAllowed(handler.NotFoundAPI)
	})

	spa := handler.NewSPAHandler(s.config.StaticDir, s.logger)
	s.router.Get("/*", spa.ServeHTTP)
	s.router.Head("/*", spa.ServeHTTP)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then drains in-flight requests and
// closes the store.
func (s *Server) Start(ctx context.Context) error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		// Uploads and chat replies can take a while; the upstream timeout
		// bounds them, plus headroom to write the response.
		WriteTimeout: s.config.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.Database.Driver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}
	return nil
}
