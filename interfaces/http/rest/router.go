package rest

import (
	"net/http"
	"time"

	"photoshare/application/commands/bus"
	querybus "photoshare/application/queries/bus"
	"photoshare/domain/config"
	"photoshare/interfaces/http/rest/handlers"
	"photoshare/interfaces/http/rest/middleware"
	"photoshare/pkg/auth"
	pkgerrors "photoshare/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig holds the HTTP surface settings
type RouterConfig struct {
	EnableCORS           bool
	AllowedOrigins       []string
	TrustIdentityHeaders bool
	// UploadsDir is served under /uploads when images are stored locally
	UploadsDir    string
	AuthRateLimit middleware.RateLimitConfig
}

// DefaultRouterConfig returns the settings used for local runs
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		EnableCORS:           true,
		AllowedOrigins:       []string{"*"},
		TrustIdentityHeaders: true,
		AuthRateLimit:        middleware.RateLimitConfig{Limit: 20, Window: time.Minute},
	}
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	accounts   handlers.Authenticator
	tokens     middleware.TokenValidator
	limiter    auth.RateLimiter
	errs       *pkgerrors.ErrorHandler
	domain     *config.DomainConfig
	config     RouterConfig
	checks     []handlers.ReadinessCheck
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	accounts handlers.Authenticator,
	tokens middleware.TokenValidator,
	limiter auth.RateLimiter,
	errs *pkgerrors.ErrorHandler,
	domain *config.DomainConfig,
	cfg RouterConfig,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		accounts:   accounts,
		tokens:     tokens,
		limiter:    limiter,
		errs:       errs,
		domain:     domain,
		config:     cfg,
		logger:     logger,
	}
}

// WithReadinessCheck adds a dependency probe to /ready
func (rt *Router) WithReadinessCheck(check handlers.ReadinessCheck) *Router {
	rt.checks = append(rt.checks, check)
	return rt
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	router.Use(rt.errs.Middleware)

	if rt.config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.config.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept", "Authorization", "Content-Type", "X-Request-ID",
				"x-photo-id", middleware.HeaderUserID, middleware.HeaderUserName, middleware.HeaderUserRole,
			},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	health := handlers.NewHealthHandler(rt.checks, rt.logger)
	router.Get("/health", health.Health)
	router.Get("/ready", health.Ready)
	router.Get("/ping", health.Ping)
	router.Post("/ping", health.Ping)

	if rt.config.UploadsDir != "" {
		router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(rt.config.UploadsDir))))
	}

	router.Group(rt.apiRoutes)
	router.Route("/api", rt.apiRoutes)

	return router
}

// apiRoutes registers the API under each path the web client uses
func (rt *Router) apiRoutes(r chi.Router) {
	r.Use(middleware.Identity(rt.tokens, rt.config.TrustIdentityHeaders, rt.errs, rt.logger))

	photos := handlers.NewPhotoHandler(rt.commandBus, rt.queryBus, rt.errs, rt.domain, rt.logger)
	social := handlers.NewSocialHandler(rt.commandBus, rt.queryBus, rt.errs, rt.logger)
	accounts := handlers.NewAuthHandler(rt.accounts, rt.errs, rt.logger)

	r.Get("/photos", photos.ListPhotos)
	r.Get("/get-photos", photos.ListPhotos)
	r.Get("/photo/{id}", photos.GetPhoto)
	r.Get("/get-photo/{id}", photos.GetPhoto)
	r.Post("/photo", photos.CreatePhoto)
	r.Post("/create-photo", photos.CreatePhoto)
	r.Delete("/photo/{id}", photos.DeletePhoto)
	r.Delete("/delete-photo/{id}", photos.DeletePhoto)
	r.Get("/photo-likes", photos.GetPhotoLikes)
	r.Get("/get-user-liked-photos", photos.GetPhotoLikes)

	r.Post("/like", social.LikePhoto)
	r.Post("/like-photo", social.LikePhoto)
	r.Post("/unlike", social.UnlikePhoto)
	r.Post("/unlike-photo", social.UnlikePhoto)
	r.Get("/likes", social.GetLikes)
	r.Get("/get-likes", social.GetLikes)
	r.Get("/comments", social.ListComments)
	r.Get("/get-comments", social.ListComments)
	r.Post("/comment", social.CreateComment)
	r.Post("/create-comment", social.CreateComment)
	r.Delete("/comment/{id}", social.DeleteComment)
	r.Delete("/delete-comment/{id}", social.DeleteComment)

	r.Group(func(r chi.Router) {
		if rt.limiter != nil {
			r.Use(middleware.RateLimit(rt.limiter, rt.config.AuthRateLimit, rt.errs, rt.logger))
		}
		r.Post("/signin", accounts.SignIn)
		r.Post("/signup-consumer", accounts.SignUpConsumer)
		r.Post("/signup-creator", accounts.SignUpCreator)
	})
}
