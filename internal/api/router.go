package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/notesapp/notes-api/docs"
	"github.com/notesapp/notes-api/internal/api/handler"
	"github.com/notesapp/notes-api/internal/api/middleware"
	"github.com/notesapp/notes-api/internal/core/ports"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Auth       ports.AuthService
	Categories ports.CategoryService

	// LoginLimiter guards POST /auth/token. Nil disables rate limiting.
	LoginLimiter middleware.LoginLimiter
	// Checks are the readiness probes served on /health/ready.
	Checks map[string]handler.Check
	// Registerer receives the HTTP request metrics. Nil disables them, which
	// keeps tests from registering the same collectors twice.
	Registerer prometheus.Registerer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	if d.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "notes",
			Registerer: d.Registerer,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
	}

	authHandler := handler.NewAuthHandler(d.Auth)
	categoryHandler := handler.NewCategoryHandler(d.Categories)
	healthHandler := handler.NewHealthHandler(d.Checks)
	requireUser := middleware.CurrentUser(d.Auth)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	if d.LoginLimiter != nil {
		auth.POST("/token", authHandler.Token, middleware.LoginRateLimit(d.LoginLimiter, d.Log))
	} else {
		auth.POST("/token", authHandler.Token)
	}
	auth.GET("/profile", authHandler.GetProfile, requireUser)
	auth.POST("/profile", authHandler.UpdateProfile, requireUser)

	// --- Category routes ---
	e.POST("/categories/", categoryHandler.Create, requireUser)

	// --- Operational routes (no auth required) ---
	e.GET("/healthz", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
