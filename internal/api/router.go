package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/inkpost/blog-api/docs"
	"github.com/inkpost/blog-api/internal/api/handler"
	"github.com/inkpost/blog-api/internal/api/middleware"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// multipartOverhead is the allowance for form fields and part headers on top
// of the cover size when capping request bodies.
const multipartOverhead int64 = 1 << 20

// Dependencies is everything the HTTP layer needs, built once in main.
type Dependencies struct {
	Auth   ports.AuthService
	Posts  ports.PostService
	Covers ports.CoverService

	HealthChecks []handler.DependencyCheck

	FrontendURL          string
	CookieSecure         bool
	DeleteRequiresAuthor bool
	MaxUploadBytes       int64

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{deps.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit(deps.MaxUploadBytes)))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, handler.CookieOptions{Secure: deps.CookieSecure})
	postHandler := handler.NewPostHandler(deps.Posts, deps.Covers)
	uploadHandler := handler.NewUploadHandler(deps.Covers)
	gate := middleware.Auth(deps.Auth)

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/profile", authHandler.Profile, gate)
	e.POST("/logout", authHandler.Logout)

	// --- Post routes ---
	e.POST("/posts", postHandler.Create, gate)
	e.PUT("/posts", postHandler.Update, gate)
	e.GET("/posts", postHandler.List)
	e.GET("/posts/:id", postHandler.Get)
	if deps.DeleteRequiresAuthor {
		e.DELETE("/posts/:id", postHandler.Delete, gate)
	} else {
		e.DELETE("/posts/:id", postHandler.Delete)
	}

	// --- Stored covers ---
	e.GET("/uploads/:name", uploadHandler.ServeCover)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func bodyLimit(maxUpload int64) string {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return fmt.Sprintf("%dK", (maxUpload+multipartOverhead+1023)/1024)
}
