package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/geonotes/notes-api/docs"
	"github.com/geonotes/notes-api/internal/api/handler"
	"github.com/geonotes/notes-api/internal/api/middleware"
	"github.com/geonotes/notes-api/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Logger   zerolog.Logger
	Verifier middleware.TokenVerifier
	Users    ports.UserService
	Notes    ports.NoteService
	// Readiness probes by dependency name; nil entries are skipped.
	Readiness map[string]handler.Pinger
	// Registerer receives the HTTP request metrics. Defaults to the
	// global Prometheus registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			d.Logger.Error().Err(err).Bytes("stack", stack).Str("path", c.Path()).Msg("panic recovered")
			return err
		},
	}))
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "geonotes",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
		StatusCodeResolver: func(c echo.Context, err error) int {
			if err == nil {
				return c.Response().Status
			}
			code, _, _ := resolveError(err)
			return code
		},
	}))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authenticate := middleware.Authenticate(d.Verifier)
	members := middleware.Authorize(membersPolicy)
	admins := middleware.Authorize(adminsPolicy)

	g := e.Group("/api")

	// --- User routes ---
	userHandler := handler.NewUserHandler(d.Users)
	users := g.Group("/user")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.GET("", userHandler.Me, authenticate, members)

	// --- Note routes ---
	noteHandler := handler.NewNoteHandler(d.Notes)
	notes := g.Group("/notes", authenticate)
	notes.GET("", noteHandler.ListMine, members)
	notes.GET("/all", noteHandler.ListAll, admins)
	notes.POST("", noteHandler.Create, members)
	notes.PATCH("/:id", noteHandler.Update, members)
	notes.DELETE("/:id", noteHandler.Delete, members)

	return e
}
