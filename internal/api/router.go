package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clavinorach/kratos-dashboard/internal/api/handler"
	"github.com/clavinorach/kratos-dashboard/internal/api/middleware"
	"github.com/clavinorach/kratos-dashboard/internal/core/ports"
	"github.com/clavinorach/kratos-dashboard/internal/core/service"
	"github.com/clavinorach/kratos-dashboard/internal/infrastructure/config"
	mongodb "github.com/clavinorach/kratos-dashboard/internal/infrastructure/db/mongo"
	"github.com/clavinorach/kratos-dashboard/internal/infrastructure/kratos"
)

// Deps carries everything the router needs to assemble the service.
type Deps struct {
	DB       *mongo.Database
	Redis    *redis.Client
	Provider ports.IdentityProvider
	// Kratos is the raw client, used only by the readiness probe.
	Kratos *kratos.Client
	Config *config.Config
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("dashboard"))

	// --- Dependencies ---
	roleRepo := mongodb.NewRoleRepository(d.DB)
	pageRepo := mongodb.NewPageRepository(d.DB)

	userService := service.NewUserService(d.Provider, roleRepo, d.Log)
	pageService := service.NewPageService(pageRepo, d.Log)

	meHandler := handler.NewMeHandler()
	userHandler := handler.NewUserHandler(userService)
	adminPageHandler := handler.NewAdminPageHandler(pageService)
	pageHandler := handler.NewPageHandler(pageService)

	sessionRedirect := middleware.Session(d.Provider, roleRepo, d.Config.Kratos.UIURL, d.Config.AppURL)
	sessionAPI := middleware.SessionAPI(d.Provider, roleRepo)

	// --- Probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readyHandler := handler.NewReadinessHandler(d.DB, d.Redis, d.Kratos)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readyHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Entry points ---
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/p")
	})
	e.GET("/logout", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, d.Config.Kratos.BrowserURL+"/self-service/logout/browser")
	})

	// --- Current user (any authenticated caller, pending included) ---
	e.GET("/me", meHandler.Get, sessionAPI)

	// --- Admin API ---
	admin := e.Group("/admin", sessionAPI, middleware.RequireAdmin())
	admin.GET("/users", userHandler.List)
	admin.GET("/users/:id", userHandler.Get)
	admin.POST("/users/:id/role", userHandler.AssignRole)
	admin.DELETE("/users/:id/role", userHandler.RemoveRole)
	admin.GET("/pages", adminPageHandler.List)
	admin.POST("/pages", adminPageHandler.Create)
	admin.GET("/pages/:id", adminPageHandler.Get)
	admin.PUT("/pages/:id", adminPageHandler.Update)
	admin.DELETE("/pages/:id", adminPageHandler.Delete)

	// --- Reader pages (browser flow: redirect to login when signed out) ---
	pages := e.Group("/p", sessionRedirect, middleware.RequireApproved())
	pages.GET("", pageHandler.List)
	pages.GET("/:slug", pageHandler.Get)

	return e
}
