package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/zetruc/pulse/docs"
	"github.com/zetruc/pulse/internal/api/handler"
	"github.com/zetruc/pulse/internal/api/middleware"
	"github.com/zetruc/pulse/internal/core/domain"
)

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth       *handler.AuthHandler
	Project    *handler.ProjectHandler
	Domain     *handler.DomainHandler
	Suggestion *handler.SuggestionHandler
	Analysis   *handler.AnalysisHandler
	User       *handler.UserHandler
	LLMKey     *handler.LLMKeyHandler
	Admin      *handler.AdminHandler
	Health     *handler.HealthHandler
}

// Config carries what NewRouter needs besides the handlers. Nil Registerer
// and Gatherer fall back to the Prometheus defaults.
type Config struct {
	Log        zerolog.Logger
	Authn      middleware.Authenticator
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg Config, h Handlers) *echo.Echo {
	log := cfg.Log
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "pulse",
		Subsystem:  "http",
		Registerer: cfg.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", h.Health.Liveness)
	e.GET("/health/ready", h.Health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: cfg.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	requireAuth := middleware.Auth(cfg.Authn)

	// --- Auth ---
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout, requireAuth)
	api.GET("/auth/me", h.Auth.Me, requireAuth)

	// --- Projects, domains and analyses ---
	projects := api.Group("/projects", requireAuth)
	projects.GET("", h.Project.List)
	projects.POST("", h.Project.Create)
	projects.GET("/:id", h.Project.Get)
	projects.DELETE("/:id", h.Project.Delete)
	projects.PATCH("/:id/brand", h.Project.UpdateBrand)

	projects.GET("/:id/domains", h.Domain.List)
	projects.POST("/:id/domains", h.Domain.Create)
	projects.POST("/:id/domains/suggest", h.Suggestion.Suggest)
	projects.GET("/:id/domains/:domainId", h.Domain.Get)
	projects.PATCH("/:id/domains/:domainId", h.Domain.Update)
	projects.DELETE("/:id/domains/:domainId", h.Domain.Delete)

	projects.POST("/:id/analysis", h.Analysis.Run)
	projects.GET("/:id/analysis", h.Analysis.Overview)
	projects.GET("/:id/analyses/:analysisId", h.Analysis.Get)

	api.POST("/reputation/analyse", h.Analysis.Quick, requireAuth)

	// --- Admin ---
	admin := api.Group("/admin", requireAuth, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/users", h.User.List)
	admin.POST("/users", h.User.Create)
	admin.PATCH("/users/:id", h.User.Update)
	admin.DELETE("/users/:id", h.User.Delete)

	admin.GET("/llm-keys", h.LLMKey.List)
	admin.POST("/llm-keys", h.LLMKey.Save)
	admin.DELETE("/llm-keys/:provider", h.LLMKey.Delete)

	admin.GET("/stats", h.Admin.Stats)
	admin.POST("/analyses/refresh", h.Admin.Refresh)

	return e
}

// requestLogger emits one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
