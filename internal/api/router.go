package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/challengehub/challenge-api/internal/api/handler"
	"github.com/challengehub/challenge-api/internal/api/middleware"
	"github.com/challengehub/challenge-api/internal/core/domain"
	"github.com/challengehub/challenge-api/internal/core/ports"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth        ports.AuthService
	Users       ports.UserService
	Challenges  ports.ChallengeService
	Submissions ports.SubmissionService
	Tokens      middleware.TokenValidator

	// Health maps dependency names to readiness checks.
	Health map[string]handler.Pinger

	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry

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
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsConfig(d.Registry)))

	// --- Health, metrics and docs (no auth required) ---
	health := handler.NewHealthHandler(d.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", metricsHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	auth := middleware.Auth(d.Tokens)
	admin := middleware.RBAC(domain.RoleAdmin)
	api := e.Group("/api")

	// --- Users ---
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	users := api.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.GET("", userHandler.List, auth, admin)
	users.GET("/:id", userHandler.Get, auth)
	users.GET("/email/:email", userHandler.GetByEmail, auth)
	users.DELETE("/:id", userHandler.Delete, auth, admin)

	// --- Challenges ---
	challengeHandler := handler.NewChallengeHandler(d.Challenges)
	challenges := api.Group("/challenges")
	challenges.POST("", challengeHandler.Create, auth, admin)
	challenges.GET("", challengeHandler.List)
	challenges.GET("/:id", challengeHandler.Get)
	challenges.GET("/type/:type", challengeHandler.ListByType)
	challenges.DELETE("/:id", challengeHandler.Delete, auth, admin)

	// --- Submissions ---
	submissionHandler := handler.NewSubmissionHandler(d.Submissions)
	submissions := api.Group("/submissions", auth)
	submissions.POST("", submissionHandler.Submit)
	submissions.GET("", submissionHandler.List, admin)
	submissions.GET("/user/:userId", submissionHandler.ListByUser)
	submissions.GET("/challenge/:challengeId", submissionHandler.ListByChallenge)
	submissions.PUT("/:id/grade", submissionHandler.Grade, admin)

	return e
}

func metricsConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{
		Namespace: "challenge",
		Subsystem: "http",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health" || c.Path() == "/health/ready"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

// requestLogger writes one zerolog line per request.
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
			if v.Status >= http.StatusInternalServerError {
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
