package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/crmsystem/console-api/docs"
	"github.com/crmsystem/console-api/internal/api/handler"
	"github.com/crmsystem/console-api/internal/api/middleware"
	"github.com/crmsystem/console-api/internal/core/domain"
	"github.com/crmsystem/console-api/internal/core/ports"
	"github.com/crmsystem/console-api/internal/infrastructure/http/handlers"
)

// Authorizer is what the router needs from the authorization evaluator.
type Authorizer interface {
	middleware.Authorizer
	handler.PermissionEvaluator
}

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Sessions   ports.SessionService
	Authorizer Authorizer
	Customers  ports.CustomerService
	Analytics  ports.AnalyticsService
	Refresh    ports.RefreshSignal
	Readiness  []handlers.Check
	SessionTTL time.Duration
	Log        zerolog.Logger
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
	e.Use(echoprometheus.NewMiddleware("crm_console"))

	// --- Ops routes (no session required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(d.Readiness...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Console API ---
	v1 := e.Group("/v1", middleware.Session(d.Sessions, d.Log))
	can := func(p domain.Permission) echo.MiddlewareFunc {
		return middleware.RequirePermission(d.Authorizer, p)
	}

	sessionHandler := handler.NewSessionHandler(d.Sessions, d.SessionTTL)
	v1.POST("/session", sessionHandler.Login)
	v1.DELETE("/session", sessionHandler.Logout)
	v1.GET("/session", sessionHandler.Current)
	v1.POST("/users", sessionHandler.Register)

	v1.GET("/permissions", handler.NewPermissionHandler(d.Authorizer).List)

	customerHandler := handler.NewCustomerHandler(d.Customers, d.Log)
	v1.GET("/customers", customerHandler.List, can(domain.PermViewCustomers))
	v1.GET("/customers/:id", customerHandler.Get, can(domain.PermViewCustomers), can(domain.PermViewInteractions))
	v1.POST("/customers", customerHandler.Create, can(domain.PermCreateCustomer))
	v1.DELETE("/customers/:id", customerHandler.Delete, can(domain.PermDeleteCustomer))
	v1.POST("/customers/:id/interactions", customerHandler.AddInteraction, can(domain.PermCreateInteraction))
	v1.PUT("/interactions/:id", customerHandler.UpdateInteraction, can(domain.PermUpdateInteraction))

	analyticsHandler := handler.NewAnalyticsHandler(d.Analytics, d.Refresh)
	charts := v1.Group("/analytics", can(domain.PermViewCharts))
	charts.GET("", analyticsHandler.Board)
	charts.POST("/refresh", analyticsHandler.Refresh)
	charts.GET("/interactions/:type/customers", analyticsHandler.CustomersByInteraction)
	charts.GET("/customer-types/:type/customers", analyticsHandler.CustomersByType)

	return e
}

// requestLogger logs one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
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
