package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental-booking/internal/handler"
	"github.com/iliyamo/property-rental-booking/internal/middleware"
	"github.com/iliyamo/property-rental-booking/internal/model"
)

// RegisterRoutes registers the unauthenticated operational endpoints: the
// health check used by load balancers and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, metrics http.Handler) {
	e.GET("/healthz", handler.Health(db))
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// RegisterAuth registers authentication routes.  Token-issuing endpoints
// live under /v1/auth and share the limiter; /v1/me requires a valid
// access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// rotates the refresh token
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh token in the body or a bearer token,
	// so it stays outside the JWT group.
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterUsers registers profile routes.  Listing every account is
// reserved for ADMIN.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)
	e.GET("/v1/users", u.List, auth, middleware.RequireRole(model.RoleAdmin))
	e.GET("/v1/users/:id", u.Get)
	e.PUT("/v1/me", u.UpdateMe, auth)
	e.DELETE("/v1/me", u.DeleteMe, auth)
}
