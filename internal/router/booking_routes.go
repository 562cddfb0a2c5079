package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental-booking/internal/handler"
	"github.com/iliyamo/property-rental-booking/internal/middleware"
)

// RegisterBookings registers the caller's booking routes.  All of them
// require a valid JWT; ownership is checked in the booking service.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, p *handler.PaymentHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.GET("/bookings", h.List)
	g.POST("/bookings", h.Create)
	g.GET("/bookings/:id", h.Get)
	g.PATCH("/bookings/:id/status", h.UpdateStatus)
	g.DELETE("/bookings/:id", h.Delete)
	g.GET("/bookings/:id/payments", p.ListForBooking)
	g.GET("/payments", p.List)
}

// RegisterPayments registers the gateway flow.  Initiation needs a JWT;
// verification is the provider callback, so it is public and rate limited.
func RegisterPayments(e *echo.Echo, p *handler.PaymentHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	e.POST("/payments/initiate/:bookingId", p.Initiate, middleware.JWTAuth(jwtSecret))
	e.GET("/payments/verify", p.Verify, limiter)
}
