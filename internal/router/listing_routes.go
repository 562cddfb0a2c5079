package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental-booking/internal/handler"
	"github.com/iliyamo/property-rental-booking/internal/middleware"
)

// RegisterListings registers listing and review routes.  Reads are public
// and go through the response cache; writes need a valid JWT and the
// handlers enforce host or author ownership.
func RegisterListings(e *echo.Echo, h *handler.ListingHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	e.GET("/v1/listings", h.List, cache)
	e.GET("/v1/listings/:id", h.Get, cache)
	e.GET("/v1/listings/:id/reviews", h.Reviews, cache)

	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.POST("/listings", h.Create)
	g.PUT("/listings/:id", h.Update)
	g.DELETE("/listings/:id", h.Delete)
	g.POST("/listings/:id/reviews", h.AddReview)
	g.PUT("/reviews/:id", h.UpdateReview)
	g.DELETE("/reviews/:id", h.DeleteReview)
}
