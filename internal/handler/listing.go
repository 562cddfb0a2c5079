package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/property-rental-booking/internal/middleware"
	"github.com/iliyamo/property-rental-booking/internal/service"
)

// ListingHandler serves listings and their reviews.  Writes drop the
// cached listing pages.
type ListingHandler struct {
	Svc         *service.ListingService
	Cache       *redis.Client
	CachePrefix string
	Log         *zap.Logger
}

func NewListingHandler(svc *service.ListingService, cache *redis.Client, cachePrefix string, log *zap.Logger) *ListingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ListingHandler{Svc: svc, Cache: cache, CachePrefix: cachePrefix, Log: log}
}

type listingReq struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Location      string          `json:"location"`
	PricePerNight decimal.Decimal `json:"pricepernight"`
}

func (r listingReq) input() service.ListingInput {
	return service.ListingInput{Name: r.Name, Description: r.Description, Location: r.Location, PricePerNight: r.PricePerNight}
}

type reviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ListingHandler) invalidate(c echo.Context) {
	if err := middleware.InvalidateCache(c.Request().Context(), h.Cache, h.CachePrefix); err != nil {
		h.Log.Warn("listing cache invalidation failed", zap.Error(err))
	}
}

func (h *ListingHandler) List(c echo.Context) error {
	limit, offset := pagination(c)
	items, err := h.Svc.List(c.Request().Context(), limit, offset)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "limit": limit, "offset": offset})
}

func (h *ListingHandler) Get(c echo.Context) error {
	l, err := h.Svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *ListingHandler) Create(c echo.Context) error {
	var req listingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	l, err := h.Svc.Create(c.Request().Context(), middleware.UserID(c), req.input())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, l)
}

func (h *ListingHandler) Update(c echo.Context) error {
	var req listingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	l, err := h.Svc.Update(c.Request().Context(), c.Param("id"), middleware.UserID(c), req.input())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, l)
}

func (h *ListingHandler) Delete(c echo.Context) error {
	if err := h.Svc.Delete(c.Request().Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		return respondError(c, h.Log, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *ListingHandler) Reviews(c echo.Context) error {
	items, err := h.Svc.Reviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *ListingHandler) AddReview(c echo.Context) error {
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	rv, err := h.Svc.AddReview(c.Request().Context(), c.Param("id"), middleware.UserID(c), req.Rating, req.Comment)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusCreated, rv)
}

func (h *ListingHandler) UpdateReview(c echo.Context) error {
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	rv, err := h.Svc.UpdateReview(c.Request().Context(), c.Param("id"), middleware.UserID(c), req.Rating, req.Comment)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, rv)
}

func (h *ListingHandler) DeleteReview(c echo.Context) error {
	if err := h.Svc.DeleteReview(c.Request().Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		return respondError(c, h.Log, err)
	}
	h.invalidate(c)
	return c.NoContent(http.StatusNoContent)
}
