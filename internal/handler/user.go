package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/property-rental-booking/internal/middleware"
	"github.com/iliyamo/property-rental-booking/internal/model"
	"github.com/iliyamo/property-rental-booking/internal/repository"
)

// UserHandler serves user profiles.
type UserHandler struct {
	Users *repository.UserRepo
	Log   *zap.Logger
}

func NewUserHandler(users *repository.UserRepo, log *zap.Logger) *UserHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserHandler{Users: users, Log: log}
}

// adminUser is the admin listing shape; it includes role and timestamps.
type adminUser struct {
	model.PublicUser
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// pagination reads limit/offset query params with a default page of 20 and
// a cap of 100.
func pagination(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// List returns every user (ADMIN only).
func (h *UserHandler) List(c echo.Context) error {
	limit, offset := pagination(c)
	users, err := h.Users.List(c.Request().Context(), limit, offset)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	out := make([]adminUser, 0, len(users))
	for _, u := range users {
		out = append(out, adminUser{PublicUser: u.Public(), Role: u.Role, CreatedAt: u.CreatedAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out, "limit": limit, "offset": offset})
}

// Get returns a public profile.
func (h *UserHandler) Get(c echo.Context) error {
	u, err := h.Users.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, u.Public())
}

type updateProfileReq struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
}

// UpdateMe changes the caller's name and phone number.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FirstName, req.LastName = strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name and last_name are required"})
	}
	ctx := c.Request().Context()
	uid := middleware.UserID(c)
	if err := h.Users.UpdateProfile(ctx, uid, req.FirstName, req.LastName, req.PhoneNumber); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return respondError(c, h.Log, err)
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, u.Public())
}

// DeleteMe removes the caller's account and everything that references it.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	if err := h.Users.Delete(c.Request().Context(), middleware.UserID(c)); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
