package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/property-rental-booking/internal/domain"
)

// respondError maps service errors to status codes and {"error": ...}
// bodies.  Unknown errors are logged and reported as 500 without detail.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	var (
		validation domain.ValidationError
		notFound   domain.NotFoundError
		forbidden  domain.ForbiddenError
		conflict   domain.ConflictError
		rejected   domain.GatewayRejectedError
		verify     domain.VerificationFailedError
		unavail    domain.GatewayUnavailableError
	)
	switch {
	case errors.As(err, &validation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validation.Error()})
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFound.Error()})
	case errors.As(err, &forbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": conflict.Error()})
	case errors.As(err, &rejected):
		body := echo.Map{"error": rejected.Error()}
		if len(rejected.Payload) > 0 {
			body["details"] = rejected.Payload
		}
		return c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &verify):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verify.Error()})
	case errors.As(err, &unavail):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment gateway unavailable"})
	}
	if log != nil {
		log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
