package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Eursukkul/staybook/internal/auth"
	"github.com/Eursukkul/staybook/internal/middleware"
	"github.com/Eursukkul/staybook/internal/models"
	"github.com/Eursukkul/staybook/internal/service"
	"github.com/labstack/echo/v4"
)

// toHTTPError maps service errors onto HTTP statuses.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, service.ErrPropertyInactive),
		errors.Is(err, service.ErrSelfBooking),
		errors.Is(err, service.ErrNotAvailable),
		errors.Is(err, service.ErrHasActiveBookings),
		errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrUserHasDependents):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func parseID(c echo.Context, param, what string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+what+" id")
	}
	return uint(id), nil
}

func currentActor(c echo.Context) (models.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return models.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
	}
	return actor, nil
}

// bindAndValidate decodes the JSON body into req and runs the echo validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}
