package handler

import (
	"context"
	"net/http"

	"github.com/Eursukkul/staybook/internal/dto"
	"github.com/Eursukkul/staybook/internal/middleware"
	"github.com/Eursukkul/staybook/internal/models"
	"github.com/Eursukkul/staybook/internal/service"
	"github.com/labstack/echo/v4"
)

type ReservationEngine interface {
	CreateReservation(ctx context.Context, in service.CreateReservationInput, guest models.Actor) (*models.Reservation, error)
	ConfirmReservation(ctx context.Context, id uint, actor models.Actor) (*models.Reservation, error)
	CompleteReservation(ctx context.Context, id uint, actor models.Actor) (*models.Reservation, error)
	CancelReservation(ctx context.Context, id uint, actor models.Actor) (*models.Reservation, error)
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
	ListByGuest(ctx context.Context, guestID uint) ([]models.Reservation, error)
	ListByHost(ctx context.Context, hostID uint) ([]models.Reservation, error)
	ListByProperty(ctx context.Context, propertyID uint) ([]models.Reservation, error)
	BusyDates(ctx context.Context, propertyID uint) ([]models.Reservation, error)
}

type OwnershipChecker interface {
	IsOwner(ctx context.Context, propertyID, userID uint) (bool, error)
}

type ReservationHandler struct {
	svc    ReservationEngine
	owners OwnershipChecker
}

func NewReservationHandler(svc ReservationEngine, owners OwnershipChecker) *ReservationHandler {
	return &ReservationHandler{svc: svc, owners: owners}
}

func (h *ReservationHandler) RegisterRoutes(api *echo.Group, authn echo.MiddlewareFunc) {
	g := api.Group("/reservations")
	g.GET("/property/:id/busy-dates", h.BusyDates)

	g.POST("", h.CreateReservation, authn)
	g.GET("/mine", h.ListMine, authn)
	g.GET("/host", h.ListForHost, authn, middleware.RequireRoles(models.RoleHost, models.RoleAdmin))
	g.GET("/property/:id", h.ListByProperty, authn)
	g.GET("/:id", h.GetReservation, authn)
	g.PUT("/:id/confirm", h.ConfirmReservation, authn)
	g.PUT("/:id/complete", h.CompleteReservation, authn)
	g.PUT("/:id/cancel", h.CancelReservation, authn)
}

func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateReservationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	checkIn, checkOut, err := req.Dates()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "dates must be YYYY-MM-DD")
	}

	reservation, err := h.svc.CreateReservation(c.Request().Context(), service.CreateReservationInput{
		PropertyID:     req.PropertyID,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		NumberOfGuests: req.NumberOfGuests,
	}, actor)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToReservationResponse(reservation))
}

type transitionFunc func(ctx context.Context, id uint, actor models.Actor) (*models.Reservation, error)

func (h *ReservationHandler) ConfirmReservation(c echo.Context) error {
	return h.transition(c, h.svc.ConfirmReservation)
}

func (h *ReservationHandler) CompleteReservation(c echo.Context) error {
	return h.transition(c, h.svc.CompleteReservation)
}

func (h *ReservationHandler) CancelReservation(c echo.Context) error {
	return h.transition(c, h.svc.CancelReservation)
}

func (h *ReservationHandler) transition(c echo.Context, fn transitionFunc) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "reservation")
	if err != nil {
		return err
	}

	reservation, err := fn(c.Request().Context(), id, actor)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

// GetReservation is visible to the guest, the property's host and admins.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "reservation")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	reservation, err := h.svc.GetReservation(ctx, id)
	if err != nil {
		return toHTTPError(err)
	}
	if reservation.GuestID != actor.UserID {
		if err := h.requireHostOrAdmin(ctx, reservation.PropertyID, actor); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *ReservationHandler) ListMine(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	reservations, err := h.svc.ListByGuest(c.Request().Context(), actor.UserID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponses(reservations))
}

func (h *ReservationHandler) ListForHost(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	reservations, err := h.svc.ListByHost(c.Request().Context(), actor.UserID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponses(reservations))
}

func (h *ReservationHandler) ListByProperty(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	propertyID, err := parseID(c, "id", "property")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.requireHostOrAdmin(ctx, propertyID, actor); err != nil {
		return err
	}
	reservations, err := h.svc.ListByProperty(ctx, propertyID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponses(reservations))
}

// BusyDates exposes the confirmed stays of a property without guest details.
func (h *ReservationHandler) BusyDates(c echo.Context) error {
	propertyID, err := parseID(c, "id", "property")
	if err != nil {
		return err
	}

	reservations, err := h.svc.BusyDates(c.Request().Context(), propertyID)
	if err != nil {
		return toHTTPError(err)
	}

	resp := make([]dto.BusyRangeResponse, len(reservations))
	for i := range reservations {
		resp[i] = dto.ToBusyRangeResponse(&reservations[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ReservationHandler) requireHostOrAdmin(ctx context.Context, propertyID uint, actor models.Actor) error {
	if service.IsAdmin(actor) {
		return nil
	}
	owner, err := h.owners.IsOwner(ctx, propertyID, actor.UserID)
	if err != nil {
		return toHTTPError(err)
	}
	if !owner {
		return toHTTPError(service.ErrPermissionDenied)
	}
	return nil
}
