package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Eursukkul/staybook/internal/dto"
	"github.com/Eursukkul/staybook/internal/middleware"
	"github.com/Eursukkul/staybook/internal/models"
	"github.com/labstack/echo/v4"
)

type PropertyCatalog interface {
	CreateProperty(ctx context.Context, draft models.PropertyDraft, actor models.Actor) (*models.Property, error)
	UpdateProperty(ctx context.Context, id uint, patch models.PropertyPatch, actor models.Actor) (*models.Property, error)
	DeleteProperty(ctx context.Context, id uint, actor models.Actor) error
	GetProperty(ctx context.Context, id uint) (*models.Property, error)
	ListActive(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error)
	ListByHost(ctx context.Context, hostID uint) ([]models.Property, error)
	ListAll(ctx context.Context, actor models.Actor) ([]models.Property, error)
}

type AvailabilityChecker interface {
	IsPropertyAvailable(ctx context.Context, propertyID uint, checkIn, checkOut time.Time) (bool, error)
}

type PropertyHandler struct {
	svc          PropertyCatalog
	availability AvailabilityChecker
}

func NewPropertyHandler(svc PropertyCatalog, availability AvailabilityChecker) *PropertyHandler {
	return &PropertyHandler{svc: svc, availability: availability}
}

func (h *PropertyHandler) RegisterRoutes(api *echo.Group, authn echo.MiddlewareFunc) {
	admin := middleware.RequireRoles(models.RoleAdmin)

	g := api.Group("/properties")
	g.GET("", h.ListProperties)
	g.GET("/mine", h.ListMine, authn)
	g.GET("/all", h.ListAll, authn, admin)
	g.GET("/user/:userId", h.ListByUser, authn, admin)
	g.GET("/:id", h.GetProperty)
	g.GET("/:id/availability", h.CheckAvailability)
	g.POST("", h.CreateProperty, authn)
	g.PUT("/:id", h.UpdateProperty, authn)
	g.PATCH("/:id", h.UpdateProperty, authn)
	g.DELETE("/:id", h.DeleteProperty, authn)
}

func (h *PropertyHandler) CreateProperty(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.CreatePropertyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	property, err := h.svc.CreateProperty(c.Request().Context(), req.ToDraft(), actor)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToPropertyResponse(property))
}

func (h *PropertyHandler) UpdateProperty(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "property")
	if err != nil {
		return err
	}
	var req dto.UpdatePropertyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	property, err := h.svc.UpdateProperty(c.Request().Context(), id, req.ToPatch(), actor)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToPropertyResponse(property))
}

func (h *PropertyHandler) DeleteProperty(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "property")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteProperty(c.Request().Context(), id, actor); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PropertyHandler) GetProperty(c echo.Context) error {
	id, err := parseID(c, "id", "property")
	if err != nil {
		return err
	}

	property, err := h.svc.GetProperty(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToPropertyResponse(property))
}

// ListProperties returns active listings, optionally narrowed by ?city= or ?country=.
func (h *PropertyHandler) ListProperties(c echo.Context) error {
	filter := models.PropertyFilter{
		City:    c.QueryParam("city"),
		Country: c.QueryParam("country"),
	}

	properties, err := h.svc.ListActive(c.Request().Context(), filter)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToPropertyResponses(properties))
}

func (h *PropertyHandler) ListMine(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	properties, err := h.svc.ListByHost(c.Request().Context(), actor.UserID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToPropertyResponses(properties))
}

func (h *PropertyHandler) ListByUser(c echo.Context) error {
	userID, err := parseID(c, "userId", "user")
	if err != nil {
		return err
	}

	properties, err := h.svc.ListByHost(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToPropertyResponses(properties))
}

func (h *PropertyHandler) ListAll(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	properties, err := h.svc.ListAll(c.Request().Context(), actor)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToPropertyResponses(properties))
}

func (h *PropertyHandler) CheckAvailability(c echo.Context) error {
	id, err := parseID(c, "id", "property")
	if err != nil {
		return err
	}
	checkIn, err := time.Parse(time.DateOnly, c.QueryParam("check_in"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "check_in must be YYYY-MM-DD")
	}
	checkOut, err := time.Parse(time.DateOnly, c.QueryParam("check_out"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "check_out must be YYYY-MM-DD")
	}

	available, err := h.availability.IsPropertyAvailable(c.Request().Context(), id, checkIn, checkOut)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.AvailabilityResponse{
		PropertyID:   id,
		CheckInDate:  checkIn.Format(time.DateOnly),
		CheckOutDate: checkOut.Format(time.DateOnly),
		Available:    available,
	})
}
