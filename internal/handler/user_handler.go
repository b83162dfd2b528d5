package handler

import (
	"context"
	"net/http"

	"github.com/Eursukkul/staybook/internal/dto"
	"github.com/Eursukkul/staybook/internal/middleware"
	"github.com/Eursukkul/staybook/internal/models"
	"github.com/labstack/echo/v4"
)

type UserDirectory interface {
	ListUsers(ctx context.Context, actor models.Actor) ([]models.User, error)
	UpdateRole(ctx context.Context, id uint, role models.Role, actor models.Actor) (*models.User, error)
	DeleteUser(ctx context.Context, id uint, actor models.Actor) error
}

type UserHandler struct {
	svc UserDirectory
}

func NewUserHandler(svc UserDirectory) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) RegisterRoutes(api *echo.Group, authn echo.MiddlewareFunc) {
	g := api.Group("/users", authn, middleware.RequireRoles(models.RoleAdmin))
	g.GET("", h.ListUsers)
	g.PUT("/:id/role", h.UpdateRole)
	g.DELETE("/:id", h.DeleteUser)
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	users, err := h.svc.ListUsers(c.Request().Context(), actor)
	if err != nil {
		return toHTTPError(err)
	}

	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = dto.ToUserResponse(&users[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) UpdateRole(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "user")
	if err != nil {
		return err
	}
	var req dto.UpdateRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.UpdateRole(c.Request().Context(), id, models.Role(req.Role), actor)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id", "user")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteUser(c.Request().Context(), id, actor); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
