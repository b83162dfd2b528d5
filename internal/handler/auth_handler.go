package handler

import (
	"context"
	"net/http"

	"github.com/Eursukkul/staybook/internal/dto"
	"github.com/Eursukkul/staybook/internal/models"
	"github.com/Eursukkul/staybook/internal/service"
	"github.com/labstack/echo/v4"
)

type AccountService interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	BecomeHost(ctx context.Context, actor models.Actor) (*models.User, error)
}

type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

type AuthHandler struct {
	svc    AccountService
	tokens TokenIssuer
}

func NewAuthHandler(svc AccountService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens}
}

func (h *AuthHandler) RegisterRoutes(api *echo.Group, authn echo.MiddlewareFunc) {
	g := api.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/become-host", h.BecomeHost, authn)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.Register(c.Request().Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.Role(req.Role),
	})
	if err != nil {
		return toHTTPError(err)
	}
	return h.respondWithToken(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return h.respondWithToken(c, http.StatusOK, user)
}

// BecomeHost upgrades the caller and returns a token carrying the new role.
func (h *AuthHandler) BecomeHost(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	user, err := h.svc.BecomeHost(c.Request().Context(), actor)
	if err != nil {
		return toHTTPError(err)
	}
	return h.respondWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c echo.Context, status int, user *models.User) error {
	token, err := h.tokens.Issue(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue token")
	}
	return c.JSON(status, dto.AuthResponse{Token: token, User: dto.ToUserResponse(user)})
}
