package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Eursukkul/staybook/internal/auth"
	"github.com/Eursukkul/staybook/internal/models"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// UserLoader resolves the current state of a token's subject.
type UserLoader interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// JWTAuth authenticates the Bearer token and stores the caller as an Actor.
// The user is reloaded on every request so role changes apply immediately.
func JWTAuth(tokens *auth.TokenIssuer, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
			}

			claims, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
			}

			user, err := users.GetUser(c.Request().Context(), claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
			}

			SetActor(c, user.Actor())
			return next(c)
		}
	}
}

// RequireRoles rejects callers whose role is not listed. It must run after JWTAuth.
func RequireRoles(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
			}
			for _, r := range roles {
				if actor.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "permission denied")
		}
	}
}

func SetActor(c echo.Context, actor models.Actor) {
	c.Set(actorKey, actor)
}

func ActorFrom(c echo.Context) (models.Actor, bool) {
	actor, ok := c.Get(actorKey).(models.Actor)
	return actor, ok
}
