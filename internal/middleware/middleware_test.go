package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Eursukkul/staybook/internal/auth"
	"github.com/Eursukkul/staybook/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock UserLoader ---

type mockUsers struct {
	getFn func(ctx context.Context, id uint) (*models.User, error)
}

func (m *mockUsers) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return m.getFn(ctx, id)
}

func okHandler(c echo.Context) error {
	actor, _ := ActorFrom(c)
	return c.JSON(http.StatusOK, map[string]any{"user_id": actor.UserID, "role": actor.Role})
}

func TestJWTAuth_ReloadsRole(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret", "staybook", time.Hour)
	token, err := tokens.Issue(&models.User{ID: 3, Email: "g@staybook.io", Role: models.RoleGuest})
	require.NoError(t, err)

	users := &mockUsers{getFn: func(ctx context.Context, id uint) (*models.User, error) {
		// promoted to host after the token was issued
		return &models.User{ID: id, Email: "g@staybook.io", Role: models.RoleHost}, nil
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = JWTAuth(tokens, users)(okHandler)(c)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["user_id"])
	assert.Equal(t, "HOST", body["role"])
}

func TestJWTAuth_Rejects(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret", "staybook", time.Hour)
	valid, err := tokens.Issue(&models.User{ID: 3, Role: models.RoleGuest})
	require.NoError(t, err)

	missingUser := &mockUsers{getFn: func(ctx context.Context, id uint) (*models.User, error) {
		return nil, errors.New("user not found")
	}}
	anyUser := &mockUsers{getFn: func(ctx context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Role: models.RoleGuest}, nil
	}}

	tests := []struct {
		name   string
		header string
		users  UserLoader
	}{
		{"no header", "", anyUser},
		{"wrong scheme", "Basic abc", anyUser},
		{"bad token", "Bearer nope", anyUser},
		{"deleted user", "Bearer " + valid, missingUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			err := JWTAuth(tokens, tt.users)(okHandler)(c)

			he, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnauthorized, he.Code)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	e := echo.New()
	mw := RequireRoles(models.RoleHost, models.RoleAdmin)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	SetActor(c, models.Actor{UserID: 1, Role: models.RoleGuest})
	he, ok := mw(okHandler)(c).(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)

	rec := httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	SetActor(c, models.Actor{UserID: 1, Role: models.RoleAdmin})
	assert.NoError(t, mw(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	he, ok = mw(okHandler)(c).(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	ErrorHandler(echo.NewHTTPError(http.StatusNotFound, "property not found"), c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"property not found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	ErrorHandler(errors.New("connection reset"), c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"connection reset"}`, rec.Body.String())
}

type sample struct {
	Email string `validate:"required,email"`
	Count int    `validate:"gte=1"`
}

func TestRequestValidator(t *testing.T) {
	v := NewRequestValidator()

	assert.NoError(t, v.Validate(&sample{Email: "a@b.io", Count: 1}))

	err := v.Validate(&sample{Email: "nope", Count: 0})
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Contains(t, he.Message, "Email failed email")
	assert.Contains(t, he.Message, "Count failed gte=1")
}
