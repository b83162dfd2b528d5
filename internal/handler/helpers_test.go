package handler

import (
	"io"
	"net/http/httptest"
	"strings"

	"github.com/Eursukkul/staybook/internal/middleware"
	"github.com/Eursukkul/staybook/internal/models"
	"github.com/labstack/echo/v4"
)

var (
	guest = models.Actor{UserID: 10, Email: "guest@staybook.io", Role: models.RoleGuest}
	host  = models.Actor{UserID: 20, Email: "host@staybook.io", Role: models.RoleHost}
	admin = models.Actor{UserID: 1, Email: "admin@staybook.io", Role: models.RoleAdmin}
)

// newContext builds an echo context with the request validator wired and,
// when actor is non-nil, an authenticated caller.
func newContext(method, target, body string, actor *models.Actor) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = middleware.NewRequestValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != nil {
		middleware.SetActor(c, *actor)
	}
	return c, rec
}

func httpCode(err error) int {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		return 0
	}
	return he.Code
}
