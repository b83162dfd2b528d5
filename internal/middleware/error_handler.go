package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/Eursukkul/staybook/internal/dto"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as {"message": "..."}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, dto.ErrorResponse{Message: msg})
	}
	if writeErr != nil {
		log.Printf("[HTTP] failed to write error response: %v", writeErr)
	}
}
