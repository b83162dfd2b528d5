package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Eursukkul/staybook/internal/dto"
	"github.com/Eursukkul/staybook/internal/middleware"
	"github.com/Eursukkul/staybook/internal/models"
	"github.com/Eursukkul/staybook/internal/report"
	"github.com/labstack/echo/v4"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
	xlsxMIME             = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReservationLister interface {
	ListAll(ctx context.Context, status *models.ReservationStatus, actor models.Actor) ([]models.Reservation, error)
}

type ActivityFeed interface {
	FindRecent(ctx context.Context, routingKeyPrefix string, limit int) ([]models.ActivityEntry, error)
}

type AdminHandler struct {
	reservations ReservationLister
	activity     ActivityFeed
	now          func() time.Time
}

func NewAdminHandler(reservations ReservationLister, activity ActivityFeed) *AdminHandler {
	return &AdminHandler{reservations: reservations, activity: activity, now: time.Now}
}

func (h *AdminHandler) RegisterRoutes(api *echo.Group, authn echo.MiddlewareFunc) {
	g := api.Group("/admin", authn, middleware.RequireRoles(models.RoleAdmin))
	g.GET("/reservations", h.ListReservations)
	g.GET("/reservations/export", h.ExportReservations)
	g.GET("/activity", h.ListActivity)
}

func (h *AdminHandler) ListReservations(c echo.Context) error {
	reservations, err := h.loadReservations(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponses(reservations))
}

// ExportReservations streams the same listing as an XLSX attachment.
func (h *AdminHandler) ExportReservations(c echo.Context) error {
	reservations, err := h.loadReservations(c)
	if err != nil {
		return err
	}

	f, err := report.ReservationsWorkbook(reservations)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to build export")
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to build export")
	}

	filename := fmt.Sprintf("reservations-%s.xlsx", h.now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

// ListActivity returns recorded domain events, newest first, optionally
// narrowed by routing key prefix (?type=reservation).
func (h *AdminHandler) ListActivity(c echo.Context) error {
	limit := defaultActivityLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxActivityLimit)
	}

	entries, err := h.activity.FindRecent(c.Request().Context(), c.QueryParam("type"), limit)
	if err != nil {
		return toHTTPError(err)
	}

	resp := make([]dto.ActivityResponse, len(entries))
	for i := range entries {
		resp[i] = dto.ToActivityResponse(&entries[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) loadReservations(c echo.Context) ([]models.Reservation, error) {
	actor, err := currentActor(c)
	if err != nil {
		return nil, err
	}

	var status *models.ReservationStatus
	if s := c.QueryParam("status"); s != "" {
		rs := models.ReservationStatus(s)
		if !rs.Valid() {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "unknown reservation status")
		}
		status = &rs
	}

	reservations, err := h.reservations.ListAll(c.Request().Context(), status, actor)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return reservations, nil
}
