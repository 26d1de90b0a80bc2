package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bornfidis/harvesthub/internal/model"
	"github.com/bornfidis/harvesthub/internal/repository"
	"github.com/bornfidis/harvesthub/pkg/logger"
	"github.com/bornfidis/harvesthub/prometheus"
)

// DailyLogHandler serves the daily operations log.
type DailyLogHandler struct {
	repo *repository.Repository[model.DailyLog, *model.DailyLog]
}

func NewDailyLogHandler(repo *repository.Repository[model.DailyLog, *model.DailyLog]) *DailyLogHandler {
	return &DailyLogHandler{repo: repo}
}

// Register mounts the daily log routes.
func (h *DailyLogHandler) Register(g *echo.Group) {
	g.POST("/daily-logs", h.Create)
	g.GET("/daily-logs", h.List)
	g.GET("/daily-logs/:id", h.Get)
	g.PATCH("/daily-logs/:id", h.Update)
	g.DELETE("/daily-logs/:id", h.Delete)
}

// Create records one day of operations.
func (h *DailyLogHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	businessID, err := businessFrom(c)
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		LogDate             time.Time `json:"log_date"`
		OrdersFulfilled     int       `json:"orders_fulfilled"`
		QualityControlNotes string    `json:"quality_control_notes"`
		TemperatureLogs     string    `json:"temperature_logs"`
		DeliveryRouteNotes  string    `json:"delivery_route_notes"`
		IssueTracking       string    `json:"issue_tracking"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse daily log request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.LogDate.IsZero() {
		req.LogDate = time.Now()
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	entry := model.DailyLog{
		LogDate:             req.LogDate,
		OrdersFulfilled:     req.OrdersFulfilled,
		QualityControlNotes: req.QualityControlNotes,
		TemperatureLogs:     req.TemperatureLogs,
		DeliveryRouteNotes:  req.DeliveryRouteNotes,
		IssueTracking:       req.IssueTracking,
	}
	if err := h.repo.Create(c.Request().Context(), businessID, &entry); err != nil {
		return writeError(c, err)
	}

	prometheus.RecordEntityOperation("daily_log", "create", businessID)
	return c.JSON(http.StatusCreated, entry)
}

// List lists log entries in scope, newest first.
func (h *DailyLogHandler) List(c echo.Context) error {
	scope, err := scopeFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	entries, err := h.repo.List(c.Request().Context(), scope)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// Get retrieves one log entry.
func (h *DailyLogHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	entry, err := h.repo.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if err := ensureBusinessAccess(c, entry.BusinessID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// Update applies a partial update to a log entry.
func (h *DailyLogHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		LogDate             *time.Time `json:"log_date"`
		OrdersFulfilled     *int       `json:"orders_fulfilled"`
		QualityControlNotes *string    `json:"quality_control_notes"`
		TemperatureLogs     *string    `json:"temperature_logs"`
		DeliveryRouteNotes  *string    `json:"delivery_route_notes"`
		IssueTracking       *string    `json:"issue_tracking"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	existing, err := h.repo.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if err := ensureBusinessAccess(c, existing.BusinessID); err != nil {
		return writeError(c, err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	entry, err := h.repo.Update(c.Request().Context(), id, model.DailyLogPatch{
		LogDate:             req.LogDate,
		OrdersFulfilled:     req.OrdersFulfilled,
		QualityControlNotes: req.QualityControlNotes,
		TemperatureLogs:     req.TemperatureLogs,
		DeliveryRouteNotes:  req.DeliveryRouteNotes,
		IssueTracking:       req.IssueTracking,
	})
	if err != nil {
		return writeError(c, err)
	}

	prometheus.RecordEntityOperation("daily_log", "update", entry.BusinessID)
	return c.JSON(http.StatusOK, entry)
}

// Delete hard-deletes a log entry.
func (h *DailyLogHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	existing, err := h.repo.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if err := ensureBusinessAccess(c, existing.BusinessID); err != nil {
		return writeError(c, err)
	}
	deleted, err := h.repo.Delete(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
