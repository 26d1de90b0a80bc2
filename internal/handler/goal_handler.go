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

// GoalHandler serves business goals.
type GoalHandler struct {
	repo *repository.Repository[model.Goal, *model.Goal]
}

func NewGoalHandler(repo *repository.Repository[model.Goal, *model.Goal]) *GoalHandler {
	return &GoalHandler{repo: repo}
}

// Register mounts the goal routes.
func (h *GoalHandler) Register(g *echo.Group) {
	g.POST("/goals", h.Create)
	g.GET("/goals", h.List)
	g.GET("/goals/:id", h.Get)
	g.PATCH("/goals/:id", h.Update)
	g.DELETE("/goals/:id", h.Delete)
}

// Create records a new goal. Goal names are unique within a business.
func (h *GoalHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	businessID, err := businessFrom(c)
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		Name         string    `json:"name"`
		Description  string    `json:"description"`
		TargetValue  float64   `json:"target_value"`
		CurrentValue float64   `json:"current_value"`
		StartDate    time.Time `json:"start_date"`
		EndDate      time.Time `json:"end_date"`
		Status       string    `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse goal request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Status == "" {
		req.Status = model.GoalStatusActive
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	goal := model.Goal{
		Name:         req.Name,
		Description:  req.Description,
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       req.Status,
	}
	if err := h.repo.Create(c.Request().Context(), businessID, &goal); err != nil {
		return writeError(c, err)
	}

	prometheus.RecordEntityOperation("goal", "create", businessID)
	log.Info("Goal created", zap.Uint("id", goal.ID), zap.String("name", goal.Name))
	return c.JSON(http.StatusCreated, goal)
}

// List lists goals in scope.
func (h *GoalHandler) List(c echo.Context) error {
	scope, err := scopeFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	goals, err := h.repo.List(c.Request().Context(), scope)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, goals)
}

// Get retrieves one goal.
func (h *GoalHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	goal, err := h.repo.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if err := ensureBusinessAccess(c, goal.BusinessID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, goal)
}

// Update applies a partial update, typically progress on current_value.
func (h *GoalHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		Name         *string    `json:"name"`
		Description  *string    `json:"description"`
		TargetValue  *float64   `json:"target_value"`
		CurrentValue *float64   `json:"current_value"`
		StartDate    *time.Time `json:"start_date"`
		EndDate      *time.Time `json:"end_date"`
		Status       *string    `json:"status"`
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

	goal, err := h.repo.Update(c.Request().Context(), id, model.GoalPatch{
		Name:         req.Name,
		Description:  req.Description,
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}

	prometheus.RecordEntityOperation("goal", "update", goal.BusinessID)
	return c.JSON(http.StatusOK, goal)
}

// Delete hard-deletes a goal.
func (h *GoalHandler) Delete(c echo.Context) error {
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
