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

// TemplateHandler serves message templates. Templates are shared across
// businesses, so these routes ignore the caller's business and there is no
// scope query parameter.
type TemplateHandler struct {
	repo *repository.TemplateRepository
}

func NewTemplateHandler(repo *repository.TemplateRepository) *TemplateHandler {
	return &TemplateHandler{repo: repo}
}

// Register mounts the template routes.
func (h *TemplateHandler) Register(g *echo.Group) {
	g.POST("/templates", h.Create)
	g.GET("/templates", h.List)
	g.GET("/templates/:id", h.Get)
	g.GET("/templates/by-name/:name", h.GetByName)
	g.PATCH("/templates/:id", h.Update)
	g.DELETE("/templates/:id", h.Delete)
}

// Create stores a new template.
func (h *TemplateHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Name    string `json:"name"`
		Type    string `json:"type"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse template request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Type == "" {
		req.Type = model.TemplateTypeWhatsApp
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	template := model.MessageTemplate{
		Name:    req.Name,
		Type:    req.Type,
		Subject: req.Subject,
		Body:    req.Body,
	}
	if err := h.repo.Create(c.Request().Context(), &template); err != nil {
		return writeError(c, err)
	}

	log.Info("Template created", zap.Uint("id", template.ID), zap.String("name", template.Name))
	return c.JSON(http.StatusCreated, template)
}

// List returns all templates ordered by name.
func (h *TemplateHandler) List(c echo.Context) error {
	templates, err := h.repo.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, templates)
}

// Get retrieves one template by id.
func (h *TemplateHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	template, err := h.repo.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, template)
}

// GetByName retrieves one template by its unique name.
func (h *TemplateHandler) GetByName(c echo.Context) error {
	template, err := h.repo.GetByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, template)
}

// Update applies a partial update to a template.
func (h *TemplateHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		Name    *string `json:"name"`
		Type    *string `json:"type"`
		Subject *string `json:"subject"`
		Body    *string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	template, err := h.repo.Update(c.Request().Context(), id, model.MessageTemplatePatch{
		Name:    req.Name,
		Type:    req.Type,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, template)
}

// Delete hard-deletes a template.
func (h *TemplateHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
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
