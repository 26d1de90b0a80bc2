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

// CustomerHandler serves the customer directory.
type CustomerHandler struct {
	repo *repository.Repository[model.Customer, *model.Customer]
}

// NewCustomerHandler constructs the handler over its repository.
func NewCustomerHandler(repo *repository.Repository[model.Customer, *model.Customer]) *CustomerHandler {
	return &CustomerHandler{repo: repo}
}

// Register mounts the customer routes.
func (h *CustomerHandler) Register(g *echo.Group) {
	g.POST("/customers", h.Create)
	g.GET("/customers", h.List)
	g.GET("/customers/:id", h.Get)
	g.PATCH("/customers/:id", h.Update)
	g.DELETE("/customers/:id", h.Delete)
}

// Create handles customer creation.
func (h *CustomerHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	businessID, err := businessFrom(c)
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		Name              string `json:"name"`
		ContactPerson     string `json:"contact_person"`
		Phone             string `json:"phone"`
		Email             string `json:"email"`
		Address           string `json:"address"`
		Preferences       string `json:"preferences"`
		SatisfactionScore int    `json:"satisfaction_score"`
		Feedback          string `json:"feedback"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse customer creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	customer := model.Customer{
		Name:              req.Name,
		ContactPerson:     req.ContactPerson,
		Phone:             req.Phone,
		Email:             req.Email,
		Address:           req.Address,
		Preferences:       req.Preferences,
		SatisfactionScore: req.SatisfactionScore,
		Feedback:          req.Feedback,
	}
	if err := h.repo.Create(c.Request().Context(), businessID, &customer); err != nil {
		return writeError(c, err)
	}

	prometheus.RecordEntityOperation("customer", "create", businessID)
	log.Info("Customer created",
		zap.String("name", customer.Name),
		zap.Uint("id", customer.ID),
		zap.String("business_id", customer.BusinessID))

	return c.JSON(http.StatusCreated, customer)
}

// Get retrieves one customer.
func (h *CustomerHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	customer, err := h.repo.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if err := ensureBusinessAccess(c, customer.BusinessID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// List retrieves all customers in scope, ordered by name.
func (h *CustomerHandler) List(c echo.Context) error {
	scope, err := scopeFrom(c)
	if err != nil {
		return writeError(c, err)
	}

	customers, err := h.repo.List(c.Request().Context(), scope)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, customers)
}

// Update applies a partial update to a customer.
func (h *CustomerHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		Name              *string `json:"name"`
		ContactPerson     *string `json:"contact_person"`
		Phone             *string `json:"phone"`
		Email             *string `json:"email"`
		Address           *string `json:"address"`
		Preferences       *string `json:"preferences"`
		SatisfactionScore *int    `json:"satisfaction_score"`
		Feedback          *string `json:"feedback"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse customer update request", zap.Error(err))
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

	customer, err := h.repo.Update(c.Request().Context(), id, model.CustomerPatch{
		Name:              req.Name,
		ContactPerson:     req.ContactPerson,
		Phone:             req.Phone,
		Email:             req.Email,
		Address:           req.Address,
		Preferences:       req.Preferences,
		SatisfactionScore: req.SatisfactionScore,
		Feedback:          req.Feedback,
	})
	if err != nil {
		return writeError(c, err)
	}

	prometheus.RecordEntityOperation("customer", "update", customer.BusinessID)
	return c.JSON(http.StatusOK, customer)
}

// Delete hard-deletes a customer. Deleting a missing id is a no-op 404.
func (h *CustomerHandler) Delete(c echo.Context) error {
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

	defer prometheus.TrackDBOperation("delete")(time.Now())

	deleted, err := h.repo.Delete(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
