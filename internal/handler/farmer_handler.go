package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bornfidis/harvesthub/internal/model"
	"github.com/bornfidis/harvesthub/internal/repository"
	"github.com/bornfidis/harvesthub/pkg/database"
	"github.com/bornfidis/harvesthub/pkg/logger"
	"github.com/bornfidis/harvesthub/prometheus"
)

// FarmerHandler serves the supplier directory and farmer payments.
type FarmerHandler struct {
	repo  *repository.Repository[model.Farmer, *model.Farmer]
	store *database.Store
}

// NewFarmerHandler constructs the handler. The store is used for payment
// child rows, which ride on their parent farmer's business.
func NewFarmerHandler(repo *repository.Repository[model.Farmer, *model.Farmer], store *database.Store) *FarmerHandler {
	return &FarmerHandler{repo: repo, store: store}
}

// Register mounts the farmer routes.
func (h *FarmerHandler) Register(g *echo.Group) {
	g.POST("/farmers", h.Create)
	g.GET("/farmers", h.List)
	g.GET("/farmers/:id", h.Get)
	g.PATCH("/farmers/:id", h.Update)
	g.DELETE("/farmers/:id", h.Delete)
	g.POST("/farmers/:id/payments", h.AddPayment)
	g.GET("/farmers/:id/payments", h.ListPayments)
}

// Create handles farmer creation.
func (h *FarmerHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	businessID, err := businessFrom(c)
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		Name               string `json:"name"`
		ContactPerson      string `json:"contact_person"`
		Phone              string `json:"phone"`
		Email              string `json:"email"`
		Address            string `json:"address"`
		ProductSpecialties string `json:"product_specialties"`
		PickupSchedule     string `json:"pickup_schedule"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse farmer creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	farmer := model.Farmer{
		Name:               req.Name,
		ContactPerson:      req.ContactPerson,
		Phone:              req.Phone,
		Email:              req.Email,
		Address:            req.Address,
		ProductSpecialties: req.ProductSpecialties,
		PickupSchedule:     req.PickupSchedule,
	}
	if err := h.repo.Create(c.Request().Context(), businessID, &farmer); err != nil {
		return writeError(c, err)
	}

	prometheus.RecordEntityOperation("farmer", "create", businessID)
	log.Info("Farmer created", zap.String("name", farmer.Name), zap.Uint("id", farmer.ID))
	return c.JSON(http.StatusCreated, farmer)
}

// Get retrieves one farmer.
func (h *FarmerHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	farmer, err := h.repo.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if err := ensureBusinessAccess(c, farmer.BusinessID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, farmer)
}

// List retrieves all farmers in scope, ordered by name.
func (h *FarmerHandler) List(c echo.Context) error {
	scope, err := scopeFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	farmers, err := h.repo.List(c.Request().Context(), scope)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, farmers)
}

// Update applies a partial update to a farmer.
func (h *FarmerHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		Name               *string `json:"name"`
		ContactPerson      *string `json:"contact_person"`
		Phone              *string `json:"phone"`
		Email              *string `json:"email"`
		Address            *string `json:"address"`
		ProductSpecialties *string `json:"product_specialties"`
		PickupSchedule     *string `json:"pickup_schedule"`
		QualityRecords     *string `json:"quality_records"`
		PerformanceNotes   *string `json:"performance_notes"`
		TrainingNeeds      *string `json:"training_needs"`
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

	farmer, err := h.repo.Update(c.Request().Context(), id, model.FarmerPatch{
		Name:               req.Name,
		ContactPerson:      req.ContactPerson,
		Phone:              req.Phone,
		Email:              req.Email,
		Address:            req.Address,
		ProductSpecialties: req.ProductSpecialties,
		PickupSchedule:     req.PickupSchedule,
		QualityRecords:     req.QualityRecords,
		PerformanceNotes:   req.PerformanceNotes,
		TrainingNeeds:      req.TrainingNeeds,
	})
	if err != nil {
		return writeError(c, err)
	}

	prometheus.RecordEntityOperation("farmer", "update", farmer.BusinessID)
	return c.JSON(http.StatusOK, farmer)
}

// Delete hard-deletes a farmer.
func (h *FarmerHandler) Delete(c echo.Context) error {
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

// AddPayment records a payment to a farmer. The payment inherits the
// farmer's business through its parent reference.
func (h *FarmerHandler) AddPayment(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	farmer, err := h.repo.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if err := ensureBusinessAccess(c, farmer.BusinessID); err != nil {
		return writeError(c, err)
	}

	var req struct {
		PaymentDate time.Time `json:"payment_date"`
		Amount      float64   `json:"amount"`
		Notes       string    `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	payment := model.FarmerPayment{
		FarmerID:    farmer.ID,
		PaymentDate: req.PaymentDate,
		Amount:      req.Amount,
		Notes:       req.Notes,
	}
	if err := h.store.DB().WithContext(c.Request().Context()).Create(&payment).Error; err != nil {
		return writeError(c, err)
	}

	prometheus.RecordEntityOperation("farmer_payment", "create", farmer.BusinessID)
	log.Info("Farmer payment recorded",
		zap.Uint("farmer_id", farmer.ID),
		zap.Float64("amount", payment.Amount))
	return c.JSON(http.StatusCreated, payment)
}

// ListPayments lists a farmer's payments, newest first.
func (h *FarmerHandler) ListPayments(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	farmer, err := h.repo.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if err := ensureBusinessAccess(c, farmer.BusinessID); err != nil {
		return writeError(c, err)
	}

	var payments []model.FarmerPayment
	err = h.store.DB().WithContext(c.Request().Context()).
		Where("farmer_id = ?", id).
		Order("payment_date DESC, id DESC").
		Find(&payments).Error
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, payments)
}
