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

// OrderHandler serves customer orders.
type OrderHandler struct {
	repo      *repository.Repository[model.Order, *model.Order]
	customers *repository.Repository[model.Customer, *model.Customer]
}

// NewOrderHandler constructs the handler. Orders validate their customer
// belongs to the same business.
func NewOrderHandler(
	repo *repository.Repository[model.Order, *model.Order],
	customers *repository.Repository[model.Customer, *model.Customer],
) *OrderHandler {
	return &OrderHandler{repo: repo, customers: customers}
}

// Register mounts the order routes.
func (h *OrderHandler) Register(g *echo.Group) {
	g.POST("/orders", h.Create)
	g.GET("/orders", h.List)
	g.GET("/orders/:id", h.Get)
	g.PATCH("/orders/:id", h.Update)
	g.DELETE("/orders/:id", h.Delete)
}

type orderItemRequest struct {
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Create handles order creation. Line items are created with the order in
// the same transaction and inherit its business through the parent
// reference.
func (h *OrderHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	businessID, err := businessFrom(c)
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		CustomerID   uint               `json:"customer_id"`
		OrderDate    time.Time          `json:"order_date"`
		DeliveryDate time.Time          `json:"delivery_date"`
		Notes        string             `json:"notes"`
		Items        []orderItemRequest `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse order creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.CustomerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id is required"})
	}

	customer, err := h.customers.Get(c.Request().Context(), req.CustomerID)
	if err != nil {
		return writeError(c, err)
	}
	if customer.BusinessID != businessID {
		log.Warn("Cross-business order attempt",
			zap.String("requesting_business", businessID),
			zap.String("customer_business", customer.BusinessID))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	order := model.Order{
		CustomerID:   req.CustomerID,
		OrderDate:    req.OrderDate,
		DeliveryDate: req.DeliveryDate,
		Status:       model.OrderStatusPending,
		Notes:        req.Notes,
	}
	var total float64
	for _, item := range req.Items {
		subtotal := item.Quantity * item.UnitPrice
		total += subtotal
		order.Items = append(order.Items, model.OrderItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    subtotal,
		})
	}
	order.TotalAmount = total

	if err := h.repo.Create(c.Request().Context(), businessID, &order); err != nil {
		return writeError(c, err)
	}

	prometheus.RecordEntityOperation("order", "create", businessID)
	log.Info("Order created",
		zap.Uint("id", order.ID),
		zap.Uint("customer_id", order.CustomerID),
		zap.Float64("total", order.TotalAmount))
	return c.JSON(http.StatusCreated, order)
}

// Get retrieves one order.
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	order, err := h.repo.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if err := ensureBusinessAccess(c, order.BusinessID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// List retrieves all orders in scope, newest first.
func (h *OrderHandler) List(c echo.Context) error {
	scope, err := scopeFrom(c)
	if err != nil {
		return writeError(c, err)
	}
	orders, err := h.repo.List(c.Request().Context(), scope)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// Update applies a partial update to an order.
func (h *OrderHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req struct {
		OrderDate    *time.Time `json:"order_date"`
		DeliveryDate *time.Time `json:"delivery_date"`
		Status       *string    `json:"status"`
		TotalAmount  *float64   `json:"total_amount"`
		Notes        *string    `json:"notes"`
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

	order, err := h.repo.Update(c.Request().Context(), id, model.OrderPatch{
		OrderDate:    req.OrderDate,
		DeliveryDate: req.DeliveryDate,
		Status:       req.Status,
		TotalAmount:  req.TotalAmount,
		Notes:        req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	prometheus.RecordEntityOperation("order", "update", order.BusinessID)
	return c.JSON(http.StatusOK, order)
}

// Delete hard-deletes an order.
func (h *OrderHandler) Delete(c echo.Context) error {
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
