package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bornfidis/harvesthub/internal/business"
	"github.com/bornfidis/harvesthub/internal/migrate"
	"github.com/bornfidis/harvesthub/pkg/database"
)

// AdminHandler serves health and diagnostic endpoints.
type AdminHandler struct {
	store       *database.Store
	migrations  *migrate.Runner
	serviceName string
}

func NewAdminHandler(store *database.Store, migrations *migrate.Runner, serviceName string) *AdminHandler {
	return &AdminHandler{store: store, migrations: migrations, serviceName: serviceName}
}

// Register mounts the admin routes.
func (h *AdminHandler) Register(e *echo.Echo, protected *echo.Group) {
	e.GET("/health", h.Health)
	protected.GET("/admin/store", h.StoreStatus)
	protected.GET("/admin/migrations", h.MigrationStatus)
	protected.GET("/admin/businesses", h.Businesses)
}

// Health is the liveness probe.
func (h *AdminHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": h.serviceName,
	})
}

// StoreStatus reports the store file, its tables and row counts.
func (h *AdminHandler) StoreStatus(c echo.Context) error {
	status, err := h.store.Status()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, status)
}

// MigrationStatus reports the ledger contents.
func (h *AdminHandler) MigrationStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.migrations.Status())
}

// Businesses lists the configured business profiles.
func (h *AdminHandler) Businesses(c echo.Context) error {
	return c.JSON(http.StatusOK, business.Active())
}
