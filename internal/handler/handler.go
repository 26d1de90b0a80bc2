// Package handler exposes the repository operations over HTTP for the UI
// layer. Handlers are constructed with their repositories; there are no
// package-global store handles.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bornfidis/harvesthub/internal/repository"
	"github.com/bornfidis/harvesthub/pkg/jwtutil"
	"github.com/bornfidis/harvesthub/pkg/logger"
	"github.com/bornfidis/harvesthub/prometheus"
)

// claimsFrom extracts the authenticated claims set by the auth middleware.
func claimsFrom(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	return claims, ok
}

// businessFrom returns the acting business from the caller's claims.
func businessFrom(c echo.Context) (string, error) {
	claims, ok := claimsFrom(c)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if claims.BusinessID == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "business context required")
	}
	return claims.BusinessID, nil
}

// scopeFrom builds the query scope: the caller's business, or all
// businesses when the owner role asks for them explicitly.
func scopeFrom(c echo.Context) (repository.Scope, error) {
	claims, ok := claimsFrom(c)
	if !ok {
		return repository.Scope{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if c.QueryParam("all_businesses") == "true" {
		if claims.Role != "owner" {
			return repository.Scope{}, echo.NewHTTPError(http.StatusForbidden, "owner role required for cross-business queries")
		}
		return repository.AcrossBusinesses(), nil
	}
	if claims.BusinessID == "" {
		return repository.Scope{}, echo.NewHTTPError(http.StatusBadRequest, "business context required")
	}
	return repository.ForBusiness(claims.BusinessID), nil
}

// ensureBusinessAccess verifies the caller may act on a row owned by
// rowBusiness. Owners may reach across businesses; everyone else is limited
// to rows of their own business.
func ensureBusinessAccess(c echo.Context, rowBusiness string) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if claims.Role == "owner" {
		return nil
	}
	if claims.BusinessID != rowBusiness {
		logger.FromEcho(c).Warn("Cross-business access attempt",
			zap.String("requesting_business", claims.BusinessID),
			zap.String("row_business", rowBusiness))
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	return nil
}

// parseID parses the :id path parameter.
func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// writeError maps repository errors onto HTTP responses.
func writeError(c echo.Context, err error) error {
	log := logger.FromEcho(c)

	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		return c.JSON(herr.Code, echo.Map{"error": herr.Message})
	}

	var verr *repository.ValidationError
	switch {
	case errors.As(err, &verr):
		prometheus.RecordStoreError("validation")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Reason})
	case errors.Is(err, repository.ErrNotFound):
		prometheus.RecordStoreError("not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrStoreBusy):
		prometheus.RecordStoreError("busy")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store busy, retry later"})
	default:
		prometheus.RecordStoreError("other")
		log.Error("request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
