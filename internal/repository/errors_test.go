package repository

import (
	"errors"
	"testing"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslateRecordNotFound(t *testing.T) {
	err := translate("get", "customer", gorm.ErrRecordNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTranslateBusy(t *testing.T) {
	driverErr := sqlite3.Error{Code: sqlite3.ErrBusy}
	err := translate("create", "customer", driverErr)

	assert.ErrorIs(t, err, ErrStoreBusy)

	var oerr *OpError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, "create", oerr.Op)
	assert.Equal(t, "customer", oerr.Entity)
}

func TestTranslateUniqueConstraint(t *testing.T) {
	driverErr := sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintUnique,
	}
	err := translate("create", "goal", driverErr)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "goal", verr.Entity)
	assert.Contains(t, verr.Reason, "duplicate")
}

func TestTranslateNotNullConstraint(t *testing.T) {
	driverErr := sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintNotNull,
	}
	err := translate("create", "customer", driverErr)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "required")
}

func TestTranslateStringFallbacks(t *testing.T) {
	// gorm sometimes surfaces driver errors as plain strings.
	err := translate("update", "order", errors.New("database is locked"))
	assert.ErrorIs(t, err, ErrStoreBusy)

	err = translate("create", "farmer", errors.New("UNIQUE constraint failed: farmers.name"))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestTranslateUnknownWrapsOpError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := translate("list", "invoice", cause)

	var oerr *OpError
	require.ErrorAs(t, err, &oerr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "list", oerr.Op)
}
