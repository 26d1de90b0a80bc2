package business

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsRegistered(t *testing.T) {
	assert.True(t, IsKnown(DefaultID))

	p, ok := Get(DefaultID)
	require.True(t, ok)
	assert.Equal(t, DefaultID, p.ID)
	assert.True(t, p.Active)
}

func TestUnknownBusiness(t *testing.T) {
	assert.False(t, IsKnown("acme_corp"))
	_, ok := Get("acme_corp")
	assert.False(t, ok)
}

func TestActiveSortedByID(t *testing.T) {
	active := Active()
	require.NotEmpty(t, active)
	for i := 1; i < len(active); i++ {
		assert.Less(t, active[i-1].ID, active[i].ID)
	}
	for _, p := range active {
		assert.True(t, p.Active)
	}
}
