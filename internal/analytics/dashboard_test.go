package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInventoryHealth(t *testing.T) {
	assert.Equal(t, 100, InventoryHealth(0, 0))
	assert.Equal(t, 100, InventoryHealth(10, 10))
	assert.Equal(t, 50, InventoryHealth(5, 10))
	assert.Equal(t, 0, InventoryHealth(0, 10))
	assert.Equal(t, 67, InventoryHealth(2, 3))
}

func TestGrowthPercentage(t *testing.T) {
	assert.InDelta(t, 50, GrowthPercentage(150, 100), 1e-9)
	assert.InDelta(t, -25, GrowthPercentage(75, 100), 1e-9)
	assert.InDelta(t, 33.33, GrowthPercentage(400, 300), 1e-9)
	assert.InDelta(t, 100, GrowthPercentage(10, 0), 1e-9)
	assert.InDelta(t, 0, GrowthPercentage(0, 0), 1e-9)
}
