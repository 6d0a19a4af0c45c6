package mtl

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espa-tools/espa-formatter/internal/espa"
)

func TestComputeBounds(t *testing.T) {
	bounds, err := computeBounds([]orb.Point{
		{-120.74, 38.53},
		{-118.11, 36.41},
		{-118.09, 38.50},
		{-120.68, 36.44},
	})
	require.NoError(t, err)
	assert.InDelta(t, -120.74, bounds[espa.West], 1e-9)
	assert.InDelta(t, -118.09, bounds[espa.East], 1e-9)
	assert.InDelta(t, 38.53, bounds[espa.North], 1e-9)
	assert.InDelta(t, 36.41, bounds[espa.South], 1e-9)
}

func TestComputeBoundsDegenerate(t *testing.T) {
	_, err := computeBounds([]orb.Point{{0, 0}, {0, 0}, {0, 0}, {0, 0}})
	require.Error(t, err)
	assert.ErrorIs(t, err, espa.ErrValidation)
}
