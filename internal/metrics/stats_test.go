package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestVarianceAndStdDev(t *testing.T) {
	assert.Equal(t, 0.0, Variance(nil))
	assert.Equal(t, 0.0, Variance([]float64{5, 5, 5}))

	// Population variance of {2, 4, 4, 4, 5, 5, 7, 9} is 4.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 4.0, Variance(values), 1e-9)
	assert.InDelta(t, 2.0, StdDev(values), 1e-9)
}

func TestRate(t *testing.T) {
	assert.Equal(t, 0.0, Rate(3, 0))
	assert.Equal(t, 0.75, Rate(3, 4))
}
