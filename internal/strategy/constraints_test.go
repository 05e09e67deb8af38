package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bounds(n int) (lower, upper []float64) {
	lower = make([]float64, n)
	upper = make([]float64, n)
	for i := range upper {
		upper[i] = 1
	}
	return lower, upper
}

func TestConstraintsFeasibleVectors(t *testing.T) {
	tests := []struct {
		name string
		w    []float64
	}{
		{"equal_weights", []float64{0.5, 0.5}},
		{"corner", []float64{1, 0}},
		{"three_assets", []float64{0.2, 0.3, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lower, upper := bounds(len(tt.w))
			vals := Constraints(tt.w, lower, upper)

			require.Len(t, vals, 2+2*len(tt.w))
			for i, v := range vals {
				assert.GreaterOrEqual(t, v, 0.0, "constraint %d", i)
			}
			assert.True(t, Feasible(vals, 1e-9))
		})
	}
}

func TestConstraintsViolations(t *testing.T) {
	tests := []struct {
		name string
		w    []float64
	}{
		{"sum_above_one", []float64{0.7, 0.7}},
		{"sum_below_one", []float64{0.2, 0.2}},
		{"above_upper_bound", []float64{1.4, -0.4}},
		{"below_lower_bound", []float64{-0.1, 1.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lower, upper := bounds(len(tt.w))
			assert.False(t, Feasible(Constraints(tt.w, lower, upper), 1e-9))
		})
	}
}

func TestPenaltyZeroWhenFeasible(t *testing.T) {
	lower, upper := bounds(2)

	assert.Equal(t, 0.0, penalty(Constraints([]float64{0.4, 0.6}, lower, upper), defaultPenaltyWeight))
	assert.Greater(t, penalty(Constraints([]float64{0.8, 0.8}, lower, upper), defaultPenaltyWeight), 0.0)
}
