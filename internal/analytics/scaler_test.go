package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScaler(t *testing.T) {
	t.Run("zero mean unit variance", func(t *testing.T) {
		samples := [][]float64{{1, 10}, {2, 20}, {3, 30}, {4, 40}}

		var s StandardScaler
		out := s.FitTransform(samples)
		require.Len(t, out, 4)

		for j := 0; j < 2; j++ {
			var mean float64
			for i := range out {
				mean += out[i][j]
			}
			mean /= float64(len(out))
			assert.InDelta(t, 0, mean, 1e-9)

			var variance float64
			for i := range out {
				variance += (out[i][j] - mean) * (out[i][j] - mean)
			}
			variance /= float64(len(out))
			assert.InDelta(t, 1, variance, 1e-9)
		}
	})

	t.Run("constant column yields zeros", func(t *testing.T) {
		samples := [][]float64{{5, 1}, {5, 2}, {5, 3}}

		var s StandardScaler
		out := s.FitTransform(samples)
		for i := range out {
			assert.Zero(t, out[i][0])
			assert.False(t, math.IsNaN(out[i][1]))
		}
	})

	t.Run("input unchanged", func(t *testing.T) {
		samples := [][]float64{{1, 2}, {3, 4}}

		var s StandardScaler
		s.FitTransform(samples)
		assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, samples)
	})
}
