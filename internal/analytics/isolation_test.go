package analytics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolationForest(t *testing.T) {
	// A tight cluster with one far-away point.
	rng := rand.New(rand.NewSource(7))
	samples := make([][]float64, 0, 41)
	for i := 0; i < 40; i++ {
		samples = append(samples, []float64{rng.NormFloat64() * 0.1, rng.NormFloat64() * 0.1})
	}
	samples = append(samples, []float64{12, -9})

	t.Run("flags the contamination fraction", func(t *testing.T) {
		f := NewIsolationForest(0.1, 42)
		flags := f.FitPredict(samples)
		require.Len(t, flags, len(samples))

		flagged := 0
		for _, b := range flags {
			if b {
				flagged++
			}
		}
		// ceil(0.1 * 41) = 5
		assert.Equal(t, 5, flagged)
	})

	t.Run("isolated point is flagged", func(t *testing.T) {
		f := NewIsolationForest(0.1, 42)
		flags := f.FitPredict(samples)
		assert.True(t, flags[len(flags)-1])
	})

	t.Run("deterministic for a fixed seed", func(t *testing.T) {
		first := NewIsolationForest(0.1, 42).FitPredict(samples)
		second := NewIsolationForest(0.1, 42).FitPredict(samples)
		assert.Equal(t, first, second)
	})

	t.Run("empty input", func(t *testing.T) {
		f := NewIsolationForest(0.1, 42)
		assert.Empty(t, f.FitPredict(nil))
	})
}
