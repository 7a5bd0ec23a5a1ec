package analytics

import "math"

// StandardScaler normalizes feature columns to zero mean and unit variance.
// Fit and transform always happen within one analysis call; nothing is kept
// across calls, so repeated runs on the same input are reproducible.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

// Fit computes per-column mean and standard deviation of the sample matrix.
// Constant columns get scale 1 so transforming them yields zero.
func (s *StandardScaler) Fit(samples [][]float64) {
	if len(samples) == 0 {
		s.mean, s.scale = nil, nil
		return
	}
	cols := len(samples[0])
	s.mean = make([]float64, cols)
	s.scale = make([]float64, cols)

	for j := 0; j < cols; j++ {
		var sum float64
		for i := range samples {
			sum += samples[i][j]
		}
		s.mean[j] = sum / float64(len(samples))

		var sq float64
		for i := range samples {
			d := samples[i][j] - s.mean[j]
			sq += d * d
		}
		s.scale[j] = math.Sqrt(sq / float64(len(samples)))
		if s.scale[j] == 0 {
			s.scale[j] = 1
		}
	}
}

// Transform returns a new normalized matrix; the input is not modified.
func (s *StandardScaler) Transform(samples [][]float64) [][]float64 {
	out := make([][]float64, len(samples))
	for i := range samples {
		row := make([]float64, len(samples[i]))
		for j := range samples[i] {
			row[j] = (samples[i][j] - s.mean[j]) / s.scale[j]
		}
		out[i] = row
	}
	return out
}

// FitTransform fits the scaler and transforms in one step.
func (s *StandardScaler) FitTransform(samples [][]float64) [][]float64 {
	s.Fit(samples)
	return s.Transform(samples)
}
