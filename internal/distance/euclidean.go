package distance

import (
	"math"

	"tsexp/internal/params"
)

// Euclidean is the lock-step Euclidean distance over the overlapping prefix of the
// two series. Trailing values of the longer series are ignored.
type Euclidean struct {
	params.Unsupported
}

func (Euclidean) Measure(longer, shorter []float64, cutoff float64) float64 {
	limit := cutoff * cutoff
	if math.IsInf(cutoff, 1) {
		limit = math.Inf(1)
	}
	var sum float64
	for i := range shorter {
		d := longer[i] - shorter[i]
		sum += d * d
		if sum > limit {
			return math.Inf(1)
		}
	}
	return math.Sqrt(sum)
}
