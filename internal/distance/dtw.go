package distance

import (
	"fmt"
	"math"

	"tsexp/internal/params"
)

// DTW is dynamic time warping with squared point costs and a Sakoe-Chiba band.
// Window is the band half-width in points; a negative value means no band.
// The band is widened to the length difference so a warping path always exists.
type DTW struct {
	Window int
}

func NewDTW() *DTW {
	return &DTW{Window: -1}
}

func (d *DTW) Measure(longer, shorter []float64, cutoff float64) float64 {
	n, m := len(shorter), len(longer)
	if n == 0 {
		if m == 0 {
			return 0
		}
		return math.Inf(1)
	}

	limit := cutoff * cutoff
	if math.IsInf(cutoff, 1) {
		limit = math.Inf(1)
	}

	w := d.Window
	if w < 0 || w > m {
		w = m
	}
	if w < m-n {
		w = m - n
	}

	inf := math.Inf(1)
	prev := make([]float64, m)
	curr := make([]float64, m)
	for j := range prev {
		prev[j] = inf
	}

	for i := 0; i < n; i++ {
		lo, hi := max(0, i-w), min(m-1, i+w)
		for j := range curr {
			curr[j] = inf
		}
		rowMin := inf
		for j := lo; j <= hi; j++ {
			diff := shorter[i] - longer[j]
			cost := diff * diff
			var best float64
			switch {
			case i == 0 && j == 0:
				best = 0
			case i == 0:
				best = curr[j-1]
			case j == 0:
				best = prev[j]
			default:
				best = min(prev[j], prev[j-1], curr[j-1])
			}
			curr[j] = cost + best
			rowMin = min(rowMin, curr[j])
		}
		if rowMin > limit {
			return inf
		}
		prev, curr = curr, prev
	}

	result := prev[m-1]
	if result > limit {
		return inf
	}
	return math.Sqrt(result)
}

func (d *DTW) Params() *params.Set {
	return params.New().Put("w", d.Window)
}

func (d *DTW) SetParams(set *params.Set) error {
	return params.SetParam(set, "w", func(w int) {
		d.Window = w
	})
}

func (d *DTW) String() string {
	return fmt.Sprintf("DTW(w=%d)", d.Window)
}
