package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsexp/internal/dataset"
	"tsexp/internal/params"
)

// recorder captures the operands a Measure hands to its Measurer.
type recorder struct {
	longer, shorter []float64
	cutoff          float64
}

func (r *recorder) Measure(longer, shorter []float64, cutoff float64) float64 {
	r.longer, r.shorter, r.cutoff = longer, shorter, cutoff
	return 0
}

type countingObserver struct {
	calls, abandoned int
}

func (o *countingObserver) DistanceObserve(abandoned bool) {
	o.calls++
	if abandoned {
		o.abandoned++
	}
}

func TestMeasure_LongerFirst(t *testing.T) {
	rec := &recorder{}
	m := New("rec", rec)

	short := []float64{1, 2}
	long := []float64{1, 2, 3}

	m.DistanceWithin(short, long, 5)
	assert.Equal(t, long, rec.longer)
	assert.Equal(t, short, rec.shorter)
	assert.Equal(t, 5.0, rec.cutoff)

	m.DistanceWithin(long, short, 5)
	assert.Equal(t, long, rec.longer)
	assert.Equal(t, short, rec.shorter)
}

func TestMeasure_DefaultAndNaNCutoff(t *testing.T) {
	rec := &recorder{}
	m := New("rec", rec)

	m.Distance([]float64{1}, []float64{2})
	assert.True(t, math.IsInf(rec.cutoff, 1))

	m.DistanceWithin([]float64{1}, []float64{2}, math.NaN())
	assert.True(t, math.IsInf(rec.cutoff, 1))
}

func TestMeasure_BetweenExcludesLabel(t *testing.T) {
	m := New("euclidean", &Euclidean{})
	x := dataset.Instance{Values: []float64{0, 0}, Class: 0}
	y := dataset.Instance{Values: []float64{3, 4}, Class: 7}

	assert.InDelta(t, 5.0, m.Between(x, y, math.Inf(1)), 1e-12)
}

func TestMeasure_Observer(t *testing.T) {
	m := New("euclidean", &Euclidean{})
	obs := &countingObserver{}
	m.SetObserver(obs)

	m.Distance([]float64{0}, []float64{1})
	m.DistanceWithin([]float64{0}, []float64{10}, 1)

	assert.Equal(t, 2, obs.calls)
	assert.Equal(t, 1, obs.abandoned)
}

func TestEuclidean(t *testing.T) {
	m := New("euclidean", &Euclidean{})

	assert.Equal(t, 0.0, m.Distance([]float64{1, 2, 3}, []float64{1, 2, 3}))
	assert.InDelta(t, 5.0, m.Distance([]float64{0, 0}, []float64{3, 4}), 1e-12)
	// Only the overlapping prefix counts.
	assert.InDelta(t, 5.0, m.Distance([]float64{0, 0, 100}, []float64{3, 4}), 1e-12)
	assert.Equal(t, 0.0, m.Distance(nil, nil))
}

func TestEuclidean_Cutoff(t *testing.T) {
	m := New("euclidean", &Euclidean{})
	a := []float64{0, 0, 0}
	b := []float64{3, 4, 12}

	full := m.Distance(a, b)
	assert.InDelta(t, 13.0, full, 1e-12)

	assert.InDelta(t, full, m.DistanceWithin(a, b, 13.5), 1e-12)
	assert.Greater(t, m.DistanceWithin(a, b, 6), 6.0)
}

func TestEuclidean_HasNoParams(t *testing.T) {
	m := New("euclidean", &Euclidean{})
	assert.True(t, m.Params().IsEmpty())
	assert.Error(t, m.SetParams(params.New().Put("w", 1)))
}

func TestDTW(t *testing.T) {
	m := New("dtw", NewDTW())

	assert.Equal(t, 0.0, m.Distance([]float64{1, 2, 3}, []float64{1, 2, 3}))
	// Warping absorbs the repeated point.
	assert.Equal(t, 0.0, m.Distance([]float64{1, 2, 2, 3}, []float64{1, 2, 3}))
	assert.InDelta(t, math.Sqrt2, m.Distance([]float64{0, 0}, []float64{1}), 1e-12)
	assert.Equal(t, 0.0, m.Distance(nil, nil))
	assert.True(t, math.IsInf(m.Distance([]float64{1}, nil), 1))
}

func TestDTW_ZeroWindowIsEuclidean(t *testing.T) {
	dtw := New("dtw", &DTW{Window: 0})
	euc := New("euclidean", &Euclidean{})
	a := []float64{1, 5, 2, 8, 3}
	b := []float64{2, 1, 7, 3, 3}

	assert.InDelta(t, euc.Distance(a, b), dtw.Distance(a, b), 1e-12)
}

func TestDTW_BandNeverBelowFullWarp(t *testing.T) {
	a := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	b := []float64{0, 0, 0, 1, 2, 3, 4, 5}

	full := New("dtw", NewDTW()).Distance(a, b)
	banded := New("dtw", &DTW{Window: 1}).Distance(a, b)

	assert.LessOrEqual(t, full, banded)
}

func TestDTW_Cutoff(t *testing.T) {
	m := New("dtw", NewDTW())
	a := []float64{0, 0, 0, 0}
	b := []float64{5, 5, 5, 5}

	full := m.Distance(a, b)
	assert.InDelta(t, 10.0, full, 1e-12)
	assert.InDelta(t, full, m.DistanceWithin(a, b, 11), 1e-12)
	assert.True(t, math.IsInf(m.DistanceWithin(a, b, 3), 1))
}

func TestDTW_Params(t *testing.T) {
	m := New("dtw", NewDTW())
	assert.Equal(t, []string{"-w", "-1"}, m.Params().Tokens())

	require.NoError(t, m.SetParams(params.New().Put("w", "3")))
	assert.Equal(t, 3, m.Measurer().(*DTW).Window)
	assert.Equal(t, "dtw -w 3", m.String())

	err := m.SetParams(params.New().Put("w", "wide"))
	assert.Error(t, err)
}

func TestSymmetry(t *testing.T) {
	series := [][]float64{
		{1, 2, 3, 4},
		{4, 3, 2, 1},
		{0.5, 9, -2},
		{7},
		{},
		{1, 1, 1, 1, 1, 1},
	}
	cutoffs := []float64{math.Inf(1), 10, 3, 0.5, 0}

	for _, name := range Names() {
		m, err := ByName(name)
		require.NoError(t, err)
		for _, a := range series {
			for _, b := range series {
				for _, c := range cutoffs {
					assert.Equal(t, m.DistanceWithin(a, b, c), m.DistanceWithin(b, a, c),
						"%s(%v, %v, %v)", name, a, b, c)
				}
			}
		}
	}
}

func TestCutoffNeverHidesSmallerDistance(t *testing.T) {
	a := []float64{1, 3, 2, 5, 4}
	b := []float64{2, 2, 4, 4, 6, 1}

	for _, name := range Names() {
		m, err := ByName(name)
		require.NoError(t, err)
		full := m.Distance(a, b)
		for _, c := range []float64{full + 1, full * 2, full / 2, 0.1} {
			d := m.DistanceWithin(a, b, c)
			if full <= c {
				assert.InDelta(t, full, d, 1e-12, "%s cutoff %v", name, c)
			} else {
				assert.Greater(t, d, c, "%s cutoff %v", name, c)
			}
		}
	}
}

func TestByName(t *testing.T) {
	assert.Equal(t, []string{"dtw", "euclidean"}, Names())

	m, err := ByName("dtw")
	require.NoError(t, err)
	assert.Equal(t, "dtw", m.Name())

	_, err = ByName("manhattan")
	assert.Error(t, err)
}
