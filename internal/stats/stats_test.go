package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		samples []float64
		want    Stats
	}{
		{
			// n=5: bot=1, top=ceil(3.75)=4, margin=(100-10)*1.5=135, so 100
			// stays inside [10-135, 100+135] and nothing is trimmed.
			name:    "single slow sample inside the widened bounds",
			samples: []float64{10, 100, 10, 10, 10},
			want:    Stats{Mean: 28000, Std: 36000, Outliers: 0},
		},
		{
			// n=8: bot=2, top=6, both 10, margin 0: only the 10s survive.
			name:    "extreme sample trimmed",
			samples: []float64{10, 10, 10, 10, 10, 10, 10, 1000},
			want:    Stats{Mean: 10000, Std: 0, Outliers: 13},
		},
		{
			name:    "uniform samples",
			samples: []float64{0.25, 0.25, 0.25, 0.25},
			want:    Stats{Mean: 250, Std: 0, Outliers: 0},
		},
		{
			// n=4: bot=1 (0.2), top=3 (0.4), margin 0.3, bounds [-0.1, 0.7].
			name:    "spread without outliers",
			samples: []float64{0.4, 0.1, 0.3, 0.2},
			want:    Stats{Mean: 250, Std: 112, Outliers: 0},
		},
		{
			name:    "single sample",
			samples: []float64{1.5},
			want:    Stats{Mean: 1500, Std: 0, Outliers: 0},
		},
		{
			// n=3: top clamps to 2, bot=0, margin=(3-1)*1.5.
			name:    "fewer than four samples",
			samples: []float64{3, 1, 2},
			want:    Stats{Mean: 2000, Std: 816, Outliers: 0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Reduce(tc.samples)

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReduce_DoesNotModifyInput(t *testing.T) {
	samples := []float64{3, 1, 2, 5, 4}

	_, err := Reduce(samples)

	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2, 5, 4}, samples)
}

func TestReduce_UniformIsIdempotent(t *testing.T) {
	samples := make([]float64, 1000)
	for i := range samples {
		samples[i] = 0.042
	}

	got, err := Reduce(samples)

	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Std)
	assert.Equal(t, int64(0), got.Outliers)
	assert.Equal(t, int64(42), got.Mean)
}

func TestReduce_Empty(t *testing.T) {
	_, err := Reduce(nil)

	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestJSRound(t *testing.T) {
	testCases := map[float64]float64{
		2.5:  3,
		2.4:  2,
		-2.5: -2,
		-2.6: -3,
		0.5:  1,
	}
	for in, want := range testCases {
		assert.Equal(t, want, jsRound(in), "jsRound(%v)", in)
	}
	assert.True(t, math.IsNaN(jsRound(math.NaN())))
}
