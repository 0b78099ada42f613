package plant

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pcErrors "github.com/ezoic/plantcare/pkg/errors"
)

func healthyRose() Observation {
	return Observation{
		Species:     "Rose",
		Stage:       StageFlowering,
		Moisture:    60,
		PH:          6.5,
		Light:       8,
		Fertilizer:  true,
		LeafColor:   LeafNormal,
		Wilting:     false,
		FlowerCount: 15,
		Height:      65,
		PestScore:   0,
	}
}

func newEncoder(t *testing.T) *FeatureEncoder {
	t.Helper()
	enc, err := NewFeatureEncoder()
	require.NoError(t, err)
	return enc
}

func TestFeatureEncoder_Encode(t *testing.T) {
	enc := newEncoder(t)

	got, err := enc.Encode(healthyRose())
	require.NoError(t, err)
	require.Len(t, got, NFeatures)

	want := []float64{
		3,
		55.0 / 95.0,
		0.5,
		7.0 / 11.0,
		1,
		2,
		0,
		0.15,
		64.0 / 299.0,
		0,
	}
	for j := range want {
		assert.InDelta(t, want[j], got[j], 1e-12, "feature %s", FeatureNames[j])
	}
}

func TestFeatureEncoder_OrdinalLookups(t *testing.T) {
	enc := newEncoder(t)

	for code, stage := range Stages {
		o := healthyRose()
		o.Stage = stage
		x, err := enc.Encode(o)
		require.NoError(t, err)
		assert.Equal(t, float64(code), x[0], "stage %s", stage)
	}

	for code, color := range LeafColors {
		o := healthyRose()
		o.LeafColor = color
		x, err := enc.Encode(o)
		require.NoError(t, err)
		assert.Equal(t, float64(code), x[5], "leaf color %s", color)
	}

	o := healthyRose()
	o.Fertilizer = false
	o.Wilting = true
	x, err := enc.Encode(o)
	require.NoError(t, err)
	assert.Equal(t, 0.0, x[4])
	assert.Equal(t, 1.0, x[6])
}

func TestFeatureEncoder_NormalisationBounds(t *testing.T) {
	enc := newEncoder(t)

	low := healthyRose()
	low.Moisture, low.PH, low.Light, low.FlowerCount, low.Height = 5, 4, 1, 0, 1
	x, err := enc.Encode(low)
	require.NoError(t, err)
	for _, j := range []int{1, 2, 3, 7, 8} {
		assert.Equal(t, 0.0, x[j], "feature %s", FeatureNames[j])
	}

	high := healthyRose()
	high.Moisture, high.PH, high.Light, high.FlowerCount, high.Height = 100, 9, 12, 100, 300
	x, err = enc.Encode(high)
	require.NoError(t, err)
	for _, j := range []int{1, 2, 3, 7, 8} {
		assert.InDelta(t, 1.0, x[j], 1e-12, "feature %s", FeatureNames[j])
	}

	// values outside the bounds are not clamped
	wide := healthyRose()
	wide.Light = 23
	wide.FlowerCount = 500
	x, err = enc.Encode(wide)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, x[3], 1e-12)
	assert.InDelta(t, 5.0, x[7], 1e-12)
}

func TestFeatureEncoder_PestScoreIsRaw(t *testing.T) {
	enc := newEncoder(t)
	for score := 0; score <= MaxPestScore; score++ {
		o := healthyRose()
		o.PestScore = score
		x, err := enc.Encode(o)
		require.NoError(t, err)
		assert.Equal(t, float64(score), x[9])
	}
}

func TestFeatureEncoder_Errors(t *testing.T) {
	enc := newEncoder(t)

	tests := []struct {
		name    string
		mutate  func(*Observation)
		field   string
		unknown bool
	}{
		{"unknown leaf color", func(o *Observation) { o.LeafColor = "Purple" }, "leafColor", true},
		{"unknown stage", func(o *Observation) { o.Stage = "Dormant" }, "stage", true},
		{"nan moisture", func(o *Observation) { o.Moisture = math.NaN() }, "moisture", false},
		{"infinite height", func(o *Observation) { o.Height = math.Inf(1) }, "height", false},
		{"pest score too high", func(o *Observation) { o.PestScore = 5 }, "pestScore", false},
		{"negative pest score", func(o *Observation) { o.PestScore = -1 }, "pestScore", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := healthyRose()
			tt.mutate(&o)

			_, err := enc.Encode(o)
			require.Error(t, err)

			var encErr *pcErrors.EncodingError
			require.True(t, errors.As(err, &encErr), "got %T", err)
			assert.Equal(t, tt.field, encErr.Field)
			assert.Equal(t, tt.unknown, errors.Is(err, pcErrors.ErrUnknownCategory))
			assert.True(t, errors.Is(err, pcErrors.ErrInvalidInput))
		})
	}
}

func TestFeatureEncoder_Pure(t *testing.T) {
	enc := newEncoder(t)
	o := healthyRose()
	before := o

	a, err := enc.Encode(o)
	require.NoError(t, err)
	b, err := enc.Encode(o)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, before, o)
}

func TestFeatureEncoder_EncodeAll(t *testing.T) {
	enc := newEncoder(t)

	second := healthyRose()
	second.Stage = StageSeedling
	X, err := enc.EncodeAll([]Observation{healthyRose(), second})
	require.NoError(t, err)

	rows, cols := X.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, NFeatures, cols)
	assert.Equal(t, 3.0, X.At(0, 0))
	assert.Equal(t, 0.0, X.At(1, 0))

	_, err = enc.EncodeAll(nil)
	assert.True(t, errors.Is(err, pcErrors.ErrEmptyData))

	bad := healthyRose()
	bad.LeafColor = "Purple"
	_, err = enc.EncodeAll([]Observation{healthyRose(), bad})
	assert.True(t, errors.Is(err, pcErrors.ErrUnknownCategory))
	assert.Contains(t, err.Error(), "record 1")
}

func TestDefaultEncoder(t *testing.T) {
	a, err := DefaultEncoder()
	require.NoError(t, err)
	b, err := DefaultEncoder()
	require.NoError(t, err)
	assert.Same(t, a, b)
}
