package multiclass

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	pcErrors "github.com/ezoic/plantcare/pkg/errors"
	"github.com/ezoic/plantcare/pkg/log"
	"github.com/ezoic/plantcare/sklearn/svm"
)

// constScorer returns the same score for every sample.
type constScorer struct {
	score  float64
	fitted bool
	seenY  []float64
}

func (c *constScorer) Fit(X, y mat.Matrix) error {
	rows, _ := y.Dims()
	c.seenY = make([]float64, rows)
	for i := range c.seenY {
		c.seenY[i] = y.At(i, 0)
	}
	c.fitted = true
	return nil
}

func (c *constScorer) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	rows, _ := X.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, c.score)
	}
	return out, nil
}

func (c *constScorer) Predict(X mat.Matrix) (mat.Matrix, error) {
	return c.DecisionFunction(X)
}

func (c *constScorer) IsFitted() bool { return c.fitted }

// scripted hands out scorers with the given scores in order.
func scripted(scores ...float64) func() *constScorer {
	i := 0
	return func() *constScorer {
		s := &constScorer{score: scores[i]}
		i++
		return s
	}
}

func svmFactory(seed int64) func() *svm.LinearSVM {
	return func() *svm.LinearSVM {
		return svm.NewLinearSVM(svm.WithRandomState(seed), svm.WithLogger(log.Nop()))
	}
}

func TestOneVsRest_OneEstimatorPerClass(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := []string{"Low", "High", "Low"}
	classes := []string{"Low", "Medium", "High"}

	ovr := NewOneVsRest(scripted(0, 0, 0), WithLogger(log.Nop()))
	require.NoError(t, ovr.Fit(X, y, classes))

	assert.Equal(t, classes, ovr.Classes())
	for _, c := range classes {
		est, ok := ovr.Estimator(c)
		require.True(t, ok, "missing estimator for %s", c)
		assert.True(t, est.IsFitted())
	}

	low, _ := ovr.Estimator("Low")
	assert.Equal(t, []float64{1, -1, 1}, low.seenY)
	medium, _ := ovr.Estimator("Medium")
	assert.Equal(t, []float64{-1, -1, -1}, medium.seenY)
	high, _ := ovr.Estimator("High")
	assert.Equal(t, []float64{-1, 1, -1}, high.seenY)
}

func TestOneVsRest_ArgMaxAndTieBreak(t *testing.T) {
	X := mat.NewDense(1, 1, []float64{0})
	y := []string{"A"}

	tests := []struct {
		name   string
		scores []float64
		want   string
	}{
		{"clear winner", []float64{-1, 2, 0.5}, "B"},
		{"tie goes to first declared", []float64{0.3, 0.3, 0.1}, "A"},
		{"all equal", []float64{-2, -2, -2}, "A"},
		{"tie after first", []float64{-1, 0.7, 0.7}, "B"},
		{"last wins", []float64{-1, -0.5, 0}, "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ovr := NewOneVsRest(scripted(tt.scores...), WithLogger(log.Nop()))
			require.NoError(t, ovr.Fit(X, y, []string{"A", "B", "C"}))

			got, err := ovr.PredictOne([]float64{0})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			scores, err := ovr.DecisionFunction(X)
			require.NoError(t, err)
			assert.Equal(t, tt.scores, scores.RawRowView(0))
		})
	}
}

func TestOneVsRest_LinearSVM(t *testing.T) {
	// three well-separated clusters on a line
	X := mat.NewDense(9, 2, []float64{
		-6, 0, -5, 1, -5.5, -1,
		0, 0, 0.5, 1, -0.5, -1,
		5, 0, 6, 1, 5.5, -1,
	})
	y := []string{"Slow", "Slow", "Slow", "Normal", "Normal", "Normal", "Fast", "Fast", "Fast"}

	ovr := NewOneVsRest(svmFactory(42), WithName("growthType"), WithLogger(log.Nop()))
	require.NoError(t, ovr.Fit(X, y, []string{"Slow", "Normal", "Fast"}))

	pred, err := ovr.Predict(X)
	require.NoError(t, err)
	assert.Len(t, pred, 9)
	for _, p := range pred {
		assert.Contains(t, []string{"Slow", "Normal", "Fast"}, p)
	}

	// the extreme clusters are linearly separable from the rest
	assert.Equal(t, "Slow", pred[0])
	assert.Equal(t, "Fast", pred[6])
}

func TestOneVsRest_Reproducible(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{-2, -1, 1, 2})
	y := []string{"a", "a", "b", "b"}

	first := NewOneVsRest(svmFactory(9), WithLogger(log.Nop()))
	second := NewOneVsRest(svmFactory(9), WithLogger(log.Nop()))
	require.NoError(t, first.Fit(X, y, []string{"a", "b"}))
	require.NoError(t, second.Fit(X, y, []string{"a", "b"}))

	s1, err := first.DecisionFunction(X)
	require.NoError(t, err)
	s2, err := second.DecisionFunction(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(s1, s2))
}

func TestOneVsRest_Errors(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 2})

	tests := []struct {
		name    string
		y       []string
		classes []string
		target  error
	}{
		{"empty classes", []string{"a", "a"}, nil, pcErrors.ErrInvalidConfiguration},
		{"duplicate classes", []string{"a", "a"}, []string{"a", "a"}, pcErrors.ErrInvalidConfiguration},
		{"undeclared label", []string{"a", "z"}, []string{"a", "b"}, pcErrors.ErrInvalidInput},
		{"length mismatch", []string{"a"}, []string{"a", "b"}, pcErrors.ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ovr := NewOneVsRest(svmFactory(1), WithLogger(log.Nop()))
			err := ovr.Fit(X, tt.y, tt.classes)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			assert.False(t, ovr.IsFitted())
		})
	}

	t.Run("zero rows", func(t *testing.T) {
		ovr := NewOneVsRest(svmFactory(1), WithLogger(log.Nop()))
		err := ovr.Fit(&mat.Dense{}, nil, []string{"a"})
		assert.True(t, errors.Is(err, pcErrors.ErrEmptyData))
	})

	t.Run("not fitted", func(t *testing.T) {
		ovr := NewOneVsRest(svmFactory(1), WithLogger(log.Nop()))
		_, err := ovr.Predict(X)
		assert.True(t, errors.Is(err, pcErrors.ErrNotFitted))
		_, err = ovr.PredictOne([]float64{1})
		assert.True(t, errors.Is(err, pcErrors.ErrNotFitted))

		var zero OneVsRest[*svm.LinearSVM]
		_, err = zero.PredictOne([]float64{1})
		assert.True(t, errors.Is(err, pcErrors.ErrNotFitted))
	})
}
