package svm

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/plantcare/core/model"
	pcErrors "github.com/ezoic/plantcare/pkg/errors"
	"github.com/ezoic/plantcare/pkg/log"
)

var _ model.BinaryClassifier = (*LinearSVM)(nil)

// separable returns a tiny linearly separable problem along the first axis.
func separable() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(4, 2, []float64{
		-3, 1,
		-2, 0,
		2, 0,
		3, 1,
	})
	y := mat.NewDense(4, 1, []float64{-1, -1, 1, 1})
	return X, y
}

func TestLinearSVM_SeparableData(t *testing.T) {
	X, y := separable()

	clf := NewLinearSVM(WithRandomState(42), WithLogger(log.Nop()))
	require.NoError(t, clf.Fit(X, y))
	assert.True(t, clf.IsFitted())

	pred, err := clf.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		assert.Equal(t, y.At(i, 0), pred.At(i, 0), "sample %d", i)
	}

	unseen := mat.NewDense(2, 2, []float64{-5, 0, 5, 0})
	pred, err = clf.Predict(unseen)
	require.NoError(t, err)
	assert.Equal(t, model.NegativeLabel, pred.At(0, 0))
	assert.Equal(t, model.PositiveLabel, pred.At(1, 0))

	assert.Equal(t, DefaultMaxIter, clf.NIterations())
	assert.Len(t, clf.Coef(), 2)
}

func TestLinearSVM_UpdateRule(t *testing.T) {
	X := mat.NewDense(1, 2, []float64{1, 2})
	y := mat.NewDense(1, 1, []float64{1})

	tests := []struct {
		name      string
		iter      int
		wantCoef  []float64
		wantBias  float64
		violation int
	}{
		// zero weights always violate the margin on the first draw
		{"first step", 1, []float64{0.01, 0.02}, 0.01, 1},
		{"second step", 2, []float64{
			0.01 - 0.01*(2*0.01*0.01-1),
			0.02 - 0.01*(2*0.01*0.02-2),
		}, 0.02, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clf := NewLinearSVM(WithMaxIter(tt.iter), WithRandomState(1), WithLogger(log.Nop()))
			require.NoError(t, clf.Fit(X, y))

			coef := clf.Coef()
			for j := range tt.wantCoef {
				assert.InDelta(t, tt.wantCoef[j], coef[j], 1e-12, "coef[%d]", j)
			}
			assert.InDelta(t, tt.wantBias, clf.Intercept(), 1e-12)
			assert.Equal(t, tt.violation, clf.NMarginViolations())
		})
	}
}

func TestLinearSVM_MarginSatisfiedOnlyDecays(t *testing.T) {
	// a single far-away point satisfies the margin once w is large enough,
	// after which each step only shrinks the weights
	X := mat.NewDense(1, 1, []float64{100})
	y := mat.NewDense(1, 1, []float64{1})

	clf := NewLinearSVM(WithMaxIter(2), WithRandomState(3), WithLogger(log.Nop()))
	require.NoError(t, clf.Fit(X, y))

	// step 1 violates: w = 1, b = 0.01; step 2: 1*(100+0.01) >= 1
	assert.InDelta(t, 1.0-0.01*(2*0.01*1.0), clf.Coef()[0], 1e-12)
	assert.InDelta(t, 0.01, clf.Intercept(), 1e-12)
	assert.Equal(t, 1, clf.NMarginViolations())
}

func TestLinearSVM_Reproducibility(t *testing.T) {
	X, y := separable()

	a := NewLinearSVM(WithRandomState(42), WithMaxIter(50), WithLogger(log.Nop()))
	b := NewLinearSVM(WithRandomState(42), WithMaxIter(50), WithLogger(log.Nop()))
	c := NewLinearSVM(WithRand(rand.New(rand.NewPCG(42, 42))), WithMaxIter(50), WithLogger(log.Nop()))

	for _, clf := range []*LinearSVM{a, b, c} {
		require.NoError(t, clf.Fit(X, y))
	}

	assert.Equal(t, a.Coef(), b.Coef())
	assert.Equal(t, a.Intercept(), b.Intercept())
	assert.Equal(t, a.Coef(), c.Coef())
	assert.Equal(t, a.Intercept(), c.Intercept())
}

func TestLinearSVM_DecisionFunctionSign(t *testing.T) {
	X, y := separable()
	clf := NewLinearSVM(WithRandomState(7), WithLogger(log.Nop()))
	require.NoError(t, clf.Fit(X, y))

	scores, err := clf.DecisionFunction(X)
	require.NoError(t, err)
	pred, err := clf.Predict(X)
	require.NoError(t, err)

	rows, cols := scores.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 1, cols)
	for i := 0; i < rows; i++ {
		if scores.At(i, 0) >= 0 {
			assert.Equal(t, model.PositiveLabel, pred.At(i, 0))
		} else {
			assert.Equal(t, model.NegativeLabel, pred.At(i, 0))
		}
	}
}

func TestLinearSVM_ZeroScorePredictsPositive(t *testing.T) {
	// one step on the origin leaves w at zero and b at lr*y
	X := mat.NewDense(1, 1, []float64{0})
	y := mat.NewDense(1, 1, []float64{-1})
	clf := NewLinearSVM(WithMaxIter(1), WithRandomState(0), WithLogger(log.Nop()))
	require.NoError(t, clf.Fit(X, y))
	require.InDelta(t, -0.01, clf.Intercept(), 1e-12)

	pred, err := clf.Predict(mat.NewDense(1, 1, []float64{0}))
	require.NoError(t, err)
	assert.Equal(t, model.NegativeLabel, pred.At(0, 0))

	// w = 0 and b = 0 give a score of exactly zero
	clf.intercept_ = 0
	pred, err = clf.Predict(mat.NewDense(1, 1, []float64{5}))
	require.NoError(t, err)
	assert.Equal(t, model.PositiveLabel, pred.At(0, 0))
}

func TestLinearSVM_Errors(t *testing.T) {
	X, y := separable()

	t.Run("not fitted", func(t *testing.T) {
		clf := NewLinearSVM(WithLogger(log.Nop()))
		_, err := clf.Predict(X)
		assert.True(t, errors.Is(err, pcErrors.ErrNotFitted))
		_, err = clf.DecisionFunction(X)
		assert.True(t, errors.Is(err, pcErrors.ErrNotFitted))
	})

	t.Run("zero rows", func(t *testing.T) {
		clf := NewLinearSVM(WithLogger(log.Nop()))
		err := clf.Fit(&mat.Dense{}, &mat.Dense{})
		assert.True(t, errors.Is(err, pcErrors.ErrInvalidConfiguration))
		assert.True(t, errors.Is(err, pcErrors.ErrEmptyData))
	})

	t.Run("row mismatch", func(t *testing.T) {
		clf := NewLinearSVM(WithLogger(log.Nop()))
		err := clf.Fit(X, mat.NewDense(3, 1, []float64{1, -1, 1}))
		assert.True(t, errors.Is(err, pcErrors.ErrDimensionMismatch))
	})

	t.Run("bad label", func(t *testing.T) {
		clf := NewLinearSVM(WithLogger(log.Nop()))
		err := clf.Fit(X, mat.NewDense(4, 1, []float64{-1, 0, 1, 1}))
		assert.True(t, errors.Is(err, pcErrors.ErrInvalidInput))
		assert.False(t, clf.IsFitted())
	})

	t.Run("feature mismatch", func(t *testing.T) {
		clf := NewLinearSVM(WithLogger(log.Nop()))
		require.NoError(t, clf.Fit(X, y))
		_, err := clf.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
		assert.True(t, errors.Is(err, pcErrors.ErrDimensionMismatch))
	})

	t.Run("bad hyperparameters", func(t *testing.T) {
		for _, opt := range []Option{WithLearningRate(0), WithLambda(-1), WithMaxIter(0)} {
			clf := NewLinearSVM(opt, WithLogger(log.Nop()))
			err := clf.Fit(X, y)
			assert.True(t, errors.Is(err, pcErrors.ErrInvalidConfiguration), "%v", err)
		}
	})
}

func TestLinearSVM_NilReceiver(t *testing.T) {
	var clf *LinearSVM
	assert.False(t, clf.IsFitted())
}

func TestLinearSVM_Params(t *testing.T) {
	clf := NewLinearSVM(WithLearningRate(0.05), WithLambda(0.1), WithMaxIter(10))
	params := clf.GetParams()
	assert.Equal(t, 0.05, params["learning_rate"])
	assert.Equal(t, 0.1, params["lambda"])
	assert.Equal(t, 10, params["max_iter"])
	assert.Equal(t, false, params["fitted"])
	assert.Equal(t, "LinearSVM(learning_rate=0.05, lambda=0.1, max_iter=10)", clf.String())
}
