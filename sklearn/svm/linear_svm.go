// Package svm provides linear support vector machines trained by stochastic
// sub-gradient descent.
//
// LinearSVM separates two classes labelled +1 and -1 with a hyperplane w·x+b,
// minimising the soft-margin objective
//
//	λ‖w‖² + max(0, 1 − y·(w·x+b))
//
// one randomly drawn sample at a time. The random source is injectable so
// training can be made reproducible:
//
//	clf := svm.NewLinearSVM(svm.WithRandomState(42))
//	if err := clf.Fit(X, y); err != nil {
//		log.Fatal(err)
//	}
//	scores, err := clf.DecisionFunction(XTest)
package svm

import (
	"fmt"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/plantcare/core/model"
	pcErrors "github.com/ezoic/plantcare/pkg/errors"
	"github.com/ezoic/plantcare/pkg/log"
)

// Default hyperparameters.
const (
	DefaultLearningRate = 0.01
	DefaultLambda       = 0.01
	DefaultMaxIter      = 1000
)

// LinearSVM is a binary linear margin classifier trained by stochastic
// sub-gradient descent on the hinge loss with L2 regularisation.
type LinearSVM struct {
	state *model.StateManager

	// Hyperparameters
	learningRate float64 // Step size
	lambda       float64 // L2 regularisation strength
	maxIter      int     // Number of single-sample update steps
	randomState  int64   // Random seed, -1 for time-seeded

	// Learned parameters
	coef_      []float64 // Weight vector (n_features)
	intercept_ float64   // Bias

	// Learning state
	nIter_       int // Steps executed
	nViolations_ int // Steps where the margin was violated

	rng    *rand.Rand
	logger log.Logger
}

// Option configures a LinearSVM.
type Option func(*LinearSVM)

// NewLinearSVM creates an untrained LinearSVM.
//
// Without WithRandomState or WithRand the sample draws are seeded from the
// clock, so two trainings on the same data generally differ.
//
// Example:
//
//	clf := svm.NewLinearSVM(
//		svm.WithLearningRate(0.01),
//		svm.WithLambda(0.01),
//		svm.WithMaxIter(1000),
//		svm.WithRandomState(7),
//	)
func NewLinearSVM(options ...Option) *LinearSVM {
	s := &LinearSVM{
		state:        model.NewStateManager(),
		learningRate: DefaultLearningRate,
		lambda:       DefaultLambda,
		maxIter:      DefaultMaxIter,
		randomState:  -1,
	}

	for _, opt := range options {
		opt(s)
	}

	if s.rng == nil {
		if s.randomState >= 0 {
			s.rng = rand.New(rand.NewPCG(uint64(s.randomState), uint64(s.randomState)))
		} else {
			now := uint64(time.Now().UnixNano())
			s.rng = rand.New(rand.NewPCG(now, now^0xdeadbeef))
		}
	}

	if s.logger == nil {
		s.logger = log.GetLoggerWithName("svm").With(
			log.ModelNameKey, "LinearSVM",
			log.ComponentKey, "svm",
		)
	}

	return s
}

// WithLearningRate sets the step size.
func WithLearningRate(lr float64) Option {
	return func(s *LinearSVM) {
		s.learningRate = lr
	}
}

// WithLambda sets the L2 regularisation strength.
func WithLambda(lambda float64) Option {
	return func(s *LinearSVM) {
		s.lambda = lambda
	}
}

// WithMaxIter sets the number of sub-gradient steps.
func WithMaxIter(maxIter int) Option {
	return func(s *LinearSVM) {
		s.maxIter = maxIter
	}
}

// WithRandomState seeds the sample draws. Negative seeds mean time-seeded.
func WithRandomState(seed int64) Option {
	return func(s *LinearSVM) {
		s.randomState = seed
		if seed >= 0 {
			s.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
		}
	}
}

// WithRand injects the random source used for sample draws. The generator is
// consumed during Fit, so sharing it between estimators makes their draws
// depend on training order.
func WithRand(rng *rand.Rand) Option {
	return func(s *LinearSVM) {
		s.rng = rng
	}
}

// WithLogger replaces the estimator logger.
func WithLogger(logger log.Logger) Option {
	return func(s *LinearSVM) {
		s.logger = logger
	}
}

// Fit trains the classifier.
//
// Parameters:
//   - X: feature matrix of shape (n_samples, n_features)
//   - y: label column of shape (n_samples, 1) with values +1 or -1
//
// Errors:
//   - ConfigurationError: X has zero rows or columns, or hyperparameters are unusable
//   - DimensionError: X and y disagree on the number of samples
//   - ValidationError: a label is not ±1
func (s *LinearSVM) Fit(X, y mat.Matrix) (err error) {
	defer pcErrors.Recover(&err, "LinearSVM.Fit")

	if err := s.validateParams(); err != nil {
		return err
	}

	rows, cols := X.Dims()
	if rows == 0 {
		return pcErrors.NewEmptyDataError("LinearSVM.Fit")
	}
	if cols == 0 {
		return pcErrors.NewConfigurationError("LinearSVM.Fit", "training matrix has zero features")
	}

	ry, cy := y.Dims()
	if ry != rows {
		return pcErrors.NewDimensionError("LinearSVM.Fit", rows, ry, 0)
	}
	if cy != 1 {
		return pcErrors.NewValueError("LinearSVM.Fit", "y must be a column vector")
	}

	labels := make([]float64, rows)
	for i := 0; i < rows; i++ {
		v := y.At(i, 0)
		if v != model.PositiveLabel && v != model.NegativeLabel {
			return pcErrors.NewValidationError("y",
				fmt.Sprintf("labels must be +1 or -1, found %v at index %d", v, i), v)
		}
		labels[i] = v
	}

	samples := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		samples[i] = mat.Row(nil, i, X)
	}

	startTime := time.Now()
	s.logger.Debug("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.IterationsKey, s.maxIter,
	)

	s.state.Reset()
	w := make([]float64, cols)
	b := 0.0
	violations := 0

	lr := s.learningRate
	lambda := s.lambda
	for iter := 0; iter < s.maxIter; iter++ {
		idx := s.rng.IntN(rows)
		xi := samples[idx]
		yi := labels[idx]

		condition := yi * (floats.Dot(xi, w) + b)

		if condition >= 1 {
			// margin satisfied: regularisation decay only
			for j := range w {
				w[j] = w[j] - lr*(2*lambda*w[j])
			}
		} else {
			for j := range w {
				w[j] = w[j] - lr*(2*lambda*w[j]-yi*xi[j])
			}
			b = b - lr*(-yi)
			violations++
		}
	}

	s.coef_ = w
	s.intercept_ = b
	s.nIter_ = s.maxIter
	s.nViolations_ = violations

	s.state.SetFitted()
	s.state.SetDimensions(cols, rows)

	s.logger.Debug("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
		"margin_violations", violations,
	)

	return nil
}

// DecisionFunction returns the signed score w·x+b for each sample.
//
// Returns:
//   - mat.Matrix: scores of shape (n_samples, 1)
//   - error: NotFittedError before Fit, DimensionError on a feature count mismatch
func (s *LinearSVM) DecisionFunction(X mat.Matrix) (_ mat.Matrix, err error) {
	defer pcErrors.Recover(&err, "LinearSVM.DecisionFunction")
	if !s.IsFitted() {
		return nil, pcErrors.NewNotFittedError("LinearSVM", "DecisionFunction")
	}

	rows, cols := X.Dims()
	if cols != len(s.coef_) {
		return nil, pcErrors.NewDimensionError("LinearSVM.DecisionFunction", len(s.coef_), cols, 1)
	}

	scores := mat.NewDense(rows, 1, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, X)
		scores.Set(i, 0, floats.Dot(row, s.coef_)+s.intercept_)
	}

	return scores, nil
}

// Predict returns +1 where the score is >= 0 and -1 otherwise.
func (s *LinearSVM) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer pcErrors.Recover(&err, "LinearSVM.Predict")
	if !s.IsFitted() {
		return nil, pcErrors.NewNotFittedError("LinearSVM", "Predict")
	}

	scores, err := s.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	rows, _ := scores.Dims()
	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		label := model.NegativeLabel
		if scores.At(i, 0) >= 0 {
			label = model.PositiveLabel
		}
		predictions.Set(i, 0, label)
	}

	return predictions, nil
}

// validateParams rejects hyperparameters that cannot train.
func (s *LinearSVM) validateParams() error {
	if !(s.learningRate > 0) {
		return pcErrors.NewConfigurationError("LinearSVM.Fit",
			fmt.Sprintf("learning rate must be > 0, got %v", s.learningRate))
	}
	if !(s.lambda >= 0) {
		return pcErrors.NewConfigurationError("LinearSVM.Fit",
			fmt.Sprintf("lambda must be >= 0, got %v", s.lambda))
	}
	if s.maxIter <= 0 {
		return pcErrors.NewConfigurationError("LinearSVM.Fit",
			fmt.Sprintf("max iterations must be > 0, got %d", s.maxIter))
	}
	if s.rng == nil {
		return pcErrors.NewConfigurationError("LinearSVM.Fit", "random source is nil")
	}
	return nil
}

// Coef returns a copy of the learned weights.
func (s *LinearSVM) Coef() []float64 {
	if s.coef_ == nil {
		return nil
	}
	coef := make([]float64, len(s.coef_))
	copy(coef, s.coef_)
	return coef
}

// Intercept returns the learned bias.
func (s *LinearSVM) Intercept() float64 {
	return s.intercept_
}

// NIterations returns the number of sub-gradient steps executed.
func (s *LinearSVM) NIterations() int {
	return s.nIter_
}

// NMarginViolations returns how many steps hit a violated margin.
func (s *LinearSVM) NMarginViolations() int {
	return s.nViolations_
}

// IsFitted returns whether the model has been fitted
func (s *LinearSVM) IsFitted() bool {
	return s != nil && s.state.IsFitted()
}

// GetParams returns the hyperparameters
func (s *LinearSVM) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"learning_rate": s.learningRate,
		"lambda":        s.lambda,
		"max_iter":      s.maxIter,
		"random_state":  s.randomState,
		"fitted":        s.IsFitted(),
	}
}

// String returns a short description.
func (s *LinearSVM) String() string {
	return fmt.Sprintf("LinearSVM(learning_rate=%g, lambda=%g, max_iter=%d)",
		s.learningRate, s.lambda, s.maxIter)
}
