// Package multiclass lifts binary classifiers to several classes.
package multiclass

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/plantcare/core/model"
	pcErrors "github.com/ezoic/plantcare/pkg/errors"
	"github.com/ezoic/plantcare/pkg/log"
)

// OneVsRest trains one binary estimator per declared class, each separating
// its class (+1) from all the others (-1). Prediction picks the class whose
// estimator yields the largest raw score; on exact ties the class declared
// first wins.
//
// The estimator type is a type parameter so any model.BinaryClassifier can be
// used, LinearSVM being the default.
type OneVsRest[B model.BinaryClassifier] struct {
	state *model.StateManager

	factory    func() B
	classes    []string
	estimators map[string]B

	logger log.Logger
}

// OvROption configures a OneVsRest wrapper.
type OvROption func(*ovrConfig)

type ovrConfig struct {
	logger log.Logger
	name   string
}

// WithLogger replaces the wrapper logger.
func WithLogger(logger log.Logger) OvROption {
	return func(c *ovrConfig) {
		c.logger = logger
	}
}

// WithName attaches a target name (e.g. "healthStatus") to log records.
func WithName(name string) OvROption {
	return func(c *ovrConfig) {
		c.name = name
	}
}

// NewOneVsRest creates an untrained wrapper. factory is called once per class
// during Fit and must return a fresh estimator each time.
func NewOneVsRest[B model.BinaryClassifier](factory func() B, options ...OvROption) *OneVsRest[B] {
	cfg := &ovrConfig{name: "OneVsRest"}
	for _, opt := range options {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("multiclass").With(
			log.ModelNameKey, "OneVsRest",
			log.ComponentKey, "multiclass",
			log.TargetKey, cfg.name,
		)
	}

	return &OneVsRest[B]{
		state:   model.NewStateManager(),
		factory: factory,
		logger:  cfg.logger,
	}
}

// Fit trains one estimator per class in declaration order.
//
// Parameters:
//   - X: feature matrix (n_samples × n_features)
//   - y: class label of each sample
//   - classes: declared class set, order defines tie-breaking
//
// Errors:
//   - ConfigurationError: classes empty or duplicated, X has zero rows, nil factory
//   - DimensionError: len(y) differs from the row count of X
//   - ValidationError: a label is not one of classes
func (o *OneVsRest[B]) Fit(X mat.Matrix, y []string, classes []string) (err error) {
	defer pcErrors.Recover(&err, "OneVsRest.Fit")

	if o.factory == nil {
		return pcErrors.NewConfigurationError("OneVsRest.Fit", "estimator factory is nil")
	}
	if len(classes) == 0 {
		return pcErrors.NewConfigurationError("OneVsRest.Fit", "class set is empty")
	}
	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		if _, dup := seen[c]; dup {
			return pcErrors.NewConfigurationError("OneVsRest.Fit",
				fmt.Sprintf("class %q declared twice", c))
		}
		seen[c] = struct{}{}
	}

	rows, cols := X.Dims()
	if rows == 0 {
		return pcErrors.NewEmptyDataError("OneVsRest.Fit")
	}
	if len(y) != rows {
		return pcErrors.NewDimensionError("OneVsRest.Fit", rows, len(y), 0)
	}
	for i, label := range y {
		if _, ok := seen[label]; !ok {
			return pcErrors.NewValidationError("y",
				fmt.Sprintf("label %q at index %d is not a declared class", label, i), label)
		}
	}

	startTime := time.Now()
	o.logger.Debug("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, len(classes),
	)

	o.state.Reset()
	estimators := make(map[string]B, len(classes))
	binary := mat.NewDense(rows, 1, nil)

	for _, class := range classes {
		for i, label := range y {
			if label == class {
				binary.Set(i, 0, model.PositiveLabel)
			} else {
				binary.Set(i, 0, model.NegativeLabel)
			}
		}

		est := o.factory()
		if err := est.Fit(X, binary); err != nil {
			return pcErrors.Wrapf(err, "OneVsRest.Fit: class %q", class)
		}
		estimators[class] = est
	}

	o.classes = append([]string(nil), classes...)
	o.estimators = estimators
	o.state.SetFitted()
	o.state.SetDimensions(cols, rows)

	o.logger.Debug("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
	)

	return nil
}

// DecisionFunction returns the raw score of every class estimator.
//
// Returns an n_samples × n_classes matrix whose columns follow Classes().
func (o *OneVsRest[B]) DecisionFunction(X mat.Matrix) (_ *mat.Dense, err error) {
	defer pcErrors.Recover(&err, "OneVsRest.DecisionFunction")
	if !o.IsFitted() {
		return nil, pcErrors.NewNotFittedError("OneVsRest", "DecisionFunction")
	}

	rows, _ := X.Dims()
	scores := mat.NewDense(rows, len(o.classes), nil)
	for j, class := range o.classes {
		col, err := o.estimators[class].DecisionFunction(X)
		if err != nil {
			return nil, err
		}
		for i := 0; i < rows; i++ {
			scores.Set(i, j, col.At(i, 0))
		}
	}
	return scores, nil
}

// Predict returns the arg-max class of each sample.
func (o *OneVsRest[B]) Predict(X mat.Matrix) (_ []string, err error) {
	defer pcErrors.Recover(&err, "OneVsRest.Predict")
	if !o.IsFitted() {
		return nil, pcErrors.NewNotFittedError("OneVsRest", "Predict")
	}

	scores, err := o.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	rows, _ := scores.Dims()
	predictions := make([]string, rows)
	for i := 0; i < rows; i++ {
		predictions[i] = o.classes[argmax(scores.RawRowView(i))]
	}
	return predictions, nil
}

// PredictOne classifies a single feature vector.
func (o *OneVsRest[B]) PredictOne(x []float64) (string, error) {
	if !o.IsFitted() {
		return "", pcErrors.NewNotFittedError("OneVsRest", "PredictOne")
	}
	if len(x) == 0 {
		return "", pcErrors.NewValueError("OneVsRest.PredictOne", "feature vector is empty")
	}
	labels, err := o.Predict(mat.NewDense(1, len(x), append([]float64(nil), x...)))
	if err != nil {
		return "", err
	}
	return labels[0], nil
}

// argmax returns the first index of the maximum; strict > keeps the earliest
// index on ties.
func argmax(v []float64) int {
	best := 0
	for j := 1; j < len(v); j++ {
		if v[j] > v[best] {
			best = j
		}
	}
	return best
}

// Classes returns the declared classes in order.
func (o *OneVsRest[B]) Classes() []string {
	return append([]string(nil), o.classes...)
}

// Estimator returns the trained estimator for class.
func (o *OneVsRest[B]) Estimator(class string) (B, bool) {
	est, ok := o.estimators[class]
	return est, ok
}

// IsFitted returns whether the wrapper has been fitted
func (o *OneVsRest[B]) IsFitted() bool {
	return o != nil && o.state.IsFitted()
}
