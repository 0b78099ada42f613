// Package advisor trains the diagnosis classifiers and combines their
// predictions with rule-based checks into a plant diagnosis.
package advisor

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/plantcare/metrics"
	"github.com/ezoic/plantcare/plant"
	pcErrors "github.com/ezoic/plantcare/pkg/errors"
	"github.com/ezoic/plantcare/pkg/log"
	"github.com/ezoic/plantcare/sklearn/multiclass"
	"github.com/ezoic/plantcare/sklearn/svm"
)

// Classifier is the multi-class model trained for each target.
type Classifier = multiclass.OneVsRest[*svm.LinearSVM]

// Models holds one trained classifier per target. It is read-only after
// TrainAll returns and can be shared between goroutines.
type Models struct {
	encoder     *plant.FeatureEncoder
	classifiers map[plant.Target]*Classifier
	report      TrainingReport
}

// TrainingReport summarises a TrainAll run. Accuracy and Confusion are
// measured on the training records themselves.
type TrainingReport struct {
	Samples      int                      `json:"samples"`
	Iterations   int                      `json:"iterations"`
	LearningRate float64                  `json:"learningRate"`
	Lambda       float64                  `json:"lambda"`
	Accuracy     map[plant.Target]float64 `json:"accuracy"`
	// Confusion rows are true classes, columns predicted, in Target.Classes order.
	Confusion map[plant.Target]*mat.Dense `json:"-"`
	Duration  time.Duration               `json:"duration"`
}

// Prediction is the output of the three classifiers for one observation.
type Prediction struct {
	HealthStatus string `json:"healthStatus" yaml:"healthStatus"`
	GrowthType   string `json:"growthType" yaml:"growthType"`
	RiskLevel    string `json:"riskLevel" yaml:"riskLevel"`
}

func (p *Prediction) set(t plant.Target, label string) {
	switch t {
	case plant.TargetHealthStatus:
		p.HealthStatus = label
	case plant.TargetGrowthType:
		p.GrowthType = label
	case plant.TargetRiskLevel:
		p.RiskLevel = label
	}
}

type trainConfig struct {
	seed         int64
	rng          *rand.Rand
	learningRate float64
	lambda       float64
	iterations   int
	logger       log.Logger
}

// Option configures TrainAll.
type Option func(*trainConfig)

// WithSeed makes training reproducible. Negative seeds mean time-seeded.
func WithSeed(seed int64) Option {
	return func(c *trainConfig) {
		c.seed = seed
	}
}

// WithRand injects the random source shared by all estimators. It takes
// precedence over WithSeed.
func WithRand(rng *rand.Rand) Option {
	return func(c *trainConfig) {
		c.rng = rng
	}
}

// WithLearningRate sets the step size of every estimator.
func WithLearningRate(lr float64) Option {
	return func(c *trainConfig) {
		c.learningRate = lr
	}
}

// WithLambda sets the regularisation strength of every estimator.
func WithLambda(lambda float64) Option {
	return func(c *trainConfig) {
		c.lambda = lambda
	}
}

// WithIterations sets the number of sub-gradient steps per estimator.
func WithIterations(n int) Option {
	return func(c *trainConfig) {
		c.iterations = n
	}
}

// WithLogger replaces the training logger.
func WithLogger(logger log.Logger) Option {
	return func(c *trainConfig) {
		c.logger = logger
	}
}

// TrainAll encodes records once and trains the HealthStatus, GrowthType and
// RiskLevel classifiers, in that order, from a single random source.
//
// Errors:
//   - ConfigurationError: records is empty or the hyperparameters are unusable
//   - EncodingError: a record cannot be encoded
//   - ValidationError: a record carries a label outside its target's classes
func TrainAll(records []plant.Record, opts ...Option) (_ *Models, err error) {
	defer pcErrors.Recover(&err, "advisor.TrainAll")

	cfg := &trainConfig{
		seed:         -1,
		learningRate: svm.DefaultLearningRate,
		lambda:       svm.DefaultLambda,
		iterations:   svm.DefaultMaxIter,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("advisor").With(log.ComponentKey, "advisor")
	}
	if cfg.rng == nil {
		if cfg.seed >= 0 {
			cfg.rng = rand.New(rand.NewPCG(uint64(cfg.seed), uint64(cfg.seed)))
		} else {
			now := uint64(time.Now().UnixNano())
			cfg.rng = rand.New(rand.NewPCG(now, now^0xdeadbeef))
		}
	}

	if len(records) == 0 {
		return nil, pcErrors.NewEmptyDataError("advisor.TrainAll")
	}

	encoder, err := plant.NewFeatureEncoder()
	if err != nil {
		return nil, err
	}
	obs := make([]plant.Observation, len(records))
	for i, r := range records {
		obs[i] = r.Observation
	}
	X, err := encoder.EncodeAll(obs)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	cfg.logger.Info("Training started",
		log.OperationKey, log.OperationTrainAll,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, len(records),
		log.FeaturesKey, plant.NFeatures,
		log.IterationsKey, cfg.iterations,
	)

	m := &Models{
		encoder:     encoder,
		classifiers: make(map[plant.Target]*Classifier, len(plant.Targets)),
		report: TrainingReport{
			Samples:      len(records),
			Iterations:   cfg.iterations,
			LearningRate: cfg.learningRate,
			Lambda:       cfg.lambda,
			Accuracy:     make(map[plant.Target]float64, len(plant.Targets)),
			Confusion:    make(map[plant.Target]*mat.Dense, len(plant.Targets)),
		},
	}

	factory := func() *svm.LinearSVM {
		return svm.NewLinearSVM(
			svm.WithLearningRate(cfg.learningRate),
			svm.WithLambda(cfg.lambda),
			svm.WithMaxIter(cfg.iterations),
			svm.WithRand(cfg.rng),
		)
	}

	for _, target := range plant.Targets {
		labels := make([]string, len(records))
		for i, r := range records {
			labels[i] = r.Labels.Get(target)
		}

		clf := multiclass.NewOneVsRest(factory, multiclass.WithName(string(target)))
		if err := clf.Fit(X, labels, target.Classes()); err != nil {
			return nil, pcErrors.Wrapf(err, "train %s", target)
		}

		predicted, err := clf.Predict(X)
		if err != nil {
			return nil, err
		}
		acc, err := metrics.LabelAccuracy(labels, predicted)
		if err != nil {
			return nil, err
		}
		confusion, err := metrics.ConfusionMatrix(labels, predicted, target.Classes())
		if err != nil {
			return nil, err
		}

		m.classifiers[target] = clf
		m.report.Accuracy[target] = acc
		m.report.Confusion[target] = confusion

		cfg.logger.Info("Model trained",
			log.TargetKey, string(target),
			log.ClassesKey, len(target.Classes()),
			log.AccuracyKey, acc,
		)
	}

	m.report.Duration = time.Since(startTime)
	cfg.logger.Info("Training completed",
		log.OperationKey, log.OperationTrainAll,
		log.DurationMsKey, m.report.Duration.Milliseconds(),
	)

	return m, nil
}

// PredictAll encodes o once and returns the label of every target.
//
// A nil or zero Models returns a NotFittedError.
func (m *Models) PredictAll(o plant.Observation) (_ Prediction, err error) {
	defer pcErrors.Recover(&err, "Models.PredictAll")
	if !m.IsTrained() {
		return Prediction{}, pcErrors.NewNotFittedError("Models", "PredictAll")
	}

	x, err := m.encoder.Encode(o)
	if err != nil {
		return Prediction{}, err
	}

	var p Prediction
	for _, target := range plant.Targets {
		label, err := m.classifiers[target].PredictOne(x)
		if err != nil {
			return Prediction{}, pcErrors.Wrapf(err, "predict %s", target)
		}
		p.set(target, label)
	}
	return p, nil
}

// Classifier returns the trained classifier of target t.
func (m *Models) Classifier(t plant.Target) (*Classifier, bool) {
	if !m.IsTrained() {
		return nil, false
	}
	clf, ok := m.classifiers[t]
	return clf, ok
}

// Report returns the training summary.
func (m *Models) Report() TrainingReport {
	if m == nil {
		return TrainingReport{}
	}
	return m.report
}

// IsTrained reports whether every target has a fitted classifier.
func (m *Models) IsTrained() bool {
	if m == nil || m.encoder == nil {
		return false
	}
	for _, t := range plant.Targets {
		if !m.classifiers[t].IsFitted() {
			return false
		}
	}
	return true
}
