package advisor

import (
	"time"

	"github.com/ezoic/plantcare/plant"
	"github.com/ezoic/plantcare/plant/dataset"
	pcErrors "github.com/ezoic/plantcare/pkg/errors"
	"github.com/ezoic/plantcare/pkg/log"
)

// Request is a diagnosis query: the observation plus the raw pest
// indicators. The pest score of the observation is derived from the
// indicators and any value sent by the caller is ignored.
type Request struct {
	plant.Observation    `yaml:",inline"`
	plant.PestIndicators `yaml:",inline"`
}

// Diagnosis is the full answer to a Request.
type Diagnosis struct {
	Observation     plant.Observation `json:"observation"`
	Prediction      Prediction        `json:"prediction"`
	Consistency     Consistency       `json:"consistency"`
	Recommendations []Recommendation  `json:"recommendations"`
	Insights        []Insight         `json:"insights"`
	Analytics       Analytics         `json:"analytics"`
}

// Advisor answers diagnosis requests with trained models and a species
// reference table.
type Advisor struct {
	models *Models
	ideals *plant.IdealTable
	logger log.Logger
}

// New creates an Advisor. models must be trained.
func New(models *Models, ideals *plant.IdealTable) (*Advisor, error) {
	if !models.IsTrained() {
		return nil, pcErrors.NewNotFittedError("Models", "advisor.New")
	}
	if ideals == nil || len(ideals.Names()) == 0 {
		return nil, pcErrors.NewValueError("advisor.New", "species table is empty")
	}
	return &Advisor{
		models: models,
		ideals: ideals,
		logger: log.GetLoggerWithName("advisor").With(log.ComponentKey, "advisor"),
	}, nil
}

// NewFromEmbedded trains on the embedded dataset and uses the embedded
// species table.
func NewFromEmbedded(opts ...Option) (*Advisor, error) {
	records, err := dataset.Records()
	if err != nil {
		return nil, err
	}
	ideals, err := dataset.Ideals()
	if err != nil {
		return nil, err
	}
	models, err := TrainAll(records, opts...)
	if err != nil {
		return nil, err
	}
	return New(models, ideals)
}

// Diagnose validates req and runs the classifiers and every rule-based check.
//
// Errors:
//   - ValidationError: a field is outside its accepted range
//   - ValueError: the species has no reference entry
//   - EncodingError: the observation cannot be encoded
func (a *Advisor) Diagnose(req Request) (_ *Diagnosis, err error) {
	defer pcErrors.Recover(&err, "Advisor.Diagnose")
	startTime := time.Now()

	obs := req.Observation
	pests := req.PestIndicators
	obs.PestScore = pests.Score()

	if err := obs.Validate(); err != nil {
		return nil, err
	}
	if err := pests.Validate(); err != nil {
		return nil, err
	}
	if _, ok := a.ideals.Lookup(obs.Species); !ok {
		return nil, unknownSpecies("Advisor.Diagnose", obs.Species)
	}

	pred, err := a.models.PredictAll(obs)
	if err != nil {
		return nil, err
	}

	consistency, err := CheckConsistency(obs, a.ideals)
	if err != nil {
		return nil, err
	}
	recs, err := Recommend(pred, obs, pests, a.ideals)
	if err != nil {
		return nil, err
	}
	insights, err := Insights(obs, pred, a.ideals)
	if err != nil {
		return nil, err
	}
	analytics, err := Analyze(obs, pests, consistency, a.ideals)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Diagnosis completed",
		log.OperationKey, log.OperationDiagnose,
		log.PhaseKey, log.PhaseInference,
		log.SpeciesKey, obs.Species,
		"health", pred.HealthStatus,
		"risk", pred.RiskLevel,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
	)

	return &Diagnosis{
		Observation:     obs,
		Prediction:      pred,
		Consistency:     consistency,
		Recommendations: recs,
		Insights:        insights,
		Analytics:       analytics,
	}, nil
}

// Species returns the reference table in declaration order.
func (a *Advisor) Species() []plant.SpeciesIdeal {
	return a.ideals.All()
}

// Models returns the trained models.
func (a *Advisor) Models() *Models {
	return a.models
}
