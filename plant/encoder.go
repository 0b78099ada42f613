package plant

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	pcErrors "github.com/ezoic/plantcare/pkg/errors"
	"github.com/ezoic/plantcare/preprocessing"
)

// FeatureNames is the column order of encoded feature vectors.
var FeatureNames = []string{
	"stage", "moisture", "pH", "light", "fertilizer",
	"leafColor", "wilting", "flowerCount", "height", "pestScore",
}

// NFeatures is the length of an encoded feature vector.
const NFeatures = 10

// MaxPestScore is the highest possible pest score.
const MaxPestScore = 4

// Normalisation bounds per feature column. Ordinal columns and the pest score
// use [0, 1] so they pass through unchanged.
var (
	featureMin = []float64{0, 5, 4.0, 1, 0, 0, 0, 0, 1, 0}
	featureMax = []float64{1, 100, 9.0, 12, 1, 1, 1, 100, 300, 1}
)

var yesNo = []string{"No", "Yes"}

// FeatureEncoder turns observations into fixed-length numeric vectors.
//
// Categorical fields go through fixed ordinal lookups, numeric fields are
// min-max scaled with fixed bounds (no clamping) and the pest score is kept
// as the raw 0-4 count. Encoding has no side effects.
type FeatureEncoder struct {
	ordinal *preprocessing.OrdinalEncoder
	scaler  *preprocessing.MinMaxScaler
}

// NewFeatureEncoder builds the encoder from the fixed lookup tables.
func NewFeatureEncoder() (*FeatureEncoder, error) {
	stages := make([]string, len(Stages))
	for i, s := range Stages {
		stages[i] = string(s)
	}
	colors := make([]string, len(LeafColors))
	for i, c := range LeafColors {
		colors[i] = string(c)
	}

	ordinal, err := preprocessing.NewOrdinalEncoder(
		[]string{"stage", "fertilizer", "leafColor", "wilting"},
		[][]string{stages, yesNo, colors, yesNo},
	)
	if err != nil {
		return nil, err
	}

	scaler, err := preprocessing.NewMinMaxScalerFromBounds(featureMin, featureMax)
	if err != nil {
		return nil, err
	}

	return &FeatureEncoder{ordinal: ordinal, scaler: scaler}, nil
}

var defaultEncoder = sync.OnceValues(NewFeatureEncoder)

// DefaultEncoder returns a shared FeatureEncoder.
func DefaultEncoder() (*FeatureEncoder, error) {
	return defaultEncoder()
}

// Encode maps one observation to its feature vector.
//
// Errors:
//   - EncodingError: unknown stage or leaf colour, non-finite numeric field,
//     pest score outside [0, 4]
func (e *FeatureEncoder) Encode(o Observation) (_ []float64, err error) {
	defer pcErrors.Recover(&err, "FeatureEncoder.Encode")

	codes, err := e.ordinal.TransformRow([]string{
		string(o.Stage), yesNo[b2i(o.Fertilizer)], string(o.LeafColor), yesNo[b2i(o.Wilting)],
	})
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"moisture", o.Moisture},
		{"pH", o.PH},
		{"light", o.Light},
		{"height", o.Height},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return nil, pcErrors.NewEncodingError(f.name, f.value, "value is not a finite number")
		}
	}
	if o.PestScore < 0 || o.PestScore > MaxPestScore {
		return nil, pcErrors.NewEncodingError("pestScore", o.PestScore,
			fmt.Sprintf("must be between 0 and %d", MaxPestScore))
	}

	raw := []float64{
		codes[0],
		o.Moisture,
		o.PH,
		o.Light,
		codes[1],
		codes[2],
		codes[3],
		float64(o.FlowerCount),
		o.Height,
		float64(o.PestScore),
	}
	return e.scaler.TransformVec(raw)
}

// EncodeAll encodes observations into an n × NFeatures matrix.
func (e *FeatureEncoder) EncodeAll(obs []Observation) (*mat.Dense, error) {
	if len(obs) == 0 {
		return nil, pcErrors.NewEmptyDataError("FeatureEncoder.EncodeAll")
	}

	X := mat.NewDense(len(obs), NFeatures, nil)
	for i, o := range obs {
		row, err := e.Encode(o)
		if err != nil {
			return nil, pcErrors.Wrapf(err, "record %d", i)
		}
		X.SetRow(i, row)
	}
	return X, nil
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
