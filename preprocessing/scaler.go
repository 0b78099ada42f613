// Package preprocessing provides feature preprocessing for plantcare models.
//
// This package implements the two transforms the feature encoder is built from:
//
//   - MinMaxScaler: scales each feature from fixed [min, max] bounds to a target range
//   - OrdinalEncoder: maps categorical strings to integer codes through fixed lookups
//
// Unlike data-fitted scalers, both components are configured from domain priors
// and are ready to use immediately. Keeping the bounds and lookups fixed
// guarantees training and inference agree on the feature space.
//
// Example usage:
//
//	scaler, err := preprocessing.NewMinMaxScalerFromBounds(
//		[]float64{5, 4.0}, []float64{100, 9.0})
//	if err != nil {
//		log.Fatal(err)
//	}
//	scaled, err := scaler.Transform(X)
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/plantcare/core/model"
	pcErrors "github.com/ezoic/plantcare/pkg/errors"
)

// MinMaxScaler はMin-Maxスケーラー
// 固定の境界値 [DataMin, DataMax] を FeatureRange に線形変換する
type MinMaxScaler struct {
	state *model.StateManager

	// DataMin は各特徴量の下限
	DataMin []float64

	// DataMax は各特徴量の上限
	DataMax []float64

	// Scale は各特徴量のスケール (max - min)
	Scale []float64

	// NFeatures は特徴量の数
	NFeatures int

	// FeatureRange はスケーリング後の範囲 [min, max]
	FeatureRange [2]float64
}

// NewMinMaxScalerFromBounds creates a MinMaxScaler from fixed per-feature bounds.
//
// The transformation is X_scaled = (X - min) / (max - min) scaled into [0, 1].
// Values outside [min, max] are not clamped and map outside [0, 1].
//
// Parameters:
//   - min: lower bound for each feature
//   - max: upper bound for each feature, strictly greater than min
//
// Returns:
//   - *MinMaxScaler: a scaler that is immediately usable
//   - error: ValueError if bounds are empty, mismatched, non-finite or inverted
//
// Example:
//
//	// moisture in [5, 100], pH in [4, 9]
//	scaler, err := preprocessing.NewMinMaxScalerFromBounds(
//		[]float64{5, 4}, []float64{100, 9})
func NewMinMaxScalerFromBounds(min, max []float64) (*MinMaxScaler, error) {
	return NewMinMaxScalerWithRange(min, max, [2]float64{0.0, 1.0})
}

// NewMinMaxScalerWithRange is NewMinMaxScalerFromBounds with a custom target range.
func NewMinMaxScalerWithRange(min, max []float64, featureRange [2]float64) (*MinMaxScaler, error) {
	if len(min) == 0 {
		return nil, pcErrors.NewValueError("MinMaxScaler", "bounds cannot be empty")
	}
	if len(min) != len(max) {
		return nil, pcErrors.NewDimensionError("MinMaxScaler", len(min), len(max), 1)
	}
	if !(featureRange[1] > featureRange[0]) {
		return nil, pcErrors.NewValueError("MinMaxScaler",
			fmt.Sprintf("feature range [%g, %g] is empty", featureRange[0], featureRange[1]))
	}

	n := len(min)
	m := &MinMaxScaler{
		state:        model.NewStateManager(),
		DataMin:      make([]float64, n),
		DataMax:      make([]float64, n),
		Scale:        make([]float64, n),
		NFeatures:    n,
		FeatureRange: featureRange,
	}

	for j := 0; j < n; j++ {
		lo, hi := min[j], max[j]
		if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return nil, pcErrors.NewValueError("MinMaxScaler",
				fmt.Sprintf("bounds for feature %d must be finite", j))
		}
		if !(hi > lo) {
			return nil, pcErrors.NewValueError("MinMaxScaler",
				fmt.Sprintf("bounds for feature %d are inverted or empty: [%g, %g]", j, lo, hi))
		}
		m.DataMin[j] = lo
		m.DataMax[j] = hi
		m.Scale[j] = hi - lo
	}

	m.state.SetFitted()
	m.state.SetDimensions(n, 0)
	return m, nil
}

// Transform scales every column of X with the configured bounds.
//
// Parameters:
//   - X: input data matrix of shape (n_samples, n_features)
//
// Returns:
//   - mat.Matrix: scaled data with the same shape as X
//   - error: NotFittedError for a zero-value scaler, DimensionError on a feature count mismatch
func (m *MinMaxScaler) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer pcErrors.Recover(&err, "MinMaxScaler.Transform")
	if !m.IsFitted() {
		return nil, pcErrors.NewNotFittedError("MinMaxScaler", "Transform")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, pcErrors.NewDimensionError("MinMaxScaler.Transform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, m.scale(j, X.At(i, j)))
		}
	}

	return result, nil
}

// TransformVec scales a single sample.
func (m *MinMaxScaler) TransformVec(x []float64) ([]float64, error) {
	if !m.IsFitted() {
		return nil, pcErrors.NewNotFittedError("MinMaxScaler", "TransformVec")
	}
	if len(x) != m.NFeatures {
		return nil, pcErrors.NewDimensionError("MinMaxScaler.TransformVec", m.NFeatures, len(x), 1)
	}

	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = m.scale(j, v)
	}
	return out, nil
}

// scale maps one value; the identity for bounds [0, 1] and range [0, 1] is exact.
func (m *MinMaxScaler) scale(j int, v float64) float64 {
	featureRange := m.FeatureRange[1] - m.FeatureRange[0]
	return (v-m.DataMin[j])/m.Scale[j]*featureRange + m.FeatureRange[0]
}

// IsFitted reports whether the scaler was constructed with bounds.
func (m *MinMaxScaler) IsFitted() bool {
	return m != nil && m.state.IsFitted()
}

// GetParams はスケーラーのパラメータを取得する
func (m *MinMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"feature_range": m.FeatureRange,
		"data_min":      m.DataMin,
		"data_max":      m.DataMax,
	}
}

// String はスケーラーの文字列表現を返す
func (m *MinMaxScaler) String() string {
	return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f], n_features=%d)",
		m.FeatureRange[0], m.FeatureRange[1], m.NFeatures)
}
