// Package model provides core abstractions shared by plantcare estimators.
//
// This package defines:
//
//   - StateManager: fitted-state tracking so untrained models refuse to predict
//   - BinaryClassifier: the capability a two-class linear model exposes, which
//     multi-class wrappers are generic over
//
// Example usage:
//
//	type MyModel struct {
//		state *model.StateManager
//		// model-specific fields
//	}
//
//	func (m *MyModel) Fit(X, y mat.Matrix) error {
//		// training logic
//		m.state.SetFitted()
//		m.state.SetDimensions(nFeatures, nSamples)
//		return nil
//	}
package model

// StateManager tracks whether an estimator has been trained and on what shape.
//
// The zero value is an unfitted state. State is written only during training;
// afterwards it is read-only and may be shared across goroutines.
type StateManager struct {
	fitted    bool
	nFeatures int
	nSamples  int
}

// NewStateManager returns an unfitted StateManager.
func NewStateManager() *StateManager {
	return &StateManager{}
}

// IsFitted reports whether training completed. A nil manager is never fitted.
func (s *StateManager) IsFitted() bool {
	return s != nil && s.fitted
}

// SetFitted marks the estimator as trained.
func (s *StateManager) SetFitted() {
	s.fitted = true
}

// Reset returns the estimator to the untrained state.
func (s *StateManager) Reset() {
	s.fitted = false
	s.nFeatures = 0
	s.nSamples = 0
}

// SetDimensions records the training matrix shape.
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.nFeatures = nFeatures
	s.nSamples = nSamples
}

// NFeatures returns the number of features seen during training.
func (s *StateManager) NFeatures() int {
	if s == nil {
		return 0
	}
	return s.nFeatures
}

// NSamples returns the number of training samples.
func (s *StateManager) NSamples() int {
	if s == nil {
		return 0
	}
	return s.nSamples
}
