package model

import "gonum.org/v1/gonum/mat"

// BinaryClassifier is a two-class linear model with labels in {+1, -1}.
//
// Implementations must be usable through their zero configuration plus
// functional options so that multi-class wrappers can build one per class.
type BinaryClassifier interface {
	// Fit trains on X (n_samples x n_features) and y (n_samples x 1, values ±1).
	Fit(X, y mat.Matrix) error

	// Predict returns an n_samples x 1 matrix of ±1 labels.
	Predict(X mat.Matrix) (mat.Matrix, error)

	// DecisionFunction returns the raw signed score w·x+b per sample
	// as an n_samples x 1 matrix.
	DecisionFunction(X mat.Matrix) (mat.Matrix, error)

	// IsFitted reports whether Fit completed.
	IsFitted() bool
}

// Binary class labels.
const (
	PositiveLabel = 1.0
	NegativeLabel = -1.0
)
