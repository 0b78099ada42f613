package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	pcErrors "github.com/ezoic/plantcare/pkg/errors"
)

// ClassificationError calculates the classification error rate.
//
// The error rate is the fraction of incorrect predictions.
//
// Parameters:
//   - yTrue: Ground truth labels (e.g. ±1 from a binary classifier)
//   - yPred: Predicted labels
//
// Returns:
//   - The error rate (between 0 and 1)
//   - An error if inputs are invalid
//
// Example:
//
//	yTrue := mat.NewVecDense(5, []float64{1, -1, 1, 1, -1})
//	yPred := mat.NewVecDense(5, []float64{1, -1, -1, 1, -1})
//	errorRate, err := ClassificationError(yTrue, yPred)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Error Rate: %.1f\n", errorRate) // Output: Error Rate: 0.2
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	// Input validation
	if yTrue == nil || yPred == nil {
		return 0, pcErrors.NewValueError(
			"ClassificationError",
			"input vectors cannot be nil",
		)
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, pcErrors.NewValueError(
			"ClassificationError",
			"input vectors cannot be empty",
		)
	}

	if n != yPred.Len() {
		return 0, pcErrors.NewDimensionError(
			"ClassificationError",
			n,
			yPred.Len(),
			0,
		)
	}

	// Count misclassifications
	errors := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) != yPred.AtVec(i) {
			errors++
		}
	}

	return float64(errors) / float64(n), nil
}

// Accuracy calculates the classification accuracy.
//
// Accuracy is the fraction of correct predictions.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	errorRate, err := ClassificationError(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1.0 - errorRate, nil
}

// LabelAccuracy is Accuracy over class names, as produced by a multi-class
// wrapper.
func LabelAccuracy(yTrue, yPred []string) (float64, error) {
	if len(yTrue) == 0 {
		return 0, pcErrors.NewValueError("LabelAccuracy", "input labels cannot be empty")
	}
	if len(yTrue) != len(yPred) {
		return 0, pcErrors.NewDimensionError("LabelAccuracy", len(yTrue), len(yPred), 0)
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// ConfusionMatrix counts predictions per (true, predicted) class pair.
//
// Rows follow the true class and columns the predicted class, both in the
// order of classes. A label outside classes is a ValidationError.
//
// Example:
//
//	cm, _ := ConfusionMatrix(
//		[]string{"Low", "High", "Low"},
//		[]string{"Low", "Low", "Low"},
//		[]string{"Low", "Medium", "High"},
//	)
//	// cm.At(0, 0) == 2, cm.At(2, 0) == 1
func ConfusionMatrix(yTrue, yPred, classes []string) (*mat.Dense, error) {
	if len(classes) == 0 {
		return nil, pcErrors.NewValueError("ConfusionMatrix", "classes cannot be empty")
	}
	if len(yTrue) == 0 {
		return nil, pcErrors.NewValueError("ConfusionMatrix", "input labels cannot be empty")
	}
	if len(yTrue) != len(yPred) {
		return nil, pcErrors.NewDimensionError("ConfusionMatrix", len(yTrue), len(yPred), 0)
	}

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	cm := mat.NewDense(len(classes), len(classes), nil)
	for i := range yTrue {
		r, ok := index[yTrue[i]]
		if !ok {
			return nil, pcErrors.NewValidationError("yTrue",
				fmt.Sprintf("label %q at index %d is not a known class", yTrue[i], i), yTrue[i])
		}
		c, ok := index[yPred[i]]
		if !ok {
			return nil, pcErrors.NewValidationError("yPred",
				fmt.Sprintf("label %q at index %d is not a known class", yPred[i], i), yPred[i])
		}
		cm.Set(r, c, cm.At(r, c)+1)
	}
	return cm, nil
}
