package advisor

import (
	"fmt"
	"strconv"

	"github.com/ezoic/plantcare/plant"
	pcErrors "github.com/ezoic/plantcare/pkg/errors"
)

// Status is the outcome of a single species range check.
type Status string

const (
	StatusConsistent Status = "Consistent"
	StatusWarning    Status = "Warning"
)

// ConsistencyDetail compares one observed parameter with the species ideal.
type ConsistencyDetail struct {
	Parameter plant.Parameter `json:"parameter"`
	Label     string          `json:"label"`
	User      float64         `json:"user"`
	Ideal     float64         `json:"ideal"`
	Min       float64         `json:"min"`
	Max       float64         `json:"max"`
	Unit      string          `json:"unit"`
	Status    Status          `json:"status"`
}

// UserText formats the observed value with its unit, e.g. "60 %".
func (d ConsistencyDetail) UserText() string {
	return formatNum(d.User) + " " + d.Unit
}

// IdealText formats the ideal value with its unit.
func (d ConsistencyDetail) IdealText() string {
	return formatNum(d.Ideal) + " " + d.Unit
}

// RangeText formats the accepted band, e.g. "(45 - 75 %)".
func (d ConsistencyDetail) RangeText() string {
	return fmt.Sprintf("(%s - %s %s)", formatNum(d.Min), formatNum(d.Max), d.Unit)
}

// Consistency is the result of comparing an observation with its species.
type Consistency struct {
	Consistent bool                `json:"consistent"`
	Details    []ConsistencyDetail `json:"details"`
}

// CheckConsistency checks moisture, pH, light and height against the
// species' [min, max] bands. The observation is consistent only if all four
// lie inside their band, bounds included.
func CheckConsistency(o plant.Observation, ideals *plant.IdealTable) (Consistency, error) {
	ideal, ok := ideals.Lookup(o.Species)
	if !ok {
		return Consistency{}, unknownSpecies("CheckConsistency", o.Species)
	}

	result := Consistency{
		Consistent: true,
		Details:    make([]ConsistencyDetail, 0, len(plant.Parameters)),
	}
	for _, p := range plant.Parameters {
		r := ideal.Param(p)
		v := o.Value(p)

		status := StatusConsistent
		if !r.Contains(v) {
			status = StatusWarning
			result.Consistent = false
		}
		result.Details = append(result.Details, ConsistencyDetail{
			Parameter: p,
			Label:     p.Label(),
			User:      v,
			Ideal:     r.Ideal,
			Min:       r.Min,
			Max:       r.Max,
			Unit:      r.Unit,
			Status:    status,
		})
	}
	return result, nil
}

func unknownSpecies(op, species string) error {
	return pcErrors.NewValueError(op, fmt.Sprintf("unknown species %q", species))
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
