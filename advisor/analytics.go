package advisor

import (
	"github.com/ezoic/plantcare/plant"
)

// Factor is one contribution score; higher is worse.
type Factor struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Comparison pairs the observed and ideal value of one parameter.
type Comparison struct {
	Parameter plant.Parameter `json:"parameter"`
	Label     string          `json:"label"`
	User      float64         `json:"user"`
	Ideal     float64         `json:"ideal"`
}

// PestIndicator is one bar of the pest chart.
type PestIndicator struct {
	Label   string `json:"label"`
	Present bool   `json:"present"`
}

// Analytics is the chart-ready summary of a diagnosis.
type Analytics struct {
	Species    string          `json:"species"`
	Factors    []Factor        `json:"factors"`
	Comparison []Comparison    `json:"comparison"`
	Pests      []PestIndicator `json:"pests"`
}

// Factor labels in chart order.
const (
	FactorPest        = "Pest/Disease Indicator"
	FactorPlantHealth = "Plant Health Inputs (Color/Wilting)"
	FactorEnvironment = "Environmental Stress (Env.)"
	FactorConsistency = "Species Consistency Mismatch"
)

// environmental stress thresholds
const (
	stressMoisture = 40
	stressPH       = 5.5
	stressLight    = 5
)

var comparisonLabels = map[plant.Parameter]string{
	plant.ParamMoisture: "Soil Moisture (%)",
	plant.ParamPH:       "Soil pH",
	plant.ParamLight:    "Light (Hours/Day)",
	plant.ParamHeight:   "Plant Height (cm)",
}

// Analyze computes the factor contribution scores, the ideal-vs-user series
// and the pest indicator presence of a diagnosis.
//
// o.PestScore is used as the pest factor, so it must already be derived from
// pests.
func Analyze(o plant.Observation, pests plant.PestIndicators, c Consistency, ideals *plant.IdealTable) (Analytics, error) {
	ideal, ok := ideals.Lookup(o.Species)
	if !ok {
		return Analytics{}, unknownSpecies("Analyze", o.Species)
	}

	leafScore := float64(len(plant.LeafColors) - o.LeafColor.Ordinal())
	wiltScore := 1.0
	if o.Wilting {
		wiltScore = 4
	}
	envScore := 1.0
	if o.Moisture < stressMoisture || o.PH < stressPH || o.Light < stressLight {
		envScore = 3
	}
	consistencyScore := 1.0
	if !c.Consistent {
		consistencyScore = 4
	}

	a := Analytics{
		Species: o.Species,
		Factors: []Factor{
			{FactorPest, float64(o.PestScore)},
			{FactorPlantHealth, leafScore + wiltScore},
			{FactorEnvironment, envScore},
			{FactorConsistency, consistencyScore},
		},
	}

	for _, p := range plant.Parameters {
		a.Comparison = append(a.Comparison, Comparison{
			Parameter: p,
			Label:     comparisonLabels[p],
			User:      o.Value(p),
			Ideal:     ideal.Param(p).Ideal,
		})
	}

	for i, v := range pests.Presence() {
		a.Pests = append(a.Pests, PestIndicator{Label: plant.PestLabels[i], Present: v == 1})
	}

	return a, nil
}
