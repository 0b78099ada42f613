package advisor

import (
	"github.com/ezoic/plantcare/plant"
)

// RecommendationKind groups recommendations for display.
type RecommendationKind string

const (
	KindHighRisk RecommendationKind = "high-risk"
	KindPest     RecommendationKind = "pest"
	KindWater    RecommendationKind = "water"
	KindSoil     RecommendationKind = "soil"
	KindGrowth   RecommendationKind = "growth"
)

// Recommendation is one actionable advice line.
type Recommendation struct {
	Kind RecommendationKind `json:"kind"`
	Text string             `json:"text"`
}

// Rule thresholds.
const (
	moistureLowFactor  = 0.80
	moistureHighFactor = 1.20
	pHTolerance        = 0.7
)

const (
	textHighRisk = "IMMEDIATE ATTENTION REQUIRED: The model predicts a High Risk Level. " +
		"Start checking for environmental extremes and pest visibility immediately."
	textPest = "Pest Control Recommended: Indicators suggest an infestation. " +
		"Use a targeted organic or chemical pesticide suitable for the detected pest type."
	textWaterLow = "Watering Adjustment: Soil moisture is significantly low. " +
		"Recommend increasing watering frequency to prevent wilting."
	textWaterHigh = "Watering Adjustment: Soil moisture is too high. " +
		"Ensure proper drainage to avoid root rot."
	textSoilAcid = "Soil Correction (Low pH): Your soil is too acidic. " +
		"Add lime or wood ash to raise the pH."
	textSoilAlkaline = "Soil Correction (High pH): Your soil is too alkaline. " +
		"Add sulfur or peat moss to lower the pH."
	textFertilize = "Growth Improvement: Model predicts Slow Growth and visual signs suggest possible " +
		"Nitrogen deficiency. Recommend applying a balanced fertilizer."
	textAllGood = "Everything looks good! Maintain current conditions for optimal health."
)

// Recommend applies the decision rules in order and returns every
// recommendation that fired. When none fires a single "everything looks
// good" entry is returned.
func Recommend(pred Prediction, o plant.Observation, pests plant.PestIndicators, ideals *plant.IdealTable) ([]Recommendation, error) {
	ideal, ok := ideals.Lookup(o.Species)
	if !ok {
		return nil, unknownSpecies("Recommend", o.Species)
	}

	var recs []Recommendation
	add := func(kind RecommendationKind, text string) {
		recs = append(recs, Recommendation{Kind: kind, Text: text})
	}

	if pred.RiskLevel == "High" {
		add(KindHighRisk, textHighRisk)
	}

	if pests.Any() {
		add(KindPest, textPest)
	}

	switch idealMoisture := ideal.Moisture.Ideal; {
	case o.Moisture < idealMoisture*moistureLowFactor:
		add(KindWater, textWaterLow)
	case o.Moisture > idealMoisture*moistureHighFactor:
		add(KindWater, textWaterHigh)
	}

	switch idealPH := ideal.PH.Ideal; {
	case o.PH < idealPH-pHTolerance:
		add(KindSoil, textSoilAcid)
	case o.PH > idealPH+pHTolerance:
		add(KindSoil, textSoilAlkaline)
	}

	if pred.GrowthType == "Slow" && (o.LeafColor == plant.LeafYellow || o.LeafColor == plant.LeafPale) {
		add(KindGrowth, textFertilize)
	}

	if len(recs) == 0 {
		add(KindGrowth, textAllGood)
	}
	return recs, nil
}
