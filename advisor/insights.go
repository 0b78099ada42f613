package advisor

import (
	"fmt"

	"github.com/ezoic/plantcare/plant"
)

// InsightTopic identifies which question an insight answers.
type InsightTopic string

const (
	TopicFlowering InsightTopic = "flowering"
	TopicGrowth    InsightTopic = "growth"
)

// Insight is a short narrative finding.
type Insight struct {
	Topic InsightTopic `json:"topic"`
	Title string       `json:"title"`
	Text  string       `json:"text"`
}

const (
	minPromisingFlowers = 5
	stuntedFactor       = 0.75
)

// Insights returns one flowering and one growth insight, in that order.
func Insights(o plant.Observation, pred Prediction, ideals *plant.IdealTable) ([]Insight, error) {
	ideal, ok := ideals.Lookup(o.Species)
	if !ok {
		return nil, unknownSpecies("Insights", o.Species)
	}

	insights := make([]Insight, 0, 2)

	reproductive := o.Stage.Reproductive()
	switch {
	case pred.HealthStatus == "Healthy" && reproductive && o.FlowerCount > minPromisingFlowers:
		insights = append(insights, Insight{TopicFlowering, "Excellent Potential",
			"High flower/bud count indicates strong reproductive health. Maintain soil Phosphorus (P) levels."})
	case o.FlowerCount == 0 && reproductive:
		insights = append(insights, Insight{TopicFlowering, "Flowering Suppression",
			"Zero flowers reported during a reproductive stage suggests severe stress or incorrect light exposure."})
	default:
		insights = append(insights, Insight{TopicFlowering, "Observation",
			"The current flower count is acceptable for the plant's health status and stage of growth."})
	}

	idealHeight := ideal.Height.Ideal
	switch {
	case o.Height < idealHeight*stuntedFactor:
		insights = append(insights, Insight{TopicGrowth, "Stunted Growth Warning",
			fmt.Sprintf("Plant height (%s cm) is significantly below the species ideal (%s cm). "+
				"Check root development and nutrition.", formatNum(o.Height), formatNum(idealHeight))})
	case o.LeafColor == plant.LeafYellow && !o.Fertilizer:
		insights = append(insights, Insight{TopicGrowth, "Fertilizer Need",
			"Yellow leaves combined with no recent fertilizer application strongly suggest a macronutrient deficiency."})
	default:
		insights = append(insights, Insight{TopicGrowth, "Consistent Growth",
			"Physical parameters appear balanced. Focus on providing stable conditions."})
	}

	return insights, nil
}
