// Package plant defines the agronomic observation model shared by the
// classifier, the rule engine and the outer surfaces.
//
// An Observation holds what a grower can measure or see on one plant. A Record
// is an Observation with the three diagnosis labels attached and is the unit
// of the training dataset.
package plant

// Stage is the ordinal growth stage.
type Stage string

const (
	StageSeedling   Stage = "Seedling"
	StageVegetative Stage = "Vegetative"
	StageBudding    Stage = "Budding"
	StageFlowering  Stage = "Flowering"
)

// Stages lists the growth stages in ordinal order.
var Stages = []Stage{StageSeedling, StageVegetative, StageBudding, StageFlowering}

// Valid reports whether s is one of Stages.
func (s Stage) Valid() bool {
	for _, v := range Stages {
		if s == v {
			return true
		}
	}
	return false
}

// Reproductive reports whether the plant is budding or flowering.
func (s Stage) Reproductive() bool {
	return s == StageBudding || s == StageFlowering
}

// LeafColor is the ordinal leaf colour, from least to most healthy looking.
type LeafColor string

const (
	LeafPale      LeafColor = "Pale"
	LeafYellow    LeafColor = "Yellow"
	LeafNormal    LeafColor = "Normal"
	LeafDarkGreen LeafColor = "Dark Green"
)

// LeafColors lists the leaf colours in ordinal order.
var LeafColors = []LeafColor{LeafPale, LeafYellow, LeafNormal, LeafDarkGreen}

// Valid reports whether c is one of LeafColors.
func (c LeafColor) Valid() bool {
	for _, v := range LeafColors {
		if c == v {
			return true
		}
	}
	return false
}

// Ordinal returns the position of c in LeafColors, or -1.
func (c LeafColor) Ordinal() int {
	for i, v := range LeafColors {
		if c == v {
			return i
		}
	}
	return -1
}

// Observation is one set of grower inputs.
//
// Bounds in the validate tags are the realistic agricultural ranges accepted
// from users; they are wider than the normalisation bounds of the feature
// encoder.
type Observation struct {
	Species     string    `yaml:"species" json:"species" validate:"required"`
	Stage       Stage     `yaml:"stage" json:"stage" validate:"required,stage"`
	Moisture    float64   `yaml:"moisture" json:"moisture" validate:"gte=5,lte=100"`
	PH          float64   `yaml:"pH" json:"pH" validate:"gte=4,lte=9"`
	Light       float64   `yaml:"light" json:"light" validate:"gte=1,lte=24"`
	Fertilizer  bool      `yaml:"fertilizer" json:"fertilizer"`
	LeafColor   LeafColor `yaml:"leafColor" json:"leafColor" validate:"required,leafcolor"`
	Wilting     bool      `yaml:"wilting" json:"wilting"`
	FlowerCount int       `yaml:"flowerCount" json:"flowerCount" validate:"gte=0,lte=1000"`
	Height      float64   `yaml:"height" json:"height" validate:"gte=1,lte=500"`
	// PestScore counts positive pest indicators (0-4). For live queries it is
	// derived from PestIndicators.
	PestScore int `yaml:"pestScore" json:"pestScore,omitempty" validate:"gte=0,lte=4"`
}

// Value returns the observed value of an environmental parameter.
func (o Observation) Value(p Parameter) float64 {
	switch p {
	case ParamMoisture:
		return o.Moisture
	case ParamPH:
		return o.PH
	case ParamLight:
		return o.Light
	case ParamHeight:
		return o.Height
	}
	return 0
}

// Labels are the three diagnosis outcomes.
type Labels struct {
	HealthStatus string `yaml:"healthStatus" json:"healthStatus" validate:"oneof=Healthy Moderate Unhealthy"`
	GrowthType   string `yaml:"growthType" json:"growthType" validate:"oneof=Slow Normal Fast"`
	RiskLevel    string `yaml:"riskLevel" json:"riskLevel" validate:"oneof=Low Medium High"`
}

// Get returns the label of target t.
func (l Labels) Get(t Target) string {
	switch t {
	case TargetHealthStatus:
		return l.HealthStatus
	case TargetGrowthType:
		return l.GrowthType
	case TargetRiskLevel:
		return l.RiskLevel
	}
	return ""
}

// Record is a labelled observation.
type Record struct {
	Observation `yaml:",inline"`
	Labels      `yaml:",inline"`
}

// Target names one of the three predicted outcomes.
type Target string

const (
	TargetHealthStatus Target = "HealthStatus"
	TargetGrowthType   Target = "GrowthType"
	TargetRiskLevel    Target = "RiskLevel"
)

// Targets lists the prediction targets in training order.
var Targets = []Target{TargetHealthStatus, TargetGrowthType, TargetRiskLevel}

// Classes returns the declared class set of t. The order decides ties at
// prediction time.
func (t Target) Classes() []string {
	switch t {
	case TargetHealthStatus:
		return []string{"Healthy", "Moderate", "Unhealthy"}
	case TargetGrowthType:
		return []string{"Slow", "Normal", "Fast"}
	case TargetRiskLevel:
		return []string{"Low", "Medium", "High"}
	}
	return nil
}

// InsectNone is the insect visibility value meaning no insects were seen.
const InsectNone = "None"

// PestIndicators are the four visible pest and disease signs.
type PestIndicators struct {
	WhitePowder      bool   `yaml:"whitePowder" json:"whitePowder"`
	HolesInLeaves    bool   `yaml:"holesInLeaves" json:"holesInLeaves"`
	StickyLeaves     bool   `yaml:"stickyLeaves" json:"stickyLeaves"`
	InsectVisibility string `yaml:"insectVisibility" json:"insectVisibility" validate:"required"`
}

// PestLabels names the indicators in Presence order.
var PestLabels = []string{"White Powder", "Holes in Leaves", "Sticky Leaves", "Visible Insects"}

// Presence returns the indicators as 0/1 values in PestLabels order.
func (p PestIndicators) Presence() []float64 {
	out := make([]float64, 4)
	for i, on := range []bool{p.WhitePowder, p.HolesInLeaves, p.StickyLeaves, p.insectsSeen()} {
		if on {
			out[i] = 1
		}
	}
	return out
}

// Score aggregates the indicators into a 0-4 pest score.
func (p PestIndicators) Score() int {
	score := 0
	for _, v := range p.Presence() {
		score += int(v)
	}
	return score
}

// Any reports whether at least one indicator is present.
func (p PestIndicators) Any() bool {
	return p.Score() > 0
}

// an empty visibility is treated like "None"
func (p PestIndicators) insectsSeen() bool {
	return p.InsectVisibility != "" && p.InsectVisibility != InsectNone
}
