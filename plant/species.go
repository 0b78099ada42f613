package plant

import (
	"fmt"
	"math"

	pcErrors "github.com/ezoic/plantcare/pkg/errors"
)

// Parameter is an environmental or physical quantity with per-species ideals.
type Parameter string

const (
	ParamMoisture Parameter = "moisture"
	ParamPH       Parameter = "pH"
	ParamLight    Parameter = "light"
	ParamHeight   Parameter = "height"
)

// Parameters lists the checked parameters in report order.
var Parameters = []Parameter{ParamMoisture, ParamPH, ParamLight, ParamHeight}

// Label returns the human readable name of p.
func (p Parameter) Label() string {
	switch p {
	case ParamMoisture:
		return "Soil Moisture"
	case ParamPH:
		return "Soil pH"
	case ParamLight:
		return "Light Exposure"
	case ParamHeight:
		return "Plant Height"
	}
	return string(p)
}

// Range is the acceptable band of one parameter.
type Range struct {
	Ideal float64 `yaml:"ideal" json:"ideal"`
	Min   float64 `yaml:"min" json:"min"`
	Max   float64 `yaml:"max" json:"max"`
	Unit  string  `yaml:"unit" json:"unit"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// SpeciesIdeal holds the reference ranges of one species.
type SpeciesIdeal struct {
	Name     string `yaml:"name" json:"name"`
	Moisture Range  `yaml:"moisture" json:"moisture"`
	PH       Range  `yaml:"pH" json:"pH"`
	Light    Range  `yaml:"light" json:"light"`
	Height   Range  `yaml:"height" json:"height"`
}

// Param returns the range of parameter p.
func (s SpeciesIdeal) Param(p Parameter) Range {
	switch p {
	case ParamMoisture:
		return s.Moisture
	case ParamPH:
		return s.PH
	case ParamLight:
		return s.Light
	case ParamHeight:
		return s.Height
	}
	return Range{}
}

// IdealTable is an ordered, read-only lookup of species ideals.
type IdealTable struct {
	order     []string
	bySpecies map[string]SpeciesIdeal
}

// NewIdealTable indexes species in the given order. Names must be unique and
// every range must satisfy Min <= Ideal <= Max with finite values.
func NewIdealTable(species []SpeciesIdeal) (*IdealTable, error) {
	if len(species) == 0 {
		return nil, pcErrors.NewValueError("NewIdealTable", "species list is empty")
	}

	t := &IdealTable{
		order:     make([]string, 0, len(species)),
		bySpecies: make(map[string]SpeciesIdeal, len(species)),
	}
	for _, s := range species {
		if s.Name == "" {
			return nil, pcErrors.NewValueError("NewIdealTable", "species name is empty")
		}
		if _, dup := t.bySpecies[s.Name]; dup {
			return nil, pcErrors.NewValueError("NewIdealTable",
				fmt.Sprintf("species %q declared twice", s.Name))
		}
		for _, p := range Parameters {
			r := s.Param(p)
			if !finite(r.Min, r.Ideal, r.Max) || r.Min > r.Ideal || r.Ideal > r.Max {
				return nil, pcErrors.NewValueError("NewIdealTable",
					fmt.Sprintf("%s %s: invalid range %v <= %v <= %v", s.Name, p, r.Min, r.Ideal, r.Max))
			}
		}
		t.order = append(t.order, s.Name)
		t.bySpecies[s.Name] = s
	}
	return t, nil
}

// Lookup returns the ideals of a species.
func (t *IdealTable) Lookup(name string) (SpeciesIdeal, bool) {
	if t == nil {
		return SpeciesIdeal{}, false
	}
	s, ok := t.bySpecies[name]
	return s, ok
}

// Names returns the species in declaration order.
func (t *IdealTable) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

// All returns every species ideal in declaration order.
func (t *IdealTable) All() []SpeciesIdeal {
	if t == nil {
		return nil
	}
	out := make([]SpeciesIdeal, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.bySpecies[name])
	}
	return out
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
