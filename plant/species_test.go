package plant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rose() SpeciesIdeal {
	return SpeciesIdeal{
		Name:     "Rose",
		Moisture: Range{Ideal: 60, Min: 45, Max: 75, Unit: "%"},
		PH:       Range{Ideal: 6.5, Min: 6.0, Max: 7.0, Unit: "pH"},
		Light:    Range{Ideal: 8, Min: 6, Max: 10, Unit: "hours/day"},
		Height:   Range{Ideal: 60, Min: 40, Max: 100, Unit: "cm"},
	}
}

func TestIdealTable(t *testing.T) {
	tulip := rose()
	tulip.Name = "Tulip"

	table, err := NewIdealTable([]SpeciesIdeal{tulip, rose()})
	require.NoError(t, err)

	assert.Equal(t, []string{"Tulip", "Rose"}, table.Names())
	assert.Len(t, table.All(), 2)

	got, ok := table.Lookup("Rose")
	require.True(t, ok)
	assert.Equal(t, 6.5, got.Param(ParamPH).Ideal)
	assert.Equal(t, "cm", got.Param(ParamHeight).Unit)

	_, ok = table.Lookup("Orchid")
	assert.False(t, ok)

	var nilTable *IdealTable
	_, ok = nilTable.Lookup("Rose")
	assert.False(t, ok)
	assert.Nil(t, nilTable.Names())
}

func TestIdealTable_Invalid(t *testing.T) {
	inverted := rose()
	inverted.Light = Range{Ideal: 8, Min: 10, Max: 6}

	nan := rose()
	nan.Height.Max = math.NaN()

	unnamed := rose()
	unnamed.Name = ""

	tests := []struct {
		name    string
		species []SpeciesIdeal
	}{
		{"empty", nil},
		{"duplicate", []SpeciesIdeal{rose(), rose()}},
		{"inverted range", []SpeciesIdeal{inverted}},
		{"nan bound", []SpeciesIdeal{nan}},
		{"unnamed", []SpeciesIdeal{unnamed}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIdealTable(tt.species)
			assert.Error(t, err)
		})
	}
}

func TestRangeContains(t *testing.T) {
	r := rose().Moisture
	assert.True(t, r.Contains(45))
	assert.True(t, r.Contains(75))
	assert.False(t, r.Contains(44.9))
	assert.False(t, r.Contains(75.1))
}

func TestObservationValue(t *testing.T) {
	o := healthyRose()
	for _, p := range Parameters {
		assert.NotZero(t, o.Value(p), "parameter %s", p)
		assert.NotEmpty(t, p.Label())
	}
	assert.Equal(t, 6.5, o.Value(ParamPH))
	assert.Equal(t, "Soil Moisture", ParamMoisture.Label())
}
