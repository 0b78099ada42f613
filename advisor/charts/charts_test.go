package charts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/plantcare/advisor"
	"github.com/ezoic/plantcare/plant"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleAnalytics() advisor.Analytics {
	return advisor.Analytics{
		Species: "Rose",
		Factors: []advisor.Factor{
			{Label: advisor.FactorPest, Score: 2},
			{Label: advisor.FactorPlantHealth, Score: 5},
			{Label: advisor.FactorEnvironment, Score: 1},
			{Label: advisor.FactorConsistency, Score: 4},
		},
		Comparison: []advisor.Comparison{
			{Parameter: plant.ParamMoisture, Label: "Soil Moisture (%)", User: 75, Ideal: 60},
			{Parameter: plant.ParamPH, Label: "Soil pH", User: 5.5, Ideal: 6.5},
			{Parameter: plant.ParamLight, Label: "Light (Hours/Day)", User: 6, Ideal: 8},
			{Parameter: plant.ParamHeight, Label: "Plant Height (cm)", User: 40, Ideal: 60},
		},
		Pests: []advisor.PestIndicator{
			{Label: "White Powder", Present: true},
			{Label: "Holes in Leaves", Present: false},
			{Label: "Sticky Leaves", Present: true},
			{Label: "Visible Insects", Present: false},
		},
	}
}

func TestRender(t *testing.T) {
	a := sampleAnalytics()
	for _, name := range Names {
		t.Run(string(name), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, a, name))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "output is not a PNG")
		})
	}
}

func TestPlot_Titles(t *testing.T) {
	a := sampleAnalytics()

	p, err := Plot(a, Factors)
	require.NoError(t, err)
	assert.Contains(t, p.Title.Text, "Factor Contribution")

	p, err = Plot(a, Comparison)
	require.NoError(t, err)
	assert.Equal(t, "Ideal vs. User Environmental Inputs", p.Title.Text)

	p, err = Plot(a, Pests)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.Y.Max)
}

func TestPlot_AllAbsentPests(t *testing.T) {
	a := sampleAnalytics()
	for i := range a.Pests {
		a.Pests[i].Present = false
	}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, a, Pests))
	assert.NotZero(t, buf.Len())
}

func TestPlot_Errors(t *testing.T) {
	_, err := Plot(sampleAnalytics(), Name("pie"))
	assert.Error(t, err)

	for _, name := range Names {
		_, err := Plot(advisor.Analytics{}, name)
		assert.Error(t, err, "empty analytics for %s", name)
	}

	p, err := Plot(sampleAnalytics(), Factors)
	require.NoError(t, err)
	assert.Error(t, Write(&bytes.Buffer{}, p, "bmp", DefaultWidth, DefaultHeight))
}

func TestWriteSVG(t *testing.T) {
	p, err := Plot(sampleAnalytics(), Comparison)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p, FormatSVG, DefaultWidth, DefaultHeight))
	assert.Contains(t, buf.String(), "<svg")
}

func TestSaveAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")

	paths, err := SaveAll(dir, sampleAnalytics(), FormatPNG)
	require.NoError(t, err)
	require.Len(t, paths, len(Names))

	for i, path := range paths {
		assert.Equal(t, filepath.Join(dir, string(Names[i])+".png"), path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, pngMagic))
	}
}
