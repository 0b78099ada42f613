// Package charts renders diagnosis analytics with gonum/plot.
package charts

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ezoic/plantcare/advisor"
	pcErrors "github.com/ezoic/plantcare/pkg/errors"
	"github.com/ezoic/plantcare/pkg/log"
)

// Name identifies one of the analytics charts.
type Name string

const (
	Factors    Name = "factors"
	Comparison Name = "comparison"
	Pests      Name = "pests"
)

// Names lists every chart in display order.
var Names = []Name{Factors, Comparison, Pests}

// Output formats accepted by Write.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Default canvas size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

var (
	factorColors = []color.Color{
		color.RGBA{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff},
		color.RGBA{R: 0xf3, G: 0x9c, B: 0x12, A: 0xff},
		color.RGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff},
		color.RGBA{R: 0x9b, G: 0x59, B: 0xb6, A: 0xff},
	}
	userColor   = color.RGBA{R: 0xff, G: 0x69, B: 0xb4, A: 0xff}
	idealColor  = color.RGBA{R: 0x38, G: 0x76, B: 0x1d, A: 0xff}
	presentRed  = color.RGBA{R: 0xcc, A: 0xff}
	absentGreen = color.RGBA{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff}
	barOutline  = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

var barWidth = vg.Points(40)

// Plot builds the named chart.
func Plot(a advisor.Analytics, name Name) (*plot.Plot, error) {
	switch name {
	case Factors:
		return FactorContribution(a)
	case Comparison:
		return IdealVsUser(a)
	case Pests:
		return PestIndicators(a)
	}
	return nil, pcErrors.NewValueError("charts.Plot", fmt.Sprintf("unknown chart %q", name))
}

// FactorContribution draws one coloured bar per diagnosis factor.
func FactorContribution(a advisor.Analytics) (*plot.Plot, error) {
	if len(a.Factors) == 0 {
		return nil, pcErrors.NewValueError("charts.FactorContribution", "no factors")
	}

	p := plot.New()
	p.Title.Text = "Diagnosis Factor Contribution Score (Higher = Worse)"
	p.Y.Label.Text = "Score"
	p.Y.Min = 0
	p.Legend.Top = true

	labels := make([]string, len(a.Factors))
	for i, f := range a.Factors {
		bar, err := singleBar(i, f.Score, factorColors[i%len(factorColors)])
		if err != nil {
			return nil, err
		}
		p.Add(bar)
		p.Legend.Add(f.Label, bar)
		labels[i] = f.Label
	}
	p.NominalX(labels...)

	return p, nil
}

// IdealVsUser draws the observed and ideal values as two lines over the
// checked parameters.
func IdealVsUser(a advisor.Analytics) (*plot.Plot, error) {
	if len(a.Comparison) == 0 {
		return nil, pcErrors.NewValueError("charts.IdealVsUser", "no comparison points")
	}

	p := plot.New()
	p.Title.Text = "Ideal vs. User Environmental Inputs"
	p.Add(plotter.NewGrid())

	user := make(plotter.XYs, len(a.Comparison))
	ideal := make(plotter.XYs, len(a.Comparison))
	labels := make([]string, len(a.Comparison))
	for i, c := range a.Comparison {
		user[i].X, user[i].Y = float64(i), c.User
		ideal[i].X, ideal[i].Y = float64(i), c.Ideal
		labels[i] = c.Label
	}

	for _, s := range []struct {
		name string
		pts  plotter.XYs
		col  color.Color
	}{
		{"Your Input", user, userColor},
		{a.Species + " Ideal", ideal, idealColor},
	} {
		line, points, err := plotter.NewLinePoints(s.pts)
		if err != nil {
			return nil, pcErrors.Wrap(err, "charts.IdealVsUser")
		}
		line.Color = s.col
		line.Width = vg.Points(2)
		points.Color = s.col
		p.Add(line, points)
		p.Legend.Add(s.name, line, points)
	}
	p.NominalX(labels...)

	return p, nil
}

// PestIndicators draws one bar per indicator: red when present, green when
// absent.
func PestIndicators(a advisor.Analytics) (*plot.Plot, error) {
	if len(a.Pests) == 0 {
		return nil, pcErrors.NewValueError("charts.PestIndicators", "no pest indicators")
	}

	p := plot.New()
	p.Title.Text = "Individual Pest and Disease Indicators"
	p.Y.Label.Text = "Presence (1 = Yes, 0 = No)"
	p.Y.Min = 0
	p.Y.Max = 1
	p.Y.Tick.Marker = plot.ConstantTicks([]plot.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}})

	labels := make([]string, len(a.Pests))
	for i, ind := range a.Pests {
		v, c := 0.0, color.Color(absentGreen)
		if ind.Present {
			v, c = 1, presentRed
		}
		bar, err := singleBar(i, v, c)
		if err != nil {
			return nil, err
		}
		p.Add(bar)
		labels[i] = ind.Label
	}
	p.NominalX(labels...)

	return p, nil
}

func singleBar(i int, v float64, c color.Color) (*plotter.BarChart, error) {
	bar, err := plotter.NewBarChart(plotter.Values{v}, barWidth)
	if err != nil {
		return nil, pcErrors.Wrap(err, "charts: bar")
	}
	bar.XMin = float64(i)
	bar.Color = c
	bar.LineStyle.Color = barOutline
	bar.LineStyle.Width = vg.Points(1)
	return bar, nil
}

// Write encodes p as png or svg to w.
func Write(w io.Writer, p *plot.Plot, format string, width, height vg.Length) error {
	if format != FormatPNG && format != FormatSVG {
		return pcErrors.NewValueError("charts.Write", fmt.Sprintf("unsupported format %q", format))
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return pcErrors.Wrap(err, "charts.Write")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return pcErrors.Wrap(err, "charts.Write")
	}
	return nil
}

// Render builds the named chart and writes it as PNG with the default size.
func Render(w io.Writer, a advisor.Analytics, name Name) error {
	p, err := Plot(a, name)
	if err != nil {
		return err
	}
	if err := Write(w, p, FormatPNG, DefaultWidth, DefaultHeight); err != nil {
		return err
	}

	log.GetLoggerWithName("charts").Debug("Chart rendered",
		log.OperationKey, log.OperationRenderPNG,
		"chart", string(name),
	)
	return nil
}

// SaveAll writes every chart as <dir>/<name>.<format> and returns the paths.
func SaveAll(dir string, a advisor.Analytics, format string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pcErrors.Wrapf(err, "charts: create %s", dir)
	}

	paths := make([]string, 0, len(Names))
	for _, name := range Names {
		p, err := Plot(a, name)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, string(name)+"."+format)
		if err := save(path, p, format); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func save(path string, p *plot.Plot, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return pcErrors.Wrapf(err, "charts: create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = pcErrors.Wrapf(cerr, "charts: close %s", path)
		}
	}()
	return Write(f, p, format, DefaultWidth, DefaultHeight)
}
