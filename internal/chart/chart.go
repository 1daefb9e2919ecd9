// Package chart renders count tables as PNG charts. It is purely
// presentational; all numbers arrive pre-aggregated.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/cividata/nyc-shooting-report/internal/aggregate"
)

// Options is the explicit per-chart configuration. Nothing here is global:
// every renderer receives its own title, axis labels and canvas size.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length // zero → 8 inches
	Height vg.Length // zero → 4.5 inches
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w == 0 {
		w = 8 * vg.Inch
	}
	if h == 0 {
		h = 4.5 * vg.Inch
	}
	return w, h
}

// Point is one (x, y) pair for the trend overlay.
type Point struct {
	X float64
	Y float64
}

// ErrEmptyTable is returned when there is nothing to render.
var ErrEmptyTable = errors.New("chart: empty count table")

// Bar renders a categorical bar chart from a single-dimension count table.
func Bar(table aggregate.CountTable, opts Options) ([]byte, error) {
	if len(table.Rows) == 0 {
		return nil, ErrEmptyTable
	}

	p := newPlot(opts)

	values := make(plotter.Values, len(table.Rows))
	labels := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		values[i] = float64(row.Count)
		labels[i] = row.Keys[0]
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, fmt.Errorf("bar chart %q: %w", opts.Title, err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)

	p.Add(bars, plotter.NewGrid())
	p.NominalX(labels...)

	return encode(p, opts)
}

// YearLine renders the overall year trend as a single line.
func YearLine(table aggregate.CountTable, opts Options) ([]byte, error) {
	points, err := yearXYs(table)
	if err != nil {
		return nil, err
	}

	p := newPlot(opts)
	line, err := plotter.NewLine(points)
	if err != nil {
		return nil, fmt.Errorf("line chart %q: %w", opts.Title, err)
	}
	line.Width = vg.Points(2)
	line.Color = plotutil.Color(0)

	p.Add(line, plotter.NewGrid())

	return encode(p, opts)
}

// YearLines renders a (year, category)→count table as one line per distinct
// category value, with a legend entry each.
func YearLines(table aggregate.CountTable, opts Options) ([]byte, error) {
	if len(table.Rows) == 0 {
		return nil, ErrEmptyTable
	}

	// Rows are sorted by (year, category), so each category's points stay
	// in year order.
	var order []string
	byCategory := make(map[string]plotter.XYs)
	for _, row := range table.Rows {
		year, err := strconv.Atoi(row.Keys[0])
		if err != nil {
			return nil, fmt.Errorf("line chart %q: non-numeric year key %q", opts.Title, row.Keys[0])
		}
		cat := row.Keys[1]
		if _, seen := byCategory[cat]; !seen {
			order = append(order, cat)
		}
		byCategory[cat] = append(byCategory[cat], plotter.XY{X: float64(year), Y: float64(row.Count)})
	}

	p := newPlot(opts)
	p.Add(plotter.NewGrid())

	args := make([]interface{}, 0, 2*len(order))
	for _, cat := range order {
		args = append(args, cat, byCategory[cat])
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return nil, fmt.Errorf("line chart %q: %w", opts.Title, err)
	}

	return encode(p, opts)
}

// ScatterWithTrend renders the (year, count) scatter with the fitted OLS
// line superimposed.
func ScatterWithTrend(points []Point, slope, intercept float64, opts Options) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrEmptyTable
	}

	p := newPlot(opts)

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY(pt)
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("scatter %q: %w", opts.Title, err)
	}
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.Color = plotutil.Color(0)

	trend := plotter.NewFunction(func(x float64) float64 { return slope*x + intercept })
	trend.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	trend.Width = vg.Points(2)
	trend.Color = plotutil.Color(1)

	p.Add(scatter, trend, plotter.NewGrid())
	p.Legend.Add("observed", scatter)
	p.Legend.Add("fitted", trend)
	p.Legend.Top = true

	return encode(p, opts)
}

func newPlot(opts Options) *plot.Plot {
	p := plot.New()
	p.Title.Text = opts.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	return p
}

func yearXYs(table aggregate.CountTable) (plotter.XYs, error) {
	if len(table.Rows) == 0 {
		return nil, ErrEmptyTable
	}
	points := make(plotter.XYs, len(table.Rows))
	for i, row := range table.Rows {
		year, err := strconv.Atoi(row.Keys[0])
		if err != nil {
			return nil, fmt.Errorf("chart: non-numeric year key %q", row.Keys[0])
		}
		points[i] = plotter.XY{X: float64(year), Y: float64(row.Count)}
	}
	return points, nil
}

func encode(p *plot.Plot, opts Options) ([]byte, error) {
	w, h := opts.size()
	writer, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", opts.Title, err)
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode %q: %w", opts.Title, err)
	}
	return buf.Bytes(), nil
}
