// Package report orchestrates the fetch → clean → aggregate → visualize →
// model sequence and writes the rendered artifacts.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/cividata/nyc-shooting-report/internal/aggregate"
	"github.com/cividata/nyc-shooting-report/internal/chart"
	"github.com/cividata/nyc-shooting-report/internal/clean"
	"github.com/cividata/nyc-shooting-report/internal/domain"
	"github.com/cividata/nyc-shooting-report/internal/model"
	"github.com/cividata/nyc-shooting-report/internal/observability"
)

// Fetcher retrieves the raw dataset table.
type Fetcher interface {
	Fetch(ctx context.Context) (dataframe.DataFrame, error)
}

// Options configures a report run.
type Options struct {
	DatasetURL  string
	OutputDir   string
	PreviewRows int
}

// Generator runs the report pipeline exactly once. Each stage fully consumes
// the previous stage's output; any stage error aborts the run.
type Generator struct {
	fetcher Fetcher
	logger  *slog.Logger
	metrics *observability.Metrics
	opts    Options
}

// New creates a Generator with the given stages and observability.
func New(f Fetcher, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Generator {
	return &Generator{
		fetcher: f,
		logger:  logger,
		metrics: metrics,
		opts:    opts,
	}
}

// Run executes the full pipeline and writes report.html, counts.xlsx and
// metrics.prom into the output directory.
func (g *Generator) Run(ctx context.Context) error {
	g.metrics.RunActive.Set(1)
	defer g.metrics.RunActive.Set(0)

	raw, err := g.fetch(ctx)
	if err != nil {
		return g.fail("fetch", err)
	}

	res, err := g.clean(raw)
	if err != nil {
		return g.fail("clean", err)
	}

	doc, err := g.analyze(res)
	if err != nil {
		return err
	}

	if err := g.write(doc); err != nil {
		return g.fail("write", err)
	}

	g.logger.Info("report complete", "output_dir", g.opts.OutputDir, "rows", res.Stats.Rows)
	return nil
}

func (g *Generator) fetch(ctx context.Context) (dataframe.DataFrame, error) {
	defer g.observe("fetch")()

	raw, err := g.fetcher.Fetch(ctx)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	g.metrics.RowsFetched.Add(float64(raw.Nrow()))
	return raw, nil
}

func (g *Generator) clean(raw dataframe.DataFrame) (*clean.Result, error) {
	defer g.observe("clean")()

	res, err := clean.Clean(raw, g.logger)
	if err != nil {
		return nil, err
	}

	if missing := clean.CountMissing(res.Frame); missing != 0 {
		return nil, fmt.Errorf("cleaned table still has %d missing cells", missing)
	}
	if res.Stats.Rows != raw.Nrow() {
		return nil, fmt.Errorf("cleaning changed row count: %d != %d", res.Stats.Rows, raw.Nrow())
	}

	g.metrics.RowsCleaned.Add(float64(res.Stats.Rows))
	g.metrics.CellsImputed.WithLabelValues("perpetrator").Add(float64(res.Stats.PerpImputed))
	g.metrics.CellsImputed.WithLabelValues("geo").Add(float64(res.Stats.GeoImputed))
	g.metrics.DatesInvalid.Add(float64(res.Stats.InvalidDates))
	return res, nil
}

// analyze computes every aggregation, renders the charts, and fits both
// regressions, in the fixed report order.
func (g *Generator) analyze(res *clean.Result) (*document, error) {
	defer g.observe("analyze")()

	doc := &document{
		GeneratedAt: domain.Now(),
		DatasetURL:  g.opts.DatasetURL,
		Stats:       res.Stats,
	}
	doc.setPreview(res.Frame, g.opts.PreviewRows)

	byBorough := aggregate.ByBorough(res.Incidents)
	byYear := aggregate.ByYear(res.Incidents)
	byYearBorough := aggregate.ByYearBorough(res.Incidents)
	byVictimRace := aggregate.ByVictimRace(res.Incidents)
	byPerpRace := aggregate.ByPerpRace(res.Incidents)
	doc.tables = []aggregate.CountTable{byBorough, byYear, byYearBorough, byVictimRace, byPerpRace}

	charts := []struct {
		title  string
		render func() ([]byte, error)
	}{
		{"Incidents by borough", func() ([]byte, error) {
			return chart.Bar(byBorough, chart.Options{Title: "Incidents by borough", XLabel: "borough", YLabel: "incidents"})
		}},
		{"Incidents per year", func() ([]byte, error) {
			return chart.YearLine(byYear, chart.Options{Title: "Incidents per year", XLabel: "year", YLabel: "incidents"})
		}},
		{"Incidents per year by borough", func() ([]byte, error) {
			return chart.YearLines(byYearBorough, chart.Options{Title: "Incidents per year by borough", XLabel: "year", YLabel: "incidents"})
		}},
		{"Incidents by victim race", func() ([]byte, error) {
			return chart.Bar(byVictimRace, chart.Options{Title: "Incidents by victim race", XLabel: "victim race", YLabel: "incidents"})
		}},
		{"Incidents by perpetrator race", func() ([]byte, error) {
			return chart.Bar(byPerpRace, chart.Options{Title: "Incidents by perpetrator race", XLabel: "perpetrator race", YLabel: "incidents"})
		}},
	}
	for _, c := range charts {
		png, err := c.render()
		if err != nil {
			return nil, g.fail("visualize", err)
		}
		doc.addChart(c.title, png)
		g.metrics.ChartsRendered.Inc()
	}

	trend, err := model.FitYearTrend(byYear)
	if err != nil {
		return nil, g.fail("model", err)
	}
	g.metrics.ModelsFit.Inc()

	byBoroughTrend, err := model.FitYearBorough(byYearBorough)
	if err != nil {
		return nil, g.fail("model", err)
	}
	g.metrics.ModelsFit.Inc()
	doc.Fits = []model.Fit{trend, byBoroughTrend}

	overlay, err := trendOverlay(byYear, trend)
	if err != nil {
		return nil, g.fail("visualize", err)
	}
	doc.setOverlay("Year trend with fitted line", overlay)
	g.metrics.ChartsRendered.Inc()

	return doc, nil
}

func (g *Generator) write(doc *document) error {
	if err := os.MkdirAll(g.opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	htmlPath := filepath.Join(g.opts.OutputDir, "report.html")
	if err := writeHTML(htmlPath, doc); err != nil {
		return err
	}

	xlsxPath := filepath.Join(g.opts.OutputDir, "counts.xlsx")
	if err := writeWorkbook(xlsxPath, doc); err != nil {
		return err
	}

	promPath := filepath.Join(g.opts.OutputDir, "metrics.prom")
	f, err := os.Create(promPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", promPath, err)
	}
	defer f.Close()
	return g.metrics.WriteSnapshot(f)
}

// trendOverlay builds the (year, count) scatter with the fitted line from
// the simple regression superimposed.
func trendOverlay(byYear aggregate.CountTable, fit model.Fit) ([]byte, error) {
	points := make([]chart.Point, len(byYear.Rows))
	for i, row := range byYear.Rows {
		year, err := strconv.Atoi(row.Keys[0])
		if err != nil {
			return nil, fmt.Errorf("overlay: non-numeric year key %q", row.Keys[0])
		}
		points[i] = chart.Point{X: float64(year), Y: float64(row.Count)}
	}

	slope, _ := fit.Coef("year")
	intercept, _ := fit.Coef("Intercept")
	return chart.ScatterWithTrend(points, slope.Value, intercept.Value, chart.Options{
		Title:  "Year trend with fitted line",
		XLabel: "year",
		YLabel: "incidents",
	})
}

// observe returns a func recording the stage duration when called, so stages
// can time themselves with a single defer.
func (g *Generator) observe(stage string) func() {
	start := time.Now()
	return func() {
		g.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}

// fail logs the stage an error originated from before surfacing it; the rest
// of the report is abandoned.
func (g *Generator) fail(stage string, err error) error {
	g.logger.Error("report stage failed", "stage", stage, "error", err)
	return fmt.Errorf("%s: %w", stage, err)
}
