package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cividata/nyc-shooting-report/internal/dataset"
	"github.com/cividata/nyc-shooting-report/internal/domain"
	"github.com/cividata/nyc-shooting-report/internal/observability"
)

const csvHeader = "INCIDENT_KEY,OCCUR_DATE,OCCUR_TIME,BORO,LOC_OF_OCCUR_DESC,PRECINCT,JURISDICTION_CODE,LOC_CLASSFCTN_DESC,LOCATION_DESC,STATISTICAL_MURDER_FLAG,PERP_AGE_GROUP,PERP_SEX,PERP_RACE,VIC_AGE_GROUP,VIC_SEX,VIC_RACE,Latitude,Longitude,Lon_Lat"

// fixtureCSV spans three years and two boroughs so both regressions have
// more rows than parameters, and includes missing demographics/coordinates
// so the cleaning path is exercised.
func fixtureCSV() string {
	out := csvHeader + "\n"
	key := 1000
	for year := 2018; year <= 2020; year++ {
		for _, boro := range []string{"BRONX", "BROOKLYN"} {
			perCell := 2 + (year - 2018)
			for i := 0; i < perCell; i++ {
				key++
				perp := "25-44,M,BLACK"
				coords := "40.8,-73.9,POINT (-73.9 40.8)"
				if i == 0 {
					perp = ",,"
					coords = ",,"
				}
				out += fmt.Sprintf("%d,%02d/15/%d,21:30:00,%s,OUTSIDE,44,0,STREET,(null),false,%s,25-44,M,BLACK,%s\n",
					key, 3+i, year, boro, perp, coords)
			}
		}
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGenerator(t *testing.T, url string) (*Generator, string) {
	t.Helper()
	outDir := t.TempDir()
	client := dataset.NewClient(url, 5*time.Second, 0, testLogger())
	gen := New(client, testLogger(), observability.NewMetrics(), Options{
		DatasetURL:  url,
		OutputDir:   outDir,
		PreviewRows: 6,
	})
	return gen, outDir
}

func TestGeneratorRun(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))
	defer domain.SetClock(nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, fixtureCSV()) //nolint:errcheck
	}))
	defer srv.Close()

	gen, outDir := newGenerator(t, srv.URL)
	require.NoError(t, gen.Run(context.Background()))

	t.Run("html report", func(t *testing.T) {
		b, err := os.ReadFile(filepath.Join(outDir, "report.html"))
		require.NoError(t, err)
		html := string(b)

		assert.Contains(t, html, "Generated 2025-01-02 03:04:05 UTC")
		assert.Contains(t, html, "Cleaned data preview")
		assert.Contains(t, html, "Null cells remaining in the cleaned table: <strong>0</strong>")
		assert.Contains(t, html, "Incidents by borough")
		assert.Contains(t, html, "Incidents per year by borough")
		assert.Contains(t, html, "Incidents by victim race")
		assert.Contains(t, html, "Incidents by perpetrator race")
		assert.Contains(t, html, "count ~ year + borough")
		assert.Contains(t, html, "Year trend with fitted line")
		assert.Contains(t, html, "data:image/png;base64,")

		// The dropped location descriptors must not leak into the preview.
		assert.NotContains(t, html, domain.ColLocationDesc)
		assert.NotContains(t, html, domain.ColLonLat)
	})

	t.Run("workbook", func(t *testing.T) {
		fi, err := os.Stat(filepath.Join(outDir, "counts.xlsx"))
		require.NoError(t, err)
		assert.Greater(t, fi.Size(), int64(0))
	})

	t.Run("metrics snapshot", func(t *testing.T) {
		b, err := os.ReadFile(filepath.Join(outDir, "metrics.prom"))
		require.NoError(t, err)
		snapshot := string(b)

		assert.Contains(t, snapshot, "shooting_report_rows_fetched_total 18")
		assert.Contains(t, snapshot, "shooting_report_rows_cleaned_total 18")
		assert.Contains(t, snapshot, "shooting_report_charts_rendered_total 6")
		assert.Contains(t, snapshot, "shooting_report_models_fit_total 2")
	})
}

func TestGeneratorRun_FetchFailureAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	gen, outDir := newGenerator(t, srv.URL)
	err := gen.Run(context.Background())

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)

	// No partial report is produced.
	_, statErr := os.Stat(filepath.Join(outDir, "report.html"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestGeneratorRun_SchemaFailureAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "A,B\n1,2\n") //nolint:errcheck
	}))
	defer srv.Close()

	gen, _ := newGenerator(t, srv.URL)
	err := gen.Run(context.Background())

	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, err.Error(), "clean")
}
