// Package dataset downloads and parses the NYC Open Data shooting incident
// CSV export into a typed dataframe.
package dataset

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/cividata/nyc-shooting-report/internal/domain"
)

// naMarkers are the strings the export uses for missing cells. Normalizing
// them at parse time makes missingness explicit before any cleaning decision.
var naMarkers = []string{"", "NA", "NaN", "null", "(null)", "<nil>"}

// Client downloads the incident dataset.
type Client struct {
	url        string
	httpClient *http.Client
	retries    int
	logger     *slog.Logger
}

// NewClient creates a dataset client. retries is the number of additional
// attempts after the first; 0 preserves single-attempt behavior.
func NewClient(url string, timeout time.Duration, retries int, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retries: retries,
		logger:  logger,
	}
}

// Fetch downloads the CSV export and parses it. It returns a *domain.FetchError
// when the resource is unreachable or answers non-2xx, and a *domain.ParseError
// when the body is not well-formed CSV.
func (c *Client) Fetch(ctx context.Context) (dataframe.DataFrame, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying dataset fetch", "attempt", attempt+1, "error", lastErr)
		}

		df, err := c.fetchOnce(ctx)
		if err == nil {
			return df, nil
		}
		lastErr = err

		// Parse errors are not transient; retrying re-downloads the same bytes.
		if _, ok := err.(*domain.ParseError); ok {
			return dataframe.DataFrame{}, err
		}
		if ctx.Err() != nil {
			return dataframe.DataFrame{}, lastErr
		}
	}
	return dataframe.DataFrame{}, lastErr
}

func (c *Client) fetchOnce(ctx context.Context) (dataframe.DataFrame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return dataframe.DataFrame{}, &domain.FetchError{URL: c.url, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dataframe.DataFrame{}, &domain.FetchError{URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse
		return dataframe.DataFrame{}, &domain.FetchError{URL: c.url, StatusCode: resp.StatusCode}
	}

	df, err := Parse(resp.Body)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	c.logger.Info("dataset fetched", "url", c.url, "rows", df.Nrow(), "columns", df.Ncol())
	return df, nil
}

// Parse reads headered CSV into a dataframe with per-column type inference.
// Dates remain text at this stage; numeric columns become numeric. Cells
// matching a known missing-value marker become NA elements.
func Parse(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naMarkers),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, &domain.ParseError{Err: df.Err}
	}
	return df, nil
}
