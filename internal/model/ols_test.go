package model

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cividata/nyc-shooting-report/internal/aggregate"
	"github.com/cividata/nyc-shooting-report/internal/domain"
)

func yearTable(rows ...aggregate.Row) aggregate.CountTable {
	return aggregate.CountTable{Dimensions: []string{"year"}, Rows: rows}
}

func TestFitYearTrend(t *testing.T) {
	t.Run("recovers an exact line", func(t *testing.T) {
		// (2018,100), (2019,120), (2020,140): count = 20*year - 40260.
		table := yearTable(
			aggregate.Row{Keys: []string{"2018"}, Count: 100},
			aggregate.Row{Keys: []string{"2019"}, Count: 120},
			aggregate.Row{Keys: []string{"2020"}, Count: 140},
		)

		fit, err := FitYearTrend(table)
		require.NoError(t, err)

		slope, ok := fit.Coef("year")
		require.True(t, ok)
		intercept, ok := fit.Coef("Intercept")
		require.True(t, ok)

		assert.InDelta(t, 20.0, slope.Value, 1e-6)
		assert.InDelta(t, -40260.0, intercept.Value, 1e-3)
		assert.InDelta(t, 1.0, fit.RSquared, 1e-9)
		assert.True(t, math.IsInf(fit.FStatistic, 1))
		assert.Equal(t, 3, fit.N)
	})

	t.Run("noisy data has finite fit statistics", func(t *testing.T) {
		table := yearTable(
			aggregate.Row{Keys: []string{"2017"}, Count: 95},
			aggregate.Row{Keys: []string{"2018"}, Count: 104},
			aggregate.Row{Keys: []string{"2019"}, Count: 118},
			aggregate.Row{Keys: []string{"2020"}, Count: 139},
			aggregate.Row{Keys: []string{"2021"}, Count: 151},
		)

		fit, err := FitYearTrend(table)
		require.NoError(t, err)

		slope, _ := fit.Coef("year")
		assert.Greater(t, slope.Value, 0.0)
		assert.Greater(t, slope.StdErr, 0.0)
		assert.Greater(t, fit.RSquared, 0.9)
		assert.False(t, math.IsInf(fit.FStatistic, 1))
		assert.Greater(t, fit.FStatistic, 1.0)
	})

	t.Run("too few rows", func(t *testing.T) {
		table := yearTable(aggregate.Row{Keys: []string{"2020"}, Count: 140})

		_, err := FitYearTrend(table)
		var fitErr *domain.ModelFitError
		require.ErrorAs(t, err, &fitErr)
	})

	t.Run("non-numeric year key", func(t *testing.T) {
		table := yearTable(
			aggregate.Row{Keys: []string{"NO_DATE"}, Count: 1},
			aggregate.Row{Keys: []string{"2020"}, Count: 140},
		)

		_, err := FitYearTrend(table)
		var fitErr *domain.ModelFitError
		require.ErrorAs(t, err, &fitErr)
	})
}

func TestFitYearBorough(t *testing.T) {
	t.Run("recovers borough offsets", func(t *testing.T) {
		// count = 10*(year-2000) + 50 for BRONX, +30 on top for BROOKLYN.
		var rows []aggregate.Row
		for year := 2017; year <= 2021; year++ {
			base := 10*(year-2000) + 50
			rows = append(rows,
				aggregate.Row{Keys: []string{strconv.Itoa(year), "BRONX"}, Count: base},
				aggregate.Row{Keys: []string{strconv.Itoa(year), "BROOKLYN"}, Count: base + 30},
			)
		}
		table := aggregate.CountTable{Dimensions: []string{"year", "borough"}, Rows: rows}

		fit, err := FitYearBorough(table)
		require.NoError(t, err)

		slope, ok := fit.Coef("year")
		require.True(t, ok)
		assert.InDelta(t, 10.0, slope.Value, 1e-6)

		// BRONX is the reference level, so only BROOKLYN gets a dummy.
		_, hasBronx := fit.Coef("borough=BRONX")
		assert.False(t, hasBronx)

		brooklyn, ok := fit.Coef("borough=BROOKLYN")
		require.True(t, ok)
		assert.InDelta(t, 30.0, brooklyn.Value, 1e-6)

		assert.InDelta(t, 1.0, fit.RSquared, 1e-9)
		assert.Equal(t, 10, fit.N)
	})

	t.Run("fewer rows than parameters", func(t *testing.T) {
		table := aggregate.CountTable{
			Dimensions: []string{"year", "borough"},
			Rows: []aggregate.Row{
				{Keys: []string{"2019", "BRONX"}, Count: 10},
				{Keys: []string{"2019", "BROOKLYN"}, Count: 12},
			},
		}

		_, err := FitYearBorough(table)
		var fitErr *domain.ModelFitError
		require.ErrorAs(t, err, &fitErr)
		assert.Contains(t, err.Error(), "fewer rows")
	})

	t.Run("wrong table shape", func(t *testing.T) {
		_, err := FitYearBorough(yearTable(aggregate.Row{Keys: []string{"2020"}, Count: 1}))
		var fitErr *domain.ModelFitError
		require.ErrorAs(t, err, &fitErr)
	})
}
