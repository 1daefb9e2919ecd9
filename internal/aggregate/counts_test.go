package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cividata/nyc-shooting-report/internal/domain"
)

func incident(borough string, date time.Time) domain.Incident {
	return domain.Incident{Borough: borough, OccurDate: domain.Some(date)}
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestByBorough(t *testing.T) {
	incidents := []domain.Incident{
		incident("BRONX", date(2019, 1, 1)),
		incident("BRONX", date(2019, 6, 1)),
		incident("BROOKLYN", date(2020, 1, 1)),
	}

	table := ByBorough(incidents)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, Row{Keys: []string{"BRONX"}, Count: 2}, table.Rows[0])
	assert.Equal(t, Row{Keys: []string{"BROOKLYN"}, Count: 1}, table.Rows[1])

	t.Run("idempotent", func(t *testing.T) {
		assert.Equal(t, table, ByBorough(incidents))
	})

	t.Run("counts sum to row count", func(t *testing.T) {
		assert.Equal(t, len(incidents), table.Total())
	})
}

func TestByYear(t *testing.T) {
	incidents := []domain.Incident{
		incident("BRONX", date(2019, 1, 1)),
		incident("QUEENS", date(2019, 6, 1)),
		incident("BRONX", date(2020, 1, 1)),
	}

	table := ByYear(incidents)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, Row{Keys: []string{"2019"}, Count: 2}, table.Rows[0])
	assert.Equal(t, Row{Keys: []string{"2020"}, Count: 1}, table.Rows[1])
}

func TestByYear_ExcludesMissingDates(t *testing.T) {
	incidents := []domain.Incident{
		incident("BRONX", date(2019, 1, 1)),
		{Borough: "BRONX"}, // no parseable date
	}

	table := ByYear(incidents)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, 1, table.Total())
}

func TestByYearBorough(t *testing.T) {
	incidents := []domain.Incident{
		incident("BRONX", date(2019, 1, 1)),
		incident("BRONX", date(2019, 3, 1)),
		incident("BROOKLYN", date(2019, 6, 1)),
		incident("BRONX", date(2020, 1, 1)),
	}

	table := ByYearBorough(incidents)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"year", "borough"}, table.Dimensions)
	assert.Equal(t, Row{Keys: []string{"2019", "BRONX"}, Count: 2}, table.Rows[0])
	assert.Equal(t, Row{Keys: []string{"2019", "BROOKLYN"}, Count: 1}, table.Rows[1])
	assert.Equal(t, Row{Keys: []string{"2020", "BRONX"}, Count: 1}, table.Rows[2])
}

func TestByRace(t *testing.T) {
	incidents := []domain.Incident{
		{VicRace: "BLACK", PerpRace: domain.Some("BLACK")},
		{VicRace: "BLACK", PerpRace: domain.None[string]()},
		{VicRace: "WHITE HISPANIC", PerpRace: domain.None[string]()},
	}

	vic := ByVictimRace(incidents)
	require.Len(t, vic.Rows, 2)
	assert.Equal(t, 2, vic.Rows[0].Count) // BLACK

	perp := ByPerpRace(incidents)
	require.Len(t, perp.Rows, 2)
	assert.Equal(t, Row{Keys: []string{"BLACK"}, Count: 1}, perp.Rows[0])
	assert.Equal(t, Row{Keys: []string{"N/A"}, Count: 2}, perp.Rows[1])
}
