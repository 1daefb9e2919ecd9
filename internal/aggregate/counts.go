// Package aggregate computes grouped incident counts for charts and models.
package aggregate

import (
	"sort"
	"strconv"

	"github.com/cividata/nyc-shooting-report/internal/domain"
)

// Row is one distinct combination of grouping-key values and its count.
type Row struct {
	Keys  []string
	Count int
}

// CountTable maps one or two grouping dimensions to row counts. Rows are
// sorted by key so repeated aggregation of the same input is byte-identical.
type CountTable struct {
	Dimensions []string
	Rows       []Row
}

// Total returns the sum of all counts.
func (t CountTable) Total() int {
	total := 0
	for _, r := range t.Rows {
		total += r.Count
	}
	return total
}

// ByBorough counts incidents per borough.
func ByBorough(incidents []domain.Incident) CountTable {
	return countBy([]string{"borough"}, incidents, func(i domain.Incident) ([]string, bool) {
		return []string{i.Borough}, true
	})
}

// ByYear counts incidents per occurrence year. Incidents with no parseable
// date are excluded; the cleaning stats disclose how many.
func ByYear(incidents []domain.Incident) CountTable {
	return countBy([]string{"year"}, incidents, func(i domain.Incident) ([]string, bool) {
		y, ok := i.Year()
		if !ok {
			return nil, false
		}
		return []string{strconv.Itoa(y)}, true
	})
}

// ByYearBorough counts incidents per (year, borough). Incidents with no
// parseable date are excluded, as in ByYear.
func ByYearBorough(incidents []domain.Incident) CountTable {
	return countBy([]string{"year", "borough"}, incidents, func(i domain.Incident) ([]string, bool) {
		y, ok := i.Year()
		if !ok {
			return nil, false
		}
		return []string{strconv.Itoa(y), i.Borough}, true
	})
}

// ByVictimRace counts incidents per victim race.
func ByVictimRace(incidents []domain.Incident) CountTable {
	return countBy([]string{"victim race"}, incidents, func(i domain.Incident) ([]string, bool) {
		return []string{i.VicRace}, true
	})
}

// ByPerpRace counts incidents per perpetrator race. Missing values were
// substituted with "N/A" during cleaning and show up as their own category,
// matching the cleaned table.
func ByPerpRace(incidents []domain.Incident) CountTable {
	return countBy([]string{"perpetrator race"}, incidents, func(i domain.Incident) ([]string, bool) {
		return []string{i.PerpRace.Or(domain.SentinelText)}, true
	})
}

// countBy builds a count table from a key extractor. Extractors return false
// to exclude an incident from the grouping.
func countBy(dims []string, incidents []domain.Incident, key func(domain.Incident) ([]string, bool)) CountTable {
	counts := make(map[string]Row)
	for _, inc := range incidents {
		keys, ok := key(inc)
		if !ok {
			continue
		}
		id := joinKeys(keys)
		row, exists := counts[id]
		if !exists {
			row = Row{Keys: keys}
		}
		row.Count++
		counts[id] = row
	}

	table := CountTable{Dimensions: dims, Rows: make([]Row, 0, len(counts))}
	for _, row := range counts {
		table.Rows = append(table.Rows, row)
	}
	sort.Slice(table.Rows, func(a, b int) bool {
		return joinKeys(table.Rows[a].Keys) < joinKeys(table.Rows[b].Keys)
	})
	return table
}

// joinKeys builds a composite map key. The unit separator cannot occur in
// borough or race values, so composites never collide.
func joinKeys(keys []string) string {
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += "\x1f"
		}
		out += k
	}
	return out
}
