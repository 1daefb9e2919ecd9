// Command validate runs the cleaning invariants against a local incident CSV
// (for example one produced by genmock, or a saved copy of the real export).
// It checks schema presence, sentinel substitution, row-count invariance and
// aggregation consistency, and exits non-zero if any phase fails.
//
// Usage:
//
//	go run ./cmd/validate -csv data/mock/incidents.csv
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cividata/nyc-shooting-report/internal/aggregate"
	"github.com/cividata/nyc-shooting-report/internal/clean"
	"github.com/cividata/nyc-shooting-report/internal/dataset"
	"github.com/cividata/nyc-shooting-report/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to an incident CSV in the upstream column layout")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath string) int {
	fmt.Println("=== Incident Data Integrity Validation ===")
	fmt.Println()

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open CSV: %v\n", err)
		return 1
	}
	defer f.Close()

	raw, err := dataset.Parse(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse CSV: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	res, err := clean.Clean(raw, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: clean: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateSchema(res),
		validateCleaning(raw.Nrow(), res),
		validateAggregation(res),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			allPassed = false
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("       - %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Println()
	fmt.Printf("all phases passed (%d rows)\n", res.Stats.Rows)
	return 0
}

func validateSchema(res *clean.Result) *phase {
	p := &phase{name: "schema"}

	names := map[string]bool{}
	for _, n := range res.Frame.Names() {
		names[n] = true
	}
	for _, dropped := range domain.DroppedColumns {
		if names[dropped] {
			p.errorf("dropped column %s still present after cleaning", dropped)
		}
	}
	for _, col := range domain.Columns {
		if isDropped(col) {
			continue
		}
		if !names[col] {
			p.errorf("expected column %s missing from cleaned table", col)
		}
	}
	return p
}

func validateCleaning(rawRows int, res *clean.Result) *phase {
	p := &phase{name: "cleaning invariants"}

	if res.Stats.Rows != rawRows {
		p.errorf("row count changed: raw=%d cleaned=%d", rawRows, res.Stats.Rows)
	}
	if missing := clean.CountMissing(res.Frame); missing != 0 {
		p.errorf("%d missing cells remain after cleaning", missing)
	}

	dates := res.Frame.Col(domain.ColOccurDate)
	invalid := 0
	for i := 0; i < dates.Len(); i++ {
		if dates.Elem(i).String() == domain.NoDateMarker {
			invalid++
		}
	}
	if invalid != res.Stats.InvalidDates {
		p.errorf("no-date markers (%d) disagree with stats (%d)", invalid, res.Stats.InvalidDates)
	}
	return p
}

func validateAggregation(res *clean.Result) *phase {
	p := &phase{name: "aggregation consistency"}

	byBorough := aggregate.ByBorough(res.Incidents)
	if byBorough.Total() != res.Stats.Rows {
		p.errorf("borough counts sum to %d, want %d", byBorough.Total(), res.Stats.Rows)
	}

	byYear := aggregate.ByYear(res.Incidents)
	wantYearTotal := res.Stats.Rows - res.Stats.InvalidDates
	if byYear.Total() != wantYearTotal {
		p.errorf("year counts sum to %d, want %d (rows minus unparseable dates)", byYear.Total(), wantYearTotal)
	}

	if again := aggregate.ByBorough(res.Incidents); !equalTables(byBorough, again) {
		p.errorf("borough aggregation is not deterministic")
	}
	return p
}

func equalTables(a, b aggregate.CountTable) bool {
	if len(a.Rows) != len(b.Rows) {
		return false
	}
	for i := range a.Rows {
		if a.Rows[i].Count != b.Rows[i].Count {
			return false
		}
		for j := range a.Rows[i].Keys {
			if a.Rows[i].Keys[j] != b.Rows[i].Keys[j] {
				return false
			}
		}
	}
	return true
}

func isDropped(col string) bool {
	for _, d := range domain.DroppedColumns {
		if d == col {
			return true
		}
	}
	return false
}
