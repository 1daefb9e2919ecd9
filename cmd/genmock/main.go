// Command genmock generates a synthetic NYPD shooting incident CSV with the
// full upstream column contract, including the dataset's missing-value quirks
// (blank cells and literal "(null)" markers), so the cleaning path can be
// exercised without downloading the real export.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/incidents.csv -rows 500 -seed 1
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/cividata/nyc-shooting-report/internal/domain"
)

var (
	boroughs  = []string{"BRONX", "BROOKLYN", "MANHATTAN", "QUEENS", "STATEN ISLAND"}
	ageGroups = []string{"<18", "18-24", "25-44", "45-64", "65+"}
	sexes     = []string{"M", "F", "U"}
	races     = []string{
		"BLACK", "WHITE", "WHITE HISPANIC", "BLACK HISPANIC",
		"ASIAN / PACIFIC ISLANDER", "AMERICAN INDIAN/ALASKAN NATIVE",
	}
	locClasses = []string{"STREET", "DWELLING", "COMMERCIAL", "HOUSING", "TRANSIT"}
)

func main() {
	out := flag.String("out", "", "output CSV path")
	rows := flag.Int("rows", 500, "number of incident rows")
	seed := flag.Int64("seed", 1, "PRNG seed for reproducible fixtures")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*out, *rows, *seed); err != nil {
		log.Fatal(err)
	}
}

func run(path string, rows int, seed int64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(domain.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < rows; i++ {
		if err := w.Write(record(rng, 240000000+i)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	log.Printf("wrote %d rows to %s", rows, path)
	return nil
}

// record builds one CSV row in upstream column order.
func record(rng *rand.Rand, key int) []string {
	occur := time.Date(2006+rng.Intn(18), time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)
	boro := boroughs[rng.Intn(len(boroughs))]

	jurisdiction := strconv.Itoa(rng.Intn(3))
	lat := fmt.Sprintf("%.6f", 40.5+rng.Float64()*0.4)
	lon := fmt.Sprintf("%.6f", -74.2+rng.Float64()*0.5)
	lonLat := fmt.Sprintf("POINT (%s %s)", lon, lat)
	if rng.Float64() < 0.1 {
		jurisdiction, lat, lon, lonLat = "", "", "", ""
	}

	perpAge, perpSex, perpRace := ageGroups[rng.Intn(len(ageGroups))], sexes[rng.Intn(len(sexes))], races[rng.Intn(len(races))]
	if rng.Float64() < 0.3 {
		// The export mixes blank cells and literal "(null)" markers.
		marker := ""
		if rng.Float64() < 0.5 {
			marker = "(null)"
		}
		perpAge, perpSex, perpRace = marker, marker, marker
	}

	locationDesc := "(null)"
	if rng.Float64() < 0.3 {
		locationDesc = locClasses[rng.Intn(len(locClasses))]
	}

	return []string{
		strconv.Itoa(key),
		occur.Format(domain.DateLayout),
		fmt.Sprintf("%02d:%02d:00", rng.Intn(24), rng.Intn(60)),
		boro,
		pick(rng, "INSIDE", "OUTSIDE"),
		strconv.Itoa(1 + rng.Intn(123)),
		jurisdiction,
		locClasses[rng.Intn(len(locClasses))],
		locationDesc,
		strconv.FormatBool(rng.Float64() < 0.2),
		perpAge,
		perpSex,
		perpRace,
		ageGroups[rng.Intn(len(ageGroups))],
		sexes[rng.Intn(len(sexes))],
		races[rng.Intn(len(races))],
		lat,
		lon,
		lonLat,
	}
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}
