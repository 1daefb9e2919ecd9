// Package clean turns the raw dataset frame into the cleaned working table
// and its typed incident records.
package clean

import (
	"log/slog"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/cividata/nyc-shooting-report/internal/domain"
)

// isoDateLayout is how coerced occurrence dates are stored in the frame.
const isoDateLayout = "2006-01-02"

// perpColumns get the "N/A" text sentinel; geoColumns get the -9999 numeric
// sentinel. These are the only sanctioned substitutions.
var (
	perpColumns = []string{domain.ColPerpAgeGroup, domain.ColPerpSex, domain.ColPerpRace}
	geoColumns  = []string{domain.ColJurisdictionCode, domain.ColLatitude, domain.ColLongitude}
)

// Stats records what the cleaner changed.
type Stats struct {
	Rows         int
	PerpImputed  int // cells in the perpetrator group replaced with "N/A"
	GeoImputed   int // cells in the numeric group replaced with -9999
	InvalidDates int // OCCUR_DATE values carrying the no-date marker
}

// Result is the cleaned table in both representations: the tabular frame for
// previews and audits, and the typed records everything downstream consumes.
type Result struct {
	Frame     dataframe.DataFrame
	Incidents []domain.Incident
	Stats     Stats
}

// Clean validates the schema, drops the location-descriptor columns, coerces
// the occurrence date, substitutes the sentinels, and decodes typed records.
// Row count is invariant: no row is added or removed.
func Clean(df dataframe.DataFrame, logger *slog.Logger) (*Result, error) {
	if err := checkSchema(df); err != nil {
		return nil, err
	}

	frame := dropColumns(df)

	frame, invalidDates := coerceDates(frame)
	frame, perpImputed := imputePerp(frame)

	frame, geoImputed, err := imputeGeo(frame)
	if err != nil {
		return nil, err
	}

	incidents, err := decode(frame)
	if err != nil {
		return nil, err
	}

	stats := Stats{
		Rows:         frame.Nrow(),
		PerpImputed:  perpImputed,
		GeoImputed:   geoImputed,
		InvalidDates: invalidDates,
	}

	logger.Info("cleaning complete",
		"rows", stats.Rows,
		"perp_cells_imputed", stats.PerpImputed,
		"geo_cells_imputed", stats.GeoImputed,
		"invalid_dates", stats.InvalidDates,
	)

	return &Result{Frame: frame, Incidents: incidents, Stats: stats}, nil
}

// CountMissing returns the number of NA cells in the frame. The cleaned
// table must report zero.
func CountMissing(df dataframe.DataFrame) int {
	missing := 0
	for _, name := range df.Names() {
		col := df.Col(name)
		for i := 0; i < col.Len(); i++ {
			if col.Elem(i).IsNA() {
				missing++
			}
		}
	}
	return missing
}

// checkSchema verifies the full expected column contract, so a missing
// drop-target fails loudly instead of being silently ignored.
func checkSchema(df dataframe.DataFrame) error {
	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, want := range domain.Columns {
		if !present[want] {
			return &domain.SchemaError{Column: want, Reason: "missing from dataset"}
		}
	}
	return nil
}

func dropColumns(df dataframe.DataFrame) dataframe.DataFrame {
	dropped := make(map[string]bool, len(domain.DroppedColumns))
	for _, name := range domain.DroppedColumns {
		dropped[name] = true
	}

	kept := make([]string, 0, df.Ncol())
	for _, name := range df.Names() {
		if !dropped[name] {
			kept = append(kept, name)
		}
	}
	return df.Select(kept)
}

// coerceDates rewrites OCCUR_DATE from MM/DD/YYYY text to ISO dates.
// Unparseable values become the explicit no-date marker, never an error.
func coerceDates(df dataframe.DataFrame) (dataframe.DataFrame, int) {
	col := df.Col(domain.ColOccurDate)
	out := make([]string, col.Len())
	invalid := 0

	for i := 0; i < col.Len(); i++ {
		elem := col.Elem(i)
		if elem.IsNA() {
			out[i] = domain.NoDateMarker
			invalid++
			continue
		}
		t, err := time.Parse(domain.DateLayout, strings.TrimSpace(elem.String()))
		if err != nil {
			out[i] = domain.NoDateMarker
			invalid++
			continue
		}
		out[i] = t.Format(isoDateLayout)
	}

	return df.Mutate(series.New(out, series.String, domain.ColOccurDate)), invalid
}

// imputePerp replaces missing perpetrator demographics with the "N/A" text
// sentinel; non-missing values pass through unchanged.
func imputePerp(df dataframe.DataFrame) (dataframe.DataFrame, int) {
	imputed := 0
	for _, name := range perpColumns {
		col := df.Col(name)
		out := make([]string, col.Len())
		for i := 0; i < col.Len(); i++ {
			elem := col.Elem(i)
			if elem.IsNA() {
				out[i] = domain.SentinelText
				imputed++
				continue
			}
			out[i] = elem.String()
		}
		df = df.Mutate(series.New(out, series.String, name))
	}
	return df, imputed
}

// imputeGeo replaces missing jurisdiction code, latitude and longitude with
// the -9999 numeric sentinel.
func imputeGeo(df dataframe.DataFrame) (dataframe.DataFrame, int, error) {
	imputed := 0
	for _, name := range geoColumns {
		col := df.Col(name)
		switch col.Type() {
		case series.Int, series.Float:
		default:
			return df, 0, &domain.SchemaError{Column: name, Reason: "is not numeric"}
		}

		out := make([]float64, col.Len())
		for i := 0; i < col.Len(); i++ {
			elem := col.Elem(i)
			if elem.IsNA() {
				out[i] = domain.SentinelNumeric
				imputed++
				continue
			}
			out[i] = elem.Float()
		}

		t := series.Float
		if name == domain.ColJurisdictionCode {
			t = series.Int
		}
		df = df.Mutate(series.New(out, t, name))
	}
	return df, imputed, nil
}

// decode maps the cleaned frame into typed records. Sentinels map back to
// explicit missing values so downstream code never compares against them.
func decode(df dataframe.DataFrame) ([]domain.Incident, error) {
	incidents := make([]domain.Incident, df.Nrow())

	for i := 0; i < df.Nrow(); i++ {
		rec := domain.Incident{
			IncidentKey: df.Col(domain.ColIncidentKey).Elem(i).String(),
			OccurTime:   df.Col(domain.ColOccurTime).Elem(i).String(),
			Borough:     df.Col(domain.ColBorough).Elem(i).String(),
			VicAgeGroup: df.Col(domain.ColVicAgeGroup).Elem(i).String(),
			VicSex:      df.Col(domain.ColVicSex).Elem(i).String(),
			VicRace:     df.Col(domain.ColVicRace).Elem(i).String(),
		}

		precinct, err := df.Col(domain.ColPrecinct).Elem(i).Int()
		if err != nil {
			return nil, &domain.SchemaError{Column: domain.ColPrecinct, Reason: "is not numeric"}
		}
		rec.Precinct = precinct

		murder, err := df.Col(domain.ColMurderFlag).Elem(i).Bool()
		if err != nil {
			return nil, &domain.SchemaError{Column: domain.ColMurderFlag, Reason: "is not boolean"}
		}
		rec.MurderFlag = murder

		if v := df.Col(domain.ColOccurDate).Elem(i).String(); v != domain.NoDateMarker {
			t, err := time.Parse(isoDateLayout, v)
			if err != nil {
				return nil, &domain.SchemaError{Column: domain.ColOccurDate, Reason: "holds an uncoerced value"}
			}
			rec.OccurDate = domain.Some(t)
		}

		rec.PerpAgeGroup = optText(df.Col(domain.ColPerpAgeGroup).Elem(i).String())
		rec.PerpSex = optText(df.Col(domain.ColPerpSex).Elem(i).String())
		rec.PerpRace = optText(df.Col(domain.ColPerpRace).Elem(i).String())

		if v, err := df.Col(domain.ColJurisdictionCode).Elem(i).Int(); err == nil && v != domain.SentinelNumeric {
			rec.Jurisdiction = domain.Some(v)
		}
		rec.Latitude = optFloat(df.Col(domain.ColLatitude).Elem(i).Float())
		rec.Longitude = optFloat(df.Col(domain.ColLongitude).Elem(i).Float())

		incidents[i] = rec
	}

	return incidents, nil
}

func optText(v string) domain.Opt[string] {
	if v == domain.SentinelText {
		return domain.None[string]()
	}
	return domain.Some(v)
}

func optFloat(v float64) domain.Opt[float64] {
	if v == domain.SentinelNumeric {
		return domain.None[float64]()
	}
	return domain.Some(v)
}
