// Package domain models NYPD shooting incident data.
//
// # Data Source
//
// Incident records come from the NYPD Shooting Incident Data (Historic)
// dataset published on NYC Open Data. The dataset is a single CSV export,
// one row per reported shooting incident, refreshed by the city; this
// program downloads it in full on every run and never persists it.
//
// # Dataset Conventions
//
// Dates and times:
//
//	OCCUR_DATE is MM/DD/YYYY text, e.g. "08/27/2019".
//	OCCUR_TIME is HH:MM:SS text and is kept as-is.
//
// Missing values:
//
//	The export is inconsistent about missingness: some cells are empty,
//	some hold the literal "(null)", and a few hold "NA". All of these are
//	normalized to an explicit missing marker at parse time, before any
//	cleaning decision is made.
//
// Sentinel substitutions applied by the cleaner:
//
//	PERP_AGE_GROUP, PERP_SEX, PERP_RACE: missing → the literal text "N/A".
//	JURISDICTION_CODE, Latitude, Longitude: missing → the number -9999.
//
//	These are the only two sanctioned substitutions; every other column in
//	the export is always populated.
//
// Dropped columns:
//
//	LOC_OF_OCCUR_DESC, LOC_CLASSFCTN_DESC, LOCATION_DESC and Lon_Lat are
//	location descriptors with no analytical use here and are removed during
//	cleaning. Their absence from the download is a schema error, not
//	something to paper over.
//
// # Column Contract
//
// The upstream header names in [Columns] are an external contract with the
// NYC Open Data export. They are matched exactly, including the mixed casing
// of Latitude/Longitude/Lon_Lat.
package domain
