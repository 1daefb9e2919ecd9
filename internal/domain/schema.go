package domain

// Upstream CSV column names. These match the NYC Open Data export exactly
// and must not be renamed; they are the contract with the source dataset.
const (
	ColIncidentKey      = "INCIDENT_KEY"
	ColOccurDate        = "OCCUR_DATE"
	ColOccurTime        = "OCCUR_TIME"
	ColBorough          = "BORO"
	ColLocOfOccurDesc   = "LOC_OF_OCCUR_DESC"
	ColPrecinct         = "PRECINCT"
	ColJurisdictionCode = "JURISDICTION_CODE"
	ColLocClassfctnDesc = "LOC_CLASSFCTN_DESC"
	ColLocationDesc     = "LOCATION_DESC"
	ColMurderFlag       = "STATISTICAL_MURDER_FLAG"
	ColPerpAgeGroup     = "PERP_AGE_GROUP"
	ColPerpSex          = "PERP_SEX"
	ColPerpRace         = "PERP_RACE"
	ColVicAgeGroup      = "VIC_AGE_GROUP"
	ColVicSex           = "VIC_SEX"
	ColVicRace          = "VIC_RACE"
	ColLatitude         = "Latitude"
	ColLongitude        = "Longitude"
	ColLonLat           = "Lon_Lat"
)

// Columns is the full expected header set, in upstream order.
var Columns = []string{
	ColIncidentKey,
	ColOccurDate,
	ColOccurTime,
	ColBorough,
	ColLocOfOccurDesc,
	ColPrecinct,
	ColJurisdictionCode,
	ColLocClassfctnDesc,
	ColLocationDesc,
	ColMurderFlag,
	ColPerpAgeGroup,
	ColPerpSex,
	ColPerpRace,
	ColVicAgeGroup,
	ColVicSex,
	ColVicRace,
	ColLatitude,
	ColLongitude,
	ColLonLat,
}

// DroppedColumns are the location descriptors removed by the cleaner.
var DroppedColumns = []string{
	ColLocOfOccurDesc,
	ColLocClassfctnDesc,
	ColLocationDesc,
	ColLonLat,
}

// Sentinel values substituted for missing cells by the cleaner.
const (
	SentinelText    = "N/A"
	SentinelNumeric = -9999
)

// DateLayout is the OCCUR_DATE format in the upstream export.
const DateLayout = "01/02/2006"

// NoDateMarker is the explicit marker stored in the cleaned table for an
// OCCUR_DATE value that did not parse as MM/DD/YYYY.
const NoDateMarker = "NO_DATE"
