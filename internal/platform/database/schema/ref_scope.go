package schema

// RefScopeTable represents the 'ref.scope' table
type RefScopeTable struct {
	Table          string
	Code           string
	Name           string
	Venue          string
	AdmissionLimit string
	AlertThreshold string
	GeoMode        string
	GeoPrefixes    string
	Timezone       string
	StartsOn       string
	EndsOn         string
}

// RefScope is the schema definition for ref.scope
var RefScope = RefScopeTable{
	Table:          "ref.scope",
	Code:           "code",
	Name:           "name",
	Venue:          "venue",
	AdmissionLimit: "admissionlimit",
	AlertThreshold: "alertthreshold",
	GeoMode:        "geomode",
	GeoPrefixes:    "geoprefixes",
	Timezone:       "timezone",
	StartsOn:       "startson",
	EndsOn:         "endson",
}

func (t RefScopeTable) Columns() []string {
	return []string{
		t.Code, t.Name, t.Venue, t.AdmissionLimit, t.AlertThreshold,
		t.GeoMode, t.GeoPrefixes, t.Timezone, t.StartsOn, t.EndsOn,
	}
}
