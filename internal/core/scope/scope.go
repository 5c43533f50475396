package scope

import "time"

// Scope identifies one conference venue/run. Read-only to this service: rows
// are maintained by operators directly.
type Scope struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Venue          string `json:"venue"`
	AdmissionLimit int    `json:"admission_limit"`
	AlertThreshold int    `json:"alert_threshold"`
	// GeoMode is "INCLUDE" or "EXCLUDE" and governs how GeoPrefixes filters
	// the geography picker. Consumed by the geography lookup collaborator,
	// never by admission logic.
	GeoMode     string     `json:"geo_mode"`
	GeoPrefixes []string   `json:"geo_prefixes"`
	Timezone    string     `json:"timezone"`
	StartsOn    *time.Time `json:"starts_on,omitempty"`
	EndsOn      *time.Time `json:"ends_on,omitempty"`
}
