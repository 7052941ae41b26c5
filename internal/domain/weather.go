package domain

// Location is a resolved place with coordinates.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone,omitempty"`
}

// WeatherReport is the cached daily forecast payload.
type WeatherReport struct {
	Location        Location `json:"location"`
	Date            string   `json:"date"`
	Summary         string   `json:"summary"`
	TempMaxC        float64  `json:"temp_max_c"`
	TempMinC        float64  `json:"temp_min_c"`
	PrecipitationMM float64  `json:"precipitation_mm"`
}

// WeatherResult is the service payload of weather.today.
type WeatherResult struct {
	WeatherReport
	Provider      string        `json:"provider"`
	FetchedAt     string        `json:"fetched_at"`
	Cache         CacheMetadata `json:"cache"`
	ProviderTrace []string      `json:"provider_trace"`
}

// RedactTrace returns a copy of r with every trace entry passed through redact.
func (r WeatherResult) RedactTrace(redact func(string) string) interface{} {
	r.ProviderTrace = redactEntries(r.ProviderTrace, redact)
	return r
}
