package weather

import "strings"

// wmoSummaries covers the WMO weather interpretation codes Open-Meteo emits.
var wmoSummaries = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Drizzle",
	55: "Dense drizzle",
	56: "Freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Rain",
	65: "Heavy rain",
	66: "Freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow",
	73: "Snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Rain showers",
	82: "Violent rain showers",
	85: "Snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with hail",
	99: "Thunderstorm with heavy hail",
}

// SummaryForCode describes a WMO weather code.
func SummaryForCode(code int) string {
	if s, ok := wmoSummaries[code]; ok {
		return s
	}
	return "Unknown"
}

// metSymbols spells out MET Norway symbol stems that are not plain words.
var metSymbols = map[string]string{
	"clearsky":     "Clear sky",
	"fair":         "Fair",
	"partlycloudy": "Partly cloudy",
	"cloudy":       "Cloudy",
	"fog":          "Fog",
	"lightrain":    "Light rain",
	"rain":         "Rain",
	"heavyrain":    "Heavy rain",
	"lightsnow":    "Light snow",
	"snow":         "Snow",
	"heavysnow":    "Heavy snow",
	"sleet":        "Sleet",
}

var metSuffixes = []struct{ stem, text string }{
	{"andthunder", " and thunder"},
	{"showers", " showers"},
}

// SummaryForSymbol turns a MET Norway symbol_code such as
// "lightrainshowers_day" into readable text.
func SummaryForSymbol(symbol string) string {
	stem, _, _ := strings.Cut(symbol, "_")
	if stem == "" {
		return "Unknown"
	}
	if s, ok := metSymbols[stem]; ok {
		return s
	}
	for _, suffix := range metSuffixes {
		if strings.HasSuffix(stem, suffix.stem) {
			base := SummaryForSymbol(strings.TrimSuffix(stem, suffix.stem))
			if base != "Unknown" {
				return base + suffix.text
			}
		}
	}
	return strings.ToUpper(stem[:1]) + stem[1:]
}
