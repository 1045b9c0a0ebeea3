package narramd

import (
	"regexp"
	"strconv"
)

var (
	reMagnitude = regexp.MustCompile(`(?i)\bM\s*(\d+(?:\.\d+)?)`)
	reDepthKm   = regexp.MustCompile(`(?i)(\d+)\s*km\s+depth`)
)

// Stats holds the optional numbers a display widget can pull out of a
// narrative: a magnitude ("M 5.4") and a depth ("12 km depth"). A nil field
// means the narrative did not mention that value.
type Stats struct {
	Magnitude *float64 `json:"magnitude,omitempty"`
	DepthKm   *int     `json:"depth_km,omitempty"`
}

// ExtractStats pulls the first magnitude and depth mention out of narrative
// text. It is informational only and independent of the normalization
// pipeline.
func ExtractStats(text string) Stats {
	var s Stats
	if m := reMagnitude.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			s.Magnitude = &v
		}
	}
	if m := reDepthKm.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			s.DepthKm = &v
		}
	}
	return s
}
