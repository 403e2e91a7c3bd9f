package forecast

import "fmt"

// Insight is a titled hint shown next to a forecast chart.
type Insight struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Insights returns the peak alert and the recommendation for an hourly forecast.
func Insights(p HourlyParams, s Series) []Insight {
	pattern := "Weekend leisure"
	if p.WorkingDay {
		pattern = "Commuter rush"
	}
	return []Insight{
		{
			Type:  "peak",
			Title: "Peak Period Alert",
			Description: fmt.Sprintf("High demand expected at %s with ~%d predicted rentals. Weather: %s, Humidity: %g%%",
				s.Peak.Label, s.Peak.Value, p.Weather, p.Humidity),
		},
		{
			Type:  "tip",
			Title: "AI Recommendation",
			Description: fmt.Sprintf("Optimal conditions detected (%s, %s). %s patterns expected.",
				p.Season, p.Weather, pattern),
		},
	}
}
