package fleet

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mergestat/timediff"
)

// Evening peak window.
const (
	PeakStartHour = 17
	PeakEndHour   = 19
	// RushHourLead is how long before the peak the rush hour alert is raised.
	RushHourLead = 2 * time.Hour
)

// Metric is a dashboard card.
type Metric struct {
	Title    string `json:"title"`
	Value    string `json:"value"`
	Subtitle string `json:"subtitle"`
	Color    string `json:"color"`
}

// AlertType categorises an alert for display.
type AlertType string

const (
	AlertDemand  AlertType = "demand"
	AlertWarning AlertType = "warning"
	AlertTime    AlertType = "time"
)

// Alert is a live fleet alert.
type Alert struct {
	Type        AlertType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Value       string    `json:"value,omitempty"`
}

// Action is a dashboard shortcut.
type Action struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Href        string `json:"href"`
}

// Metrics returns the dashboard cards for the given snapshot.
func Metrics(stats Stats, now time.Time) []Metric {
	return []Metric{
		{
			Title:    "Active Bikes",
			Value:    humanize.Comma(int64(stats.Total)),
			Subtitle: "Currently on the road",
			Color:    "blue",
		},
		{
			Title:    "Demand Pressure",
			Value:    "High",
			Subtitle: "Index: 8.4 / 10",
			Color:    "orange",
		},
		{
			Title:    "Peak Window",
			Value:    "5–7 PM",
			Subtitle: peakWindowSubtitle(now),
			Color:    "green",
		},
		{
			Title:    "AI Confidence",
			Value:    "94.2%",
			Subtitle: "Model accuracy",
			Color:    "purple",
		},
	}
}

func peakStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), PeakStartHour, 0, 0, 0, now.Location())
}

func peakWindowSubtitle(now time.Time) string {
	start := peakStart(now)
	switch {
	case now.Before(start):
		return capitalize(timediff.TimeDiff(start, timediff.WithStartTime(now)))
	case now.Hour() < PeakEndHour:
		return "Happening now"
	default:
		return "Tomorrow"
	}
}

// Alerts returns the alerts for the current fleet state.
// A station at or below threshold bikes raises a low inventory alert.
func Alerts(stations []Station, threshold int, now time.Time) []Alert {
	alerts := []Alert{
		{
			Type:        AlertDemand,
			Title:       "Surge Zone Detected",
			Description: "Downtown demand is 40% above normal",
			Value:       "+40%",
		},
	}

	for _, st := range stations {
		if st.Bikes <= threshold {
			alerts = append(alerts, Alert{
				Type:        AlertWarning,
				Title:       "Low Inventory Alert",
				Description: fmt.Sprintf("Station %s critically low", st.Name),
				Value:       fmt.Sprintf("%d bikes", st.Bikes),
			})
		}
	}

	if isRushHourIncoming(now) {
		alerts = append(alerts, Alert{
			Type:        AlertTime,
			Title:       "Rush Hour Incoming",
			Description: "Evening peak begins " + timediff.TimeDiff(peakStart(now), timediff.WithStartTime(now)),
		})
	}

	return alerts
}

func isRushHourIncoming(now time.Time) bool {
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return false
	}
	start := peakStart(now)
	return now.Before(start) && start.Sub(now) <= RushHourLead
}

// Actions returns the dashboard shortcuts to the forecast pages.
func Actions() []Action {
	return []Action{
		{
			Title:       "Hourly Demand Prediction",
			Description: "AI-powered hourly analysis to identify peak periods and optimize bike distribution.",
			Href:        "/hourly",
		},
		{
			Title:       "Daily Demand Forecast",
			Description: "Multi-day forecasting for strategic fleet planning and resource allocation.",
			Href:        "/daily",
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
