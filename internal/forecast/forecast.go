// Package forecast implements the demand formulas behind the manual hourly and daily predictions.
package forecast

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// MinHourlyDemand is the floor applied to every hourly value.
const MinHourlyDemand = 5

// Point is a single labelled value of a forecast series.
type Point struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Series is a forecast together with its summary values.
type Series struct {
	Points  []Point `json:"points"`
	Peak    Point   `json:"peak"`
	Total   int     `json:"total"`
	Average int     `json:"average"`
}

// HourlyDemand returns the predicted rentals for the given hour of the day.
func HourlyDemand(hour int, p HourlyParams) int {
	base := 80 + p.Temperature
	base *= seasonWeights[p.Season]
	base *= weatherWeights[p.Weather]
	base *= 1 - (p.Humidity-40)*0.005
	base *= 1 - p.WindSpeed*0.015

	if p.WorkingDay {
		if hour == 8 || hour == 18 {
			base *= 2.3
		}
		if (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19) {
			base *= 1.6
		}
	} else if hour == 12 || hour == 16 {
		base *= 2.1
	}

	return max(MinHourlyDemand, int(math.Round(base)))
}

// Hourly returns the 24 hour forecast for the given parameters.
func Hourly(p HourlyParams) Series {
	points := make([]Point, 24)
	for hour := range points {
		points[hour] = Point{
			Label: fmt.Sprintf("%02d:00", hour),
			Value: HourlyDemand(hour, p),
		}
	}
	return summarize(points)
}

// Daily returns the multi-day forecast for the given parameters.
func Daily(p DailyParams) Series {
	points := make([]Point, p.ForecastDays)
	for i := range points {
		points[i] = Point{
			Label: fmt.Sprintf("Day %d", i+1),
			Value: int(math.Round(1200 + p.Temperature*40 + float64(i)*80)),
		}
	}
	return summarize(points)
}

func summarize(points []Point) Series {
	s := Series{Points: points}
	if len(points) == 0 {
		return s
	}
	// MaxBy keeps the first maximum on ties.
	s.Peak = lo.MaxBy(points, func(a, b Point) bool {
		return a.Value > b.Value
	})
	s.Total = lo.SumBy(points, func(p Point) int {
		return p.Value
	})
	s.Average = int(math.Round(float64(s.Total) / float64(len(points))))
	return s
}
