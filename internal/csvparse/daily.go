package csvparse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const sampleDailyCSV = `date,demand,weather,temp,humidity
2026-01-01,1250,sunny,22,65
2026-01-02,980,rainy,18,80
2026-01-03,1450,sunny,25,55
2026-01-04,1120,cloudy,20,70
2026-01-05,1670,sunny,24,60
`

// DailyPoint is the demand of one day.
type DailyPoint struct {
	Date   string `json:"date"`
	Demand int    `json:"demand"`
}

// DailySeries is the summary of a date,demand file.
type DailySeries struct {
	Points    []DailyPoint `json:"points"`
	Total     int          `json:"total"`
	Average   int          `json:"average"`
	PeakDate  string       `json:"peakDate"`
	MaxDemand int          `json:"maxDemand"`
}

// SampleDailyCSV returns the demo file offered for download on the daily upload page.
func SampleDailyCSV() []byte {
	return []byte(sampleDailyCSV)
}

// ParseDaily reads a file whose first two columns are date and demand.
// The header row is skipped and unusable rows are dropped silently.
// Demand values keep their leading integer, so 1250.5 counts as 1250.
func ParseDaily(r io.Reader) (*DailySeries, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	series := &DailySeries{Points: []DailyPoint{}}

	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
		}
		if isBlankRecord(record) {
			continue
		}
		if header {
			header = false
			continue
		}
		if err != nil || len(record) < 2 {
			continue
		}

		date := strings.TrimSpace(record[0])
		value := strings.TrimSpace(record[1])
		if value == "" {
			value = "0"
		}
		demand, ok := leadingInt(value)
		if date == "" || !ok {
			continue
		}
		series.Points = append(series.Points, DailyPoint{Date: date, Demand: demand})
	}

	if len(series.Points) == 0 {
		return series, nil
	}

	series.Total = lo.SumBy(series.Points, func(p DailyPoint) int { return p.Demand })
	series.Average = int(math.Round(float64(series.Total) / float64(len(series.Points))))
	peak := lo.MaxBy(series.Points, func(a, b DailyPoint) bool { return a.Demand > b.Demand })
	series.PeakDate = peak.Date
	series.MaxDemand = peak.Demand

	return series, nil
}

// leadingInt parses the optionally signed run of digits at the start of s.
// It fails when s does not start with a digit after the sign.
func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && '0' <= s[end] && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
