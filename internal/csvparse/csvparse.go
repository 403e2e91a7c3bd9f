// Package csvparse summarises uploaded rental CSV files into hourly and daily demand.
package csvparse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/samber/lo"
)

var (
	ErrEmptyFile           = errors.New("csv file is empty")
	ErrMalformed           = errors.New("malformed csv")
	ErrMissingDemandColumn = errors.New("no demand column found (expected one of cnt, count, demand, rentals, total)")
	ErrNoValidRows         = errors.New("no valid rows found")
)

// Candidate header names, first match wins.
var (
	demandColumns = []string{"cnt", "count", "demand", "rentals", "total"}
	dateColumns   = []string{"dteday", "date", "day", "datetime", "timestamp"}
	hourColumns   = []string{"hr", "hour"}
)

// DateFormat is the layout daily demand keys are normalised to.
const DateFormat = "2006-01-02"

var dateOnlyLayouts = []string{DateFormat, "2006/01/02"}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// PeakHour is the hour of the day with the most rentals.
type PeakHour struct {
	Hour   int `json:"hour"`
	Demand int `json:"demand"`
}

// PeakDay is the date with the most rentals.
type PeakDay struct {
	Date   string `json:"date"`
	Demand int    `json:"demand"`
}

// Result is the summary of a parsed upload.
type Result struct {
	Columns      []string       `json:"columns"`
	RowsReceived int            `json:"rows_received"`
	RowsUsed     int            `json:"rows_used"`
	InvalidRows  int            `json:"invalid_rows"`
	TotalDemand  int            `json:"total_demand"`
	HourlyDemand map[string]int `json:"hourly_demand"`
	DailyDemand  map[string]int `json:"daily_demand"`
	PeakHour     *PeakHour      `json:"peak_hour"`
	PeakDay      *PeakDay       `json:"peak_day"`
}

// isBlankRecord reports whether a line held nothing but whitespace.
func isBlankRecord(record []string) bool {
	return len(record) == 1 && strings.TrimSpace(record[0]) == ""
}

type columns struct {
	demand int
	date   int
	hour   int
}

// Parse reads a CSV with a header row and aggregates the demand column by hour and by day.
// When no row is usable the partial result is returned together with ErrNoValidRows.
func Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cols := detectColumns(header)
	if cols.demand < 0 {
		return nil, ErrMissingDemandColumn
	}

	res := &Result{
		Columns:      header,
		HourlyDemand: make(map[string]int),
		DailyDemand:  make(map[string]int),
	}
	hourly := make(map[int]int)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if isBlankRecord(record) {
			continue
		}
		res.RowsReceived++
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				res.InvalidRows++
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		demand, hour, date, ok := parseRow(record, cols)
		if !ok {
			res.InvalidRows++
			continue
		}

		res.RowsUsed++
		res.TotalDemand += demand
		if hour >= 0 {
			hourly[hour] += demand
		}
		if date != "" {
			res.DailyDemand[date] += demand
		}
	}

	for hour, demand := range hourly {
		res.HourlyDemand[strconv.Itoa(hour)] = demand
	}
	res.PeakHour = peakHour(hourly)
	res.PeakDay = peakDay(res.DailyDemand)

	if res.RowsUsed == 0 {
		return res, ErrNoValidRows
	}
	return res, nil
}

func detectColumns(header []string) columns {
	normalized := lo.Map(header, func(h string, _ int) string {
		return strings.ToLower(strings.TrimSpace(h))
	})
	find := func(candidates []string) int {
		for _, c := range candidates {
			if i := lo.IndexOf(normalized, c); i >= 0 {
				return i
			}
		}
		return -1
	}
	return columns{
		demand: find(demandColumns),
		date:   find(dateColumns),
		hour:   find(hourColumns),
	}
}

// parseRow returns the demand, the hour (-1 if unknown) and the normalised date ("" if unknown).
func parseRow(record []string, cols columns) (int, int, string, bool) {
	demand, ok := parseDemand(record[cols.demand])
	if !ok {
		return 0, 0, "", false
	}

	hour := -1
	if cols.hour >= 0 {
		if v := strings.TrimSpace(record[cols.hour]); v != "" {
			h, err := strconv.Atoi(v)
			if err != nil || h < 0 || h > 23 {
				return 0, 0, "", false
			}
			hour = h
		}
	}

	var date string
	if cols.date >= 0 {
		if v := strings.TrimSpace(record[cols.date]); v != "" {
			t, hasTime, err := parseDate(v)
			if err != nil {
				return 0, 0, "", false
			}
			date = t.Format(DateFormat)
			if hour < 0 && cols.hour < 0 && hasTime {
				hour = t.Hour()
			}
		}
	}

	return demand, hour, date, true
}

func parseDemand(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	demand, err := safecast.Convert[int](math.Floor(f))
	if err != nil {
		return 0, false
	}
	return demand, true
}

func parseDate(v string) (time.Time, bool, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true, nil
		}
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unsupported date %q", v)
}

func peakHour(hourly map[int]int) *PeakHour {
	var peak *PeakHour
	for hour := range 24 {
		demand, ok := hourly[hour]
		if !ok {
			continue
		}
		if peak == nil || demand > peak.Demand {
			peak = &PeakHour{Hour: hour, Demand: demand}
		}
	}
	return peak
}

func peakDay(daily map[string]int) *PeakDay {
	dates := lo.Keys(daily)
	sort.Strings(dates)

	var peak *PeakDay
	for _, date := range dates {
		if peak == nil || daily[date] > peak.Demand {
			peak = &PeakDay{Date: date, Demand: daily[date]}
		}
	}
	return peak
}
