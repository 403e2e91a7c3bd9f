package forecast

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrUnknownSeason  = errors.New("unknown season")
	ErrUnknownWeather = errors.New("unknown weather")
	ErrUnknownMonth   = errors.New("unknown month")
	ErrOutOfRange     = errors.New("parameter out of range")
)

// Season of the year.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// Weather condition.
type Weather string

const (
	WeatherClear     Weather = "clear"
	WeatherCloudy    Weather = "cloudy"
	WeatherRainy     Weather = "rainy"
	WeatherHeavyRain Weather = "heavyRain"
)

var seasonWeights = map[Season]float64{
	SeasonSpring: 1.1,
	SeasonSummer: 1.4,
	SeasonFall:   0.95,
	SeasonWinter: 0.75,
}

var weatherWeights = map[Weather]float64{
	WeatherClear:     1.25,
	WeatherCloudy:    1.0,
	WeatherRainy:     0.65,
	WeatherHeavyRain: 0.35,
}

// Months offered by the daily form.
var Months = []string{"january", "june", "december"}

// ForecastDays offered by the daily form.
var ForecastDays = []int{7, 14, 30}

// ParseSeason converts a form value into a Season.
func ParseSeason(s string) (Season, error) {
	season := Season(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := seasonWeights[season]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSeason, s)
	}
	return season, nil
}

// ParseWeather converts a form value into a Weather. The match is case-insensitive.
func ParseWeather(s string) (Weather, error) {
	trimmed := strings.TrimSpace(s)
	for w := range weatherWeights {
		if strings.EqualFold(string(w), trimmed) {
			return w, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownWeather, s)
}

// HourlyParams are the inputs of the hourly manual forecast.
type HourlyParams struct {
	Season      Season  `json:"season"`
	Weather     Weather `json:"weather"`
	WorkingDay  bool    `json:"workingDay"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
}

// DefaultHourlyParams returns the values the hourly form starts with.
func DefaultHourlyParams() HourlyParams {
	return HourlyParams{
		Season:      SeasonSpring,
		Weather:     WeatherClear,
		WorkingDay:  true,
		Temperature: 22,
		Humidity:    60,
		WindSpeed:   10,
	}
}

// Validate checks the parameters against the ranges of the form sliders.
func (p HourlyParams) Validate() error {
	if _, ok := seasonWeights[p.Season]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSeason, p.Season)
	}
	if _, ok := weatherWeights[p.Weather]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWeather, p.Weather)
	}
	if err := inRange("temperature", p.Temperature, 10, 40); err != nil {
		return err
	}
	if err := inRange("humidity", p.Humidity, 20, 90); err != nil {
		return err
	}
	return inRange("windSpeed", p.WindSpeed, 0, 30)
}

// DailyParams are the inputs of the daily manual forecast.
type DailyParams struct {
	Month        string  `json:"month"`
	Season       Season  `json:"season"`
	Temperature  float64 `json:"temperature"`
	ForecastDays int     `json:"forecastDays"`
}

// DefaultDailyParams returns the values the daily form starts with.
func DefaultDailyParams() DailyParams {
	return DailyParams{
		Month:        "june",
		Season:       SeasonSummer,
		Temperature:  25,
		ForecastDays: 7,
	}
}

// Validate checks the parameters against the options of the daily form.
func (p DailyParams) Validate() error {
	if !lo.Contains(Months, p.Month) {
		return fmt.Errorf("%w: %q", ErrUnknownMonth, p.Month)
	}
	if _, ok := seasonWeights[p.Season]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSeason, p.Season)
	}
	if err := inRange("temperature", p.Temperature, 10, 40); err != nil {
		return err
	}
	if !lo.Contains(ForecastDays, p.ForecastDays) {
		return fmt.Errorf("%w: forecastDays must be one of %v", ErrOutOfRange, ForecastDays)
	}
	return nil
}

func inRange(name string, v, low, high float64) error {
	if v < low || v > high {
		return fmt.Errorf("%w: %s must be between %g and %g", ErrOutOfRange, name, low, high)
	}
	return nil
}
