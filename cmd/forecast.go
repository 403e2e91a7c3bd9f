package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ridewise/ridewise/internal/forecast"
	"github.com/spf13/cobra"
)

var hourlyFlags struct {
	Season   string
	Weather  string
	Weekend  bool
	Temp     float64
	Humidity float64
	Wind     float64
}

var dailyFlags struct {
	Month  string
	Season string
	Temp   float64
	Days   int
}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Print a demand forecast without starting the server",
}

var forecastHourlyCmd = &cobra.Command{
	Use:     "hourly",
	Short:   "Print the 24 hour forecast",
	Example: `ridewise forecast hourly --season summer --weather rainy --weekend`,
	RunE: func(cmd *cobra.Command, args []string) error {
		season, err := forecast.ParseSeason(hourlyFlags.Season)
		if err != nil {
			return err
		}
		weather, err := forecast.ParseWeather(hourlyFlags.Weather)
		if err != nil {
			return err
		}
		params := forecast.HourlyParams{
			Season:      season,
			Weather:     weather,
			WorkingDay:  !hourlyFlags.Weekend,
			Temperature: hourlyFlags.Temp,
			Humidity:    hourlyFlags.Humidity,
			WindSpeed:   hourlyFlags.Wind,
		}
		if err := params.Validate(); err != nil {
			return err
		}

		series := forecast.Hourly(params)
		out := cmd.OutOrStdout()
		printSeries(out, series)
		for _, in := range forecast.Insights(params, series) {
			fmt.Fprintf(out, "\n%s\n  %s\n", in.Title, in.Description)
		}
		return nil
	},
}

var forecastDailyCmd = &cobra.Command{
	Use:     "daily",
	Short:   "Print the multi-day forecast",
	Example: `ridewise forecast daily --month december --season winter --days 14`,
	RunE: func(cmd *cobra.Command, args []string) error {
		season, err := forecast.ParseSeason(dailyFlags.Season)
		if err != nil {
			return err
		}
		params := forecast.DailyParams{
			Month:        strings.ToLower(dailyFlags.Month),
			Season:       season,
			Temperature:  dailyFlags.Temp,
			ForecastDays: dailyFlags.Days,
		}
		if err := params.Validate(); err != nil {
			return err
		}

		printSeries(cmd.OutOrStdout(), forecast.Daily(params))
		return nil
	},
}

// printSeries writes one bar per point, scaled to the peak.
func printSeries(w io.Writer, s forecast.Series) {
	const width = 40
	for _, p := range s.Points {
		bar := 0
		if s.Peak.Value > 0 {
			bar = p.Value * width / s.Peak.Value
		}
		fmt.Fprintf(w, "%-7s %7s %s\n", p.Label, humanize.Comma(int64(p.Value)), strings.Repeat("#", bar))
	}
	fmt.Fprintf(w, "\nPeak:    %s (%s rentals)\n", s.Peak.Label, humanize.Comma(int64(s.Peak.Value)))
	fmt.Fprintf(w, "Total:   %s\n", humanize.Comma(int64(s.Total)))
	fmt.Fprintf(w, "Average: %s\n", humanize.Comma(int64(s.Average)))
}

func init() {
	h := forecast.DefaultHourlyParams()
	forecastHourlyCmd.Flags().StringVar(&hourlyFlags.Season, "season", string(h.Season), "Season (spring, summer, fall, winter)")
	forecastHourlyCmd.Flags().StringVar(&hourlyFlags.Weather, "weather", string(h.Weather), "Weather (clear, cloudy, rainy, heavyRain)")
	forecastHourlyCmd.Flags().BoolVar(&hourlyFlags.Weekend, "weekend", !h.WorkingDay, "Forecast a non-working day")
	forecastHourlyCmd.Flags().Float64Var(&hourlyFlags.Temp, "temp", h.Temperature, "Temperature in °C (10-40)")
	forecastHourlyCmd.Flags().Float64Var(&hourlyFlags.Humidity, "humidity", h.Humidity, "Humidity in % (20-90)")
	forecastHourlyCmd.Flags().Float64Var(&hourlyFlags.Wind, "wind", h.WindSpeed, "Wind speed in km/h (0-30)")

	d := forecast.DefaultDailyParams()
	forecastDailyCmd.Flags().StringVar(&dailyFlags.Month, "month", d.Month, "Month (january, june, december)")
	forecastDailyCmd.Flags().StringVar(&dailyFlags.Season, "season", string(d.Season), "Season (spring, summer, fall, winter)")
	forecastDailyCmd.Flags().Float64Var(&dailyFlags.Temp, "temp", d.Temperature, "Temperature in °C (10-40)")
	forecastDailyCmd.Flags().IntVar(&dailyFlags.Days, "days", d.ForecastDays, "Number of days (7, 14, 30)")

	forecastCmd.AddCommand(forecastHourlyCmd, forecastDailyCmd)
	rootCmd.AddCommand(forecastCmd)
}
