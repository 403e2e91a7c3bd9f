package csvparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BikeSharingFormat(t *testing.T) {
	data := `instant,dteday,season,hr,cnt
1,2011-01-01,1,0,16
2,2011-01-01,1,1,40
3,2011-01-01,1,8,32

4,2011-01-02,1,8,50
5,2011-01-02,1,1,10
`
	res, err := Parse(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"instant", "dteday", "season", "hr", "cnt"}, res.Columns)
	assert.Equal(t, 5, res.RowsReceived, "blank lines are not counted")
	assert.Equal(t, 5, res.RowsUsed)
	assert.Equal(t, 0, res.InvalidRows)
	assert.Equal(t, 148, res.TotalDemand)
	assert.Equal(t, map[string]int{"0": 16, "1": 50, "8": 82}, res.HourlyDemand)
	assert.Equal(t, map[string]int{"2011-01-01": 88, "2011-01-02": 60}, res.DailyDemand)
	assert.Equal(t, &PeakHour{Hour: 8, Demand: 82}, res.PeakHour)
	assert.Equal(t, &PeakDay{Date: "2011-01-01", Demand: 88}, res.PeakDay)
}

func TestParse_InvalidRows(t *testing.T) {
	data := `Date,Hour,Count
2024-05-01,7,10
2024-05-01,24,10
2024-05-01,x,10
2024-05-01,7,-3
2024-05-01,7,
not-a-date,7,10
2024-05-01,7
2024-05-01,7,12.9
`
	res, err := Parse(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 8, res.RowsReceived)
	assert.Equal(t, 2, res.RowsUsed)
	assert.Equal(t, 6, res.InvalidRows)
	assert.Equal(t, 22, res.TotalDemand, "fractional demand is rounded down")
	assert.Equal(t, map[string]int{"7": 22}, res.HourlyDemand)
}

func TestParse_WhitespaceLines(t *testing.T) {
	res, err := Parse(strings.NewReader("hr,cnt\n1,10\n   \n\t\n2,20\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, res.RowsReceived)
	assert.Equal(t, 0, res.InvalidRows)
	assert.Equal(t, 30, res.TotalDemand)
}

func TestParse_HourFromDatetime(t *testing.T) {
	data := `datetime,count
2012-12-19 17:00:00,400
2012-12-19 18:00:00,350
2012-12-20T17:30:00Z,100
`
	res, err := Parse(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"17": 500, "18": 350}, res.HourlyDemand)
	assert.Equal(t, map[string]int{"2012-12-19": 750, "2012-12-20": 100}, res.DailyDemand)
	assert.Equal(t, 17, res.PeakHour.Hour)
}

func TestParse_Ties(t *testing.T) {
	data := `date,hour,demand
2024-01-02,9,10
2024-01-01,3,10
`
	res, err := Parse(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 3, res.PeakHour.Hour, "lowest hour wins")
	assert.Equal(t, "2024-01-01", res.PeakDay.Date, "earliest date wins")
}

func TestParse_DemandOnly(t *testing.T) {
	res, err := Parse(strings.NewReader("rentals\n5\n7\n"))
	require.NoError(t, err)

	assert.Equal(t, 12, res.TotalDemand)
	assert.Empty(t, res.HourlyDemand)
	assert.Empty(t, res.DailyDemand)
	assert.Nil(t, res.PeakHour)
	assert.Nil(t, res.PeakDay)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = Parse(strings.NewReader("date,hour,temp\n2024-01-01,1,20\n"))
	assert.ErrorIs(t, err, ErrMissingDemandColumn)

	res, err := Parse(strings.NewReader("cnt\nabc\n"))
	assert.ErrorIs(t, err, ErrNoValidRows)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.RowsReceived)
	assert.Equal(t, 1, res.InvalidRows)

	res, err = Parse(strings.NewReader("cnt\n"))
	assert.ErrorIs(t, err, ErrNoValidRows)
	assert.Equal(t, 0, res.RowsReceived)
}

func TestParse_ByteOrderMark(t *testing.T) {
	res, err := Parse(strings.NewReader("\ufeffcnt,hr\n4,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "cnt", res.Columns[0])
	assert.Equal(t, 4, res.TotalDemand)
}

func TestParseDaily_Sample(t *testing.T) {
	series, err := ParseDaily(strings.NewReader(string(SampleDailyCSV())))
	require.NoError(t, err)

	require.Len(t, series.Points, 5)
	assert.Equal(t, DailyPoint{Date: "2026-01-01", Demand: 1250}, series.Points[0])
	assert.Equal(t, 6470, series.Total)
	assert.Equal(t, 1294, series.Average)
	assert.Equal(t, "2026-01-05", series.PeakDate)
	assert.Equal(t, 1670, series.MaxDemand)
}

func TestParseDaily_SkipsBadRows(t *testing.T) {
	data := "date,demand\n2026-02-01,100\n,50\n2026-02-02,abc\n2026-02-03\n2026-02-04,300\n"
	series, err := ParseDaily(strings.NewReader(data))
	require.NoError(t, err)

	assert.Len(t, series.Points, 2)
	assert.Equal(t, 400, series.Total)
	assert.Equal(t, 200, series.Average)
	assert.Equal(t, "2026-02-04", series.PeakDate)
}

func TestParseDaily_LeadingInteger(t *testing.T) {
	data := "date,demand\n2026-01-01,1250.5\n2026-01-02,980\n2026-01-03,700abc\n2026-01-04,\n2026-01-05,x12\n"
	series, err := ParseDaily(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []DailyPoint{
		{Date: "2026-01-01", Demand: 1250},
		{Date: "2026-01-02", Demand: 980},
		{Date: "2026-01-03", Demand: 700},
		{Date: "2026-01-04", Demand: 0},
	}, series.Points)
	assert.Equal(t, 2930, series.Total)
	assert.Equal(t, "2026-01-01", series.PeakDate)
}

func TestParseDaily_StrayQuotesAndBlankLines(t *testing.T) {
	data := "  \ndate,demand\n2026-01-01,100\n2026-01-02,12\"5\n\t\n2026-01-03,300\n"
	series, err := ParseDaily(strings.NewReader(data))
	require.NoError(t, err)

	require.Len(t, series.Points, 3)
	assert.Equal(t, DailyPoint{Date: "2026-01-02", Demand: 12}, series.Points[1])
	assert.Equal(t, 412, series.Total)
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"42", 42, true},
		{"42.9", 42, true},
		{"+7px", 7, true},
		{"-3", -3, true},
		{"abc", 0, false},
		{"-", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := leadingInt(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDaily_Empty(t *testing.T) {
	series, err := ParseDaily(strings.NewReader("date,demand\n"))
	require.NoError(t, err)
	assert.Empty(t, series.Points)
	assert.Zero(t, series.Total)
	assert.Zero(t, series.Average)
	assert.Empty(t, series.PeakDate)
}
