package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/ridewise/ridewise/internal/api/models"
	"github.com/ridewise/ridewise/internal/csvparse"
	"github.com/ridewise/ridewise/internal/forecast"
)

// uploadFormField is the multipart field holding the CSV file.
const uploadFormField = "file"

// ForecastDefaults returns the initial form values and the allowed options.
func (h *Handler) ForecastDefaults(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"hourly":       forecast.DefaultHourlyParams(),
		"daily":        forecast.DefaultDailyParams(),
		"months":       forecast.Months,
		"forecastDays": forecast.ForecastDays,
	})
}

// HourlyForecast computes the 24 hour forecast of the slider form.
func (h *Handler) HourlyForecast(c *gin.Context) {
	params := forecast.DefaultHourlyParams()
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	var err error
	if params.Season, err = forecast.ParseSeason(string(params.Season)); err == nil {
		params.Weather, err = forecast.ParseWeather(string(params.Weather))
	}
	if err == nil {
		err = params.Validate()
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	series := forecast.Hourly(params)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"params":   params,
		"series":   series,
		"insights": forecast.Insights(params, series),
	})
}

// DailyForecast computes the multi-day forecast of the daily form.
func (h *Handler) DailyForecast(c *gin.Context) {
	params := forecast.DefaultDailyParams()
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	params.Month = strings.ToLower(strings.TrimSpace(params.Month))

	season, err := forecast.ParseSeason(string(params.Season))
	if err == nil {
		params.Season = season
		err = params.Validate()
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"params":  params,
		"series":  forecast.Daily(params),
	})
}

// DailyCSVForecast summarises an uploaded date,demand file.
func (h *Handler) DailyCSVForecast(c *gin.Context) {
	file, header, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	series, err := csvparse.ParseDaily(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	log.Debug("Parsed daily CSV", "file", header.Filename, "points", len(series.Points))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"series":  series,
	})
}

// SampleDailyCSV serves the demo file of the daily upload page.
func (h *Handler) SampleDailyCSV(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="sample_daily.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", csvparse.SampleDailyCSV())
}

// ParseCSV summarises an uploaded rental CSV. Anonymous uploads are allowed.
// Uploads of signed in users are recorded in their history.
func (h *Handler) ParseCSV(c *gin.Context) {
	file, header, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := csvparse.Parse(file)
	if err != nil {
		if errors.Is(err, csvparse.ErrNoValidRows) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error":   err.Error(),
				"result":  result,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	user := h.currentDBUser(c)
	latest, err := h.engine.RecordUpload(c.Request.Context(), user, header.Filename, header.Size, result)
	if err != nil {
		log.Error("Failed to record upload", "file", header.Filename, "error", err)
	} else {
		c.Header("X-Upload-ID", latest.UploadID)
	}

	log.Info("Parsed CSV upload",
		"file", header.Filename,
		"rows", result.RowsReceived,
		"invalid", result.InvalidRows,
		"total", result.TotalDemand,
	)
	c.JSON(http.StatusOK, result)
}

// openUpload enforces the size limit and the .csv extension and opens the uploaded file.
// On failure the error response has been written.
func (h *Handler) openUpload(c *gin.Context) (multipart.File, *multipart.FileHeader, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.CSV.MaxUploadBytes)

	header, err := c.FormFile(uploadFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error":   "File is too large",
			})
			return nil, nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file uploaded"})
		return nil, nil, false
	}

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Only CSV files are supported"})
		return nil, nil, false
	}

	file, err := header.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", "file", header.Filename, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to read uploaded file"})
		return nil, nil, false
	}
	return file, header, true
}

// Uploads returns the stored upload history of the current user.
func (h *Handler) Uploads(c *gin.Context) {
	user, ok := h.requireDBUser(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}

	uploads, err := h.engine.Uploads(c.Request.Context(), user, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get uploads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"uploads": models.ToUploadSummaries(uploads, time.Now()),
	})
}

// LatestUpload returns the full result of the last CSV the user parsed.
func (h *Handler) LatestUpload(c *gin.Context) {
	user, ok := h.requireDBUser(c)
	if !ok {
		return
	}

	latest, found := h.engine.LatestUpload(c.Request.Context(), user)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No upload found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"upload":  latest,
	})
}
