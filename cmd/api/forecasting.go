package main

import (
	"errors"
	"net/http"

	"github.com/Beka01247/smart-stock/internal/analytics"
)

const maxUploadSize = 10 << 20 // 10mb

// uploadSalesCSVHandler godoc
//
//	@Summary		Upload sales CSV
//	@Description	Stores the sales rows of a CSV file (date, item, quantity, revenue columns) and summarizes them
//	@Tags			forecasting
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Sales CSV"
//	@Success		201		{object}	service.CSVImport
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/forecasting/upload-csv [post]
func (app *application) uploadSalesCSVHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("file is required"))
		return
	}
	defer file.Close()

	app.logger.Infow("sales csv uploaded", "filename", header.Filename, "size", header.Size)

	result, err := app.importing.ImportCSV(r.Context(), ownerID(r), file)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// forecastHandler godoc
//
//	@Summary		Sales forecast
//	@Description	Projects daily demand per item as the moving average of recent sales
//	@Tags			forecasting
//	@Produce		json
//	@Param			days	query		int	false	"Days to forecast"			default(7)
//	@Param			window	query		int	false	"Days of sales to average"	default(7)
//	@Success		200		{object}	analytics.Projection
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/forecasting/forecast [get]
func (app *application) forecastHandler(w http.ResponseWriter, r *http.Request) {
	days, err := boundedIntQuery(r, "days", analytics.DefaultForecastDays, analytics.MaxForecastDays)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	window, err := boundedIntQuery(r, "window", analytics.DefaultForecastWindow, analytics.MaxForecastDays)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	forecast, err := app.analytics.Forecast(r.Context(), ownerID(r), days, window)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, forecast); err != nil {
		app.internalServerError(w, r, err)
	}
}
