package main

import (
	"context"
	"net/http"
	"time"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	DevMode   bool              `json:"dev_mode"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

// healthcheckHandler godoc
//
//	@Summary		Healthcheck
//	@Description	Reports storage and broker reachability. Spreadsheet imports are reported as enabled or disabled and never fail the check
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		DevMode:   app.config.devMode,
		Version:   version,
		Services: map[string]string{
			"database":     "ok",
			"queue":        "ok",
			"spreadsheets": "enabled",
		},
	}

	if err := app.storage.Ping(ctx); err != nil {
		app.logger.Warnw("database ping failed", "error", err)
		response.Services["database"] = "error"
		response.Status = "unhealthy"
	}
	if err := app.broker.Ping(); err != nil {
		app.logger.Warnw("broker ping failed", "error", err)
		response.Services["queue"] = "error"
		response.Status = "unhealthy"
	}
	if !app.importing.Enabled() {
		response.Services["spreadsheets"] = "disabled"
	}

	status := http.StatusOK
	if response.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	if err := writeJson(w, status, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
