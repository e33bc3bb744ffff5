package main

import (
	"net/http"

	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/notify"
	"github.com/go-chi/chi"
)

type NotifyRequest struct {
	Event   string `json:"event"`
	Subject string `json:"subject" validate:"required,max=200"`
	Body    string `json:"body" validate:"max=4000"`
}

// listIntegrationSettingsHandler godoc
//
//	@Summary		List notification integrations
//	@Tags			integrations
//	@Produce		json
//	@Success		200	{array}		domain.IntegrationSetting
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/integrations/settings [get]
func (app *application) listIntegrationSettingsHandler(w http.ResponseWriter, r *http.Request) {
	settings, err := app.notifications.Settings(r.Context(), ownerID(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, settings); err != nil {
		app.internalServerError(w, r, err)
	}
}

// saveIntegrationSettingHandler godoc
//
//	@Summary		Save notification integration
//	@Description	Creates the integration of a kind or replaces the existing one
//	@Tags			integrations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		domain.IntegrationSetting	true	"Integration setting"
//	@Success		200		{object}	domain.IntegrationSetting
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/integrations/settings [post]
func (app *application) saveIntegrationSettingHandler(w http.ResponseWriter, r *http.Request) {
	var setting domain.IntegrationSetting
	if err := readJson(w, r, &setting); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	setting.Meta = domain.Meta{}

	saved, err := app.notifications.SaveSetting(r.Context(), ownerID(r), &setting)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, saved); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteIntegrationSettingHandler godoc
//
//	@Summary		Delete notification integration
//	@Tags			integrations
//	@Param			id	path	string	true	"Integration setting ID"
//	@Success		204
//	@Failure		404	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/integrations/settings/{id} [delete]
func (app *application) deleteIntegrationSettingHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.notifications.DeleteSetting(r.Context(), ownerID(r), chi.URLParam(r, "id")); err != nil {
		app.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// testIntegrationHandler godoc
//
//	@Summary		Test notification integration
//	@Description	Sends a test message over the given channel without saving it
//	@Tags			integrations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		domain.IntegrationSetting	true	"Integration to test"
//	@Success		200		{object}	notify.Result
//	@Failure		400		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/integrations/test [post]
func (app *application) testIntegrationHandler(w http.ResponseWriter, r *http.Request) {
	var setting domain.IntegrationSetting
	if err := readJson(w, r, &setting); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cfg, err := notify.ConfigFromSetting(setting)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result := app.notifications.Test(r.Context(), cfg)

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// sendNotificationHandler godoc
//
//	@Summary		Send notification
//	@Description	Queues a message for every enabled integration
//	@Tags			integrations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		NotifyRequest	true	"Message"
//	@Success		202		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/integrations/notify [post]
func (app *application) sendNotificationHandler(w http.ResponseWriter, r *http.Request) {
	var req NotifyRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	event := req.Event
	if event == "" {
		event = domain.EventCustom
	}

	if err := app.notifications.Notify(r.Context(), ownerID(r), event, req.Subject, req.Body); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "Notification queued",
	}

	if err := app.jsonResponse(w, http.StatusAccepted, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
