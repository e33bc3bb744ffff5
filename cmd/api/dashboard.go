package main

import (
	"net/http"
)

// dashboardHandler godoc
//
//	@Summary		Dashboard
//	@Description	Inventory, menu costing and sales summaries of the current user
//	@Tags			dashboard
//	@Produce		json
//	@Success		200	{object}	analytics.Dashboard
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/dashboard [get]
func (app *application) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	dashboard, err := app.analytics.Dashboard(r.Context(), ownerID(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, dashboard); err != nil {
		app.internalServerError(w, r, err)
	}
}

// cacheStatsHandler godoc
//
//	@Summary		Cache stats
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	cache.Stats
//	@Security		ApiKeyAuth
//	@Router			/cache/stats [get]
func (app *application) cacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, app.cache.Stats()); err != nil {
		app.internalServerError(w, r, err)
	}
}

// clearCacheHandler godoc
//
//	@Summary		Clear pricing cache
//	@Description	Evicts cached supplier quotes, of one supplier when supplier_id is given
//	@Tags			ops
//	@Produce		json
//	@Param			supplier_id	query		string	false	"Supplier ID"
//	@Success		200			{object}	map[string]int
//	@Security		ApiKeyAuth
//	@Router			/cache [delete]
func (app *application) clearCacheHandler(w http.ResponseWriter, r *http.Request) {
	cleared := app.ordering.ClearPricingCache(r.URL.Query().Get("supplier_id"))

	if err := app.jsonResponse(w, http.StatusOK, map[string]int{"cleared": cleared}); err != nil {
		app.internalServerError(w, r, err)
	}
}
