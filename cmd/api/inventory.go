package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
)

type SetStockRequest struct {
	Stock  *float64 `json:"stock" validate:"required,gte=0"`
	Reason string   `json:"reason" validate:"max=100"`
}

// setStockHandler godoc
//
//	@Summary		Set current stock
//	@Description	Sets the current stock of an inventory item and records the change in its history
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Inventory item ID"
//	@Param			request	body		SetStockRequest	true	"New stock level"
//	@Success		200		{object}	domain.InventoryItem
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/inventory/{id}/stock [post]
func (app *application) setStockHandler(w http.ResponseWriter, r *http.Request) {
	var req SetStockRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	item, err := app.inventory.SetStock(r.Context(), ownerID(r), chi.URLParam(r, "id"), *req.Stock, req.Reason)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, item); err != nil {
		app.internalServerError(w, r, err)
	}
}

// stockHistoryHandler godoc
//
//	@Summary		Stock history
//	@Description	Stock changes of an inventory item, newest first
//	@Tags			inventory
//	@Produce		json
//	@Param			id		path		string	true	"Inventory item ID"
//	@Param			limit	query		int		false	"Maximum number of entries"	default(50)
//	@Success		200		{array}		domain.StockAudit
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/inventory/{id}/history [get]
func (app *application) stockHistoryHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", 50)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	history, err := app.inventory.History(r.Context(), ownerID(r), chi.URLParam(r, "id"), limit)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, history); err != nil {
		app.internalServerError(w, r, err)
	}
}

// menuCostingHandler godoc
//
//	@Summary		Menu costing
//	@Description	Recipe cost, profit and margin of every menu item priced from inventory unit costs
//	@Tags			menu
//	@Produce		json
//	@Success		200	{array}		analytics.MenuCost
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/menu-items/costing [get]
func (app *application) menuCostingHandler(w http.ResponseWriter, r *http.Request) {
	costs, err := app.analytics.MenuCosts(r.Context(), ownerID(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, costs); err != nil {
		app.internalServerError(w, r, err)
	}
}

// intQuery reads an integer query parameter, def when it is absent.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s query parameter %q", name, raw)
	}
	return n, nil
}

// boundedIntQuery is intQuery with an upper limit.
func boundedIntQuery(r *http.Request, name string, def, limit int) (int, error) {
	n, err := intQuery(r, name, def)
	if err != nil {
		return 0, err
	}
	if n > limit {
		return 0, fmt.Errorf("%s query parameter must be at most %d", name, limit)
	}
	return n, nil
}
