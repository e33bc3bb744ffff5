package main

import (
	"net/http"

	"github.com/Beka01247/smart-stock/internal/analytics"
	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/service"
	"github.com/go-chi/chi"
)

// orderSuggestionsHandler godoc
//
//	@Summary		Restocking suggestions
//	@Description	Items to reorder so stock covers the forecast demand, most urgent first
//	@Tags			ordering
//	@Produce		json
//	@Param			cover_days	query		int	false	"Days of demand to cover"	default(7)
//	@Param			window		query		int	false	"Days of sales to average"	default(7)
//	@Success		200			{array}		analytics.Suggestion
//	@Failure		400			{object}	map[string]string
//	@Failure		500			{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/ordering/suggestions [get]
func (app *application) orderSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	coverDays, err := boundedIntQuery(r, "cover_days", analytics.DefaultCoverDays, analytics.MaxForecastDays)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	window, err := boundedIntQuery(r, "window", analytics.DefaultForecastWindow, analytics.MaxForecastDays)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	suggestions, err := app.ordering.Suggestions(r.Context(), ownerID(r), coverDays, window)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, suggestions); err != nil {
		app.internalServerError(w, r, err)
	}
}

// placeTemplateHandler godoc
//
//	@Summary		Place order from template
//	@Description	Places a saved order template with the next preferred delivery day
//	@Tags			ordering
//	@Produce		json
//	@Param			id	path		string	true	"Order template ID"
//	@Success		201	{object}	supplier.OrderResult
//	@Failure		400	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/ordering/templates/{id}/place [post]
func (app *application) placeTemplateHandler(w http.ResponseWriter, r *http.Request) {
	result, err := app.ordering.PlaceFromTemplate(r.Context(), ownerID(r), chi.URLParam(r, "id"))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listOrdersHandler godoc
//
//	@Summary		Supplier order history
//	@Tags			ordering
//	@Produce		json
//	@Success		200	{array}		domain.SupplierOrder
//	@Failure		500	{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/ordering/orders [get]
func (app *application) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := app.ordering.Orders(r.Context(), ownerID(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, orders); err != nil {
		app.internalServerError(w, r, err)
	}
}

// placeBatchHandler godoc
//
//	@Summary		Place batch order
//	@Description	Places one order per supplier. Suppliers without items in the request use their order template. Failures are reported per supplier
//	@Tags			ordering
//	@Accept			json
//	@Produce		json
//	@Param			request	body		service.BatchOrder	true	"Suppliers and their items"
//	@Success		200		{object}	service.BatchResult
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/ordering/batch [post]
func (app *application) placeBatchHandler(w http.ResponseWriter, r *http.Request) {
	var batch service.BatchOrder
	if err := readJson(w, r, &batch); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(batch); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.ordering.PlaceBatch(r.Context(), ownerID(r), batch)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

type OrderStatusRequest struct {
	Status domain.SupplierOrderStatus `json:"status" validate:"required,oneof=pending confirmed delivered cancelled"`
}

// updateOrderStatusHandler godoc
//
//	@Summary		Update order status
//	@Description	Moves an order to pending, confirmed, delivered or cancelled. Delivered and cancelled orders are final
//	@Tags			ordering
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Order ID"
//	@Param			request	body		OrderStatusRequest	true	"New status"
//	@Success		200		{object}	domain.SupplierOrder
//	@Failure		400		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/ordering/orders/{id}/status [patch]
func (app *application) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req OrderStatusRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	order, err := app.ordering.UpdateOrderStatus(r.Context(), ownerID(r), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, order); err != nil {
		app.internalServerError(w, r, err)
	}
}
