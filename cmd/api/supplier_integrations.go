package main

import (
	"net/http"

	"github.com/Beka01247/smart-stock/internal/supplier"
	"github.com/go-chi/chi"
)

type PricingRequest struct {
	SupplierID string   `json:"supplier_id" validate:"required"`
	Items      []string `json:"items" validate:"required,min=1,dive,required"`
}

// listSuppliersHandler godoc
//
//	@Summary		List supplier integrations
//	@Description	Suppliers the back office can price and order from
//	@Tags			supplier-integrations
//	@Produce		json
//	@Success		200	{array}	supplier.Config
//	@Security		ApiKeyAuth
//	@Router			/supplier-integrations/suppliers [get]
func (app *application) listSuppliersHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, app.ordering.Suppliers()); err != nil {
		app.internalServerError(w, r, err)
	}
}

// pricingHandler godoc
//
//	@Summary		Get supplier pricing
//	@Description	Quotes items at a supplier. Unreachable suppliers answer with fallback pricing.
//	@Tags			supplier-integrations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PricingRequest	true	"Items to price"
//	@Success		200		{array}		supplier.Price
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/supplier-integrations/pricing [post]
func (app *application) pricingHandler(w http.ResponseWriter, r *http.Request) {
	var req PricingRequest
	if err := readJson(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	prices, err := app.ordering.Pricing(r.Context(), req.SupplierID, req.Items)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, prices); err != nil {
		app.internalServerError(w, r, err)
	}
}

// placeOrderHandler godoc
//
//	@Summary		Place supplier order
//	@Description	Sends an order to a supplier and records it. Unreachable suppliers record the order offline.
//	@Tags			supplier-integrations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		supplier.Order	true	"Order"
//	@Success		201		{object}	supplier.OrderResult
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/supplier-integrations/order [post]
func (app *application) placeOrderHandler(w http.ResponseWriter, r *http.Request) {
	var order supplier.Order
	if err := readJson(w, r, &order); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(order); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.ordering.PlaceOrder(r.Context(), ownerID(r), order)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// testSupplierHandler godoc
//
//	@Summary		Test supplier connection
//	@Tags			supplier-integrations
//	@Produce		json
//	@Param			supplier_id	path		string	true	"Supplier ID"
//	@Success		200			{object}	service.ConnectionTest
//	@Failure		404			{object}	map[string]string
//	@Security		ApiKeyAuth
//	@Router			/supplier-integrations/test/{supplier_id} [get]
func (app *application) testSupplierHandler(w http.ResponseWriter, r *http.Request) {
	result, err := app.ordering.TestSupplier(r.Context(), chi.URLParam(r, "supplier_id"))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}
