package main

import (
	"context"
	"net/http"

	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/service"
	"github.com/go-chi/chi"
)

// recordService is the CRUD surface shared by every owner-partitioned
// collection.
type recordService[T any] interface {
	Create(ctx context.Context, owner string, record *T) (*T, error)
	List(ctx context.Context, owner string) ([]T, error)
	Get(ctx context.Context, owner, id string) (*T, error)
	Delete(ctx context.Context, owner, id string) error
}

type updateFunc[T, U any] func(ctx context.Context, owner, id string, patch *U) (*T, error)

// updateWith adapts the untyped update of a Records service to a typed patch.
func updateWith[T, U any, P domain.Record[T]](svc *service.Records[T, P]) updateFunc[T, U] {
	return func(ctx context.Context, owner, id string, patch *U) (*T, error) {
		return svc.Update(ctx, owner, id, patch)
	}
}

// mountRecords registers the collection routes:
//
//	POST   /      create
//	GET    /      list
//	GET    /{id}  get
//	PATCH  /{id}  partial update
//	DELETE /{id}  delete
func mountRecords[T, U any](app *application, r chi.Router, svc recordService[T], update updateFunc[T, U]) {
	r.Post("/", createRecordHandler(app, svc))
	r.Get("/", listRecordsHandler(app, svc))
	r.Get("/{id}", getRecordHandler(app, svc))
	r.Patch("/{id}", updateRecordHandler(app, update))
	r.Delete("/{id}", deleteRecordHandler(app, svc))
}

func createRecordHandler[T any](app *application, svc recordService[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var record T
		if err := readJson(w, r, &record); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}

		created, err := svc.Create(r.Context(), ownerID(r), &record)
		if err != nil {
			app.serviceError(w, r, err)
			return
		}

		if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
			app.internalServerError(w, r, err)
		}
	}
}

func listRecordsHandler[T any](app *application, svc recordService[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.List(r.Context(), ownerID(r))
		if err != nil {
			app.serviceError(w, r, err)
			return
		}

		if err := app.jsonResponse(w, http.StatusOK, records); err != nil {
			app.internalServerError(w, r, err)
		}
	}
}

func getRecordHandler[T any](app *application, svc recordService[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := svc.Get(r.Context(), ownerID(r), chi.URLParam(r, "id"))
		if err != nil {
			app.serviceError(w, r, err)
			return
		}

		if err := app.jsonResponse(w, http.StatusOK, record); err != nil {
			app.internalServerError(w, r, err)
		}
	}
}

func updateRecordHandler[T, U any](app *application, update updateFunc[T, U]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch U
		if err := readJson(w, r, &patch); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}

		updated, err := update(r.Context(), ownerID(r), chi.URLParam(r, "id"), &patch)
		if err != nil {
			app.serviceError(w, r, err)
			return
		}

		if err := app.jsonResponse(w, http.StatusOK, updated); err != nil {
			app.internalServerError(w, r, err)
		}
	}
}

func deleteRecordHandler[T any](app *application, svc recordService[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), ownerID(r), chi.URLParam(r, "id")); err != nil {
			app.serviceError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
