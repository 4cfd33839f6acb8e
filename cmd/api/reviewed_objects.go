package main

import (
	"errors"
	"net/http"

	"reviewhub/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type createReviewedObjectPayload struct {
	ObjectType  string         `json:"object_type" validate:"required,max=50"`
	ObjectID    string         `json:"object_id" validate:"required,max=255"`
	Name        string         `json:"object_name" validate:"required,max=255"`
	Description *string        `json:"object_description"`
	Metadata    map[string]any `json:"object_metadata"`
}

func (app *application) createReviewedObjectHandler(w http.ResponseWriter, r *http.Request) {
	var payload createReviewedObjectPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	object, err := app.store.ReviewedObjects.Create(r.Context(), store.ReviewedObjectCreate{
		ObjectType:  payload.ObjectType,
		ObjectID:    payload.ObjectID,
		Name:        payload.Name,
		Description: payload.Description,
		Metadata:    payload.Metadata,
	})
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, object)
}

func (app *application) getReviewedObjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "objectID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid object ID"))
		return
	}

	object, err := app.store.ReviewedObjects.GetByID(r.Context(), id)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, object)
}

// listReviewedObjectsHandler lists objects, optionally filtered by a `type`
// query parameter. A `type` plus `external_id` pair does a natural-key lookup.
func (app *application) listReviewedObjectsHandler(w http.ResponseWriter, r *http.Request) {
	objectType := r.URL.Query().Get("type")
	externalID := r.URL.Query().Get("external_id")

	if objectType != "" && externalID != "" {
		object, err := app.store.ReviewedObjects.GetByTypeAndID(r.Context(), objectType, externalID)
		if err != nil {
			app.storeErrorResponse(w, r, err)
			return
		}
		app.jsonResponse(w, http.StatusOK, object)
		return
	}

	skip, limit := pagination(r)

	var (
		objects []store.ReviewedObject
		err     error
	)
	if objectType != "" {
		objects, err = app.store.ReviewedObjects.GetByType(r.Context(), objectType, skip, limit)
	} else {
		objects, err = app.store.ReviewedObjects.GetAll(r.Context(), skip, limit)
	}
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, objects)
}

// updateReviewedObjectHandler decodes the patch body as a field map so that a
// field explicitly set to null clears the column (description, metadata)
// while an absent field is left alone.
func (app *application) updateReviewedObjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "objectID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid object ID"))
		return
	}

	var payload store.ReviewedObjectUpdate
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := payload.Validate(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	object, err := app.store.ReviewedObjects.Update(r.Context(), id, payload)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, object)
}

func (app *application) deleteReviewedObjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "objectID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid object ID"))
		return
	}

	deleted, err := app.store.ReviewedObjects.Delete(r.Context(), id)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}
	if !deleted {
		app.notFoundResponse(w, r)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) listObjectReviewsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "objectID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid object ID"))
		return
	}

	skip, limit := pagination(r)

	reviews, err := app.store.Reviews.GetByObject(r.Context(), id, skip, limit)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, reviews)
}

func (app *application) getObjectStatsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "objectID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid object ID"))
		return
	}

	stats, err := app.store.Reviews.Stats(r.Context(), id)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, stats)
}
