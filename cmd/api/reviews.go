package main

import (
	"errors"
	"net/http"

	"reviewhub/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// The has-some-content rule is deliberately not checked here: the schema
// enforces it atomically and the store reports it as a check violation.
type createReviewPayload struct {
	ReviewerID       uuid.UUID `json:"reviewer_id" validate:"required"`
	ReviewedObjectID uuid.UUID `json:"reviewed_object_id" validate:"required"`
	TextReview       *string   `json:"text_review"`
	StarRating       *int16    `json:"star_rating" validate:"omitempty,gte=0,lte=5"`
	ThumbsRating     *string   `json:"thumbs_rating" validate:"omitempty,oneof=up down"`
}

func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	var payload createReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review, err := app.store.Reviews.Create(r.Context(), store.ReviewCreate{
		ReviewerID:       payload.ReviewerID,
		ReviewedObjectID: payload.ReviewedObjectID,
		TextReview:       payload.TextReview,
		StarRating:       payload.StarRating,
		ThumbsRating:     payload.ThumbsRating,
	})
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, review)
}

func (app *application) getReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	review, err := app.store.Reviews.GetByID(r.Context(), id)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, review)
}

func (app *application) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)

	reviews, err := app.store.Reviews.GetAll(r.Context(), skip, limit)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, reviews)
}

// updateReviewHandler decodes the patch body as a field map so that a content
// field explicitly set to null clears the column while an absent field is
// left alone. Identity fields are rejected up front; rating range and thumbs
// values stay with the schema, like on create.
func (app *application) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	var payload store.ReviewUpdate
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := payload.Validate(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review, err := app.store.Reviews.Update(r.Context(), id, payload)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, review)
}

func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "reviewID"))
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	deleted, err := app.store.Reviews.Delete(r.Context(), id)
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
